package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/reporthub/api/internal/auth"
	"github.com/reporthub/api/internal/config"
	"github.com/reporthub/api/internal/database"
	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/schema"
	"gorm.io/gorm"
)

// Seeds the admin account, a default location, the starter field definitions
// and the default monthly template. Safe to run repeatedly: existing rows are
// left alone.
func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	adminID := seedAdmin(db)
	seedLocation(db)
	seedFields(db, adminID)
	seedTemplate(db, adminID)

	log.Println("Seed complete")
}

func seedAdmin(db *gorm.DB) string {
	var admin model.User
	if err := db.First(&admin, "username = ?", "admin").Error; err == nil {
		return admin.ID
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	admin = model.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Email:        "admin@reporthub.local",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Approved:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Println("Admin user created: username=admin")
	return admin.ID
}

func seedLocation(db *gorm.DB) {
	var location model.Location
	if err := db.First(&location, "name = ?", "Main Office").Error; err == nil {
		return
	}
	location = model.Location{
		ID:        uuid.NewString(),
		Name:      "Main Office",
		CreatedAt: time.Now(),
	}
	if err := db.Create(&location).Error; err != nil {
		log.Fatalf("Failed to create default location: %v", err)
	}
	log.Println("Default location created: Main Office")
}

func seedFields(db *gorm.DB, adminID string) {
	defaults := []model.FieldDefinition{
		{
			Section:     "Basic Information",
			Label:       "Employee Name",
			FieldType:   schema.FieldText,
			Placeholder: "Enter employee full name",
			HelpText:    "Enter the employee's full name as it appears in official records",
		},
		{
			Section:   "Basic Information",
			Label:     "Department",
			FieldType: schema.FieldDropdown,
			Choices:   pq.StringArray{"Engineering", "Marketing", "Sales", "HR", "Finance", "Operations"},
			HelpText:  "Select the department the employee belongs to",
		},
		{
			Section:     "Performance Metrics",
			Label:       "Productivity Score",
			FieldType:   schema.FieldNumber,
			Placeholder: "0-100",
			HelpText:    "Rate productivity on a scale of 0-100",
		},
		{
			Section:     "Performance Metrics",
			Label:       "Key Accomplishments",
			FieldType:   schema.FieldTextarea,
			Placeholder: "List key accomplishments for the month...",
			HelpText:    "Provide detailed description of major accomplishments",
		},
		{
			Section:   "Project Details",
			Label:     "Project Status",
			FieldType: schema.FieldDropdown,
			Choices:   pq.StringArray{"Not Started", "In Progress", "On Hold", "Completed", "Cancelled"},
			HelpText:  "Select the current status of the main project",
		},
		{
			Section:     "Time Management",
			Label:       "Hours Worked",
			FieldType:   schema.FieldNumber,
			Placeholder: "Enter total hours",
			HelpText:    "Total hours worked during the reporting period",
		},
	}

	for _, field := range defaults {
		var count int64
		db.Model(&model.FieldDefinition{}).
			Where("label = ? AND section = ?", field.Label, field.Section).
			Count(&count)
		if count > 0 {
			continue
		}
		field.ID = uuid.NewString()
		field.CreatedBy = adminID
		field.CreatedAt = time.Now()
		field.UpdatedAt = time.Now()
		if err := db.Create(&field).Error; err != nil {
			log.Fatalf("Failed to create field %q: %v", field.Label, err)
		}
		log.Printf("Created field definition: %s (%s)", field.Label, field.Section)
	}
}

func seedTemplate(db *gorm.DB, adminID string) {
	var count int64
	db.Model(&model.ReportTemplate{}).Where("name = ?", "Monthly Progress Report").Count(&count)
	if count > 0 {
		return
	}

	tpl := model.ReportTemplate{
		ID:          uuid.NewString(),
		Name:        "Monthly Progress Report",
		Description: "Standard monthly progress and metrics report",
		Category:    "General",
		Fields: model.ReportFields{
			{
				ID:          uuid.NewString(),
				Name:        "key_achievements",
				Label:       "Key Achievements",
				FieldType:   schema.FieldTextarea,
				Required:    true,
				Placeholder: "List your key achievements for this month...",
				Order:       1,
			},
			{
				ID:          uuid.NewString(),
				Name:        "challenges",
				Label:       "Challenges Faced",
				FieldType:   schema.FieldTextarea,
				Required:    true,
				Placeholder: "Describe any challenges you encountered...",
				Order:       2,
			},
			{
				ID:          uuid.NewString(),
				Name:        "goals_next_month",
				Label:       "Goals for Next Month",
				FieldType:   schema.FieldTextarea,
				Required:    true,
				Placeholder: "What are your goals for next month?",
				Order:       3,
			},
			{
				ID:        uuid.NewString(),
				Name:      "satisfaction_rating",
				Label:     "Overall Satisfaction",
				FieldType: schema.FieldDropdown,
				Required:  true,
				Options:   []string{"Very Satisfied", "Satisfied", "Neutral", "Dissatisfied", "Very Dissatisfied"},
				Order:     4,
			},
			{
				ID:          uuid.NewString(),
				Name:        "hours_worked",
				Label:       "Total Hours Worked",
				FieldType:   schema.FieldNumber,
				Required:    true,
				Placeholder: "Enter total hours worked this month",
				Order:       5,
			},
		},
		Active:    true,
		CreatedBy: adminID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(&tpl).Error; err != nil {
		log.Fatalf("Failed to create default template: %v", err)
	}
	log.Println("Default report template created: Monthly Progress Report")
}
