package database

import (
	"github.com/reporthub/api/internal/config"
	"github.com/reporthub/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Location{},
		&model.FieldDefinition{},
		&model.ReportTemplate{},
		&model.Report{},
	)
	if err != nil {
		return err
	}

	// One report per (user, template, period): the draft upsert invariant
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_report_user_template_period ON report_submissions(user_id, template_id, report_period)")

	return nil
}
