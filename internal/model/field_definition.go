package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/reporthub/api/internal/schema"
)

// FieldDefinition is a reusable input specification maintained by admins
// independently of any template. Deleting one is a soft flag flip; templates
// that already resolved it keep their copy.
type FieldDefinition struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	Section     string           `gorm:"not null;index;size:255" json:"section"`
	Label       string           `gorm:"not null;size:255" json:"label"`
	FieldType   schema.FieldType `gorm:"not null;size:20" json:"field_type"`
	Choices     pq.StringArray   `gorm:"type:text[]" json:"choices,omitempty"`
	Placeholder string           `gorm:"size:255" json:"placeholder,omitempty"`
	HelpText    string           `gorm:"type:text" json:"help_text,omitempty"`
	Deleted     bool             `gorm:"default:false;index" json:"deleted"`
	CreatedBy   string           `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (FieldDefinition) TableName() string {
	return "field_definitions"
}

// Validate checks the type/choices combination against the schema rules.
func (f *FieldDefinition) Validate() error {
	return schema.ValidateDefinition(f.FieldType, f.Choices)
}

// SoftDelete marks the definition deleted without touching its content.
func (f *FieldDefinition) SoftDelete() {
	f.Deleted = true
	f.UpdatedAt = time.Now()
}

// Restore clears the deleted flag, leaving everything else unchanged.
func (f *FieldDefinition) Restore() {
	f.Deleted = false
	f.UpdatedAt = time.Now()
}
