package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/reporthub/api/internal/schema"
)

// ReportField is a field definition bound into a template. Name is the stable
// key used in submitted data maps; Options is a copy of the source choices
// resolved at compose time, so later edits to the definition do not affect
// existing templates.
type ReportField struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Label       string           `json:"label"`
	FieldType   schema.FieldType `json:"field_type"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	HelpText    string           `json:"help_text,omitempty"`
	Section     string           `json:"section,omitempty"`
	Order       int              `json:"order"`
}

// ReportFields is stored as a JSONB array on the template row.
type ReportFields []ReportField

// Value implements driver.Valuer for JSONB serialization
func (f ReportFields) Value() (driver.Value, error) {
	if f == nil {
		return json.Marshal([]ReportField{})
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB deserialization
func (f *ReportFields) Scan(value interface{}) error {
	if value == nil {
		*f = []ReportField{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal ReportFields: not a byte slice")
	}

	return json.Unmarshal(bytes, f)
}

// Validate checks every field's type/options combination against the schema
// rules, so a template cannot carry an unknown type or a choiceless dropdown.
func (f ReportFields) Validate() error {
	for _, field := range f {
		if err := schema.ValidateDefinition(field.FieldType, field.Options); err != nil {
			return fmt.Errorf("field %q: %w", field.Name, err)
		}
	}
	return nil
}

type ReportTemplate struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"not null;uniqueIndex;size:255" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Category    string       `gorm:"not null;default:'General';size:100" json:"category"`
	Fields      ReportFields `gorm:"type:jsonb;not null;default:'[]'" json:"fields"`
	Active      bool         `gorm:"default:true" json:"active"`
	CreatedBy   string       `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (ReportTemplate) TableName() string {
	return "report_templates"
}
