package model

import (
	"time"

	"gorm.io/datatypes"
)

// Report status constants
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusReviewed  = "reviewed"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Report is one user's filled-in instance of a template for a report period.
// Data is an opaque key->value map keyed by ReportField.Name; its value types
// depend on each field's type, so consumers must not assume a fixed schema
// across templates.
type Report struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID   string            `gorm:"type:uuid;not null;index" json:"template_id"`
	UserID       string            `gorm:"type:uuid;not null;index" json:"user_id"`
	LocationID   *string           `gorm:"type:uuid;index" json:"location_id,omitempty"`
	ReportPeriod string            `gorm:"not null;size:7;index" json:"report_period"`
	Data         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"data"`
	Status       string            `gorm:"not null;default:'draft';size:20;index" json:"status"`
	SubmittedAt  *time.Time        `json:"submitted_at,omitempty"`
	ReviewedAt   *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy   *string           `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewNotes  string            `gorm:"type:text" json:"review_notes,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (Report) TableName() string {
	return "report_submissions"
}

// Editable reports whether draft edits are still permitted. Once a report
// leaves draft there is no way back.
func (r *Report) Editable() bool {
	return r.Status == StatusDraft
}
