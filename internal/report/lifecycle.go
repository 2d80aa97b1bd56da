// Package report governs the submission lifecycle: draft -> submitted ->
// reviewed -> approved/rejected, plus bulk admin actions and search. The
// service is storage-agnostic; persistence goes through the Store interface.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reporthub/api/internal/form"
	"github.com/reporthub/api/internal/model"
)

var (
	ErrNotFound          = errors.New("report not found")
	ErrTemplateNotFound  = errors.New("report template not found or inactive")
	ErrUnauthorized      = errors.New("not authorized")
	ErrNotEditable       = errors.New("report is no longer editable")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// Store is the persistence boundary for report submissions.
type Store interface {
	GetReport(ctx context.Context, id string) (*model.Report, error)
	// FindDraftFor returns the report for (userID, templateID, period)
	// regardless of status, or ErrNotFound.
	FindDraftFor(ctx context.Context, userID, templateID, period string) (*model.Report, error)
	SaveReport(ctx context.Context, r *model.Report) error
	DeleteReport(ctx context.Context, id string) error
	ListReports(ctx context.Context, f Filters) ([]model.Report, error)
	GetTemplate(ctx context.Context, id string) (*model.ReportTemplate, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// SaveDraft upserts the draft for (identity.UserID, templateID, period). At
// most one report exists per that triple; repeated saves overwrite its data.
// Once the report has left draft, further edits are rejected.
func (s *Service) SaveDraft(ctx context.Context, identity model.Identity, templateID, period string, data map[string]interface{}) (*model.Report, error) {
	if _, err := s.store.GetTemplate(ctx, templateID); err != nil {
		return nil, ErrTemplateNotFound
	}
	return s.upsert(ctx, identity, templateID, period, data, model.StatusDraft)
}

// Submit validates required fields against the template and, on success,
// persists the report as submitted with submitted_at set. On validation
// failure the stored report (if any) keeps its previous status.
func (s *Service) Submit(ctx context.Context, identity model.Identity, templateID, period string, data map[string]interface{}) (*model.Report, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	if err := form.Validate(tpl, data); err != nil {
		return nil, err
	}
	return s.upsert(ctx, identity, templateID, period, data, model.StatusSubmitted)
}

func (s *Service) upsert(ctx context.Context, identity model.Identity, templateID, period string, data map[string]interface{}, status string) (*model.Report, error) {
	now := time.Now()

	existing, err := s.store.FindDraftFor(ctx, identity.UserID, templateID, period)
	switch {
	case err == nil:
		if !existing.Editable() {
			return nil, ErrNotEditable
		}
		existing.Data = data
		existing.UpdatedAt = now
		if status == model.StatusSubmitted {
			existing.Status = model.StatusSubmitted
			existing.SubmittedAt = &now
		}
		if err := s.store.SaveReport(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, ErrNotFound):
		r := &model.Report{
			ID:           uuid.NewString(),
			TemplateID:   templateID,
			UserID:       identity.UserID,
			LocationID:   identity.LocationID,
			ReportPeriod: period,
			Data:         data,
			Status:       status,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if status == model.StatusSubmitted {
			r.SubmittedAt = &now
		}
		if err := s.store.SaveReport(ctx, r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, err
	}
}

// Get returns a report, enforcing ownership: users see only their own,
// admins see all.
func (s *Service) Get(ctx context.Context, identity model.Identity, id string) (*model.Report, error) {
	r, err := s.store.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() && r.UserID != identity.UserID {
		return nil, ErrUnauthorized
	}
	return r, nil
}

// Approve transitions a report to approved, recording the reviewer's notes.
// Legal from submitted or reviewed; re-approving an approved report is a
// no-op.
func (s *Service) Approve(ctx context.Context, identity model.Identity, id, notes string) (*model.Report, error) {
	return s.review(ctx, identity, id, model.StatusApproved, notes)
}

// Reject transitions a report to rejected, recording the reviewer's notes.
// Legal from submitted or reviewed; re-rejecting a rejected report is a
// no-op.
func (s *Service) Reject(ctx context.Context, identity model.Identity, id, notes string) (*model.Report, error) {
	return s.review(ctx, identity, id, model.StatusRejected, notes)
}

// MarkReviewed transitions a submitted report to reviewed.
func (s *Service) MarkReviewed(ctx context.Context, identity model.Identity, id, notes string) (*model.Report, error) {
	return s.review(ctx, identity, id, model.StatusReviewed, notes)
}

func (s *Service) review(ctx context.Context, identity model.Identity, id, target, notes string) (*model.Report, error) {
	if !identity.IsAdmin() {
		return nil, ErrUnauthorized
	}
	r, err := s.store.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status == target {
		// idempotent re-application
		return r, nil
	}
	if r.Status != model.StatusSubmitted && r.Status != model.StatusReviewed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, target)
	}
	now := time.Now()
	r.Status = target
	r.ReviewedAt = &now
	r.ReviewedBy = &identity.UserID
	r.ReviewNotes = notes
	r.UpdatedAt = now
	if err := s.store.SaveReport(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a report. Admin-only.
func (s *Service) Delete(ctx context.Context, identity model.Identity, id string) error {
	if !identity.IsAdmin() {
		return ErrUnauthorized
	}
	if _, err := s.store.GetReport(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteReport(ctx, id)
}
