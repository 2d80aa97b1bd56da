package report

import (
	"context"
	"testing"
	"time"

	"github.com/reporthub/api/internal/form"
	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store used to exercise the lifecycle without a
// database. Insertion order is preserved for listing.
type memStore struct {
	reports   []*model.Report
	templates map[string]*model.ReportTemplate
}

func newMemStore(templates ...*model.ReportTemplate) *memStore {
	s := &memStore{templates: make(map[string]*model.ReportTemplate)}
	for _, tpl := range templates {
		s.templates[tpl.ID] = tpl
	}
	return s
}

func (s *memStore) GetReport(_ context.Context, id string) (*model.Report, error) {
	for _, r := range s.reports {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) FindDraftFor(_ context.Context, userID, templateID, period string) (*model.Report, error) {
	for _, r := range s.reports {
		if r.UserID == userID && r.TemplateID == templateID && r.ReportPeriod == period {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) SaveReport(_ context.Context, r *model.Report) error {
	for i, existing := range s.reports {
		if existing.ID == r.ID {
			copied := *r
			s.reports[i] = &copied
			return nil
		}
	}
	copied := *r
	s.reports = append(s.reports, &copied)
	return nil
}

func (s *memStore) DeleteReport(_ context.Context, id string) error {
	for i, r := range s.reports {
		if r.ID == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) ListReports(_ context.Context, f Filters) ([]model.Report, error) {
	var out []model.Report
	for _, r := range s.reports {
		if f.Match(r) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memStore) GetTemplate(_ context.Context, id string) (*model.ReportTemplate, error) {
	tpl, ok := s.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return tpl, nil
}

var (
	alice = model.Identity{UserID: "alice", Username: "alice", Role: model.RoleUser}
	bob   = model.Identity{UserID: "bob", Username: "bob", Role: model.RoleUser}
	root  = model.Identity{UserID: "root", Username: "admin", Role: model.RoleAdmin}
)

func reviewTemplate() *model.ReportTemplate {
	return &model.ReportTemplate{
		ID:   "tpl-1",
		Name: "Monthly Review",
		Fields: model.ReportFields{
			{Name: "employee_name", Label: "Employee Name", FieldType: schema.FieldText, Required: true, Order: 0},
			{Name: "status", Label: "Status", FieldType: schema.FieldDropdown, Required: true, Options: []string{"Active", "Inactive"}, Order: 1},
		},
		Active: true,
	}
}

func TestSaveDraftUpserts(t *testing.T) {
	store := newMemStore(reviewTemplate())
	svc := NewService(store)
	ctx := context.Background()

	first, err := svc.SaveDraft(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{"employee_name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, first.Status)
	assert.Nil(t, first.SubmittedAt)

	second, err := svc.SaveDraft(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{"employee_name": "Janet"})
	require.NoError(t, err)

	// overwrite, not duplicate: one report with the latest data
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, store.reports, 1)
	assert.Equal(t, "Janet", store.reports[0].Data["employee_name"])
}

func TestSaveDraftDistinctPeriods(t *testing.T) {
	store := newMemStore(reviewTemplate())
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.SaveDraft(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{})
	require.NoError(t, err)
	_, err = svc.SaveDraft(ctx, alice, "tpl-1", "2025-02", map[string]interface{}{})
	require.NoError(t, err)

	assert.Len(t, store.reports, 2)
}

func TestSaveDraftUnknownTemplate(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.SaveDraft(context.Background(), alice, "missing", "2025-01", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSubmit(t *testing.T) {
	t.Run("sets status and submitted_at", func(t *testing.T) {
		store := newMemStore(reviewTemplate())
		svc := NewService(store)

		r, err := svc.Submit(context.Background(), alice, "tpl-1", "2025-01",
			map[string]interface{}{"employee_name": "Jane", "status": "Active"})
		require.NoError(t, err)
		assert.Equal(t, model.StatusSubmitted, r.Status)
		require.NotNil(t, r.SubmittedAt)
		assert.WithinDuration(t, time.Now(), *r.SubmittedAt, time.Minute)
	})

	t.Run("validation failure leaves status unchanged", func(t *testing.T) {
		store := newMemStore(reviewTemplate())
		svc := NewService(store)
		ctx := context.Background()

		_, err := svc.SaveDraft(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{"employee_name": ""})
		require.NoError(t, err)

		_, err = svc.Submit(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{"employee_name": "", "status": "Active"})
		var validationErr *form.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"employee_name"}, validationErr.MissingFields)

		// the stored report is still a draft
		assert.Equal(t, model.StatusDraft, store.reports[0].Status)
		assert.Nil(t, store.reports[0].SubmittedAt)
	})

	t.Run("no edits after submission", func(t *testing.T) {
		store := newMemStore(reviewTemplate())
		svc := NewService(store)
		ctx := context.Background()

		_, err := svc.Submit(ctx, alice, "tpl-1", "2025-01",
			map[string]interface{}{"employee_name": "Jane", "status": "Active"})
		require.NoError(t, err)

		_, err = svc.SaveDraft(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{"employee_name": "Janet"})
		assert.ErrorIs(t, err, ErrNotEditable)
	})
}

func TestGetOwnership(t *testing.T) {
	store := newMemStore(reviewTemplate())
	svc := NewService(store)
	ctx := context.Background()

	r, err := svc.SaveDraft(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, r.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := svc.Get(ctx, root, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
}

func TestApproveReject(t *testing.T) {
	setup := func(t *testing.T) (*Service, *model.Report) {
		store := newMemStore(reviewTemplate())
		svc := NewService(store)
		r, err := svc.Submit(context.Background(), alice, "tpl-1", "2025-01",
			map[string]interface{}{"employee_name": "Jane", "status": "Active"})
		require.NoError(t, err)
		return svc, r
	}
	ctx := context.Background()

	t.Run("approve from submitted", func(t *testing.T) {
		svc, r := setup(t)
		approved, err := svc.Approve(ctx, root, r.ID, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, approved.Status)
		require.NotNil(t, approved.ReviewedBy)
		assert.Equal(t, root.UserID, *approved.ReviewedBy)
	})

	t.Run("reject records reviewer notes", func(t *testing.T) {
		svc, r := setup(t)
		rejected, err := svc.Reject(ctx, root, r.ID, "hours do not add up")
		require.NoError(t, err)
		assert.Equal(t, model.StatusRejected, rejected.Status)
		assert.Equal(t, "hours do not add up", rejected.ReviewNotes)
	})

	t.Run("re-approval is a no-op", func(t *testing.T) {
		svc, r := setup(t)
		_, err := svc.Approve(ctx, root, r.ID, "")
		require.NoError(t, err)
		again, err := svc.Approve(ctx, root, r.ID, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, again.Status)
	})

	t.Run("approve from reviewed", func(t *testing.T) {
		svc, r := setup(t)
		_, err := svc.MarkReviewed(ctx, root, r.ID, "")
		require.NoError(t, err)
		approved, err := svc.Approve(ctx, root, r.ID, "")
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, approved.Status)
	})

	t.Run("reject after approve is illegal", func(t *testing.T) {
		svc, r := setup(t)
		_, err := svc.Approve(ctx, root, r.ID, "")
		require.NoError(t, err)
		_, err = svc.Reject(ctx, root, r.ID, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("approve of a draft is illegal", func(t *testing.T) {
		store := newMemStore(reviewTemplate())
		svc := NewService(store)
		draft, err := svc.SaveDraft(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{})
		require.NoError(t, err)
		_, err = svc.Approve(ctx, root, draft.ID, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("non-admin cannot approve", func(t *testing.T) {
		svc, r := setup(t)
		_, err := svc.Approve(ctx, alice, r.ID, "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestBulkAction(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id does not abort the batch", func(t *testing.T) {
		store := newMemStore(reviewTemplate())
		svc := NewService(store)

		r, err := svc.Submit(ctx, alice, "tpl-1", "2025-01",
			map[string]interface{}{"employee_name": "Jane", "status": "Active"})
		require.NoError(t, err)

		result, err := svc.BulkAction(ctx, root, ActionApprove, []string{r.ID, "missing"})
		require.NoError(t, err)

		assert.Equal(t, []string{r.ID}, result.Succeeded)
		assert.Contains(t, result.Failed, "missing")

		got, err := svc.Get(ctx, root, r.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, got.Status)
	})

	t.Run("delete removes each report independently", func(t *testing.T) {
		store := newMemStore(reviewTemplate())
		svc := NewService(store)

		r1, err := svc.SaveDraft(ctx, alice, "tpl-1", "2025-01", map[string]interface{}{})
		require.NoError(t, err)
		r2, err := svc.SaveDraft(ctx, bob, "tpl-1", "2025-01", map[string]interface{}{})
		require.NoError(t, err)

		result, err := svc.BulkAction(ctx, root, ActionDelete, []string{r1.ID, "missing", r2.ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{r1.ID, r2.ID}, result.Succeeded)
		assert.Len(t, result.Failed, 1)
		assert.Empty(t, store.reports)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		svc := NewService(newMemStore())
		_, err := svc.BulkAction(ctx, root, "archive", []string{"x"})
		assert.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("non-admin denied", func(t *testing.T) {
		svc := NewService(newMemStore())
		_, err := svc.BulkAction(ctx, alice, ActionApprove, []string{"x"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
