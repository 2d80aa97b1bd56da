package report

import (
	"context"
	"strings"
	"time"

	"github.com/reporthub/api/internal/model"
)

// Filters narrows a report listing. SearchTerm is a case-insensitive
// substring match against template name, username and report period; those
// are the matched fields, looked up through the names maps the caller
// supplies (id -> display name). DateFrom/DateTo bound submitted_at
// inclusively; reports never submitted fall outside any date-bounded search.
type Filters struct {
	SearchTerm    string
	Status        string
	TemplateID    string
	UserID        string
	LocationID    string
	DateFrom      *time.Time
	DateTo        *time.Time
	TemplateNames map[string]string
	Usernames     map[string]string
}

// Search returns the filtered reports, order preserved as the store yields
// them. Non-admin callers are always scoped to their own reports.
func (s *Service) Search(ctx context.Context, identity model.Identity, f Filters) ([]model.Report, error) {
	if !identity.IsAdmin() {
		f.UserID = identity.UserID
	}
	return s.store.ListReports(ctx, f)
}

// Match reports whether r passes every filter. Stores may push the cheap
// equality filters into the query and use this for the rest.
func (f Filters) Match(r *model.Report) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.TemplateID != "" && r.TemplateID != f.TemplateID {
		return false
	}
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.LocationID != "" && (r.LocationID == nil || *r.LocationID != f.LocationID) {
		return false
	}
	if f.DateFrom != nil || f.DateTo != nil {
		if r.SubmittedAt == nil {
			return false
		}
		if f.DateFrom != nil && r.SubmittedAt.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && r.SubmittedAt.After(*f.DateTo) {
			return false
		}
	}
	if f.SearchTerm != "" && !f.matchTerm(r) {
		return false
	}
	return true
}

func (f Filters) matchTerm(r *model.Report) bool {
	term := strings.ToLower(f.SearchTerm)
	candidates := []string{r.ReportPeriod}
	if name, ok := f.TemplateNames[r.TemplateID]; ok {
		candidates = append(candidates, name)
	}
	if name, ok := f.Usernames[r.UserID]; ok {
		candidates = append(candidates, name)
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}
