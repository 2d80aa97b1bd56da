// Package store implements the report.Store interface over gorm/postgres.
package store

import (
	"context"
	"errors"

	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/report"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetReport(ctx context.Context, id string) (*model.Report, error) {
	var r model.Report
	err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) FindDraftFor(ctx context.Context, userID, templateID, period string) (*model.Report, error) {
	var r model.Report
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND template_id = ? AND report_period = ?", userID, templateID, period).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) SaveReport(ctx context.Context, r *model.Report) error {
	return s.db.WithContext(ctx).Save(r).Error
}

func (s *GormStore) DeleteReport(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&model.Report{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return report.ErrNotFound
	}
	return nil
}

// ListReports pushes the equality and date filters into the query and applies
// the substring filter in memory (it matches against joined display names the
// database rows do not carry).
func (s *GormStore) ListReports(ctx context.Context, f report.Filters) ([]model.Report, error) {
	query := s.db.WithContext(ctx).Model(&model.Report{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.TemplateID != "" {
		query = query.Where("template_id = ?", f.TemplateID)
	}
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.LocationID != "" {
		query = query.Where("location_id = ?", f.LocationID)
	}
	if f.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("submitted_at <= ?", *f.DateTo)
	}

	var reports []model.Report
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	if f.SearchTerm == "" {
		return reports, nil
	}
	filtered := make([]model.Report, 0, len(reports))
	for i := range reports {
		if f.Match(&reports[i]) {
			filtered = append(filtered, reports[i])
		}
	}
	return filtered, nil
}

// ResolveFields implements composer.Resolver: deleted definitions are never
// returned, so a template can only be composed from live fields.
func (s *GormStore) ResolveFields(ids []string) (map[string]*model.FieldDefinition, error) {
	var defs []model.FieldDefinition
	if err := s.db.Where("id IN ? AND deleted = ?", ids, false).Find(&defs).Error; err != nil {
		return nil, err
	}
	resolved := make(map[string]*model.FieldDefinition, len(defs))
	for i := range defs {
		resolved[defs[i].ID] = &defs[i]
	}
	return resolved, nil
}

func (s *GormStore) GetTemplate(ctx context.Context, id string) (*model.ReportTemplate, error) {
	var tpl model.ReportTemplate
	err := s.db.WithContext(ctx).First(&tpl, "id = ? AND active = ?", id, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}
