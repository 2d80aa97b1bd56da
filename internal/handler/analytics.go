package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reporthub/api/internal/model"
	"gorm.io/gorm"
)

type AnalyticsHandler struct {
	db *gorm.DB
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

type SystemAnalytics struct {
	TotalUsers    int64 `json:"total_users"`
	ApprovedUsers int64 `json:"approved_users"`
	PendingUsers  int64 `json:"pending_users"`
	AdminUsers    int64 `json:"admin_users"`

	TotalLocations int64 `json:"total_locations"`
	TotalTemplates int64 `json:"total_templates"`
	TotalFields    int64 `json:"total_fields"`

	TotalReports      int64            `json:"total_reports"`
	ReportsByStatus   map[string]int64 `json:"reports_by_status"`
	RecentSubmissions int64            `json:"recent_submissions"`
	FieldsBySection   map[string]int64 `json:"fields_by_section"`
}

// GetAnalytics returns system-wide counts for the admin dashboard.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	var stats SystemAnalytics

	h.db.Model(&model.User{}).Count(&stats.TotalUsers)
	h.db.Model(&model.User{}).Where("approved = ?", true).Count(&stats.ApprovedUsers)
	h.db.Model(&model.User{}).Where("approved = ?", false).Count(&stats.PendingUsers)
	h.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&stats.AdminUsers)

	h.db.Model(&model.Location{}).Count(&stats.TotalLocations)
	h.db.Model(&model.ReportTemplate{}).Where("active = ?", true).Count(&stats.TotalTemplates)
	h.db.Model(&model.FieldDefinition{}).Where("deleted = ?", false).Count(&stats.TotalFields)

	h.db.Model(&model.Report{}).Count(&stats.TotalReports)

	stats.ReportsByStatus = make(map[string]int64)
	var statusCounts []struct {
		Status string
		Count  int64
	}
	h.db.Model(&model.Report{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts)
	for _, sc := range statusCounts {
		stats.ReportsByStatus[sc.Status] = sc.Count
	}

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	h.db.Model(&model.Report{}).
		Where("created_at > ?", sevenDaysAgo).
		Count(&stats.RecentSubmissions)

	stats.FieldsBySection = make(map[string]int64)
	var sectionCounts []struct {
		Section string
		Count   int64
	}
	h.db.Model(&model.FieldDefinition{}).
		Select("section, count(*) as count").
		Where("deleted = ?", false).
		Group("section").
		Scan(&sectionCounts)
	for _, sc := range sectionCounts {
		stats.FieldsBySection[sc.Section] = sc.Count
	}

	c.JSON(http.StatusOK, stats)
}
