package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reporthub/api/internal/form"
	"github.com/reporthub/api/internal/middleware"
	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/report"
	"gorm.io/gorm"
)

type ReportHandler struct {
	db      *gorm.DB
	service *report.Service
}

func NewReportHandler(db *gorm.DB, service *report.Service) *ReportHandler {
	return &ReportHandler{db: db, service: service}
}

type UpsertReportRequest struct {
	TemplateID   string                 `json:"template_id" binding:"required"`
	ReportPeriod string                 `json:"report_period" binding:"required"`
	Data         map[string]interface{} `json:"data"`
	Status       string                 `json:"status"`
}

type BulkActionRequest struct {
	Action    string   `json:"action" binding:"required"`
	ReportIDs []string `json:"report_ids" binding:"required"`
}

type ReviewRequest struct {
	Notes string `json:"notes"`
}

// ReportResponse is a report enriched with display names.
type ReportResponse struct {
	model.Report
	TemplateName string `json:"template_name"`
	Username     string `json:"username"`
	LocationName string `json:"location_name,omitempty"`
}

// Upsert saves a draft or submits a report for the caller. Accepted initial
// statuses are draft and submitted; submitting runs required-field
// validation first.
func (h *ReportHandler) Upsert(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req UpsertReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Data == nil {
		req.Data = map[string]interface{}{}
	}
	if req.Status == "" {
		req.Status = model.StatusDraft
	}

	var (
		saved *model.Report
		err   error
	)
	switch req.Status {
	case model.StatusDraft:
		saved, err = h.service.SaveDraft(c.Request.Context(), identity, req.TemplateID, req.ReportPeriod, req.Data)
	case model.StatusSubmitted:
		saved, err = h.service.Submit(c.Request.Context(), identity, req.TemplateID, req.ReportPeriod, req.Data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or submitted"})
		return
	}

	if err != nil {
		var validationErr *form.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          "required fields missing",
				"missing_fields": validationErr.MissingFields,
			})
		case errors.Is(err, report.ErrTemplateNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, report.ErrNotEditable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
		}
		return
	}

	middleware.RecordReportSubmission(saved.Status)
	c.JSON(http.StatusOK, saved)
}

// RenderForm returns the template's input descriptors, hydrated with the
// caller's saved report for the given period when one exists.
func (h *ReportHandler) RenderForm(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	templateID := c.Param("id")
	period := c.Query("period")

	var tpl model.ReportTemplate
	if err := h.db.First(&tpl, "id = ? AND active = ?", templateID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	var existing map[string]interface{}
	if period != "" {
		var saved model.Report
		err := h.db.First(&saved, "user_id = ? AND template_id = ? AND report_period = ?",
			identity.UserID, templateID, period).Error
		if err == nil {
			existing = saved.Data
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"template_id": tpl.ID,
		"fields":      form.Render(&tpl, existing, nil),
	})
}

// ListMine returns the caller's own reports, newest first.
func (h *ReportHandler) ListMine(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	reports, err := h.service.Search(c.Request.Context(), identity, report.Filters{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, h.enrich(reports))
}

// Get returns one report; users see only their own.
func (h *ReportHandler) Get(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	r, err := h.service.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		case errors.Is(err, report.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to view this report"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		}
		return
	}
	c.JSON(http.StatusOK, h.enrich([]model.Report{*r})[0])
}

// Search filters reports for admins: status, template, user, location,
// submitted_at range, and a substring term over template name, username and
// period.
func (h *ReportHandler) Search(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	filters := report.Filters{
		SearchTerm: c.Query("search_term"),
		Status:     c.Query("status"),
		TemplateID: c.Query("template_id"),
		UserID:     c.Query("user_id"),
		LocationID: c.Query("location_id"),
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be RFC3339"})
			return
		}
		filters.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be RFC3339"})
			return
		}
		filters.DateTo = &t
	}
	if filters.SearchTerm != "" {
		filters.TemplateNames = h.templateNames()
		filters.Usernames = h.usernames()
	}

	reports, err := h.service.Search(c.Request.Context(), identity, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search reports"})
		return
	}

	enriched := h.enrich(reports)
	c.JSON(http.StatusOK, gin.H{
		"reports":     enriched,
		"total_count": len(enriched),
	})
}

// BulkAction applies approve/reject/delete/mark_reviewed to each id
// independently and reports per-id outcomes.
func (h *ReportHandler) BulkAction(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.ReportIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no report ids provided"})
		return
	}

	result, err := h.service.BulkAction(c.Request.Context(), identity, req.Action, req.ReportIDs)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, report.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bulk action failed"})
		}
		return
	}

	middleware.RecordBulkAction(req.Action, len(result.Succeeded), len(result.Failed))
	c.JSON(http.StatusOK, result)
}

// Review transitions one report (approve/reject/mark_reviewed), recording
// optional reviewer notes.
func (h *ReportHandler) Review(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id := c.Param("id")

	// the notes body is optional
	var req ReviewRequest
	_ = c.ShouldBindJSON(&req)

	var (
		r   *model.Report
		err error
	)
	switch c.Param("action") {
	case report.ActionApprove:
		r, err = h.service.Approve(c.Request.Context(), identity, id, req.Notes)
	case report.ActionReject:
		r, err = h.service.Reject(c.Request.Context(), identity, id, req.Notes)
	case report.ActionMarkReviewed:
		r, err = h.service.MarkReviewed(c.Request.Context(), identity, id, req.Notes)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, report.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		case errors.Is(err, report.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, report.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update report"})
		}
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReportHandler) enrich(reports []model.Report) []ReportResponse {
	templateNames := h.templateNames()
	usernames := h.usernames()
	locationNames := h.locationNames()

	out := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		resp := ReportResponse{
			Report:       r,
			TemplateName: templateNames[r.TemplateID],
			Username:     usernames[r.UserID],
		}
		if resp.TemplateName == "" {
			resp.TemplateName = "Unknown Template"
		}
		if resp.Username == "" {
			resp.Username = "Unknown User"
		}
		if r.LocationID != nil {
			resp.LocationName = locationNames[*r.LocationID]
		}
		out = append(out, resp)
	}
	return out
}

func (h *ReportHandler) templateNames() map[string]string {
	var rows []struct{ ID, Name string }
	h.db.Model(&model.ReportTemplate{}).Select("id, name").Scan(&rows)
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names
}

func (h *ReportHandler) usernames() map[string]string {
	var rows []struct{ ID, Username string }
	h.db.Model(&model.User{}).Select("id, username").Scan(&rows)
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Username
	}
	return names
}

func (h *ReportHandler) locationNames() map[string]string {
	var rows []struct{ ID, Name string }
	h.db.Model(&model.Location{}).Select("id, name").Scan(&rows)
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names
}
