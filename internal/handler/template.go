package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reporthub/api/internal/cache"
	"github.com/reporthub/api/internal/composer"
	"github.com/reporthub/api/internal/middleware"
	"github.com/reporthub/api/internal/model"
	"gorm.io/gorm"
)

type TemplateHandler struct {
	db       *gorm.DB
	cache    *cache.RedisCache
	resolver composer.Resolver
}

func NewTemplateHandler(db *gorm.DB, redisCache *cache.RedisCache, resolver composer.Resolver) *TemplateHandler {
	return &TemplateHandler{db: db, cache: redisCache, resolver: resolver}
}

type ComposeTemplateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	FieldIDs    []string `json:"field_ids"`
}

type PreviewTemplateRequest struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Fields      model.ReportFields `json:"fields"`
}

type UpdateTemplateRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Category    *string             `json:"category"`
	Fields      *model.ReportFields `json:"fields"`
	Active      *bool               `json:"active"`
}

// Compose creates a template from selected field definitions. The field order
// in the request is the render order.
func (h *TemplateHandler) Compose(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	var req ComposeTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var count int64
	h.db.Model(&model.ReportTemplate{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template name already exists"})
		return
	}

	tpl, err := composer.Compose(h.resolver, req.Name, req.Description, req.Category, req.FieldIDs)
	if err != nil {
		var unknown *composer.UnknownFieldReferenceError
		switch {
		case errors.Is(err, composer.ErrEmptySelection):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &unknown):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field_ids": unknown.FieldIDs})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compose template"})
		}
		return
	}
	tpl.CreatedBy = identity.UserID

	if err := h.db.Create(tpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create template"})
		return
	}
	h.invalidate(c.Request.Context(), tpl.ID)
	c.JSON(http.StatusCreated, tpl)
}

// Preview renders a template draft as HTML without persisting anything.
func (h *TemplateHandler) Preview(c *gin.Context) {
	var req PreviewTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := req.Fields.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	markup := composer.Preview(req.Name, req.Description, req.Fields)
	c.JSON(http.StatusOK, gin.H{
		"preview_html": markup,
		"field_count":  len(req.Fields),
	})
}

// ListAdmin returns every template, active or not.
func (h *TemplateHandler) ListAdmin(c *gin.Context) {
	var templates []model.ReportTemplate
	if err := h.db.Order("created_at DESC").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, templates)
}

// ListActive returns the active templates users can fill in, served from the
// Redis cache when possible.
func (h *TemplateHandler) ListActive(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if data, err := h.cache.Get(ctx, cache.ActiveTemplatesKey); err == nil {
			var templates []model.ReportTemplate
			if json.Unmarshal(data, &templates) == nil {
				c.JSON(http.StatusOK, templates)
				return
			}
		}
	}

	var templates []model.ReportTemplate
	if err := h.db.Where("active = ?", true).Order("name").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list templates"})
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(templates); err == nil {
			h.cache.Set(ctx, cache.ActiveTemplatesKey, data)
		}
	}
	c.JSON(http.StatusOK, templates)
}

// Get returns one active template by id.
func (h *TemplateHandler) Get(c *gin.Context) {
	templateID := c.Param("id")
	ctx := c.Request.Context()

	if h.cache != nil {
		if data, err := h.cache.Get(ctx, cache.TemplateKey(templateID)); err == nil {
			var tpl model.ReportTemplate
			if json.Unmarshal(data, &tpl) == nil {
				c.JSON(http.StatusOK, tpl)
				return
			}
		}
	}

	var tpl model.ReportTemplate
	if err := h.db.First(&tpl, "id = ? AND active = ?", templateID, true).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(tpl); err == nil {
			h.cache.Set(ctx, cache.TemplateKey(templateID), data)
		}
	}
	c.JSON(http.StatusOK, tpl)
}

// Update applies a partial template update. A template must keep at least
// one field.
func (h *TemplateHandler) Update(c *gin.Context) {
	templateID := c.Param("id")

	var tpl model.ReportTemplate
	if err := h.db.First(&tpl, "id = ?", templateID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Name != nil {
		var count int64
		h.db.Model(&model.ReportTemplate{}).
			Where("name = ? AND id <> ?", *req.Name, templateID).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "template name already exists"})
			return
		}
		tpl.Name = *req.Name
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.Category != nil {
		tpl.Category = *req.Category
	}
	if req.Fields != nil {
		if len(*req.Fields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "template must have at least one field"})
			return
		}
		if err := req.Fields.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fields := *req.Fields
		for i := range fields {
			if fields[i].ID == "" {
				fields[i].ID = uuid.NewString()
			}
		}
		tpl.Fields = fields
	}
	if req.Active != nil {
		tpl.Active = *req.Active
	}

	tpl.UpdatedAt = time.Now()
	if err := h.db.Save(&tpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update template"})
		return
	}
	h.invalidate(c.Request.Context(), tpl.ID)
	c.JSON(http.StatusOK, tpl)
}

// Delete removes a template unless it has submissions.
func (h *TemplateHandler) Delete(c *gin.Context) {
	templateID := c.Param("id")

	var count int64
	h.db.Model(&model.Report{}).Where("template_id = ?", templateID).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete template with existing submissions"})
		return
	}

	result := h.db.Delete(&model.ReportTemplate{}, "id = ?", templateID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete template"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	h.invalidate(c.Request.Context(), templateID)
	c.JSON(http.StatusOK, gin.H{"message": "template deleted"})
}

func (h *TemplateHandler) invalidate(ctx context.Context, templateID string) {
	if h.cache == nil {
		return
	}
	h.cache.Delete(ctx, cache.ActiveTemplatesKey, cache.TemplateKey(templateID))
}
