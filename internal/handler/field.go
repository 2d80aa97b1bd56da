package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/reporthub/api/internal/middleware"
	"github.com/reporthub/api/internal/model"
	"github.com/reporthub/api/internal/schema"
	"gorm.io/gorm"
)

type FieldHandler struct {
	db *gorm.DB
}

func NewFieldHandler(db *gorm.DB) *FieldHandler {
	return &FieldHandler{db: db}
}

type CreateFieldRequest struct {
	Section     string           `json:"section" binding:"required"`
	Label       string           `json:"label" binding:"required"`
	FieldType   schema.FieldType `json:"field_type" binding:"required"`
	Choices     []string         `json:"choices"`
	Placeholder string           `json:"placeholder"`
	HelpText    string           `json:"help_text"`
}

type UpdateFieldRequest struct {
	Section     *string           `json:"section"`
	Label       *string           `json:"label"`
	FieldType   *schema.FieldType `json:"field_type"`
	Choices     []string          `json:"choices"`
	Placeholder *string           `json:"placeholder"`
	HelpText    *string           `json:"help_text"`
}

// List returns all field definitions, excluding soft-deleted ones unless
// include_deleted=true.
func (h *FieldHandler) List(c *gin.Context) {
	includeDeleted := c.DefaultQuery("include_deleted", "false") == "true"

	query := h.db.Model(&model.FieldDefinition{})
	if !includeDeleted {
		query = query.Where("deleted = ?", false)
	}

	var fields []model.FieldDefinition
	if err := query.Order("section, label").Find(&fields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list fields"})
		return
	}
	c.JSON(http.StatusOK, fields)
}

// Sections returns the distinct section labels of live field definitions.
func (h *FieldHandler) Sections(c *gin.Context) {
	var sections []string
	err := h.db.Model(&model.FieldDefinition{}).
		Where("deleted = ?", false).
		Distinct("section").
		Order("section").
		Pluck("section", &sections).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sections"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// Create validates and stores a new field definition.
func (h *FieldHandler) Create(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	var req CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := schema.ValidateDefinition(req.FieldType, req.Choices); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	field := model.FieldDefinition{
		ID:          uuid.NewString(),
		Section:     req.Section,
		Label:       req.Label,
		FieldType:   req.FieldType,
		Choices:     pq.StringArray(req.Choices),
		Placeholder: req.Placeholder,
		HelpText:    req.HelpText,
		CreatedBy:   identity.UserID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.db.Create(&field).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create field"})
		return
	}
	c.JSON(http.StatusCreated, field)
}

// Update applies a partial update to a field definition, re-validating the
// resulting type/choices combination.
func (h *FieldHandler) Update(c *gin.Context) {
	fieldID := c.Param("id")

	var field model.FieldDefinition
	if err := h.db.First(&field, "id = ?", fieldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Section != nil {
		field.Section = *req.Section
	}
	if req.Label != nil {
		field.Label = *req.Label
	}
	if req.FieldType != nil {
		field.FieldType = *req.FieldType
	}
	if req.Choices != nil {
		field.Choices = pq.StringArray(req.Choices)
	}
	if req.Placeholder != nil {
		field.Placeholder = *req.Placeholder
	}
	if req.HelpText != nil {
		field.HelpText = *req.HelpText
	}

	if err := field.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	field.UpdatedAt = time.Now()
	if err := h.db.Save(&field).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update field"})
		return
	}
	c.JSON(http.StatusOK, field)
}

// SoftDelete flags a field definition as deleted. Templates that already
// include it keep their resolved copy.
func (h *FieldHandler) SoftDelete(c *gin.Context) {
	h.setDeleted(c, true, "field deleted")
}

// Restore clears the deleted flag, re-including the field unchanged.
func (h *FieldHandler) Restore(c *gin.Context) {
	h.setDeleted(c, false, "field restored")
}

func (h *FieldHandler) setDeleted(c *gin.Context, deleted bool, message string) {
	fieldID := c.Param("id")

	var field model.FieldDefinition
	if err := h.db.First(&field, "id = ?", fieldID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
		return
	}

	if deleted {
		field.SoftDelete()
	} else {
		field.Restore()
	}
	if err := h.db.Save(&field).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update field"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// FieldTypes returns the supported field types and their capabilities.
func (h *FieldHandler) FieldTypes(c *gin.Context) {
	types := make(map[string]gin.H, len(schema.FieldTypes))
	for _, t := range schema.FieldTypes {
		types[string(t)] = gin.H{
			"supports_choices":     t.RequiresChoices(),
			"supports_placeholder": t == schema.FieldText || t == schema.FieldTextarea || t == schema.FieldNumber,
		}
	}
	c.JSON(http.StatusOK, gin.H{"field_types": types})
}
