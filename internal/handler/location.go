package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reporthub/api/internal/model"
	"gorm.io/gorm"
)

type LocationHandler struct {
	db *gorm.DB
}

func NewLocationHandler(db *gorm.DB) *LocationHandler {
	return &LocationHandler{db: db}
}

type LocationRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns all locations.
func (h *LocationHandler) List(c *gin.Context) {
	var locations []model.Location
	if err := h.db.Order("name").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

// Create adds a new location with a unique name.
func (h *LocationHandler) Create(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var count int64
	h.db.Model(&model.Location{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location already exists"})
		return
	}

	location := model.Location{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	if err := h.db.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create location"})
		return
	}
	c.JSON(http.StatusCreated, location)
}

// Update renames a location.
func (h *LocationHandler) Update(c *gin.Context) {
	locationID := c.Param("id")

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var count int64
	h.db.Model(&model.Location{}).
		Where("name = ? AND id <> ?", req.Name, locationID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location name already exists"})
		return
	}

	result := h.db.Model(&model.Location{}).
		Where("id = ?", locationID).
		Update("name", req.Name)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update location"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "location updated"})
}

// Delete removes a location unless users are assigned to it.
func (h *LocationHandler) Delete(c *gin.Context) {
	locationID := c.Param("id")

	var count int64
	h.db.Model(&model.User{}).Where("location_id = ?", locationID).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete location, it is assigned to users"})
		return
	}

	result := h.db.Delete(&model.Location{}, "id = ?", locationID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete location"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "location deleted"})
}
