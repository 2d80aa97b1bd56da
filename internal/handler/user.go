package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reporthub/api/internal/middleware"
	"github.com/reporthub/api/internal/model"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List returns all users.
func (h *UserHandler) List(c *gin.Context) {
	var users []model.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// Approve marks a pending account as approved.
func (h *UserHandler) Approve(c *gin.Context) {
	result := h.db.Model(&model.User{}).
		Where("id = ?", c.Param("id")).
		Update("approved", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user approved"})
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole switches a user between USER and ADMIN.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be USER or ADMIN"})
		return
	}

	result := h.db.Model(&model.User{}).
		Where("id = ?", c.Param("id")).
		Update("role", req.Role)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update role"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user role updated"})
}

// Delete removes a user. Admins cannot delete their own account.
func (h *UserHandler) Delete(c *gin.Context) {
	identity, _ := middleware.Identity(c)
	userID := c.Param("id")

	if userID == identity.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	result := h.db.Delete(&model.User{}, "id = ?", userID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
