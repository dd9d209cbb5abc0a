package handler

import (
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/bitfantasy/labstock/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmailConfigHandler manages notification recipients. Thin enough to
// sit directly on the repository.
type EmailConfigHandler struct {
	repo *repository.EmailConfigRepository
}

func NewEmailConfigHandler(repo *repository.EmailConfigRepository) *EmailConfigHandler {
	return &EmailConfigHandler{repo: repo}
}

type emailConfigRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Add POST /api/email-config (admin)
func (h *EmailConfigHandler) Add(c *gin.Context) {
	var req emailConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	admin := middleware.CurrentUser(c)
	cfg := &entity.EmailConfig{
		ID:        uuid.New().String(),
		Email:     req.Email,
		IsActive:  true,
		AddedBy:   admin.EmployeeNumber,
		CreatedAt: time.Now(),
	}
	if err := h.repo.Create(c.Request.Context(), cfg); err != nil {
		fail(c, err)
		return
	}
	Created(c, cfg)
}

// List GET /api/email-config (admin) — active entries only.
func (h *EmailConfigHandler) List(c *gin.Context) {
	configs, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, configs)
}

// Delete DELETE /api/email-config/:id (admin)
func (h *EmailConfigHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	Success(c, gin.H{"message": "Email configuration deleted successfully"})
}
