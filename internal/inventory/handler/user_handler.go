package handler

import (
	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/bitfantasy/labstock/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	EmployeeNumber string      `json:"employee_number" binding:"required"`
	Password       string      `json:"password" binding:"required,min=6"`
	Role           entity.Role `json:"role" binding:"required"`
	FullName       string      `json:"full_name" binding:"required"`
	Email          string      `json:"email" binding:"required,email"`
	Section        string      `json:"section"`
}

// Register POST /api/register (admin)
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		EmployeeNumber: req.EmployeeNumber,
		Password:       req.Password,
		Role:           req.Role,
		FullName:       req.FullName,
		Email:          req.Email,
		Section:        req.Section,
	})
	if err != nil {
		fail(c, err)
		return
	}

	Created(c, user.Summary())
}

// List GET /api/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, users)
}

// Delete DELETE /api/users/:id (admin). Self-deletion is rejected.
func (h *UserHandler) Delete(c *gin.Context) {
	admin := middleware.CurrentUser(c)
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), admin.ID); err != nil {
		fail(c, err)
		return
	}
	Success(c, gin.H{"message": "User deleted successfully"})
}
