package handler

import (
	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/bitfantasy/labstock/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	EmployeeNumber string `json:"employee_number" binding:"required"`
	Password       string `json:"password" binding:"required"`
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.EmployeeNumber, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user.Summary(),
	})
}

// Profile GET /api/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Unauthorized(c, "Authorization is required")
		return
	}
	Success(c, user.Summary())
}
