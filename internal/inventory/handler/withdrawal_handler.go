package handler

import (
	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/bitfantasy/labstock/internal/middleware"
	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	svc *service.WithdrawalService
}

func NewWithdrawalHandler(svc *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{svc: svc}
}

type submitRequest struct {
	ItemID            string `json:"item_id" binding:"required"`
	RequestedQuantity int    `json:"requested_quantity" binding:"required,gt=0"`
	Purpose           string `json:"purpose" binding:"required"`
}

// Submit POST /api/withdrawal-requests
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	requester := middleware.CurrentUser(c)
	record, err := h.svc.Submit(c.Request.Context(), service.SubmitInput{
		ItemID:            req.ItemID,
		RequestedQuantity: req.RequestedQuantity,
		Purpose:           req.Purpose,
	}, requester)
	if err != nil {
		fail(c, err)
		return
	}
	Created(c, record)
}

// List GET /api/withdrawal-requests — admins see all, users their own,
// newest first either way.
func (h *WithdrawalHandler) List(c *gin.Context) {
	requester := middleware.CurrentUser(c)
	records, err := h.svc.List(c.Request.Context(), requester)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, records)
}

type processRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
	Comments  string `json:"comments"`
}

// Process POST /api/withdrawal-requests/process (admin)
func (h *WithdrawalHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	admin := middleware.CurrentUser(c)
	record, err := h.svc.Process(c.Request.Context(), req.RequestID, req.Action, req.Comments, admin)
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, record)
}
