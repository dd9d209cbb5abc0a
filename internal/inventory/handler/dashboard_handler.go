package handler

import (
	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, stats)
}

// CategoryStats GET /api/dashboard/category-stats
func (h *DashboardHandler) CategoryStats(c *gin.Context) {
	stats, err := h.svc.CategoryStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, stats)
}

// LowStockItems GET /api/dashboard/low-stock-items
func (h *DashboardHandler) LowStockItems(c *gin.Context) {
	items, err := h.svc.LowStockItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, items)
}

// ExpiringItems GET /api/dashboard/expiring-items
func (h *DashboardHandler) ExpiringItems(c *gin.Context) {
	items, err := h.svc.ExpiringItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, items)
}
