package handler

import (
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/bitfantasy/labstock/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	svc *service.ItemService
}

func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

type itemRequest struct {
	ItemName         string     `json:"item_name" binding:"required"`
	Category         string     `json:"category" binding:"required"`
	SubCategory      string     `json:"sub_category"`
	Location         string     `json:"location"`
	Manufacturer     string     `json:"manufacturer"`
	Supplier         string     `json:"supplier"`
	Model            string     `json:"model"`
	UOM              string     `json:"uom"`
	CatalogueNo      string     `json:"catalogue_no"`
	Quantity         int        `json:"quantity" binding:"min=0"`
	TargetStockLevel int        `json:"target_stock_level" binding:"min=0"`
	ReorderLevel     int        `json:"reorder_level" binding:"min=0"`
	Validity         *time.Time `json:"validity"`
	UseCase          string     `json:"use_case"`
}

func (r *itemRequest) toInput() service.ItemInput {
	return service.ItemInput{
		ItemName:         r.ItemName,
		Category:         r.Category,
		SubCategory:      r.SubCategory,
		Location:         r.Location,
		Manufacturer:     r.Manufacturer,
		Supplier:         r.Supplier,
		Model:            r.Model,
		UOM:              r.UOM,
		CatalogueNo:      r.CatalogueNo,
		Quantity:         r.Quantity,
		TargetStockLevel: r.TargetStockLevel,
		ReorderLevel:     r.ReorderLevel,
		Validity:         r.Validity,
		UseCase:          r.UseCase,
	}
}

// Create POST /api/inventory (admin)
func (h *ItemHandler) Create(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	admin := middleware.CurrentUser(c)
	item, err := h.svc.Create(c.Request.Context(), req.toInput(), admin.EmployeeNumber)
	if err != nil {
		fail(c, err)
		return
	}
	Created(c, item)
}

// List GET /api/inventory
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, items)
}

// Get GET /api/inventory/:id
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	Success(c, item)
}

// Update PUT /api/inventory/:id (admin)
func (h *ItemHandler) Update(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	if err := h.svc.Update(c.Request.Context(), c.Param("id"), req.toInput()); err != nil {
		fail(c, err)
		return
	}
	Success(c, gin.H{"message": "Item updated successfully"})
}

// Delete DELETE /api/inventory/:id (admin)
func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	Success(c, gin.H{"message": "Item deleted successfully"})
}
