package handler

import (
	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/bitfantasy/labstock/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportExcel GET /api/inventory/export/excel?filter=...
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	filter := c.DefaultQuery("filter", service.FilterAll)
	user := middleware.CurrentUser(c)

	f, filename, err := h.svc.Export(c.Request.Context(), filter, user.FullName)
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		// Status and headers are already out; a JSON envelope here would
		// corrupt the download.
		c.Error(err)
		c.Abort()
	}
}
