package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"archivist/internal/exporter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Export 导出清册（可重新导入）
// GET /api/inventories/:id/export
func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	info, err := h.store.GetInventoryInfo(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	data, err := h.exporter.Inventory(ctx, info.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	sendWorkbook(c, fmt.Sprintf("Inventar_%d.xlsx", info.Year), data)
}

// Labels 生成书脊与封面标签
// GET /api/inventories/:id/labels?format=a4-10|a4-9
func (h *Handler) Labels(c *gin.Context) {
	format, ok := exporter.LookupSpineFormat(c.DefaultQuery("format", h.spineFormat))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format de etichete necunoscut (a4-10 sau a4-9)"})
		return
	}

	ctx := c.Request.Context()
	info, err := h.store.GetInventoryInfo(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	data, err := h.exporter.Labels(ctx, info.ID, format)
	if err != nil {
		h.writeError(c, err)
		return
	}
	sendWorkbook(c, fmt.Sprintf("Etichete_%d_%s.xlsx", info.Year, format.Name), data)
}

// Registry 生成全宗的清册登记簿
// GET /api/fonds/:id/registry
func (h *Handler) Registry(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.store.GetFonds(ctx, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	data, err := h.exporter.Registry(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	sendWorkbook(c, "Registru_inventare.xlsx", data)
}
