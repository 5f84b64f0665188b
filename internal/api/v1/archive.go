package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"archivist/internal/importer"
	"archivist/internal/model"
)

type nameRequest struct {
	Name string `json:"nume" binding:"required"`
}

type inventoryRequest struct {
	Year          int    `json:"an" binding:"required"`
	RetentionTerm string `json:"termenPastrare" binding:"required"`
}

type addDosarRequest struct {
	SequenceNumber int `json:"nrCrt"` // 0 表示自动编号
	model.RecordFields
}

// CreateFonds 创建全宗
// POST /api/fonds
func (h *Handler) CreateFonds(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "numele fondului este obligatoriu"})
		return
	}
	f, err := h.store.CreateFonds(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// CreateDepartment 创建部门
// POST /api/fonds/:id/departments
func (h *Handler) CreateDepartment(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "numele compartimentului este obligatoriu"})
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetFonds(ctx, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	d, err := h.store.CreateDepartment(ctx, c.Param("id"), strings.TrimSpace(req.Name))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// CreateInventory 创建年度清册
// POST /api/departments/:id/inventories
func (h *Handler) CreateInventory(c *gin.Context) {
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Year < 1000 || req.Year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "anul și termenul de păstrare sunt obligatorii"})
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetDepartment(ctx, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	inv, err := h.store.CreateInventory(ctx, c.Param("id"), req.Year, strings.TrimSpace(req.RetentionTerm))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// ListDosare 清册下的案卷（按 nr_crt 升序）
// GET /api/inventories/:id/dosare
func (h *Handler) ListDosare(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.store.GetInventoryInfo(ctx, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	records, err := h.store.ListRecords(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if records == nil {
		records = []model.CaseRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"items": records, "total": len(records)})
}

// AddDosar 手工添加案卷
// POST /api/inventories/:id/dosare
func (h *Handler) AddDosar(c *gin.Context) {
	var req addDosarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date invalide"})
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetInventoryInfo(ctx, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	rec, err := h.coordinator.AddRecord(ctx, importer.AddOptions{
		InventarID:     c.Param("id"),
		SequenceNumber: req.SequenceNumber,
		Fields:         req.RecordFields,
		User:           currentUser(c),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}
