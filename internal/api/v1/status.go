package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Database string    `json:"database"` // ok/error
	Time     time.Time `json:"time"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{Database: "ok", Time: time.Now()}
	status := http.StatusOK
	if err := h.store.Ping(c.Request.Context()); err != nil {
		resp.Database = "error"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

type profileRequest struct {
	FullAccess bool `json:"fullAccess"`
}

// UpsertProfile 设置用户的提升权限
// 已存在提升权限用户时，只有持有提升权限的调用方可以修改
// PUT /api/profiles/:username
func (h *Handler) UpsertProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date invalide"})
		return
	}
	ctx := c.Request.Context()

	admins, err := h.store.CountFullAccessProfiles(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if admins > 0 && !h.capability(c).FullAccess {
		c.JSON(http.StatusForbidden, gin.H{"error": "doar un utilizator cu acces complet poate modifica drepturile"})
		return
	}
	if err := h.store.UpsertProfile(ctx, c.Param("username"), req.FullAccess); err != nil {
		h.writeError(c, err)
		return
	}
	p, err := h.store.GetProfileByUsername(ctx, c.Param("username"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListAuditLogs 最近的审计日志
// GET /api/audit-logs?limit=100
func (h *Handler) ListAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.store.ListAuditLogs(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
