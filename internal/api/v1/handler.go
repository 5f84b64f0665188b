package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"archivist/internal/exporter"
	"archivist/internal/importer"
	"archivist/internal/lock"
	"archivist/internal/logging"
	"archivist/internal/parser"
	"archivist/internal/store"
)

// UserHeader 调用方用户名
const UserHeader = "X-Archivist-User"

// Options 处理器配置
type Options struct {
	SpineFormat    string // 默认标签格式
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// Handler V1 API 处理器
type Handler struct {
	store       *store.Store
	coordinator *importer.Coordinator
	exporter    *exporter.Exporter
	spineFormat string
	maxUpload   int64
	logger      *zap.Logger
}

// NewHandler 创建 V1 API 处理器
func NewHandler(st *store.Store, coordinator *importer.Coordinator, exp *exporter.Exporter, opts Options) *Handler {
	return &Handler{
		store:       st,
		coordinator: coordinator,
		exporter:    exp,
		spineFormat: opts.SpineFormat,
		maxUpload:   opts.MaxUploadBytes,
		logger:      logging.OrNop(opts.Logger),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 全宗 / 部门 / 清册
	router.POST("/fonds", h.CreateFonds)
	router.POST("/fonds/:id/departments", h.CreateDepartment)
	router.POST("/departments/:id/inventories", h.CreateInventory)

	// 案卷
	router.GET("/inventories/:id/dosare", h.ListDosare)
	router.POST("/inventories/:id/dosare", h.AddDosar)
	router.POST("/inventories/:id/import", h.Import)

	// 文档生成
	router.GET("/inventories/:id/export", h.Export)
	router.GET("/inventories/:id/labels", h.Labels)
	router.GET("/fonds/:id/registry", h.Registry)

	// 权限与审计
	router.PUT("/profiles/:username", h.UpsertProfile)
	router.GET("/audit-logs", h.ListAuditLogs)
}

// currentUser 请求头中的用户名
func currentUser(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(UserHeader))
}

// capability 根据用户档案解析权限；未知用户没有提升权限
func (h *Handler) capability(c *gin.Context) importer.Capability {
	user := currentUser(c)
	if user == "" {
		return importer.Capability{}
	}
	p, err := h.store.GetProfileByUsername(c.Request.Context(), user)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("resolve profile failed", zap.String("user", user), zap.Error(err))
		}
		return importer.Capability{}
	}
	return importer.Capability{FullAccess: p.FullAccess}
}

// statusFor 错误到 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lock.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, parser.ErrHeaderNotFound),
		errors.Is(err, parser.ErrMissingRequiredField),
		errors.Is(err, parser.ErrTypeCoercion),
		errors.Is(err, parser.ErrFieldLimit),
		errors.Is(err, importer.ErrDuplicateSequence),
		errors.Is(err, importer.ErrSequenceStart),
		errors.Is(err, importer.ErrSequenceGap),
		errors.Is(err, importer.ErrEmptyBatch),
		errors.Is(err, importer.ErrNextNumber),
		errors.Is(err, importer.ErrInputRead),
		errors.Is(err, exporter.ErrNoRecords):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError 输出错误；业务错误的文本直接面向操作员
func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if errors.Is(err, store.ErrNotFound) {
		msg = "înregistrarea solicitată nu există"
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}
