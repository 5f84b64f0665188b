package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"archivist/internal/importer"
)

// Import 导入案卷 Excel (SSE 流式响应)
// POST /api/inventories/:id/import
func (h *Handler) Import(c *gin.Context) {
	inventarID := c.Param("id")
	if _, err := h.store.GetInventoryInfo(c.Request.Context(), inventarID); err != nil {
		h.writeError(c, err)
		return
	}

	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fișierul nu a fost trimis"})
		return
	}
	if h.maxUpload > 0 && uploaded.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("fișierul depășește limita de %d MB", h.maxUpload>>20)})
		return
	}
	file, err := uploaded.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fișierul nu a putut fi deschis"})
		return
	}
	defer file.Close()

	overwrite := c.DefaultPostForm("overwrite", "false") == "true"

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "răspunsul în flux nu este suportat"})
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progressChan := h.coordinator.Import(c.Request.Context(), importer.ImportOptions{
		InventarID: inventarID,
		Filename:   filepath.Base(uploaded.Filename),
		Source:     file,
		Overwrite:  overwrite,
		Capability: h.capability(c),
		User:       currentUser(c),
	})

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			h.logger.Warn("marshal progress event failed", zap.Error(err))
			continue
		}

		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}
