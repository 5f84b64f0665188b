// Package metrics Prometheus 指标：导入、生成文档、HTTP 请求
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// importRuns 导入次数（status: success/failed/rolled_back）
	importRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archivist_import_runs_total",
			Help: "Numărul de importuri de dosare, după rezultat",
		},
		[]string{"status"},
	)

	// importRows 对账决策计数
	importRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archivist_import_rows_total",
			Help: "Rânduri procesate la import, după decizie (insert/update/skip)",
		},
		[]string{"decision"},
	)

	importDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "archivist_import_duration_seconds",
			Help:    "Durata importurilor în secunde",
			Buckets: prometheus.DefBuckets,
		},
	)

	// documentsGenerated 生成文档次数（kind: labels/registry/export）
	documentsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archivist_documents_generated_total",
			Help: "Documente generate, după tip",
		},
		[]string{"kind"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archivist_http_requests_total",
			Help: "Numărul total de cereri HTTP",
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveImport 记录一次导入
func ObserveImport(status string, inserted, updated, skipped int, d time.Duration) {
	importRuns.WithLabelValues(status).Inc()
	importRows.WithLabelValues("insert").Add(float64(inserted))
	importRows.WithLabelValues("update").Add(float64(updated))
	importRows.WithLabelValues("skip").Add(float64(skipped))
	importDuration.Observe(d.Seconds())
}

// ObserveDocument 记录一次文档生成
func ObserveDocument(kind string) {
	documentsGenerated.WithLabelValues(kind).Inc()
}

// GinMiddleware HTTP 请求计数；路径使用路由模板避免标签爆炸
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
