package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	v1 "archivist/internal/api/v1"
	"archivist/internal/config"
	"archivist/internal/exporter"
	"archivist/internal/importer"
	"archivist/internal/lock"
	"archivist/internal/logging"
	"archivist/internal/metrics"
	"archivist/internal/store"
)

// auditSweepInterval 审计日志清理周期
const auditSweepInterval = time.Hour

// Server HTTP服务器
type Server struct {
	cfg    *config.AppConfig
	router *gin.Engine
	store  *store.Store
	locker lock.Locker
	logger *zap.Logger

	httpServer *http.Server
	stopSweep  context.CancelFunc
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	logger = logging.OrNop(logger)
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, err
	}
	sqliteStore, err := store.New(filepath.Join(dataDir, "archivist.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	locker, err := newLocker(cfg.Redis, logger)
	if err != nil {
		_ = sqliteStore.Close()
		return nil, err
	}

	coordinator := importer.NewCoordinator(sqliteStore,
		importer.WithLogger(logger.Named("import")),
		importer.WithJournal(sqliteStore),
		importer.WithLocker(locker),
		importer.WithAtomic(cfg.Import.Atomic),
	)
	exp := exporter.NewExporter(sqliteStore, exporter.Options{
		LabelTemplatePath:    cfg.Labels.TemplatePath,
		RegistryTemplatePath: cfg.Registry.TemplatePath,
		Logger:               logger.Named("export"),
	})
	v1Handler := v1.NewHandler(sqliteStore, coordinator, exp, v1.Options{
		SpineFormat:    cfg.Labels.SpineFormat,
		MaxUploadBytes: cfg.Import.MaxUploadBytes(),
		Logger:         logger.Named("api"),
	})

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.DevMode {
		router.Use(gin.Logger())
	}

	s := &Server{
		cfg:    cfg,
		router: router,
		store:  sqliteStore,
		locker: locker,
		logger: logger,
	}
	s.setupRoutes(v1Handler)

	return s, nil
}

// newLocker 配置了 Redis 时使用分布式锁，否则不加锁
func newLocker(cfg config.RedisConfig, logger *zap.Logger) (lock.Locker, error) {
	if cfg.Addr == "" {
		logger.Info("redis not configured, inventory lock disabled")
		return lock.NoopLocker{}, nil
	}
	locker, err := lock.NewRedisLocker(cfg.Addr, cfg.Password, "", cfg.LockTTL())
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := locker.Ping(ctx); err != nil {
		_ = locker.Close()
		return nil, fmt.Errorf("failed to connect redis %s: %w", cfg.Addr, err)
	}
	logger.Info("inventory lock enabled", zap.String("redis", cfg.Addr), zap.Duration("ttl", cfg.LockTTL()))
	return locker, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(h *v1.Handler) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+v1.UserHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
	s.router.Use(metrics.GinMiddleware())

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// V1 API 路由
	api := s.router.Group("/api")
	{
		h.RegisterRoutes(api)
	}
}

// Handler 路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器并开始定期清理审计日志；阻塞直到服务关闭
func (s *Server) Run(addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopSweep = cancel
	go s.sweepAuditLogs(ctx)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭：停止接收请求，释放锁客户端与数据库
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopSweep != nil {
		s.stopSweep()
	}
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown http server: %w", err))
		}
	}
	if rl, ok := s.locker.(*lock.RedisLocker); ok {
		if err := rl.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	return errors.Join(errs...)
}

// sweepAuditLogs 按保留期定期删除过期审计日志
func (s *Server) sweepAuditLogs(ctx context.Context) {
	retention := s.cfg.Audit.Retention()
	if retention <= 0 {
		return
	}
	ticker := time.NewTicker(auditSweepInterval)
	defer ticker.Stop()

	for {
		s.CleanupAuditLogs(ctx, time.Now())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// CleanupAuditLogs 删除 now - retention 之前的审计日志，返回删除条数
func (s *Server) CleanupAuditLogs(ctx context.Context, now time.Time) int64 {
	cutoff := now.Add(-s.cfg.Audit.Retention())
	n, err := s.store.DeleteAuditLogsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("audit cleanup failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		s.logger.Info("audit logs cleaned", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	}
	return n
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
