package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"archivist/internal/lock"
	"archivist/internal/logging"
	"archivist/internal/metrics"
	"archivist/internal/model"
	"archivist/internal/parser"
	"archivist/internal/store"
)

// 导入日志状态
const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
	StatusRolledBack = "rolled_back"
)

// Journal 导入日志与审计日志的写入方
type Journal interface {
	CreateImportLog(ctx context.Context, runID, inventarID, filename string) (int64, error)
	SetImportLogMapping(ctx context.Context, id int64, headerRow int, mapping any) error
	UpdateImportLog(ctx context.Context, id int64, counts model.ImportCounts, status, errorMessage string) error
	InsertAuditLog(ctx context.Context, e model.AuditEntry) error
}

// Coordinator 导入协调器
type Coordinator struct {
	store      store.RecordStore
	journal    Journal
	locker     lock.Locker
	locator    *parser.HeaderLocator
	extractor  *parser.RowExtractor
	reconciler *Reconciler
	logger     *zap.Logger
	atomic     bool
}

// Option 协调器选项
type Option func(*Coordinator)

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = logging.OrNop(l) }
}

// WithJournal 设置导入/审计日志
func WithJournal(j Journal) Option {
	return func(c *Coordinator) { c.journal = j }
}

// WithLocker 设置清册编辑锁
func WithLocker(l lock.Locker) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.locker = l
		}
	}
}

// WithAtomic 是否在单个事务内执行对账（存储需实现 store.Transactor）
func WithAtomic(atomic bool) Option {
	return func(c *Coordinator) { c.atomic = atomic }
}

// NewCoordinator 创建导入协调器
func NewCoordinator(st store.RecordStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:  st,
		locker: lock.NoopLocker{},
		logger: zap.NewNop(),
		atomic: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.locator = parser.NewHeaderLocator(nil, c.logger)
	c.extractor = parser.NewRowExtractor()
	c.reconciler = NewReconciler(c.logger)
	return c
}

// ImportOptions 导入选项
type ImportOptions struct {
	InventarID string
	Filename   string
	FilePath   string    // 与 Source 二选一
	Source     io.Reader // 上传内容
	Overwrite  bool      // 请求的覆盖开关，需 FullAccess 才生效
	Capability Capability
	User       string
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// Import 执行导入，返回进度通道；最后一个事件为 done 或 error
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		report, err := c.run(ctx, opts, progressChan)

		final := ProgressEvent{Type: "done", Message: "Import finalizat", Data: report, Timestamp: time.Now()}
		if err != nil {
			final = ProgressEvent{Type: "error", Message: err.Error(), Data: report, Timestamp: time.Now()}
		}
		select {
		case progressChan <- final:
		case <-ctx.Done():
		}
	}()

	return progressChan
}

// Run 同步执行导入
// 报告总是非空；出错时 report.Error 与返回的错误一致
func (c *Coordinator) Run(ctx context.Context, opts ImportOptions) (*model.ImportReport, error) {
	return c.run(ctx, opts, nil)
}

func (c *Coordinator) run(ctx context.Context, opts ImportOptions, progress chan<- ProgressEvent) (*model.ImportReport, error) {
	startTime := time.Now()

	tx, canTx := c.store.(store.Transactor)
	report := &model.ImportReport{
		RunID:      uuid.NewString(),
		InventarID: opts.InventarID,
		Filename:   opts.Filename,
		Overwrite:  EffectiveOverwrite(opts.Overwrite, opts.Capability),
		Atomic:     c.atomic && canTx,
	}
	if c.atomic && !canTx {
		c.logger.Warn("store does not support transactions, falling back to per-row writes")
	}
	logger := c.logger.With(zap.String("run_id", report.RunID), zap.String("inventar_id", opts.InventarID))
	logID := c.openImportLog(ctx, report)

	status := StatusFailed
	finish := func(err error) (*model.ImportReport, error) {
		report.Duration = time.Since(startTime)
		if err != nil {
			report.Error = err.Error()
			logger.Warn("import aborted", zap.String("status", status), zap.Error(err))
		} else {
			status = StatusSuccess
			logger.Info("import completed",
				zap.Int("inserted", report.Inserted),
				zap.Int("updated", report.Updated),
				zap.Int("skipped", report.Skipped),
				zap.Duration("duration", report.Duration),
			)
		}
		c.closeImportLog(ctx, logID, report, status)
		c.audit(ctx, opts.User, "IMPORT", opts.InventarID, map[string]any{
			"run_id":    report.RunID,
			"filename":  report.Filename,
			"status":    status,
			"overwrite": report.Overwrite,
			"inserted":  report.Inserted,
			"updated":   report.Updated,
			"skipped":   report.Skipped,
		})
		metrics.ObserveImport(status, report.Inserted, report.Updated, report.Skipped, report.Duration)
		return report, err
	}

	c.sendProgress(progress, ProgressEvent{
		Type:      "start",
		Message:   "Începe importul fișierului",
		Data:      map[string]string{"filename": opts.Filename, "run_id": report.RunID},
		Timestamp: time.Now(),
	})

	// 读取并校验（任何写入之前完成）
	grid, err := c.readGrid(opts)
	if err != nil {
		return finish(&InputReadError{Err: err})
	}

	header, err := c.locator.Locate(grid)
	if err != nil {
		return finish(err)
	}
	report.HeaderRow = header.Row + 1
	c.setImportLogMapping(ctx, logID, report.HeaderRow, header.Columns)
	c.sendProgress(progress, ProgressEvent{
		Type:      "info",
		Message:   fmt.Sprintf("Antet găsit pe rândul %d", report.HeaderRow),
		Data:      map[string]interface{}{"header_row": report.HeaderRow, "columns": header.Columns},
		Timestamp: time.Now(),
	})

	rows, err := c.extractor.Extract(grid, header)
	if err != nil {
		return finish(err)
	}
	report.TotalRows = len(rows)
	logger.Info("rows extracted", zap.Int("header_row", report.HeaderRow), zap.Int("rows", len(rows)))

	if err := ValidateSequence(rows); err != nil {
		return finish(err)
	}
	c.sendProgress(progress, ProgressEvent{
		Type:      "info",
		Message:   fmt.Sprintf("%d dosare validate", len(rows)),
		Data:      map[string]interface{}{"total_rows": len(rows)},
		Timestamp: time.Now(),
	})

	release, err := c.locker.Acquire(ctx, opts.InventarID, opts.User)
	if err != nil {
		return finish(err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("release inventory lock failed", zap.Error(err))
		}
	}()

	// 取得锁之后不再响应取消：对账要么完成，要么停在第一个失败的写入
	writeCtx := context.WithoutCancel(ctx)

	persisted, err := c.store.ListRecords(writeCtx, opts.InventarID)
	if err != nil {
		return finish(&PersistedReadError{InventarID: opts.InventarID, Err: err})
	}

	in := ReconcileInput{
		InventarID: opts.InventarID,
		Rows:       rows,
		Persisted:  persisted,
		Overwrite:  report.Overwrite,
		CreatedBy:  opts.User,
	}

	var counts model.ImportCounts
	if report.Atomic {
		err = tx.WithTx(writeCtx, func(w store.RecordWriter) error {
			var rerr error
			counts, rerr = c.reconciler.Reconcile(writeCtx, w, in)
			return rerr
		})
	} else {
		counts, err = c.reconciler.Reconcile(writeCtx, c.store, in)
	}

	if err != nil {
		var wf *WriteFailureError
		if errors.As(err, &wf) {
			report.FailedNrCrt = wf.Sequence
		}
		if report.Atomic {
			// 事务已回滚，本次运行没有任何写入生效
			status = StatusRolledBack
			report.ImportCounts = model.ImportCounts{}
			report.Committed = false
		} else {
			report.ImportCounts = counts
			report.Committed = counts.Inserted+counts.Updated > 0
		}
		return finish(err)
	}

	report.ImportCounts = counts
	report.Committed = true
	return finish(nil)
}

// readGrid 读取第一个 Sheet
func (c *Coordinator) readGrid(opts ImportOptions) (parser.Grid, error) {
	if opts.Source != nil {
		return parser.ReadGrid(opts.Source)
	}
	if opts.FilePath == "" {
		return nil, errors.New("no input provided")
	}
	return parser.ReadGridFile(opts.FilePath)
}

// AddOptions 手工添加选项
type AddOptions struct {
	InventarID     string
	SequenceNumber int // 0 表示自动取 max+1
	Fields         model.RecordFields
	User           string
}

// AddRecord 手工添加单个案卷，顺序号必须为 max(existing)+1
func (c *Coordinator) AddRecord(ctx context.Context, opts AddOptions) (*model.CaseRecord, error) {
	release, err := c.locker.Acquire(ctx, opts.InventarID, opts.User)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("release inventory lock failed", zap.Error(err))
		}
	}()

	existing, err := c.store.ListRecords(ctx, opts.InventarID)
	if err != nil {
		return nil, &PersistedReadError{InventarID: opts.InventarID, Err: err}
	}

	seq := opts.SequenceNumber
	if seq == 0 {
		seq = NextSequenceNumber(existing)
	}
	if err := parser.ValidateRecord(seq, opts.Fields); err != nil {
		return nil, err
	}
	if err := ValidateNextNumber(existing, seq); err != nil {
		return nil, err
	}

	rec := &model.CaseRecord{
		InventarID:     opts.InventarID,
		SequenceNumber: seq,
		CreatedBy:      opts.User,
		RecordFields:   opts.Fields,
	}
	if _, err := c.store.InsertRecord(ctx, rec); err != nil {
		return nil, &WriteFailureError{Sequence: seq, Op: string(model.DecisionInsert), Err: err}
	}

	c.logger.Info("dosar added", zap.String("inventar_id", opts.InventarID), zap.Int("nr_crt", seq))
	c.audit(ctx, opts.User, "INSERT", rec.ID, map[string]any{
		"inventar_id": opts.InventarID,
		"nr_crt":      seq,
	})
	return rec, nil
}

// sendProgress 发送进度（非阻塞）
func (c *Coordinator) sendProgress(ch chan<- ProgressEvent, event ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- event:
	default:
		// 通道满了，跳过
	}
}

func (c *Coordinator) openImportLog(ctx context.Context, report *model.ImportReport) int64 {
	if c.journal == nil {
		return 0
	}
	id, err := c.journal.CreateImportLog(ctx, report.RunID, report.InventarID, report.Filename)
	if err != nil {
		c.logger.Warn("create import log failed", zap.Error(err))
		return 0
	}
	return id
}

func (c *Coordinator) setImportLogMapping(ctx context.Context, id int64, headerRow int, columns parser.ColumnMap) {
	if c.journal == nil || id == 0 {
		return
	}
	if err := c.journal.SetImportLogMapping(ctx, id, headerRow, columns); err != nil {
		c.logger.Warn("update import log mapping failed", zap.Error(err))
	}
}

func (c *Coordinator) closeImportLog(ctx context.Context, id int64, report *model.ImportReport, status string) {
	if c.journal == nil || id == 0 {
		return
	}
	if err := c.journal.UpdateImportLog(context.WithoutCancel(ctx), id, report.ImportCounts, status, report.Error); err != nil {
		c.logger.Warn("update import log failed", zap.Error(err))
	}
}

func (c *Coordinator) audit(ctx context.Context, user, action, recordID string, details map[string]any) {
	if c.journal == nil {
		return
	}
	b, _ := json.Marshal(details)
	entry := model.AuditEntry{
		Username:  user,
		Action:    action,
		TableName: "dosare",
		RecordID:  recordID,
		Details:   string(b),
	}
	if entry.Username == "" {
		entry.Username = "anonymous"
	}
	if err := c.journal.InsertAuditLog(context.WithoutCancel(ctx), entry); err != nil {
		c.logger.Warn("insert audit log failed", zap.Error(err))
	}
}
