package exporter

import (
	"context"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"archivist/internal/logging"
	"archivist/internal/metrics"
	"archivist/internal/model"
)

// DataSource 文档生成读取的数据
type DataSource interface {
	GetInventoryInfo(ctx context.Context, inventarID string) (*model.InventoryInfo, error)
	ListRecords(ctx context.Context, inventarID string) ([]model.CaseRecord, error)
	GetFonds(ctx context.Context, id string) (*model.Fonds, error)
	ListRegistryEntries(ctx context.Context, fondsID string) ([]model.RegistryEntry, error)
}

// Options 导出器配置
type Options struct {
	LabelTemplatePath    string // 为空时使用内置骨架
	RegistryTemplatePath string
	Logger               *zap.Logger
}

// Exporter 标签、登记簿与清册导出
//
// 文档完整写入内存后才返回；任何失败都不产生部分输出。
type Exporter struct {
	source               DataSource
	labelTemplatePath    string
	registryTemplatePath string
	logger               *zap.Logger
}

// NewExporter 创建导出器
func NewExporter(source DataSource, opts Options) *Exporter {
	return &Exporter{
		source:               source,
		labelTemplatePath:    strings.TrimSpace(opts.LabelTemplatePath),
		registryTemplatePath: strings.TrimSpace(opts.RegistryTemplatePath),
		logger:               logging.OrNop(opts.Logger),
	}
}

// Labels 生成清册的书脊与封面标签
func (e *Exporter) Labels(ctx context.Context, inventarID string, format SpineFormat) ([]byte, error) {
	// 先加载模板，失败时不读取任何数据
	f, err := e.openLabelTemplate(format)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := e.source.GetInventoryInfo(ctx, inventarID)
	if err != nil {
		return nil, err
	}
	records, err := e.source.ListRecords(ctx, inventarID)
	if err != nil {
		return nil, err
	}

	if err := BuildLabels(f, *info, records, format); err != nil {
		return nil, err
	}
	out, err := render(f, "labels")
	if err != nil {
		return nil, err
	}

	e.logger.Info("labels generated",
		zap.String("inventar_id", inventarID),
		zap.String("format", format.Name),
		zap.Int("records", len(records)),
		zap.Int("spine_pages", PageCount(len(records), format.PerPage)),
		zap.Int("cover_pages", PageCount(len(records), CoverPerPage)),
	)
	metrics.ObserveDocument("labels")
	return out, nil
}

// Registry 生成全宗的清册登记簿
func (e *Exporter) Registry(ctx context.Context, fondsID string) ([]byte, error) {
	f, err := e.openRegistryTemplate()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fonds, err := e.source.GetFonds(ctx, fondsID)
	if err != nil {
		return nil, err
	}
	entries, err := e.source.ListRegistryEntries(ctx, fondsID)
	if err != nil {
		return nil, err
	}

	if err := BuildRegistry(f, *fonds, entries); err != nil {
		return nil, err
	}
	out, err := render(f, "registry")
	if err != nil {
		return nil, err
	}

	e.logger.Info("registry generated", zap.String("fond_id", fondsID), zap.Int("inventories", len(entries)))
	metrics.ObserveDocument("registry")
	return out, nil
}

// Inventory 导出可重新导入的清册工作簿
func (e *Exporter) Inventory(ctx context.Context, inventarID string) ([]byte, error) {
	info, err := e.source.GetInventoryInfo(ctx, inventarID)
	if err != nil {
		return nil, err
	}
	records, err := e.source.ListRecords(ctx, inventarID)
	if err != nil {
		return nil, err
	}

	f, err := BuildInventory(*info, records)
	if err != nil {
		return nil, &DocumentWriteError{Kind: "export", Err: err}
	}
	defer f.Close()

	out, err := render(f, "export")
	if err != nil {
		return nil, err
	}

	e.logger.Info("inventory exported", zap.String("inventar_id", inventarID), zap.Int("records", len(records)))
	metrics.ObserveDocument("export")
	return out, nil
}

func (e *Exporter) openLabelTemplate(format SpineFormat) (*excelize.File, error) {
	if e.labelTemplatePath == "" {
		return NewLabelTemplate(format), nil
	}
	return OpenTemplate(e.labelTemplatePath, SpineTemplateSheet, CoverTemplateSheet)
}

func (e *Exporter) openRegistryTemplate() (*excelize.File, error) {
	if e.registryTemplatePath == "" {
		return NewRegistryTemplate(), nil
	}
	return OpenTemplate(e.registryTemplatePath, RegistryTemplateSheet)
}
