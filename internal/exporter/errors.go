package exporter

import (
	"errors"
	"fmt"
)

var (
	ErrTemplateLoad  = errors.New("template load failure")
	ErrDocumentWrite = errors.New("document write failure")
	ErrNoRecords     = errors.New("no records to render")
)

// TemplateLoadError 模板加载失败（文件缺失、容器损坏或缺少模板 Sheet）
type TemplateLoadError struct {
	Path string
	Err  error
}

func (e *TemplateLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("șablonul documentului nu a putut fi încărcat: %v", e.Err)
	}
	return fmt.Sprintf("șablonul %s nu a putut fi încărcat: %v", e.Path, e.Err)
}

func (e *TemplateLoadError) Unwrap() []error { return []error{ErrTemplateLoad, e.Err} }

// DocumentWriteError 文档写出失败，不交付部分内容
type DocumentWriteError struct {
	Kind string
	Err  error
}

func (e *DocumentWriteError) Error() string {
	return fmt.Sprintf("documentul %s nu a putut fi generat: %v", e.Kind, e.Err)
}

func (e *DocumentWriteError) Unwrap() []error { return []error{ErrDocumentWrite, e.Err} }

// NoRecordsError 清册中没有案卷，无法生成标签
type NoRecordsError struct {
	InventarID string
}

func (e *NoRecordsError) Error() string {
	return "inventarul nu conține niciun dosar; nu există etichete de generat"
}

func (e *NoRecordsError) Unwrap() error { return ErrNoRecords }
