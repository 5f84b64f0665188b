package store

import (
	"context"

	"archivist/internal/model"
)

// RecordReader 读取某清册下的全部案卷（按顺序号升序）
type RecordReader interface {
	ListRecords(ctx context.Context, inventarID string) ([]model.CaseRecord, error)
}

// RecordWriter 单条写入，每次调用独立成败
type RecordWriter interface {
	InsertRecord(ctx context.Context, rec *model.CaseRecord) (string, error)
	UpdateRecord(ctx context.Context, id string, fields model.RecordFields) error
}

// RecordStore 对账引擎使用的数据存储契约
type RecordStore interface {
	RecordReader
	RecordWriter
}

// Transactor 支持把一组写入包裹为一个原子单元
type Transactor interface {
	WithTx(ctx context.Context, fn func(w RecordWriter) error) error
}
