package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"archivist/internal/model"
	sqlstore "archivist/internal/store"
)

// MemoryStore 内存案卷存储，实现 RecordStore 与 Transactor
// 用于测试与演示，可按顺序号注入写入失败
type MemoryStore struct {
	records map[string]*model.CaseRecord // id -> record
	failOn  map[int]error                // nr_crt -> 写入时返回的错误
	txMu    sync.Mutex
	mu      sync.RWMutex
}

var (
	_ sqlstore.RecordStore = (*MemoryStore)(nil)
	_ sqlstore.Transactor  = (*MemoryStore)(nil)
)

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*model.CaseRecord),
		failOn:  make(map[int]error),
	}
}

// FailOnSequence 写入指定顺序号时返回 err；err 为 nil 时取消
func (s *MemoryStore) FailOnSequence(seq int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.failOn, seq)
		return
	}
	s.failOn[seq] = err
}

// ListRecords 获取清册下全部案卷（按 nr_crt 升序）
func (s *MemoryStore) ListRecords(_ context.Context, inventarID string) ([]model.CaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.CaseRecord, 0)
	for _, r := range s.records {
		if r.InventarID == inventarID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SequenceNumber < result[j].SequenceNumber
	})
	return result, nil
}

// InsertRecord 添加案卷，(inventar, nr_crt) 重复时报错
func (s *MemoryStore) InsertRecord(ctx context.Context, rec *model.CaseRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failOn[rec.SequenceNumber]; ok {
		return "", err
	}
	for _, r := range s.records {
		if r.InventarID == rec.InventarID && r.SequenceNumber == rec.SequenceNumber {
			return "", fmt.Errorf("dosar %d already exists in inventar %s", rec.SequenceNumber, rec.InventarID)
		}
	}

	stored := *rec
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	s.records[stored.ID] = &stored

	rec.ID = stored.ID
	rec.CreatedAt = stored.CreatedAt
	return stored.ID, nil
}

// UpdateRecord 覆盖案卷可变字段
func (s *MemoryStore) UpdateRecord(ctx context.Context, id string, fields model.RecordFields) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("dosar %s: %w", id, sqlstore.ErrNotFound)
	}
	if err, ok := s.failOn[r.SequenceNumber]; ok {
		return err
	}
	r.RecordFields = fields
	return nil
}

// WithTx 串行执行 fn；fn 失败时恢复到执行前的快照
func (s *MemoryStore) WithTx(ctx context.Context, fn func(w sqlstore.RecordWriter) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

// Count 获取案卷总数
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear 清空存储
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*model.CaseRecord)
}

func (s *MemoryStore) snapshot() map[string]model.CaseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]model.CaseRecord, len(s.records))
	for id, r := range s.records {
		snap[id] = *r
	}
	return snap
}

func (s *MemoryStore) restore(snap map[string]model.CaseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*model.CaseRecord, len(snap))
	for id, r := range snap {
		r := r
		s.records[id] = &r
	}
}
