package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"archivist/internal/model"
	sqlstore "archivist/internal/store"
)

func newRecord(seq int) *model.CaseRecord {
	return &model.CaseRecord{
		InventarID:     "inv-1",
		SequenceNumber: seq,
		RecordFields: model.RecordFields{
			NomenclatureCode: "A1",
			Content:          "Registru",
			DateRange:        "2001",
		},
	}
}

// TestNewMemoryStore 测试创建存储
func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if store == nil {
		t.Fatal("NewMemoryStore() returned nil")
	}
	if store.Count() != 0 {
		t.Errorf("New store should be empty, got %d records", store.Count())
	}
}

// TestInsertAndList 测试添加与有序读取
func TestInsertAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, seq := range []int{2, 3, 1} {
		if _, err := store.InsertRecord(ctx, newRecord(seq)); err != nil {
			t.Fatalf("InsertRecord(%d) failed: %v", seq, err)
		}
	}

	got, err := store.ListRecords(ctx, "inv-1")
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListRecords returned %d records, want 3", len(got))
	}
	for i, r := range got {
		if r.SequenceNumber != i+1 {
			t.Errorf("record %d has nr_crt %d", i, r.SequenceNumber)
		}
		if r.ID == "" {
			t.Errorf("record %d has no id", i)
		}
	}

	other, _ := store.ListRecords(ctx, "inv-2")
	if len(other) != 0 {
		t.Errorf("other inventar should be empty, got %d", len(other))
	}
}

// TestInsertDuplicateSequence 测试重复顺序号
func TestInsertDuplicateSequence(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.InsertRecord(ctx, newRecord(1)); err != nil {
		t.Fatalf("InsertRecord failed: %v", err)
	}
	if _, err := store.InsertRecord(ctx, newRecord(1)); err == nil {
		t.Error("InsertRecord should reject duplicate nr_crt")
	}
}

// TestUpdateRecordNotFound 测试更新不存在的案卷
func TestUpdateRecordNotFound(t *testing.T) {
	store := NewMemoryStore()

	err := store.UpdateRecord(context.Background(), "non-existent", model.RecordFields{})
	if !errors.Is(err, sqlstore.ErrNotFound) {
		t.Errorf("UpdateRecord error = %v, want ErrNotFound", err)
	}
}

// TestWithTxRestoresOnError 测试事务失败回滚
func TestWithTxRestoresOnError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := newRecord(1)
	if _, err := store.InsertRecord(ctx, rec); err != nil {
		t.Fatalf("InsertRecord failed: %v", err)
	}

	boom := errors.New("disk full")
	store.FailOnSequence(3, boom)

	err := store.WithTx(ctx, func(w sqlstore.RecordWriter) error {
		if err := w.UpdateRecord(ctx, rec.ID, model.RecordFields{Content: "Modificat"}); err != nil {
			return err
		}
		if _, err := w.InsertRecord(ctx, newRecord(2)); err != nil {
			return err
		}
		_, err := w.InsertRecord(ctx, newRecord(3))
		return err
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want %v", err, boom)
	}

	got, _ := store.ListRecords(ctx, "inv-1")
	if len(got) != 1 {
		t.Fatalf("after rollback got %d records, want 1", len(got))
	}
	if got[0].Content != "Registru" {
		t.Errorf("after rollback content = %q, want original", got[0].Content)
	}

	store.FailOnSequence(3, nil)
	if _, err := store.InsertRecord(ctx, newRecord(3)); err != nil {
		t.Errorf("InsertRecord after clearing fault failed: %v", err)
	}
}

// TestConcurrentAccess 测试并发访问
func TestConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			_, _ = store.InsertRecord(ctx, newRecord(seq))
		}(i)
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.ListRecords(ctx, "inv-1")
		}()
	}
	wg.Wait()

	if store.Count() != 100 {
		t.Errorf("Store should have 100 records, got %d", store.Count())
	}

	store.Clear()
	if store.Count() != 0 {
		t.Errorf("Store should be empty after Clear, got %d", store.Count())
	}
}
