package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archivist/internal/model"
	memstore "archivist/internal/service/store"
)

func batchAB() []model.ImportRow {
	return []model.ImportRow{
		{RowNo: 2, SequenceNumber: 1, RecordFields: model.RecordFields{NomenclatureCode: "A1", Content: "Txt A", DateRange: "2001"}},
		{RowNo: 3, SequenceNumber: 2, RecordFields: model.RecordFields{NomenclatureCode: "A2", Content: "Txt B", DateRange: "2002"}},
	}
}

func reconcile(t *testing.T, st *memstore.MemoryStore, rows []model.ImportRow, overwrite bool) (model.ImportCounts, error) {
	t.Helper()
	ctx := context.Background()
	persisted, err := st.ListRecords(ctx, "inv-1")
	require.NoError(t, err)
	return NewReconciler(nil).Reconcile(ctx, st, ReconcileInput{
		InventarID: "inv-1",
		Rows:       rows,
		Persisted:  persisted,
		Overwrite:  overwrite,
	})
}

func TestPlan_AscendingDecisions(t *testing.T) {
	t.Parallel()

	rows := []model.ImportRow{{SequenceNumber: 3}, {SequenceNumber: 1}, {SequenceNumber: 2}}
	persisted := []model.CaseRecord{{ID: "r2", SequenceNumber: 2}}

	steps := Plan(rows, persisted, false)
	require.Len(t, steps, 3)
	assert.Equal(t, 1, steps[0].Row.SequenceNumber)
	assert.Equal(t, model.DecisionInsert, steps[0].Decision)
	assert.Equal(t, model.DecisionSkip, steps[1].Decision)
	assert.Equal(t, "r2", steps[1].TargetID)
	assert.Equal(t, model.DecisionInsert, steps[2].Decision)

	steps = Plan(rows, persisted, true)
	assert.Equal(t, model.DecisionUpdate, steps[1].Decision)
}

func TestReconcile_InsertThenSkipOnReimport(t *testing.T) {
	t.Parallel()
	st := memstore.NewMemoryStore()

	counts, err := reconcile(t, st, batchAB(), false)
	require.NoError(t, err)
	assert.Equal(t, model.ImportCounts{Inserted: 2}, counts)

	counts, err = reconcile(t, st, batchAB(), false)
	require.NoError(t, err)
	assert.Equal(t, model.ImportCounts{Skipped: 2}, counts)
	assert.Equal(t, 2, st.Count())
}

func TestReconcile_OverwriteUpdatesFieldsKeepsSequence(t *testing.T) {
	t.Parallel()
	st := memstore.NewMemoryStore()

	_, err := reconcile(t, st, batchAB(), false)
	require.NoError(t, err)

	changed := batchAB()
	changed[0].Content = "Txt A revizuit"
	counts, err := reconcile(t, st, changed, true)
	require.NoError(t, err)
	assert.Equal(t, model.ImportCounts{Updated: 2}, counts)

	got, err := st.ListRecords(context.Background(), "inv-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].SequenceNumber)
	assert.Equal(t, "Txt A revizuit", got[0].Content)
}

func TestEffectiveOverwrite_RequiresFullAccess(t *testing.T) {
	t.Parallel()

	assert.False(t, EffectiveOverwrite(true, Capability{}))
	assert.False(t, EffectiveOverwrite(false, Capability{FullAccess: true}))
	assert.True(t, EffectiveOverwrite(true, Capability{FullAccess: true}))

	// 无权限时请求覆盖，与关闭覆盖的结果相同
	st := memstore.NewMemoryStore()
	_, err := reconcile(t, st, batchAB(), false)
	require.NoError(t, err)
	counts, err := reconcile(t, st, batchAB(), EffectiveOverwrite(true, Capability{}))
	require.NoError(t, err)
	assert.Equal(t, model.ImportCounts{Skipped: 2}, counts)
}

func TestReconcile_StopsAtFirstWriteFailure(t *testing.T) {
	t.Parallel()
	st := memstore.NewMemoryStore()
	boom := errors.New("quota exceeded")
	st.FailOnSequence(2, boom)

	rows := append(batchAB(), model.ImportRow{SequenceNumber: 3, RecordFields: model.RecordFields{NomenclatureCode: "A3", Content: "Txt C", DateRange: "2003"}})
	counts, err := reconcile(t, st, rows, false)

	var wf *WriteFailureError
	require.ErrorAs(t, err, &wf)
	assert.Equal(t, 2, wf.Sequence)
	assert.ErrorIs(t, err, ErrWriteFailure)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, model.ImportCounts{Inserted: 1}, counts)
	// 未使用事务时，失败前的写入保留
	assert.Equal(t, 1, st.Count())
}
