package importer

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"archivist/internal/logging"
	"archivist/internal/model"
	"archivist/internal/store"
)

// Capability 调用方的权限
type Capability struct {
	FullAccess bool
}

// EffectiveOverwrite 只有持有提升权限时覆盖开关才生效
func EffectiveOverwrite(requested bool, c Capability) bool {
	return requested && c.FullAccess
}

// Step 单行对账决策
type Step struct {
	Row      model.ImportRow
	Decision model.Decision
	TargetID string // update/skip 时对应的已存案卷
}

// Plan 计算对账决策（纯函数，按顺序号升序）
func Plan(rows []model.ImportRow, persisted []model.CaseRecord, overwrite bool) []Step {
	bySeq := make(map[int]string, len(persisted))
	for _, p := range persisted {
		bySeq[p.SequenceNumber] = p.ID
	}

	sorted := make([]model.ImportRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceNumber < sorted[j].SequenceNumber
	})

	steps := make([]Step, 0, len(sorted))
	for _, r := range sorted {
		id, exists := bySeq[r.SequenceNumber]
		switch {
		case !exists:
			steps = append(steps, Step{Row: r, Decision: model.DecisionInsert})
		case overwrite:
			steps = append(steps, Step{Row: r, Decision: model.DecisionUpdate, TargetID: id})
		default:
			steps = append(steps, Step{Row: r, Decision: model.DecisionSkip, TargetID: id})
		}
	}
	return steps
}

// Reconciler 对账引擎
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler 创建对账引擎
func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logging.OrNop(logger)}
}

// ReconcileInput 对账输入
type ReconcileInput struct {
	InventarID string
	Rows       []model.ImportRow
	Persisted  []model.CaseRecord
	Overwrite  bool // 已按权限折算后的覆盖开关
	CreatedBy  string
}

// Reconcile 按决策逐行写入；首个写入失败即停止，返回已完成的计数与 *WriteFailureError
func (r *Reconciler) Reconcile(ctx context.Context, w store.RecordWriter, in ReconcileInput) (model.ImportCounts, error) {
	var counts model.ImportCounts

	for _, step := range Plan(in.Rows, in.Persisted, in.Overwrite) {
		seq := step.Row.SequenceNumber
		switch step.Decision {
		case model.DecisionInsert:
			rec := &model.CaseRecord{
				InventarID:     in.InventarID,
				SequenceNumber: seq,
				CreatedBy:      in.CreatedBy,
				RecordFields:   step.Row.RecordFields,
			}
			if _, err := w.InsertRecord(ctx, rec); err != nil {
				r.logger.Warn("insert dosar failed", zap.String("inventar_id", in.InventarID), zap.Int("nr_crt", seq), zap.Error(err))
				return counts, &WriteFailureError{Sequence: seq, Op: string(model.DecisionInsert), Err: err}
			}
			counts.Inserted++
		case model.DecisionUpdate:
			if err := w.UpdateRecord(ctx, step.TargetID, step.Row.RecordFields); err != nil {
				r.logger.Warn("update dosar failed", zap.String("inventar_id", in.InventarID), zap.Int("nr_crt", seq), zap.Error(err))
				return counts, &WriteFailureError{Sequence: seq, Op: string(model.DecisionUpdate), Err: err}
			}
			counts.Updated++
		case model.DecisionSkip:
			counts.Skipped++
		}
	}
	return counts, nil
}
