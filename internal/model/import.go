package model

import "time"

// ImportRow 导入候选行（仅存在于一次导入过程中）
type ImportRow struct {
	RowNo          int `json:"rowNo"` // 源表中的行号（1 起）
	SequenceNumber int `json:"nrCrt"`

	RecordFields
}

// Decision 对账决策
type Decision string

const (
	DecisionInsert Decision = "insert"
	DecisionUpdate Decision = "update"
	DecisionSkip   Decision = "skip"
)

// ImportCounts 对账计数
type ImportCounts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// Total 已处理行数
func (c ImportCounts) Total() int {
	return c.Inserted + c.Updated + c.Skipped
}

// ImportReport 导入报告
type ImportReport struct {
	RunID       string        `json:"runId"`
	InventarID  string        `json:"inventarId"`
	Filename    string        `json:"filename"`
	HeaderRow   int           `json:"headerRow"`
	TotalRows   int           `json:"totalRows"`
	Overwrite   bool          `json:"overwrite"` // 实际生效的覆盖开关
	Atomic      bool          `json:"atomic"`
	Committed   bool          `json:"committed"`
	FailedNrCrt int           `json:"failedNrCrt,omitempty"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`

	ImportCounts
}

// ImportLog 导入日志
type ImportLog struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"runId"`
	InventarID  string    `json:"inventarId"`
	Filename    string    `json:"filename"`
	Status      string    `json:"status"` // processing/success/failed
	Inserted    int       `json:"inserted"`
	Updated     int       `json:"updated"`
	Skipped     int       `json:"skipped"`
	ErrorMsg    string    `json:"errorMessage,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	CompletedAt time.Time `json:"completedAt"`
}
