package model

import "time"

// CaseRecord 案卷（dosar）：某一年度清册中的一个实体卷宗
type CaseRecord struct {
	ID             string    `json:"id"`             // 由存储层在创建时分配
	InventarID     string    `json:"inventarId"`     // 所属年度清册
	SequenceNumber int       `json:"nrCrt"`          // 清册内顺序号，1..N 连续
	CreatedBy      string    `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	RecordFields
}

// RecordFields 案卷可变字段（更新时整体覆盖，顺序号不在其中）
type RecordFields struct {
	NomenclatureCode string  `json:"indicativNomenclator"`
	Content          string  `json:"continut"`
	DateRange        string  `json:"dateExtreme"`
	PageCount        *int    `json:"numarFile,omitempty"`
	BoxNumber        *int    `json:"nrCutie,omitempty"`
	Notes            *string `json:"observatii,omitempty"`
}

// Equal 比较两组可变字段是否一致
func (f RecordFields) Equal(o RecordFields) bool {
	return f.NomenclatureCode == o.NomenclatureCode &&
		f.Content == o.Content &&
		f.DateRange == o.DateRange &&
		equalIntPtr(f.PageCount, o.PageCount) &&
		equalIntPtr(f.BoxNumber, o.BoxNumber) &&
		equalStringPtr(f.Notes, o.Notes)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// IntPtr 返回整数指针
func IntPtr(v int) *int { return &v }

// StringPtr 返回字符串指针
func StringPtr(v string) *string { return &v }
