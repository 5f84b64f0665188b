package model

import "time"

// Fonds 档案全宗
type Fonds struct {
	ID        string    `json:"id"`
	Name      string    `json:"nume"`
	CreatedAt time.Time `json:"createdAt"`
}

// Department 全宗下的部门（compartiment）
type Department struct {
	ID        string    `json:"id"`
	FondsID   string    `json:"fondId"`
	Name      string    `json:"nume"`
	CreatedAt time.Time `json:"createdAt"`
}

// Inventory 部门的年度清册（inventar）
type Inventory struct {
	ID            string    `json:"id"`
	DepartmentID  string    `json:"compartimentId"`
	Year          int       `json:"an"`
	RetentionTerm string    `json:"termenPastrare"`
	CachedCount   int       `json:"numarDosare"` // 历史冗余字段，统计时不可信
	CreatedAt     time.Time `json:"createdAt"`
}

// InventoryInfo 清册及其上级名称（用于文档抬头）
type InventoryInfo struct {
	Inventory
	DepartmentName string `json:"compartiment"`
	FondsID        string `json:"fondId"`
	FondsName      string `json:"fond"`
}

// RegistryEntry 清册登记簿中的一行
type RegistryEntry struct {
	InventoryID    string `json:"inventarId"`
	Year           int    `json:"an"`
	DepartmentName string `json:"compartiment"`
	RecordCount    int    `json:"numarDosare"` // 由实际案卷计数得到
	RetentionTerm  string `json:"termenPastrare"`
}
