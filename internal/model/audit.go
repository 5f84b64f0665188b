package model

import "time"

// AuditEntry 审计日志
type AuditEntry struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	TableName string    `json:"tableName,omitempty"`
	RecordID  string    `json:"recordId,omitempty"`
	Details   string    `json:"details,omitempty"` // JSON
	CreatedAt time.Time `json:"createdAt"`
}

// Profile 用户档案；FullAccess 即提升权限（允许覆盖已有案卷）
type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullAccess bool   `json:"fullAccess"`
}
