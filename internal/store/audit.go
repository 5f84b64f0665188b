package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"archivist/internal/model"
)

// InsertAuditLog 写入审计日志
func (s *Store) InsertAuditLog(ctx context.Context, e model.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, username, action, table_name, record_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Username, e.Action, nullText(e.TableName), nullText(e.RecordID), nullText(e.Details), e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// ListAuditLogs 最近的审计日志（按时间倒序）
func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, action, COALESCE(table_name, ''), COALESCE(record_id, ''), COALESCE(details, ''), created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit logs failed: %w", err)
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.TableName, &e.RecordID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log failed: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteAuditLogsBefore 删除早于 cutoff 的审计日志，返回删除条数
func (s *Store) DeleteAuditLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit logs: %w", err)
	}
	return res.RowsAffected()
}
