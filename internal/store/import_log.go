package store

import (
	"context"
	"encoding/json"
	"fmt"

	"archivist/internal/model"
)

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(ctx context.Context, runID, inventarID, filename string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (run_id, inventar_id, filename, status)
		VALUES (?, ?, ?, 'processing')
	`, runID, inventarID, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// SetImportLogMapping 记录识别出的表头行与列映射（用于追溯）
func (s *Store) SetImportLogMapping(ctx context.Context, id int64, headerRow int, mapping any) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET header_row = ?, column_mapping_json = ? WHERE id = ?
	`, headerRow, BuildMappingJSON(mapping), id)
	if err != nil {
		return fmt.Errorf("failed to update import log mapping: %w", err)
	}
	return nil
}

// UpdateImportLog 完成导入日志更新
func (s *Store) UpdateImportLog(ctx context.Context, id int64, counts model.ImportCounts, status, errorMessage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			inserted = ?,
			updated = ?,
			skipped = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, counts.Inserted, counts.Updated, counts.Skipped, status, nullText(errorMessage), id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// GetImportLog 读取导入日志
func (s *Store) GetImportLog(ctx context.Context, id int64) (*model.ImportLog, error) {
	var l model.ImportLog
	err := s.db.QueryRowContext(ctx, `
		SELECT id, run_id, inventar_id, COALESCE(filename, ''), status, inserted, updated, skipped,
			COALESCE(error_message, ''), created_at
		FROM import_logs WHERE id = ?
	`, id).Scan(&l.ID, &l.RunID, &l.InventarID, &l.Filename, &l.Status, &l.Inserted, &l.Updated, &l.Skipped, &l.ErrorMsg, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get import log: %w", err)
	}
	return &l, nil
}

// BuildMappingJSON 将列映射序列化为 JSON（避免上层重复处理）
func BuildMappingJSON(mapping any) string {
	b, err := json.Marshal(mapping)
	if err != nil {
		return "{}"
	}
	return string(b)
}
