package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"archivist/internal/model"
)

// ListRecords 获取清册下全部案卷（按 nr_crt 升序）
func (s *Store) ListRecords(ctx context.Context, inventarID string) ([]model.CaseRecord, error) {
	return listRecords(ctx, s.db, inventarID)
}

// InsertRecord 插入案卷，ID 由存储层分配
func (s *Store) InsertRecord(ctx context.Context, rec *model.CaseRecord) (string, error) {
	return insertRecord(ctx, s.db, rec)
}

// UpdateRecord 覆盖案卷的可变字段（nr_crt 不变）
func (s *Store) UpdateRecord(ctx context.Context, id string, fields model.RecordFields) error {
	return updateRecord(ctx, s.db, id, fields)
}

// CountRecords 统计清册下的案卷数量
func (s *Store) CountRecords(ctx context.Context, inventarID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dosare WHERE inventar_id = ?`, inventarID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count dosare: %w", err)
	}
	return n, nil
}

// WithTx 在单个事务内执行写入；fn 返回错误时整体回滚
func (s *Store) WithTx(ctx context.Context, fn func(w RecordWriter) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txWriter{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txWriter 事务内的写入器
type txWriter struct {
	tx *sql.Tx
}

func (w *txWriter) InsertRecord(ctx context.Context, rec *model.CaseRecord) (string, error) {
	return insertRecord(ctx, w.tx, rec)
}

func (w *txWriter) UpdateRecord(ctx context.Context, id string, fields model.RecordFields) error {
	return updateRecord(ctx, w.tx, id, fields)
}

func listRecords(ctx context.Context, q execer, inventarID string) ([]model.CaseRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, inventar_id, nr_crt, indicativ_nomenclator, continut, date_extreme,
			numar_file, observatii, nr_cutie, COALESCE(created_by, ''), created_at
		FROM dosare
		WHERE inventar_id = ?
		ORDER BY nr_crt ASC
	`, inventarID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dosare: %w", err)
	}
	defer rows.Close()

	var out []model.CaseRecord
	for rows.Next() {
		var (
			r         model.CaseRecord
			pageCount sql.NullInt64
			notes     sql.NullString
			boxNumber sql.NullInt64
		)
		if err := rows.Scan(
			&r.ID, &r.InventarID, &r.SequenceNumber, &r.NomenclatureCode, &r.Content, &r.DateRange,
			&pageCount, &notes, &boxNumber, &r.CreatedBy, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dosar: %w", err)
		}
		if pageCount.Valid {
			r.PageCount = model.IntPtr(int(pageCount.Int64))
		}
		if boxNumber.Valid {
			r.BoxNumber = model.IntPtr(int(boxNumber.Int64))
		}
		if notes.Valid {
			r.Notes = model.StringPtr(notes.String)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dosare: %w", err)
	}
	return out, nil
}

func insertRecord(ctx context.Context, q execer, rec *model.CaseRecord) (string, error) {
	id := uuid.NewString()
	createdAt := time.Now().UTC()
	_, err := q.ExecContext(ctx, `
		INSERT INTO dosare (
			id, inventar_id, nr_crt, indicativ_nomenclator, continut, date_extreme,
			numar_file, observatii, nr_cutie, created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id, rec.InventarID, rec.SequenceNumber, rec.NomenclatureCode, rec.Content, rec.DateRange,
		nullInt(rec.PageCount), nullString(rec.Notes), nullInt(rec.BoxNumber), nullText(rec.CreatedBy), createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert dosar %d: %w", rec.SequenceNumber, err)
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	return id, nil
}

func updateRecord(ctx context.Context, q execer, id string, f model.RecordFields) error {
	res, err := q.ExecContext(ctx, `
		UPDATE dosare SET
			indicativ_nomenclator = ?,
			continut = ?,
			date_extreme = ?,
			numar_file = ?,
			observatii = ?,
			nr_cutie = ?
		WHERE id = ?
	`, f.NomenclatureCode, f.Content, f.DateRange, nullInt(f.PageCount), nullString(f.Notes), nullInt(f.BoxNumber), id)
	if err != nil {
		return fmt.Errorf("failed to update dosar %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dosar %s: %w", id, ErrNotFound)
	}
	return nil
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
