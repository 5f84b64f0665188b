package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"archivist/internal/model"
)

// CreateFonds 创建全宗
func (s *Store) CreateFonds(ctx context.Context, name string) (*model.Fonds, error) {
	f := &model.Fonds{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, `INSERT INTO fonduri (id, nume, created_at) VALUES (?, ?, ?)`, f.ID, f.Name, f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create fond: %w", err)
	}
	return f, nil
}

// GetFonds 获取全宗
func (s *Store) GetFonds(ctx context.Context, id string) (*model.Fonds, error) {
	var f model.Fonds
	err := s.db.QueryRowContext(ctx, `SELECT id, nume, created_at FROM fonduri WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fond %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fond: %w", err)
	}
	return &f, nil
}

// CreateDepartment 创建部门
func (s *Store) CreateDepartment(ctx context.Context, fondsID, name string) (*model.Department, error) {
	d := &model.Department{ID: uuid.NewString(), FondsID: fondsID, Name: name, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compartimente (id, fond_id, nume, created_at) VALUES (?, ?, ?, ?)
	`, d.ID, d.FondsID, d.Name, d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create compartiment: %w", err)
	}
	return d, nil
}

// GetDepartment 获取部门
func (s *Store) GetDepartment(ctx context.Context, id string) (*model.Department, error) {
	var d model.Department
	err := s.db.QueryRowContext(ctx, `SELECT id, fond_id, nume, created_at FROM compartimente WHERE id = ?`, id).
		Scan(&d.ID, &d.FondsID, &d.Name, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("compartiment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get compartiment: %w", err)
	}
	return &d, nil
}

// CreateInventory 创建年度清册
func (s *Store) CreateInventory(ctx context.Context, departmentID string, year int, retentionTerm string) (*model.Inventory, error) {
	inv := &model.Inventory{
		ID:            uuid.NewString(),
		DepartmentID:  departmentID,
		Year:          year,
		RetentionTerm: retentionTerm,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventare (id, compartiment_id, an, termen_pastrare, created_at) VALUES (?, ?, ?, ?, ?)
	`, inv.ID, inv.DepartmentID, inv.Year, inv.RetentionTerm, inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventar: %w", err)
	}
	return inv, nil
}

// SetCachedCount 写入清册的冗余计数字段（仅为兼容旧数据）
func (s *Store) SetCachedCount(ctx context.Context, inventarID string, n int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE inventare SET numar_dosare = ? WHERE id = ?`, n, inventarID)
	if err != nil {
		return fmt.Errorf("failed to update numar_dosare: %w", err)
	}
	return nil
}

// GetInventoryInfo 获取清册及部门、全宗名称
func (s *Store) GetInventoryInfo(ctx context.Context, inventarID string) (*model.InventoryInfo, error) {
	var info model.InventoryInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT i.id, i.compartiment_id, i.an, i.termen_pastrare, i.numar_dosare, i.created_at,
			c.nume, f.id, f.nume
		FROM inventare i
		JOIN compartimente c ON c.id = i.compartiment_id
		JOIN fonduri f ON f.id = c.fond_id
		WHERE i.id = ?
	`, inventarID).Scan(
		&info.ID, &info.DepartmentID, &info.Year, &info.RetentionTerm, &info.CachedCount, &info.CreatedAt,
		&info.DepartmentName, &info.FondsID, &info.FondsName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("inventar %s: %w", inventarID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventar: %w", err)
	}
	return &info, nil
}

// ListRegistryEntries 列出全宗下所有清册（按年份升序），案卷数量实时统计
func (s *Store) ListRegistryEntries(ctx context.Context, fondsID string) ([]model.RegistryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.an, c.nume, i.termen_pastrare,
			(SELECT COUNT(1) FROM dosare d WHERE d.inventar_id = i.id) AS record_count
		FROM inventare i
		JOIN compartimente c ON c.id = i.compartiment_id
		WHERE c.fond_id = ?
		ORDER BY i.an ASC, c.nume ASC, i.created_at ASC
	`, fondsID)
	if err != nil {
		return nil, fmt.Errorf("query registry failed: %w", err)
	}
	defer rows.Close()

	var out []model.RegistryEntry
	for rows.Next() {
		var e model.RegistryEntry
		if err := rows.Scan(&e.InventoryID, &e.Year, &e.DepartmentName, &e.RetentionTerm, &e.RecordCount); err != nil {
			return nil, fmt.Errorf("scan registry failed: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registry failed: %w", err)
	}
	return out, nil
}
