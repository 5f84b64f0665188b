package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"archivist/internal/model"
)

// UpsertProfile 创建或更新用户档案
func (s *Store) UpsertProfile(ctx context.Context, username string, fullAccess bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, username, full_access) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET full_access = excluded.full_access
	`, uuid.NewString(), username, fullAccess)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetProfileByUsername 按用户名查询档案
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error) {
	var p model.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, full_access FROM profiles WHERE username = ?
	`, username).Scan(&p.ID, &p.Username, &p.FullAccess)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// CountFullAccessProfiles 持有提升权限的档案数量
func (s *Store) CountFullAccessProfiles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM profiles WHERE full_access = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return n, nil
}
