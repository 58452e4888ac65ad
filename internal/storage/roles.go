package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventdesk/internal/core"
)

// GetRole returns ErrNotFound when the user has no role row.
func (r *SQLiteRepository) GetRole(ctx context.Context, userID string) (core.Role, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM user_roles WHERE user_id = ?`, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get role: %w", err)
	}
	return core.Role(role), nil
}

// UpsertRole inserts or replaces the role row for userID.
func (r *SQLiteRepository) UpsertRole(ctx context.Context, userID string, role core.Role) error {
	now := formatTime(r.now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET role = excluded.role, updated_at = excluded.updated_at`,
		userID, string(role), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}
