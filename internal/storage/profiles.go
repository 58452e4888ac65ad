package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventdesk/internal/core"
)

const profileColumns = `id, email, full_name, password_hash, created_at, updated_at`

func scanProfile(row scanner) (core.Profile, error) {
	var (
		p                core.Profile
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.PasswordHash, &created, &updated); err != nil {
		return core.Profile{}, err
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// CreateProfile assigns an id when p has none. Emails are unique
// case-insensitively.
func (r *SQLiteRepository) CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	now := r.now()
	if p.ID == "" {
		p.ID = newID()
	}
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.FullName, p.PasswordHash, formatTime(now), formatTime(now),
	)
	if isUniqueViolation(err) {
		return core.Profile{}, core.ErrEmailExists
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id string) (core.Profile, error) {
	return r.getProfile(ctx, `id = ?`, id)
}

func (r *SQLiteRepository) GetProfileByEmail(ctx context.Context, email string) (core.Profile, error) {
	return r.getProfile(ctx, `email = ?`, email)
}

func (r *SQLiteRepository) getProfile(ctx context.Context, where string, arg any) (core.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE `+where, arg)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, core.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) UpdateProfileName(ctx context.Context, id, fullName string) error {
	err := mustAffect(r.db.ExecContext(ctx,
		`UPDATE profiles SET full_name = ?, updated_at = ? WHERE id = ?`,
		fullName, formatTime(r.now()), id,
	))
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("update profile: %w", err)
	}
	return err
}
