package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventdesk/internal/core"
	"eventdesk/internal/session"
)

const clientColumns = `id, name, email, phone, company, address, owner, created_at, updated_at`

func scanClient(row scanner) (core.Client, error) {
	var (
		c                core.Client
		company, address sql.NullString
		created, updated string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &company, &address, &c.Owner, &created, &updated); err != nil {
		return core.Client{}, err
	}
	c.Company = company.String
	c.Address = address.String
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(updated)
	return c, nil
}

func (r *SQLiteRepository) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	now := r.now()
	c.ID = newID()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, nullable(c.Company), nullable(c.Address), c.Owner,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return core.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetClient(ctx context.Context, s session.Scope, id string) (core.Client, error) {
	clause, args := ownerClause(s, "owner")
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Client{}, core.ErrNotFound
	}
	if err != nil {
		return core.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// ListClients returns clients newest first. Query matches name, email or
// company.
func (r *SQLiteRepository) ListClients(ctx context.Context, s session.Scope, f ListFilter) ([]core.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE 1 = 1`
	clause, args := ownerClause(s, "owner")
	query += clause
	if f.Query != "" {
		p := likePattern(f.Query)
		query += ` AND (name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR company LIKE ? ESCAPE '\')`
		args = append(args, p, p, p)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []core.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *SQLiteRepository) UpdateClient(ctx context.Context, s session.Scope, c core.Client) (core.Client, error) {
	clause, args := ownerClause(s, "owner")
	now := r.now()
	err := mustAffect(r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, email = ?, phone = ?, company = ?, address = ?, updated_at = ?
		 WHERE id = ?`+clause,
		append([]any{c.Name, c.Email, c.Phone, nullable(c.Company), nullable(c.Address), formatTime(now), c.ID}, args...)...,
	))
	if errors.Is(err, core.ErrNotFound) {
		return core.Client{}, err
	}
	if err != nil {
		return core.Client{}, fmt.Errorf("update client: %w", err)
	}
	return r.GetClient(ctx, s, c.ID)
}

// DeleteClient fails with ErrInUse while events still reference the client.
func (r *SQLiteRepository) DeleteClient(ctx context.Context, s session.Scope, id string) error {
	clause, args := ownerClause(s, "owner")
	err := mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM clients WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	))
	switch {
	case err == nil, errors.Is(err, core.ErrNotFound):
		return err
	case isForeignKeyViolation(err):
		return core.ErrInUse
	}
	return fmt.Errorf("delete client: %w", err)
}
