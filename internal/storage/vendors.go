package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventdesk/internal/core"
	"eventdesk/internal/session"
)

const vendorColumns = `id, name, email, phone, service_category, services, pricing, availability, owner, created_at, updated_at`

func scanVendor(row scanner) (core.Vendor, error) {
	var (
		v                core.Vendor
		pricing          sql.NullString
		availability     string
		created, updated string
	)
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.ServiceCategory, &v.Services,
		&pricing, &availability, &v.Owner, &created, &updated)
	if err != nil {
		return core.Vendor{}, err
	}
	v.Pricing = pricing.String
	v.Availability = core.Availability(availability)
	v.CreatedAt = parseTime(created)
	v.UpdatedAt = parseTime(updated)
	return v, nil
}

func (r *SQLiteRepository) CreateVendor(ctx context.Context, v core.Vendor) (core.Vendor, error) {
	now := r.now()
	v.ID = newID()
	v.CreatedAt, v.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vendors (`+vendorColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Email, v.Phone, v.ServiceCategory, v.Services, nullable(v.Pricing),
		string(v.Availability), v.Owner, formatTime(now), formatTime(now),
	)
	if err != nil {
		return core.Vendor{}, fmt.Errorf("insert vendor: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) GetVendor(ctx context.Context, s session.Scope, id string) (core.Vendor, error) {
	clause, args := ownerClause(s, "owner")
	row := r.db.QueryRowContext(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	)
	v, err := scanVendor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Vendor{}, core.ErrNotFound
	}
	if err != nil {
		return core.Vendor{}, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// ListVendors returns vendors newest first. Query matches name or services,
// Category filters on service_category exactly.
func (r *SQLiteRepository) ListVendors(ctx context.Context, s session.Scope, f ListFilter) ([]core.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE 1 = 1`
	clause, args := ownerClause(s, "owner")
	query += clause
	if f.Query != "" {
		p := likePattern(f.Query)
		query += ` AND (name LIKE ? ESCAPE '\' OR services LIKE ? ESCAPE '\')`
		args = append(args, p, p)
	}
	if f.Category != "" {
		query += ` AND service_category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []core.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *SQLiteRepository) UpdateVendor(ctx context.Context, s session.Scope, v core.Vendor) (core.Vendor, error) {
	clause, args := ownerClause(s, "owner")
	err := mustAffect(r.db.ExecContext(ctx,
		`UPDATE vendors SET name = ?, email = ?, phone = ?, service_category = ?, services = ?,
		        pricing = ?, availability = ?, updated_at = ?
		 WHERE id = ?`+clause,
		append([]any{v.Name, v.Email, v.Phone, v.ServiceCategory, v.Services, nullable(v.Pricing),
			string(v.Availability), formatTime(r.now()), v.ID}, args...)...,
	))
	if errors.Is(err, core.ErrNotFound) {
		return core.Vendor{}, err
	}
	if err != nil {
		return core.Vendor{}, fmt.Errorf("update vendor: %w", err)
	}
	return r.GetVendor(ctx, s, v.ID)
}

func (r *SQLiteRepository) DeleteVendor(ctx context.Context, s session.Scope, id string) error {
	clause, args := ownerClause(s, "owner")
	err := mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM vendors WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	))
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete vendor: %w", err)
	}
	return err
}
