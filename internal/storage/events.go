package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"eventdesk/internal/core"
	"eventdesk/internal/session"
)

const eventColumns = `id, name, date, time, venue, client_id, vendor_ids, description, status, owner, created_at, updated_at`

func scanEvent(row scanner) (core.Event, error) {
	var (
		e                 core.Event
		date, tod, status string
		vendorIDs         string
		description       sql.NullString
		created, updated  string
	)
	err := row.Scan(&e.ID, &e.Name, &date, &tod, &e.Venue, &e.ClientID, &vendorIDs,
		&description, &status, &e.Owner, &created, &updated)
	if err != nil {
		return core.Event{}, err
	}
	e.Date = parseDate(date)
	e.Time = core.TimeOfDay(tod)
	e.Status = core.EventStatus(status)
	e.Description = description.String
	if vendorIDs != "" {
		if err := json.Unmarshal([]byte(vendorIDs), &e.VendorIDs); err != nil {
			return core.Event{}, fmt.Errorf("decode vendor_ids: %w", err)
		}
	}
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

func encodeVendorIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode vendor_ids: %w", err)
	}
	return string(b), nil
}

func (r *SQLiteRepository) CreateEvent(ctx context.Context, e core.Event) (core.Event, error) {
	vendorIDs, err := encodeVendorIDs(e.VendorIDs)
	if err != nil {
		return core.Event{}, err
	}
	now := r.now()
	e.ID = newID()
	e.CreatedAt, e.UpdatedAt = now, now

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Date.String(), string(e.Time), e.Venue, e.ClientID, vendorIDs,
		nullable(e.Description), string(e.Status), e.Owner, formatTime(now), formatTime(now),
	)
	if isForeignKeyViolation(err) {
		return core.Event{}, core.ErrNotFound
	}
	if err != nil {
		return core.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, s session.Scope, id string) (core.Event, error) {
	clause, args := ownerClause(s, "owner")
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Event{}, core.ErrNotFound
	}
	if err != nil {
		return core.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListEvents returns the visible events ordered by date then time.
func (r *SQLiteRepository) ListEvents(ctx context.Context, s session.Scope) ([]core.Event, error) {
	clause, args := ownerClause(s, "owner")
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE 1 = 1`+clause+` ORDER BY date ASC, time ASC, rowid ASC`,
		args...)
}

// ListEventsAt returns every event booked at the given date and time,
// across all owners. Venues are shared, so the slot check is not scoped.
func (r *SQLiteRepository) ListEventsAt(ctx context.Context, date core.Date, t core.TimeOfDay) ([]core.Event, error) {
	return r.queryEvents(ctx,
		`SELECT `+eventColumns+` FROM events WHERE date = ? AND time = ? ORDER BY rowid ASC`,
		date.String(), string(t))
}

func (r *SQLiteRepository) queryEvents(ctx context.Context, query string, args ...any) ([]core.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []core.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteRepository) UpdateEvent(ctx context.Context, s session.Scope, e core.Event) (core.Event, error) {
	vendorIDs, err := encodeVendorIDs(e.VendorIDs)
	if err != nil {
		return core.Event{}, err
	}
	clause, args := ownerClause(s, "owner")
	err = mustAffect(r.db.ExecContext(ctx,
		`UPDATE events SET name = ?, date = ?, time = ?, venue = ?, client_id = ?, vendor_ids = ?,
		        description = ?, status = ?, updated_at = ?
		 WHERE id = ?`+clause,
		append([]any{e.Name, e.Date.String(), string(e.Time), e.Venue, e.ClientID, vendorIDs,
			nullable(e.Description), string(e.Status), formatTime(r.now()), e.ID}, args...)...,
	))
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.Event{}, err
	case isForeignKeyViolation(err):
		return core.Event{}, core.ErrNotFound
	case err != nil:
		return core.Event{}, fmt.Errorf("update event: %w", err)
	}
	return r.GetEvent(ctx, s, e.ID)
}

// DeleteEvent removes the event. Its budget and expenses go with it.
func (r *SQLiteRepository) DeleteEvent(ctx context.Context, s session.Scope, id string) error {
	clause, args := ownerClause(s, "owner")
	err := mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	))
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete event: %w", err)
	}
	return err
}
