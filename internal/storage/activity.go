package storage

import (
	"context"
	"fmt"

	"eventdesk/internal/core"
)

func (r *SQLiteRepository) RecordActivity(ctx context.Context, a core.Activity) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (entity, action, entity_id, owner, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		a.Entity, a.Action, a.EntityID, a.Owner, formatTime(a.OccurredAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert activity: %w", err)
	}
	return res.LastInsertId()
}

// ListActivity returns the most recent entries first.
func (r *SQLiteRepository) ListActivity(ctx context.Context, limit int) ([]core.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity, action, entity_id, owner, occurred_at FROM activity_log
		 ORDER BY occurred_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	out := []core.Activity{}
	for rows.Next() {
		var (
			a        core.Activity
			occurred string
		)
		if err := rows.Scan(&a.ID, &a.Entity, &a.Action, &a.EntityID, &a.Owner, &occurred); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.OccurredAt = parseTime(occurred)
		out = append(out, a)
	}
	return out, rows.Err()
}
