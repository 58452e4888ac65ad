package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventdesk/internal/core"
	"eventdesk/internal/session"
)

const budgetColumns = `id, event_id, total_budget_cents, owner, created_at, updated_at`

func scanBudget(row scanner) (core.Budget, error) {
	var (
		b                core.Budget
		created, updated string
	)
	if err := row.Scan(&b.ID, &b.EventID, &b.TotalBudget.Cents, &b.Owner, &created, &updated); err != nil {
		return core.Budget{}, err
	}
	b.CreatedAt = parseTime(created)
	b.UpdatedAt = parseTime(updated)
	return b, nil
}

// CreateBudget fails with ErrBudgetExists when the event already has one.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := r.now()
	b.ID = newID()
	b.CreatedAt, b.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.EventID, b.TotalBudget.Cents, b.Owner, formatTime(now), formatTime(now),
	)
	switch {
	case err == nil:
		return b, nil
	case isUniqueViolation(err):
		return core.Budget{}, core.ErrBudgetExists
	case isForeignKeyViolation(err):
		return core.Budget{}, core.ErrNotFound
	}
	return core.Budget{}, fmt.Errorf("insert budget: %w", err)
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, s session.Scope, id string) (core.Budget, error) {
	clause, args := ownerClause(s, "owner")
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, s session.Scope) ([]core.Budget, error) {
	clause, args := ownerClause(s, "owner")
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE 1 = 1`+clause+` ORDER BY created_at DESC, rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []core.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, s session.Scope, b core.Budget) (core.Budget, error) {
	clause, args := ownerClause(s, "owner")
	err := mustAffect(r.db.ExecContext(ctx,
		`UPDATE budgets SET event_id = ?, total_budget_cents = ?, updated_at = ? WHERE id = ?`+clause,
		append([]any{b.EventID, b.TotalBudget.Cents, formatTime(r.now()), b.ID}, args...)...,
	))
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.Budget{}, err
	case isUniqueViolation(err):
		return core.Budget{}, core.ErrBudgetExists
	case isForeignKeyViolation(err):
		return core.Budget{}, core.ErrNotFound
	case err != nil:
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return r.GetBudget(ctx, s, b.ID)
}

// DeleteBudget removes the budget and, by cascade, its expenses.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, s session.Scope, id string) error {
	clause, args := ownerClause(s, "owner")
	err := mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	))
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete budget: %w", err)
	}
	return err
}
