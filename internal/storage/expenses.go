package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventdesk/internal/core"
	"eventdesk/internal/session"
)

const expenseColumns = `id, budget_id, category, description, amount_cents, date, owner, created_at`

func scanExpense(row scanner) (core.Expense, error) {
	var (
		x             core.Expense
		date, created string
	)
	err := row.Scan(&x.ID, &x.BudgetID, &x.Category, &x.Description, &x.Amount.Cents, &date, &x.Owner, &created)
	if err != nil {
		return core.Expense{}, err
	}
	x.Date = parseDate(date)
	x.CreatedAt = parseTime(created)
	return x, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, x core.Expense) (core.Expense, error) {
	x.ID = newID()
	x.CreatedAt = r.now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		x.ID, x.BudgetID, x.Category, x.Description, x.Amount.Cents, x.Date.String(), x.Owner, formatTime(x.CreatedAt),
	)
	if isForeignKeyViolation(err) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return x, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, s session.Scope, id string) (core.Expense, error) {
	clause, args := ownerClause(s, "owner")
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	)
	x, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return x, nil
}

// ListExpenses returns every visible expense ordered by date.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, s session.Scope) ([]core.Expense, error) {
	clause, args := ownerClause(s, "owner")
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE 1 = 1`+clause+` ORDER BY date ASC, rowid ASC`,
		args...)
}

// ListBudgetExpenses returns the expenses recorded against one budget.
func (r *SQLiteRepository) ListBudgetExpenses(ctx context.Context, s session.Scope, budgetID string) ([]core.Expense, error) {
	clause, args := ownerClause(s, "owner")
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE budget_id = ?`+clause+` ORDER BY date DESC, rowid DESC`,
		append([]any{budgetID}, args...)...)
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		x, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, x)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, s session.Scope, id string) error {
	clause, args := ownerClause(s, "owner")
	err := mustAffect(r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ?`+clause,
		append([]any{id}, args...)...,
	))
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete expense: %w", err)
	}
	return err
}
