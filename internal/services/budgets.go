package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventdesk/internal/amqp"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
	"eventdesk/internal/metrics"
	"eventdesk/internal/rules"
	"eventdesk/internal/session"
	"eventdesk/internal/storage"
)

// BudgetView is a budget with its derived spending summary.
type BudgetView struct {
	core.Budget
	Summary rules.BudgetSummary `json:"summary"`
}

type BudgetService struct {
	repo    *storage.SQLiteRepository
	changes *Changes
	metrics *metrics.Metrics
	logger  *applog.Logger
}

func NewBudgetService(repo *storage.SQLiteRepository, changes *Changes, m *metrics.Metrics, logger *applog.Logger) *BudgetService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &BudgetService{repo: repo, changes: changes, metrics: m, logger: logger.WithComponent(applog.ComponentBudgets)}
}

// List returns every visible budget with its summary.
func (s *BudgetService) List(ctx context.Context, sess session.Session) ([]BudgetView, error) {
	budgets, err := s.repo.ListBudgets(ctx, sess.Scope())
	if err != nil {
		return nil, err
	}
	views := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		summary, err := s.summarize(ctx, b)
		if err != nil {
			return nil, err
		}
		views = append(views, BudgetView{Budget: b, Summary: summary})
	}
	return views, nil
}

func (s *BudgetService) Get(ctx context.Context, sess session.Session, id string) (BudgetView, error) {
	b, err := s.repo.GetBudget(ctx, sess.Scope(), id)
	if err != nil {
		return BudgetView{}, err
	}
	summary, err := s.summarize(ctx, b)
	if err != nil {
		return BudgetView{}, err
	}
	return BudgetView{Budget: b, Summary: summary}, nil
}

// Create fails with core.ErrBudgetExists when the event already has a budget.
func (s *BudgetService) Create(ctx context.Context, sess session.Session, b core.Budget) (BudgetView, error) {
	b.EventID = strings.TrimSpace(b.EventID)
	if err := b.Validate(); err != nil {
		return BudgetView{}, err
	}
	if err := s.requireEvent(ctx, sess, b.EventID); err != nil {
		return BudgetView{}, err
	}
	b.Owner = sess.UserID

	created, err := s.repo.CreateBudget(ctx, b)
	switch {
	case errors.Is(err, core.ErrBudgetExists):
		return BudgetView{}, err
	case errors.Is(err, core.ErrNotFound):
		return BudgetView{}, &core.ValidationError{Field: "event_id", Err: core.ErrNotFound}
	case err != nil:
		return BudgetView{}, fmt.Errorf("create budget: %w", err)
	}
	s.changes.Notify(ctx, amqp.EntityBudget, amqp.ActionCreated, created.ID, created.Owner)
	return BudgetView{Budget: created, Summary: rules.Summarize(created.TotalBudget, nil)}, nil
}

func (s *BudgetService) Update(ctx context.Context, sess session.Session, id string, b core.Budget) (BudgetView, error) {
	b.EventID = strings.TrimSpace(b.EventID)
	b.ID = id
	if err := b.Validate(); err != nil {
		return BudgetView{}, err
	}
	if _, err := s.repo.GetBudget(ctx, sess.Scope(), id); err != nil {
		return BudgetView{}, err
	}
	if err := s.requireEvent(ctx, sess, b.EventID); err != nil {
		return BudgetView{}, err
	}

	updated, err := s.repo.UpdateBudget(ctx, sess.Scope(), b)
	if err != nil {
		return BudgetView{}, err
	}
	s.changes.Notify(ctx, amqp.EntityBudget, amqp.ActionUpdated, updated.ID, updated.Owner)
	summary, err := s.summarize(ctx, updated)
	if err != nil {
		return BudgetView{}, err
	}
	return BudgetView{Budget: updated, Summary: summary}, nil
}

// Delete removes the budget and its expenses.
func (s *BudgetService) Delete(ctx context.Context, sess session.Session, id string) error {
	if err := s.repo.DeleteBudget(ctx, sess.Scope(), id); err != nil {
		return err
	}
	s.changes.Notify(ctx, amqp.EntityBudget, amqp.ActionDeleted, id, sess.UserID)
	return nil
}

// Expenses lists the expenses recorded against a visible budget.
func (s *BudgetService) Expenses(ctx context.Context, sess session.Session, budgetID string) ([]core.Expense, error) {
	if _, err := s.repo.GetBudget(ctx, sess.Scope(), budgetID); err != nil {
		return nil, err
	}
	return s.repo.ListBudgetExpenses(ctx, allOwners, budgetID)
}

// AddExpense records x against the budget and returns the summary as it
// stands after the write. The summary is computed from the expenses that
// existed before plus x, so Over reflects the new total.
func (s *BudgetService) AddExpense(ctx context.Context, sess session.Session, budgetID string, x core.Expense) (core.Expense, rules.BudgetSummary, error) {
	x.BudgetID = budgetID
	x.Category = strings.TrimSpace(x.Category)
	x.Description = strings.TrimSpace(x.Description)
	if err := x.Validate(); err != nil {
		return core.Expense{}, rules.BudgetSummary{}, err
	}

	b, err := s.repo.GetBudget(ctx, sess.Scope(), budgetID)
	if err != nil {
		return core.Expense{}, rules.BudgetSummary{}, err
	}
	current, err := s.summarize(ctx, b)
	if err != nil {
		return core.Expense{}, rules.BudgetSummary{}, err
	}
	prospective := rules.Prospective(current, x.Amount)

	x.Owner = sess.UserID
	created, err := s.repo.CreateExpense(ctx, x)
	if err != nil {
		return core.Expense{}, rules.BudgetSummary{}, fmt.Errorf("create expense: %w", err)
	}

	if prospective.Over {
		s.metrics.BudgetOverage()
		s.logger.InfoContext(ctx, "Expense exceeds budget",
			applog.FieldBudgetID, b.ID,
			applog.FieldAmount, prospective.Overage().Cents)
	}
	s.changes.Notify(ctx, amqp.EntityExpense, amqp.ActionCreated, created.ID, created.Owner)
	return created, prospective, nil
}

func (s *BudgetService) DeleteExpense(ctx context.Context, sess session.Session, id string) error {
	if err := s.repo.DeleteExpense(ctx, sess.Scope(), id); err != nil {
		return err
	}
	s.changes.Notify(ctx, amqp.EntityExpense, amqp.ActionDeleted, id, sess.UserID)
	return nil
}

// summarize counts every expense of the budget regardless of who recorded it.
func (s *BudgetService) summarize(ctx context.Context, b core.Budget) (rules.BudgetSummary, error) {
	expenses, err := s.repo.ListBudgetExpenses(ctx, allOwners, b.ID)
	if err != nil {
		return rules.BudgetSummary{}, err
	}
	amounts := make([]core.Money, len(expenses))
	for i, x := range expenses {
		amounts[i] = x.Amount
	}
	return rules.Summarize(b.TotalBudget, amounts), nil
}

func (s *BudgetService) requireEvent(ctx context.Context, sess session.Session, eventID string) error {
	_, err := s.repo.GetEvent(ctx, sess.Scope(), eventID)
	if errors.Is(err, core.ErrNotFound) {
		return &core.ValidationError{Field: "event_id", Err: core.ErrNotFound}
	}
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}
	return nil
}

var allOwners = session.Scope{All: true}
