package http

import (
	"net/http"

	"eventdesk/internal/core"
	"eventdesk/internal/rules"
)

type expenseCreated struct {
	Expense core.Expense        `json:"expense"`
	Summary rules.BudgetSummary `json:"summary"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.svc.Budgets.List(r.Context(), sessionOf(r))
	if err != nil {
		s.writeListError(w, r, err, "load budgets")
		return
	}
	NewResponse().Data(nonNil(budgets)).Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Budgets.Get(r.Context(), sessionOf(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err, "load budget")
		return
	}
	NewResponse().Data(b).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var in core.Budget
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "create budget")
		return
	}
	b, err := s.svc.Budgets.Create(r.Context(), sessionOf(r), in)
	if err != nil {
		s.writeError(w, r, err, "create budget")
		return
	}
	NewResponse().Status(http.StatusCreated).Data(b).Success("Budget created").Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var in core.Budget
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "update budget")
		return
	}
	b, err := s.svc.Budgets.Update(r.Context(), sessionOf(r), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err, "update budget")
		return
	}
	NewResponse().Data(b).Success("Budget updated").Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Budgets.Delete(r.Context(), sessionOf(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err, "delete budget")
		return
	}
	NewResponse().Success("Budget deleted").Write(w)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.Budgets.Expenses(r.Context(), sessionOf(r), r.PathValue("id"))
	if err != nil {
		s.writeListError(w, r, err, "load expenses")
		return
	}
	NewResponse().Data(nonNil(expenses)).Write(w)
}

// handleAddExpense reports the budget state right after the write and warns
// when the expense pushed it over.
func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var in core.Expense
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err, "add expense")
		return
	}
	x, summary, err := s.svc.Budgets.AddExpense(r.Context(), sessionOf(r), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err, "add expense")
		return
	}
	resp := NewResponse().Status(http.StatusCreated).Data(expenseCreated{Expense: x, Summary: summary})
	if summary.Over {
		resp.Notify(NotificationWarning, "budget exceeded by $"+summary.Overage().String())
	} else {
		resp.Success("Expense added")
	}
	resp.Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Budgets.DeleteExpense(r.Context(), sessionOf(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err, "delete expense")
		return
	}
	NewResponse().Success("Expense deleted").Write(w)
}
