package rules

import "eventdesk/internal/core"

// BudgetSummary is the derived state of a budget and its expenses.
type BudgetSummary struct {
	Total     core.Money `json:"total_budget"`
	Spent     core.Money `json:"spent"`
	Remaining core.Money `json:"remaining"`
	Progress  float64    `json:"progress"` // percent, clamped to [0, 100]
	Over      bool       `json:"over_budget"`
}

// Overage is the amount spent beyond the total, zero when within budget.
func (s BudgetSummary) Overage() core.Money {
	if !s.Over {
		return core.Money{}
	}
	return s.Spent.Sub(s.Total)
}

// Summarize computes spent, remaining, progress and the overage flag.
// Remaining may go negative. Progress is 0 for a zero total.
func Summarize(total core.Money, expenses []core.Money) BudgetSummary {
	var spent core.Money
	for _, e := range expenses {
		spent = spent.Add(e)
	}
	s := BudgetSummary{
		Total:     total,
		Spent:     spent,
		Remaining: total.Sub(spent),
		Over:      spent.Cents > total.Cents,
	}
	if total.Cents > 0 {
		s.Progress = min(100, float64(spent.Cents)/float64(total.Cents)*100)
	}
	return s
}

// Prospective summarizes the budget as it would be after adding add.
func Prospective(current BudgetSummary, add core.Money) BudgetSummary {
	return Summarize(current.Total, []core.Money{current.Spent, add})
}
