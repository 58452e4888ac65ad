package rules

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"eventdesk/internal/core"
)

const (
	topClientsLimit       = 5
	availableVendorsLimit = 5
	monthlyWindow         = 6
)

// Dataset is everything the dashboard aggregates over, in listing order.
type Dataset struct {
	Clients  []core.Client
	Events   []core.Event
	Vendors  []core.Vendor
	Budgets  []core.Budget
	Expenses []core.Expense
}

type ClientRank struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EventCount int    `json:"event_count"`
}

type VendorPick struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Report is the worker dashboard.
type Report struct {
	TotalClients       int                   `json:"total_clients"`
	TotalEvents        int                   `json:"total_events"`
	UpcomingEvents     int                   `json:"upcoming_events"`
	CompletedEvents    int                   `json:"completed_events"`
	TotalVendors       int                   `json:"total_vendors"`
	ActiveVendors      int                   `json:"active_vendors"`
	TotalBudget        core.Money            `json:"total_budget"`
	TotalExpenses      core.Money            `json:"total_expenses"`
	TopClients         []ClientRank          `json:"top_clients"`
	AvailableVendors   []VendorPick          `json:"available_vendors"`
	MonthlyExpenses    []core.MonthAmount    `json:"monthly_expenses"`
	ExpensesByCategory []core.CategoryAmount `json:"expenses_by_category"`
	GeneratedAt        time.Time             `json:"generated_at"`
}

// Aggregate builds the dashboard report. It is deterministic for a fixed
// now and dataset.
func Aggregate(now time.Time, in Dataset) Report {
	r := Report{
		TotalClients: len(in.Clients),
		TotalEvents:  len(in.Events),
		TotalVendors: len(in.Vendors),
		GeneratedAt:  now,
	}
	for _, e := range in.Events {
		if IsUpcoming(e, now) {
			r.UpcomingEvents++
		}
		if e.Status == core.StatusCompleted {
			r.CompletedEvents++
		}
	}
	for _, b := range in.Budgets {
		r.TotalBudget = r.TotalBudget.Add(b.TotalBudget)
	}
	for _, x := range in.Expenses {
		r.TotalExpenses = r.TotalExpenses.Add(x.Amount)
	}

	r.TopClients = TopClients(in.Clients, in.Events, topClientsLimit)

	r.AvailableVendors = []VendorPick{}
	for _, v := range in.Vendors {
		if v.Availability != core.Available {
			continue
		}
		r.ActiveVendors++
		if len(r.AvailableVendors) < availableVendorsLimit {
			r.AvailableVendors = append(r.AvailableVendors, VendorPick{ID: v.ID, Name: v.Name, Category: v.ServiceCategory})
		}
	}

	r.MonthlyExpenses = MonthlyTotals(in.Expenses, monthlyWindow)
	r.ExpensesByCategory = CategoryTotals(in.Expenses)
	return r
}

// IsUpcoming reports whether the event's date lies strictly after now.
func IsUpcoming(e core.Event, now time.Time) bool {
	return e.Date.Time.After(now)
}

// TopClients ranks clients by event count, highest first. Ties keep the
// input order. Clients without events are kept when the limit allows.
func TopClients(clients []core.Client, events []core.Event, limit int) []ClientRank {
	counts := make(map[string]int, len(clients))
	for _, e := range events {
		counts[e.ClientID]++
	}
	ranks := make([]ClientRank, 0, len(clients))
	for _, c := range clients {
		ranks = append(ranks, ClientRank{ID: c.ID, Name: c.Name, EventCount: counts[c.ID]})
	}
	slices.SortStableFunc(ranks, func(a, b ClientRank) int {
		return cmp.Compare(b.EventCount, a.EventCount)
	})
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// MonthlyTotals buckets expenses by calendar month, oldest first, keeping
// the most recent window months.
func MonthlyTotals(expenses []core.Expense, window int) []core.MonthAmount {
	type key struct{ y, m int }
	totals := make(map[key]core.Money)
	for _, x := range expenses {
		k := key{x.Date.Year(), int(x.Date.Month())}
		totals[k] = totals[k].Add(x.Amount)
	}
	out := make([]core.MonthAmount, 0, len(totals))
	for k, total := range totals {
		out = append(out, core.MonthAmount{
			Year:  k.y,
			Month: k.m,
			Label: fmt.Sprintf("%s %d", time.Month(k.m).String()[:3], k.y),
			Total: total,
		})
	}
	slices.SortFunc(out, func(a, b core.MonthAmount) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		return cmp.Compare(a.Month, b.Month)
	})
	if len(out) > window {
		out = out[len(out)-window:]
	}
	return out
}

// CategoryTotals sums expenses per category, largest first. Equal amounts
// order by category name.
func CategoryTotals(expenses []core.Expense) []core.CategoryAmount {
	totals := make(map[string]core.Money)
	for _, x := range expenses {
		totals[x.Category] = totals[x.Category].Add(x.Amount)
	}
	out := make([]core.CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	slices.SortFunc(out, func(a, b core.CategoryAmount) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Bookings is the user dashboard: the caller's own events by date.
type Bookings struct {
	Events   []core.Event `json:"events"`
	Upcoming int          `json:"upcoming"`
}

// OwnBookings orders events by date then time and counts the upcoming ones.
func OwnBookings(now time.Time, events []core.Event) Bookings {
	sorted := slices.Clone(events)
	SortByDate(sorted)
	b := Bookings{Events: sorted}
	if b.Events == nil {
		b.Events = []core.Event{}
	}
	for _, e := range sorted {
		if IsUpcoming(e, now) {
			b.Upcoming++
		}
	}
	return b
}

// SortByDate orders events ascending by date, then time.
func SortByDate(events []core.Event) {
	slices.SortStableFunc(events, func(a, b core.Event) int {
		if c := a.Date.Compare(b.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Time, b.Time)
	})
}
