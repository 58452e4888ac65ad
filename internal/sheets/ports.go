// Package sheets turns dashboard reports into spreadsheet rows and defines
// the port implemented by the Google Sheets and in-memory writers.
package sheets

import (
	"context"
	"time"

	"eventdesk/internal/rules"
)

// ReportWriter replaces the contents of the report sheet with rows.
type ReportWriter interface {
	WriteRows(ctx context.Context, rows [][]any) error
}

// Rows lays out a report as sections separated by blank rows. Amounts are
// written as decimal dollars.
func Rows(r rules.Report) [][]any {
	rows := [][]any{
		{"Eventdesk report", r.GeneratedAt.UTC().Format(time.RFC3339)},
		{},
		{"Metric", "Value"},
		{"Total clients", r.TotalClients},
		{"Total events", r.TotalEvents},
		{"Upcoming events", r.UpcomingEvents},
		{"Completed events", r.CompletedEvents},
		{"Total vendors", r.TotalVendors},
		{"Active vendors", r.ActiveVendors},
		{"Total budget", r.TotalBudget.Dollars()},
		{"Total expenses", r.TotalExpenses.Dollars()},
		{},
		{"Month", "Expenses"},
	}
	for _, m := range r.MonthlyExpenses {
		rows = append(rows, []any{m.Label, m.Total.Dollars()})
	}
	rows = append(rows, []any{}, []any{"Category", "Expenses"})
	for _, c := range r.ExpensesByCategory {
		rows = append(rows, []any{c.Name, c.Amount.Dollars()})
	}
	rows = append(rows, []any{}, []any{"Top client", "Events"})
	for _, c := range r.TopClients {
		rows = append(rows, []any{c.Name, c.EventCount})
	}
	rows = append(rows, []any{}, []any{"Available vendor", "Category"})
	for _, v := range r.AvailableVendors {
		rows = append(rows, []any{v.Name, v.Category})
	}
	return rows
}
