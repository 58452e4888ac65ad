package core

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// MonthAmount is the expense total of one calendar month.
type MonthAmount struct {
	Year  int    `json:"year"`
	Month int    `json:"month"` // 1-12
	Label string `json:"label"` // e.g. "Jan 2024"
	Total Money  `json:"total"`
}
