package core

import (
	"strings"
	"time"
)

const (
	RoleUser   Role = "user"
	RoleWorker Role = "worker"
)

const (
	StatusPlanned   EventStatus = "planned"
	StatusOngoing   EventStatus = "ongoing"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
)

const (
	Available   Availability = "available"
	Busy        Availability = "busy"
	Unavailable Availability = "unavailable"
)

// ServiceCategories lists the vendor service categories accepted on input.
var ServiceCategories = []string{
	"Catering",
	"Decoration",
	"Photography",
	"Music & Entertainment",
	"Transportation",
	"Venue",
	"Security",
	"Flowers",
	"Equipment Rental",
	"Other",
}

// ExpenseCategories lists the expense categories accepted on input.
var ExpenseCategories = []string{
	"Venue",
	"Catering",
	"Decoration",
	"Entertainment",
	"Photography",
	"Transportation",
	"Security",
	"Equipment",
	"Marketing",
	"Miscellaneous",
}

type (
	Role         string
	EventStatus  string
	Availability string

	Client struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Phone     string    `json:"phone"`
		Company   string    `json:"company,omitempty"`
		Address   string    `json:"address,omitempty"`
		Owner     string    `json:"owner"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	Vendor struct {
		ID              string       `json:"id"`
		Name            string       `json:"name"`
		Email           string       `json:"email"`
		Phone           string       `json:"phone"`
		ServiceCategory string       `json:"service_category"`
		Services        string       `json:"services"`
		Pricing         string       `json:"pricing,omitempty"`
		Availability    Availability `json:"availability"`
		Owner           string       `json:"owner"`
		CreatedAt       time.Time    `json:"created_at"`
		UpdatedAt       time.Time    `json:"updated_at"`
	}

	Event struct {
		ID          string      `json:"id"`
		Name        string      `json:"name"`
		Date        Date        `json:"date"`
		Time        TimeOfDay   `json:"time"`
		Venue       string      `json:"venue"`
		ClientID    string      `json:"client_id"`
		VendorIDs   []string    `json:"vendor_ids,omitempty"`
		Description string      `json:"description,omitempty"`
		Status      EventStatus `json:"status"`
		Owner       string      `json:"owner"`
		CreatedAt   time.Time   `json:"created_at"`
		UpdatedAt   time.Time   `json:"updated_at"`
	}

	Budget struct {
		ID          string    `json:"id"`
		EventID     string    `json:"event_id"`
		TotalBudget Money     `json:"total_budget"`
		Owner       string    `json:"owner"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}

	Expense struct {
		ID          string    `json:"id"`
		BudgetID    string    `json:"budget_id"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Date        Date      `json:"date"`
		Owner       string    `json:"owner"`
		CreatedAt   time.Time `json:"created_at"`
	}

	UserRole struct {
		UserID string `json:"user_id"`
		Role   Role   `json:"role"`
	}

	Profile struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		FullName     string    `json:"full_name"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	// Activity is one entry of the audit trail written from change events.
	Activity struct {
		ID         int64     `json:"id"`
		Entity     string    `json:"entity"`
		Action     string    `json:"action"`
		EntityID   string    `json:"entity_id"`
		Owner      string    `json:"owner"`
		OccurredAt time.Time `json:"occurred_at"`
	}
)

// ParseRole accepts "user" or "worker", case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleWorker:
		return RoleWorker, nil
	}
	return "", ErrInvalidRole
}

func (s EventStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (a Availability) Valid() bool {
	switch a {
	case Available, Busy, Unavailable:
		return true
	}
	return false
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if !ValidEmail(c.Email) {
		return invalid("email", ErrInvalidEmail)
	}
	if !ValidPhone(c.Phone) {
		return invalid("phone", ErrInvalidPhone)
	}
	return nil
}

func (v Vendor) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if !ValidEmail(v.Email) {
		return invalid("email", ErrInvalidEmail)
	}
	if !ValidPhone(v.Phone) {
		return invalid("phone", ErrInvalidPhone)
	}
	if !oneOf(v.ServiceCategory, ServiceCategories) {
		return invalid("service_category", ErrInvalidCategory)
	}
	if strings.TrimSpace(v.Services) == "" {
		return invalid("services", ErrEmptyServices)
	}
	if !v.Availability.Valid() {
		return invalid("availability", ErrInvalidAvailability)
	}
	return nil
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("name", ErrEmptyName)
	}
	if err := e.Date.Validate(); err != nil {
		return invalid("date", err)
	}
	if err := e.Time.Validate(); err != nil {
		return invalid("time", err)
	}
	if strings.TrimSpace(e.Venue) == "" {
		return invalid("venue", ErrEmptyVenue)
	}
	if strings.TrimSpace(e.ClientID) == "" {
		return invalid("client_id", ErrMissingClient)
	}
	if !e.Status.Valid() {
		return invalid("status", ErrInvalidStatus)
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.EventID) == "" {
		return invalid("event_id", ErrMissingEvent)
	}
	if b.TotalBudget.Cents < 0 {
		return invalid("total_budget", ErrInvalidAmount)
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.BudgetID) == "" {
		return invalid("budget_id", ErrMissingBudget)
	}
	if !oneOf(e.Category, ExpenseCategories) {
		return invalid("category", ErrInvalidCategory)
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return invalid("description", ErrEmptyDescription)
	}
	if len(e.Description) > 200 {
		return invalid("description", ErrDescriptionTooLong)
	}
	if e.Amount.Cents < 0 {
		return invalid("amount", ErrInvalidAmount)
	}
	if err := e.Date.Validate(); err != nil {
		return invalid("date", err)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
