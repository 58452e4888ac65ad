package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil || d.String() != "2024-03-15" {
		t.Fatalf("got %v (err=%v)", d, err)
	}
	d, err = ParseDate("2024-03-15T22:10:00Z")
	if err != nil || d.String() != "2024-03-15" {
		t.Fatalf("got %v (err=%v)", d, err)
	}
	if _, err := ParseDate("15/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want TimeOfDay
		ok   bool
	}{
		{"18:00", "18:00", true},
		{"9:05", "09:05", true},
		{"07:30:00", "07:30", true},
		{"24:00", "", false},
		{"noon", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("%q: got %q (err=%v), want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("%q: expected error", tc.in)
		}
	}
}

func TestValidEmail(t *testing.T) {
	good := []string{"a@b.co", "first.last@example.com", "x+tag@sub.domain.org"}
	bad := []string{"", "plain", "a@b", "a @b.com", "@b.com", "a@.com@"}
	for _, s := range good {
		if !ValidEmail(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range bad {
		if ValidEmail(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestValidPhone(t *testing.T) {
	good := []string{"5551234567", "+1 (555) 123-4567", "555 123 4567"}
	bad := []string{"", "555-1234", "555123456x", "phone 5551234567", "+1 555 123 45"}
	for _, s := range good {
		if !ValidPhone(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range bad {
		if ValidPhone(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestClientValidate(t *testing.T) {
	good := Client{Name: "Acme", Email: "ops@acme.io", Phone: "+1 555 123 4567"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mutate func(*Client)
		field  string
		err    error
	}{
		{func(c *Client) { c.Name = "  " }, "name", ErrEmptyName},
		{func(c *Client) { c.Email = "nope" }, "email", ErrInvalidEmail},
		{func(c *Client) { c.Phone = "12345" }, "phone", ErrInvalidPhone},
	}
	for _, tc := range cases {
		c := good
		tc.mutate(&c)
		err := c.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if ve.Field != tc.field || !errors.Is(err, tc.err) {
			t.Errorf("got %v, want field %s / %v", err, tc.field, tc.err)
		}
	}
}

func TestVendorValidate(t *testing.T) {
	good := Vendor{
		Name:            "Bloom",
		Email:           "hi@bloom.com",
		Phone:           "5551234567",
		ServiceCategory: "Flowers",
		Services:        "Centerpieces",
		Availability:    Available,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := []func(*Vendor){
		func(v *Vendor) { v.ServiceCategory = "Fireworks" },
		func(v *Vendor) { v.Services = "" },
		func(v *Vendor) { v.Availability = "maybe" },
		func(v *Vendor) { v.Email = "x" },
	}
	for i, mutate := range bad {
		v := good
		mutate(&v)
		if err := v.Validate(); !IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestEventValidate(t *testing.T) {
	good := Event{
		Name:     "Gala",
		Date:     NewDate(2025, 6, 1),
		Time:     "19:00",
		Venue:    "Hall A",
		ClientID: "c1",
		Status:   StatusPlanned,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := []func(*Event){
		func(e *Event) { e.Name = "" },
		func(e *Event) { e.Date = Date{} },
		func(e *Event) { e.Time = "7pm" },
		func(e *Event) { e.Venue = " " },
		func(e *Event) { e.ClientID = "" },
		func(e *Event) { e.Status = "postponed" },
	}
	for i, mutate := range bad {
		e := good
		mutate(&e)
		if err := e.Validate(); !IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		BudgetID:    "b1",
		Category:    "Catering",
		Description: "dinner",
		Amount:      Money{Cents: 0},
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []func(*Expense){
		func(e *Expense) { e.BudgetID = "" },
		func(e *Expense) { e.Category = "Food" },
		func(e *Expense) { e.Description = "" },
		func(e *Expense) { e.Description = strings.Repeat("x", 201) },
		func(e *Expense) { e.Amount = Money{Cents: -1} },
		func(e *Expense) { e.Date = Date{} },
	}
	for i, mutate := range bads {
		e := good
		mutate(&e)
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := (Budget{EventID: "e1"}).Validate(); err != nil {
		t.Fatalf("zero budget should be allowed, got %v", err)
	}
	if err := (Budget{EventID: "e1", TotalBudget: Money{Cents: -100}}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole(" Worker "); err != nil || r != RoleWorker {
		t.Fatalf("got %q (err=%v)", r, err)
	}
	if _, err := ParseRole("admin"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}
