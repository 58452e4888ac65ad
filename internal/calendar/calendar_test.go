package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"eventdesk/internal/core"
)

func TestFeedWrite(t *testing.T) {
	created := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	events := []core.Event{
		{
			ID: "e1", Name: "Gala", Date: core.NewDate(2024, 5, 1), Time: "14:00",
			Venue: "Hall A", ClientID: "c1", Status: core.StatusPlanned,
			Description: "Annual dinner", CreatedAt: created, UpdatedAt: created,
		},
		{
			ID: "e2", Name: "Launch", Date: core.NewDate(2024, 6, 2), Time: "09:30",
			Venue: "Roof", ClientID: "c2", Status: core.StatusCancelled,
			CreatedAt: created, UpdatedAt: created,
		},
	}

	f := NewFeed("Bookings", time.UTC)
	f.now = func() time.Time { return created }

	var buf bytes.Buffer
	if err := f.Write(&buf, events, map[string]string{"c1": "Acme"}); err != nil {
		t.Fatal(err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("feed does not parse: %v\n%s", err, buf.String())
	}
	parsed := cal.Events()
	if len(parsed) != 2 {
		t.Fatalf("got %d events", len(parsed))
	}

	first := parsed[0]
	if got := first.Id(); got != "e1@eventdesk" {
		t.Errorf("uid = %q", got)
	}
	if got := first.GetProperty(ical.ComponentPropertySummary).Value; got != "Gala (Acme)" {
		t.Errorf("summary = %q", got)
	}
	if got := first.GetProperty(ical.ComponentPropertyLocation).Value; got != "Hall A" {
		t.Errorf("location = %q", got)
	}
	start, err := first.GetStartAt()
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	end, err := first.GetEndAt()
	if err != nil {
		t.Fatal(err)
	}
	if end.Sub(start) != defaultDuration {
		t.Errorf("duration = %v", end.Sub(start))
	}
	if got := first.GetProperty(ical.ComponentPropertyStatus).Value; got != string(ical.ObjectStatusTentative) {
		t.Errorf("status = %q", got)
	}

	second := parsed[1]
	if got := second.GetProperty(ical.ComponentPropertySummary).Value; got != "Launch" {
		t.Errorf("summary without client name = %q", got)
	}
	if got := second.GetProperty(ical.ComponentPropertyStatus).Value; got != string(ical.ObjectStatusCancelled) {
		t.Errorf("status = %q", got)
	}
}

func TestStartUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	f := NewFeed("", loc)
	got := f.Start(core.Event{Date: core.NewDate(2024, 1, 15), Time: "08:05"})
	if want := time.Date(2024, 1, 15, 6, 5, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("Start = %v, want %v", got, want)
	}
}
