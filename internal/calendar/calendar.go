// Package calendar renders events as an iCalendar feed.
package calendar

import (
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"eventdesk/internal/core"
)

const defaultDuration = 2 * time.Hour

// Feed builds VCALENDAR documents. Event dates and times are read in
// Location; Duration is the assumed length of every event.
type Feed struct {
	Name     string
	Location *time.Location
	Duration time.Duration
	now      func() time.Time
}

func NewFeed(name string, loc *time.Location) *Feed {
	if loc == nil {
		loc = time.UTC
	}
	return &Feed{Name: name, Location: loc, Duration: defaultDuration, now: time.Now}
}

// Start returns the instant an event begins.
func (f *Feed) Start(e core.Event) time.Time {
	hh, mm, _ := strings.Cut(string(e.Time), ":")
	h, m := atoi2(hh), atoi2(mm)
	return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), h, m, 0, 0, f.Location)
}

// Build returns a calendar with one VEVENT per event. Client names, when
// known, are added to the summary.
func (f *Feed) Build(events []core.Event, clientNames map[string]string) *ical.Calendar {
	cal := ical.NewCalendarFor("eventdesk")
	cal.SetMethod(ical.MethodPublish)
	if f.Name != "" {
		cal.SetName(f.Name)
		cal.SetXWRCalName(f.Name)
	}

	stamp := f.now()
	for _, e := range events {
		ve := cal.AddEvent(e.ID + "@eventdesk")
		ve.SetDtStampTime(stamp)
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetModifiedAt(e.UpdatedAt)

		start := f.Start(e)
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(f.Duration))

		summary := e.Name
		if name := clientNames[e.ClientID]; name != "" {
			summary += " (" + name + ")"
		}
		ve.SetSummary(summary)
		ve.SetLocation(e.Venue)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetStatus(statusOf(e.Status))
		ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(e.Status)))
	}
	return cal
}

func (f *Feed) Write(w io.Writer, events []core.Event, clientNames map[string]string) error {
	return f.Build(events, clientNames).SerializeTo(w)
}

func statusOf(s core.EventStatus) ical.ObjectStatus {
	switch s {
	case core.StatusCancelled:
		return ical.ObjectStatusCancelled
	case core.StatusPlanned:
		return ical.ObjectStatusTentative
	}
	return ical.ObjectStatusConfirmed
}

// atoi2 parses the two-digit fields of a normalized HH:MM value.
func atoi2(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
