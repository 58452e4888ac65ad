// Package rules holds the pure domain rules: venue double-booking, budget
// arithmetic and dashboard aggregation. Nothing here touches storage.
package rules

import "eventdesk/internal/core"

// Slot is a candidate booking checked against existing events.
type Slot struct {
	Date      core.Date
	Time      core.TimeOfDay
	Venue     string
	ExcludeID string // the event being edited, if any
}

// HasVenueConflict reports whether an active event other than ExcludeID
// already occupies the exact date, time and venue of s. Venue names compare
// case-insensitively.
func HasVenueConflict(existing []core.Event, s Slot) bool {
	return FirstConflict(existing, s) != nil
}

// FirstConflict returns the first event occupying the slot, or nil.
func FirstConflict(existing []core.Event, s Slot) *core.Event {
	venue := core.NormalizeVenue(s.Venue)
	for i := range existing {
		e := &existing[i]
		if e.Status == core.StatusCancelled {
			continue
		}
		if s.ExcludeID != "" && e.ID == s.ExcludeID {
			continue
		}
		if !e.Date.Equal(s.Date.Time) || e.Time != s.Time {
			continue
		}
		if core.NormalizeVenue(e.Venue) == venue {
			return e
		}
	}
	return nil
}
