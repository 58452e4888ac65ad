package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"eventdesk/internal/core"
	"eventdesk/internal/rules"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

// fieldErrors names the field behind errors raised by the core JSON decoders.
var fieldErrors = map[string]error{
	"date":   core.ErrInvalidDate,
	"time":   core.ErrInvalidTime,
	"amount": core.ErrInvalidAmount,
}

// decodeJSON reads one JSON object into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		for field, sentinel := range fieldErrors {
			if errors.Is(err, sentinel) {
				return &core.ValidationError{Field: field, Err: sentinel}
			}
		}
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", errBadBody)
	}
	return nil
}

// ParseSlot reads date, time, venue and the optional exclude id from a query.
func ParseSlot(q url.Values) (rules.Slot, error) {
	date, err := core.ParseDate(strings.TrimSpace(q.Get("date")))
	if err != nil {
		return rules.Slot{}, &core.ValidationError{Field: "date", Err: err}
	}
	tod, err := core.ParseTimeOfDay(strings.TrimSpace(q.Get("time")))
	if err != nil {
		return rules.Slot{}, &core.ValidationError{Field: "time", Err: err}
	}
	venue := strings.TrimSpace(q.Get("venue"))
	if venue == "" {
		return rules.Slot{}, &core.ValidationError{Field: "venue", Err: core.ErrEmptyVenue}
	}
	return rules.Slot{
		Date:      date,
		Time:      tod,
		Venue:     venue,
		ExcludeID: strings.TrimSpace(q.Get("exclude")),
	}, nil
}

// ParseLimit reads a positive "limit" capped at max, or returns def.
func ParseLimit(q url.Values, def, max int) int {
	v := strings.TrimSpace(q.Get("limit"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return min(n, max)
}

// sanitizeInput drops control characters other than tab and newlines and
// trims the result.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
