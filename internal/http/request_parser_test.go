package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"eventdesk/internal/core"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantField string
	}{
		{"complete", url.Values{"date": {"2024-05-01"}, "time": {"9:30"}, "venue": {"Hall A"}, "exclude": {"e1"}}, ""},
		{"bad date", url.Values{"date": {"2024-13-01"}, "time": {"09:30"}, "venue": {"Hall A"}}, "date"},
		{"bad time", url.Values{"date": {"2024-05-01"}, "time": {"25:00"}, "venue": {"Hall A"}}, "time"},
		{"blank venue", url.Values{"date": {"2024-05-01"}, "time": {"09:30"}, "venue": {"  "}}, "venue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := ParseSlot(tt.query)
			if tt.wantField == "" {
				if err != nil {
					t.Fatal(err)
				}
				if slot.Time != "09:30" || slot.ExcludeID != "e1" || slot.Date != core.NewDate(2024, 5, 1) {
					t.Fatalf("slot = %+v", slot)
				}
				return
			}
			var ve *core.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Fatalf("err = %v, want field %s", err, tt.wantField)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 50},
		{"10", 10},
		{"0", 50},
		{"-3", 50},
		{"abc", 50},
		{"9999", 500},
	}
	for _, tt := range tests {
		if got := ParseLimit(url.Values{"limit": {tt.raw}}, 50, 500); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantBad   bool
		wantField string
	}{
		{"valid", `{"name":"Gala","date":"2024-05-01","time":"14:00"}`, false, ""},
		{"unknown field", `{"nam":"Gala"}`, true, ""},
		{"trailing data", `{"name":"Gala"} {}`, true, ""},
		{"not json", `name=Gala`, true, ""},
		{"bad date", `{"date":"01/05/2024"}`, false, "date"},
		{"bad time", `{"time":"noon"}`, false, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var e core.Event
			err := decodeJSON(httptest.NewRecorder(), r, &e)
			switch {
			case tt.wantBad:
				if !errors.Is(err, errBadBody) {
					t.Fatalf("err = %v, want errBadBody", err)
				}
			case tt.wantField != "":
				var ve *core.ValidationError
				if !errors.As(err, &ve) || ve.Field != tt.wantField {
					t.Fatalf("err = %v, want field %s", err, tt.wantField)
				}
			default:
				if err != nil || e.Name != "Gala" || e.Time != "14:00" {
					t.Fatalf("event = %+v, err = %v", e, err)
				}
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Acme\x00 Corp\x07\t "); got != "Acme Corp" {
		t.Fatalf("sanitizeInput = %q", got)
	}
}
