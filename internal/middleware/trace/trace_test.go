package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "eventdesk/internal/log"
	"eventdesk/internal/metrics"
)

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelInfo, Format: "text", Output: &buf})
	m := metrics.New()

	var seen string
	mw := NewMiddleware(logger, m,
		func(*http.Request) string { return "9.9.9.9" },
		func(*http.Request) string { return "GET /api/things" })
	h := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/things", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("request id = %q", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("response header %q != context id %q", rec.Header().Get(HeaderRequestID), seen)
	}
	out := buf.String()
	if !strings.Contains(out, "status_code=418") || !strings.Contains(out, "level=WARN") {
		t.Fatalf("end log should carry the first status at warn level:\n%s", out)
	}
	if !strings.Contains(out, "request_id="+seen) {
		t.Fatalf("missing request id:\n%s", out)
	}
	if !strings.Contains(out, "client_ip=9.9.9.9") {
		t.Fatalf("missing client ip:\n%s", out)
	}
}

func TestMiddlewareKeepsIncomingID(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil, nil)
	var seen string
	h := mw.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = FromHeader(r)
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, "abc123")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != "abc123" {
		t.Fatalf("id = %q", seen)
	}
}
