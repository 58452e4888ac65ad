package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
)

type fakeSheets struct {
	mu      sync.Mutex
	titles  []string
	calls   []string
	written [][]any
	failPut bool
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v4/spreadsheets/"):
		f.calls = append(f.calls, "get")
		sheets := make([]map[string]any, 0, len(f.titles))
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "addSheet")
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			f.titles = append(f.titles, rq.AddSheet.Properties.Title)
		}
		w.Write([]byte(`{}`))
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update")
		if f.failPut {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
			return
		}
		var vr struct {
			Values [][]any `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&vr)
		f.written = vr.Values
		json.NewEncoder(w).Encode(map[string]any{"updatedRows": len(vr.Values)})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), Options{SpreadsheetID: "sid", SheetName: "Report"}, nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestWriteRowsCreatesMissingSheet(t *testing.T) {
	f := &fakeSheets{titles: []string{"Sheet1"}}
	c := newTestClient(t, f)

	rows := [][]any{{"Metric", "Value"}, {"Total clients", 3}}
	if err := c.WriteRows(context.Background(), rows); err != nil {
		t.Fatal(err)
	}

	want := []string{"get", "addSheet", "clear", "update"}
	if strings.Join(f.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", f.calls, want)
	}
	if len(f.written) != 2 || f.written[1][0] != "Total clients" {
		t.Fatalf("written = %v", f.written)
	}
}

func TestWriteRowsExistingSheet(t *testing.T) {
	f := &fakeSheets{titles: []string{"Report"}}
	c := newTestClient(t, f)

	if err := c.WriteRows(context.Background(), [][]any{{"x"}}); err != nil {
		t.Fatal(err)
	}
	for _, call := range f.calls {
		if call == "addSheet" {
			t.Fatal("existing sheet should not be recreated")
		}
	}
}

func TestWriteRowsError(t *testing.T) {
	f := &fakeSheets{titles: []string{"Report"}, failPut: true}
	c := newTestClient(t, f)

	err := c.WriteRows(context.Background(), [][]any{{"x"}})
	if err == nil || !strings.Contains(err.Error(), "update sheet Report") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"missing id", Options{SheetName: "Report"}, "missing spreadsheet ID"},
		{"missing sheet", Options{SpreadsheetID: "sid"}, "missing report sheet name"},
		{"missing credentials", Options{SpreadsheetID: "sid", SheetName: "Report"}, "missing service account credentials"},
		{"unreadable file", Options{SpreadsheetID: "sid", SheetName: "Report", CredentialsFile: "/nonexistent/sa.json"}, "read service account file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.opts, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("Bob's Report"); got != `'Bob''s Report'` {
		t.Fatalf("quoteSheet = %s", got)
	}
}
