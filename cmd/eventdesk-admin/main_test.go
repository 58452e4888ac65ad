package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"eventdesk/internal/config"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
	"eventdesk/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.SQLiteDBPath = filepath.Join(t.TempDir(), "admin.db")
	return cfg
}

func runCmd(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, cfg, &out, applog.Discard())
	return out.String(), err
}

func TestUsage(t *testing.T) {
	cfg := testConfig(t)
	for _, args := range [][]string{nil, {"frobnicate"}, {"migrate"}, {"migrate", "sideways"}, {"set-role", "a@b.io"}} {
		if _, err := runCmd(t, cfg, args...); !errors.Is(err, errUsage) {
			t.Errorf("%v: expected usage error, got %v", args, err)
		}
	}
}

func TestMigrate(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"migrate", "version"}, "version 0 dirty=false"},
		{[]string{"migrate", "up"}, "version 1 dirty=false"},
		{[]string{"migrate", "up"}, "version 1 dirty=false"},
		{[]string{"migrate", "down"}, "version 0 dirty=false"},
	}
	for _, tt := range tests {
		out, err := runCmd(t, cfg, tt.args...)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if strings.TrimSpace(out) != tt.want {
			t.Fatalf("%v = %q, want %q", tt.args, out, tt.want)
		}
	}
}

func TestSetRole(t *testing.T) {
	cfg := testConfig(t)
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	p, err := repo.CreateProfile(context.Background(), core.Profile{Email: "w@example.com", FullName: "W", PasswordHash: "x"})
	if err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, cfg, "set-role", "w@example.com", "Worker")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "w@example.com is now worker") {
		t.Fatalf("output = %q", out)
	}
	role, err := repo.GetRole(context.Background(), p.ID)
	if err != nil || role != core.RoleWorker {
		t.Fatalf("role = %v, %v", role, err)
	}

	if _, err := runCmd(t, cfg, "set-role", "w@example.com", "admin"); !errors.Is(err, core.ErrInvalidRole) {
		t.Fatalf("bad role: %v", err)
	}
	if _, err := runCmd(t, cfg, "set-role", "nobody@example.com", "user"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestExportReport(t *testing.T) {
	cfg := testConfig(t)

	out, err := runCmd(t, cfg, "export-report", "-dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Eventdesk report\t") || !strings.Contains(out, "Total clients\t0\n") {
		t.Fatalf("dry run output:\n%s", out)
	}

	if _, err := runCmd(t, cfg, "export-report"); err == nil || !strings.Contains(err.Error(), "GOOGLE_SPREADSHEET_ID") {
		t.Fatalf("export without sheet: %v", err)
	}
}
