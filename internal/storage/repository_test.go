package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"eventdesk/internal/core"
	"eventdesk/internal/session"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

var (
	alice  = session.Scope{Owner: "alice"}
	bob    = session.Scope{Owner: "bob"}
	worker = session.Scope{Owner: "w", All: true}
)

func seedEvent(t *testing.T, repo *SQLiteRepository, owner string) (core.Client, core.Event) {
	t.Helper()
	ctx := context.Background()
	c, err := repo.CreateClient(ctx, core.Client{Name: "Acme", Email: "a@acme.io", Phone: "5551234567", Owner: owner})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	e, err := repo.CreateEvent(ctx, core.Event{
		Name: "Launch", Date: core.NewDate(2024, 5, 1), Time: "14:00", Venue: "Hall A",
		ClientID: c.ID, VendorIDs: []string{"v1", "v2"}, Status: core.StatusPlanned, Owner: owner,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return c, e
}

func TestMigrationVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	repo.Close()

	v, dirty, err := MigrationVersion(path)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 || dirty {
		t.Fatalf("version = %d dirty = %v", v, dirty)
	}
	// Re-running is a no-op.
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
}

func TestClients(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		c, err := repo.CreateClient(ctx, core.Client{Name: "Globex", Email: "g@globex.com", Phone: "5551234567", Company: "Globex Corp", Owner: "alice"})
		if err != nil {
			t.Fatal(err)
		}
		if c.ID == "" || c.CreatedAt.IsZero() {
			t.Fatalf("expected id and timestamps, got %+v", c)
		}
		got, err := repo.GetClient(ctx, alice, c.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Company != "Globex Corp" || got.Address != "" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("owner scoping", func(t *testing.T) {
		c, err := repo.CreateClient(ctx, core.Client{Name: "Initech", Email: "i@initech.com", Phone: "5551234567", Owner: "alice"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := repo.GetClient(ctx, bob, c.ID); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("bob should not see alice's client, got %v", err)
		}
		if _, err := repo.GetClient(ctx, worker, c.ID); err != nil {
			t.Fatalf("worker should see every client, got %v", err)
		}
		if err := repo.DeleteClient(ctx, bob, c.ID); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("bob delete = %v", err)
		}
		c.Name = "Hijacked"
		if _, err := repo.UpdateClient(ctx, bob, c); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("bob update = %v", err)
		}
	})

	t.Run("search", func(t *testing.T) {
		list, err := repo.ListClients(ctx, alice, ListFilter{Query: "globex"})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].Name != "Globex" {
			t.Fatalf("got %+v", list)
		}
		list, err = repo.ListClients(ctx, bob, ListFilter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 0 {
			t.Fatalf("bob sees %d clients", len(list))
		}
		list, err = repo.ListClients(ctx, alice, ListFilter{Query: "%"})
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 0 {
			t.Fatalf("wildcard should be literal, got %d", len(list))
		}
	})

	t.Run("update replaces fields", func(t *testing.T) {
		c, _ := repo.CreateClient(ctx, core.Client{Name: "Old", Email: "o@x.com", Phone: "5551234567", Company: "Co", Owner: "alice"})
		c.Name, c.Company = "New", ""
		got, err := repo.UpdateClient(ctx, alice, c)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "New" || got.Company != "" {
			t.Fatalf("got %+v", got)
		}
	})
}

func TestDeleteClientWithEvents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	c, e := seedEvent(t, repo, "alice")

	if err := repo.DeleteClient(ctx, alice, c.ID); !errors.Is(err, core.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
	if err := repo.DeleteEvent(ctx, alice, e.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteClient(ctx, alice, c.ID); err != nil {
		t.Fatalf("delete after events removed: %v", err)
	}
}

func TestVendors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, v := range []core.Vendor{
		{Name: "Bloom", ServiceCategory: "Flowers", Services: "Bouquets", Availability: core.Available},
		{Name: "Snap", ServiceCategory: "Photography", Services: "Wedding shoots", Availability: core.Busy},
		{Name: "Feast", ServiceCategory: "Catering", Services: "Buffet and flowers", Availability: core.Available},
	} {
		v.Email, v.Phone, v.Owner = "v@x.com", "5551234567", "alice"
		if _, err := repo.CreateVendor(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.ListVendors(ctx, alice, ListFilter{Query: "flower"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "Feast" {
		t.Fatalf("query = %+v", list)
	}

	list, err = repo.ListVendors(ctx, alice, ListFilter{Category: "Photography"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Availability != core.Busy {
		t.Fatalf("category = %+v", list)
	}

	v := list[0]
	v.Availability = core.Unavailable
	v.Pricing = "$200/hr"
	got, err := repo.UpdateVendor(ctx, alice, v)
	if err != nil {
		t.Fatal(err)
	}
	if got.Availability != core.Unavailable || got.Pricing != "$200/hr" {
		t.Fatalf("got %+v", got)
	}
	if err := repo.DeleteVendor(ctx, alice, v.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteVendor(ctx, alice, v.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete = %v", err)
	}
}

func TestEvents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	c, e := seedEvent(t, repo, "alice")

	t.Run("vendor ids round trip", func(t *testing.T) {
		got, err := repo.GetEvent(ctx, alice, e.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(got.VendorIDs) != 2 || got.VendorIDs[1] != "v2" {
			t.Fatalf("vendor ids = %v", got.VendorIDs)
		}
		if got.Date.String() != "2024-05-01" || got.Time != "14:00" {
			t.Fatalf("slot = %s %s", got.Date, got.Time)
		}
	})

	t.Run("list ordered by date", func(t *testing.T) {
		for _, d := range []int{20, 3} {
			_, err := repo.CreateEvent(ctx, core.Event{
				Name: "E", Date: core.NewDate(2024, 4, d), Time: "10:00", Venue: "V",
				ClientID: c.ID, Status: core.StatusPlanned, Owner: "alice",
			})
			if err != nil {
				t.Fatal(err)
			}
		}
		list, err := repo.ListEvents(ctx, alice)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"2024-04-03", "2024-04-20", "2024-05-01"}
		for i, d := range want {
			if list[i].Date.String() != d {
				t.Fatalf("position %d = %s, want %s", i, list[i].Date, d)
			}
		}
	})

	t.Run("slot lookup crosses owners", func(t *testing.T) {
		_, other := seedEvent(t, repo, "bob")
		list, err := repo.ListEventsAt(ctx, core.NewDate(2024, 5, 1), "14:00")
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 || list[1].ID != other.ID {
			t.Fatalf("got %d events", len(list))
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := repo.CreateEvent(ctx, core.Event{
			Name: "X", Date: core.NewDate(2024, 1, 1), Time: "09:00", Venue: "V",
			ClientID: "missing", Status: core.StatusPlanned, Owner: "alice",
		})
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBudgetsAndExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, e := seedEvent(t, repo, "alice")

	b, err := repo.CreateBudget(ctx, core.Budget{EventID: e.ID, TotalBudget: core.Money{Cents: 100000}, Owner: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.CreateBudget(ctx, core.Budget{EventID: e.ID, TotalBudget: core.Money{Cents: 5}, Owner: "alice"}); !errors.Is(err, core.ErrBudgetExists) {
		t.Fatalf("expected ErrBudgetExists, got %v", err)
	}

	for _, amount := range []int64{80000, 30000} {
		_, err := repo.CreateExpense(ctx, core.Expense{
			BudgetID: b.ID, Category: "Venue", Description: "deposit",
			Amount: core.Money{Cents: amount}, Date: core.NewDate(2024, 4, 1), Owner: "alice",
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	list, err := repo.ListBudgetExpenses(ctx, alice, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d expenses", len(list))
	}

	b.TotalBudget = core.Money{Cents: 120000}
	updated, err := repo.UpdateBudget(ctx, alice, b)
	if err != nil {
		t.Fatal(err)
	}
	if updated.TotalBudget.Cents != 120000 {
		t.Fatalf("total = %d", updated.TotalBudget.Cents)
	}

	t.Run("event delete cascades", func(t *testing.T) {
		if err := repo.DeleteEvent(ctx, alice, e.ID); err != nil {
			t.Fatal(err)
		}
		if _, err := repo.GetBudget(ctx, alice, b.ID); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("budget survived: %v", err)
		}
		all, err := repo.ListExpenses(ctx, worker)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 0 {
			t.Fatalf("%d expenses survived", len(all))
		}
	})
}

func TestRoles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetRole(ctx, "u1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpsertRole(ctx, "u1", core.RoleUser); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpsertRole(ctx, "u1", core.RoleWorker); err != nil {
		t.Fatal(err)
	}
	role, err := repo.GetRole(ctx, "u1")
	if err != nil || role != core.RoleWorker {
		t.Fatalf("role = %q (err=%v)", role, err)
	}
	if err := repo.UpsertRole(ctx, "u1", "admin"); err == nil {
		t.Fatal("check constraint should reject unknown roles")
	}
}

func TestProfiles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p, err := repo.CreateProfile(ctx, core.Profile{Email: "Ann@Example.com", FullName: "Ann", PasswordHash: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateProfile(ctx, core.Profile{Email: "ann@example.com", PasswordHash: "y"}); !errors.Is(err, core.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	got, err := repo.GetProfileByEmail(ctx, "ann@example.com")
	if err != nil || got.ID != p.ID {
		t.Fatalf("got %+v (err=%v)", got, err)
	}
	if err := repo.UpdateProfileName(ctx, p.ID, "Ann Lee"); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetProfile(ctx, p.ID)
	if got.FullName != "Ann Lee" {
		t.Fatalf("full name = %q", got.FullName)
	}
}

func TestActivity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, action := range []string{"created", "updated"} {
		if _, err := repo.RecordActivity(ctx, core.Activity{Entity: "event", Action: action, EntityID: "e1", Owner: "alice", OccurredAt: repo.now()}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := repo.ListActivity(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Action != "updated" {
		t.Fatalf("got %+v", list)
	}
}
