package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"eventdesk/internal/cache"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
	"eventdesk/internal/rules"
	"eventdesk/internal/session"
	"eventdesk/internal/storage"
)

type View string

const (
	ViewWorker View = "worker"
	ViewUser   View = "user"
)

// Dashboard holds exactly one of Report (worker view) or Bookings (user
// view), selected by View.
type Dashboard struct {
	View     View            `json:"view"`
	Report   *rules.Report   `json:"report,omitempty"`
	Bookings *rules.Bookings `json:"bookings,omitempty"`
}

type DashboardService struct {
	repo   *storage.SQLiteRepository
	cache  cache.Cache[Dashboard]
	logger *applog.Logger
	now    func() time.Time
}

// NewDashboardService caches dashboards per scope and drops the whole cache
// on every change published through changes.
func NewDashboardService(repo *storage.SQLiteRepository, c cache.Cache[Dashboard], changes *Changes, logger *applog.Logger) *DashboardService {
	if logger == nil {
		logger = applog.Discard()
	}
	s := &DashboardService{
		repo:   repo,
		cache:  c,
		logger: logger.WithComponent(applog.ComponentDashboard),
		now:    time.Now,
	}
	if changes != nil && c != nil {
		changes.Subscribe(func(string) { c.Purge() })
	}
	return s
}

// Dashboard returns the worker report for workers and the own-bookings view
// for everyone else.
func (s *DashboardService) Dashboard(ctx context.Context, sess session.Session) (Dashboard, error) {
	scope := sess.Scope()
	key := string(viewOf(sess)) + "|" + scope.Key()
	if s.cache != nil {
		if d, ok := s.cache.Get(key); ok {
			return d, nil
		}
	}

	var d Dashboard
	if sess.IsWorker() {
		report, err := s.Report(ctx, scope)
		if err != nil {
			return Dashboard{}, err
		}
		d = Dashboard{View: ViewWorker, Report: &report}
	} else {
		events, err := s.repo.ListEvents(ctx, scope)
		if err != nil {
			return Dashboard{}, fmt.Errorf("load bookings: %w", err)
		}
		bookings := rules.OwnBookings(s.now(), events)
		d = Dashboard{View: ViewUser, Bookings: &bookings}
	}

	if s.cache != nil {
		s.cache.Set(key, d)
	}
	return d, nil
}

// Report loads the five collections of scope concurrently and aggregates
// them. It bypasses the cache.
func (s *DashboardService) Report(ctx context.Context, scope session.Scope) (rules.Report, error) {
	var ds rules.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ds.Clients, err = s.repo.ListClients(gctx, scope, storage.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		ds.Events, err = s.repo.ListEvents(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		ds.Vendors, err = s.repo.ListVendors(gctx, scope, storage.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		ds.Budgets, err = s.repo.ListBudgets(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		ds.Expenses, err = s.repo.ListExpenses(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return rules.Report{}, fmt.Errorf("load dashboard data: %w", err)
	}

	start := time.Now()
	report := rules.Aggregate(s.now().UTC(), ds)
	s.logger.DebugContext(ctx, "Aggregated dashboard",
		applog.FieldCount, len(ds.Events),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return report, nil
}

func viewOf(sess session.Session) View {
	if sess.Role == core.RoleWorker {
		return ViewWorker
	}
	return ViewUser
}
