package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"eventdesk/internal/auth"
	"eventdesk/internal/calendar"
	applog "eventdesk/internal/log"
	"eventdesk/internal/metrics"
	"eventdesk/internal/middleware/ratelimit"
	"eventdesk/internal/middleware/security"
	"eventdesk/internal/middleware/trace"
	"eventdesk/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the use cases the handlers call.
type Services struct {
	Accounts  *services.AccountService
	Clients   *services.ClientService
	Vendors   *services.VendorService
	Events    *services.EventService
	Budgets   *services.BudgetService
	Dashboard *services.DashboardService
	Activity  *services.ActivityService
}

type Options struct {
	Addr               string
	Tokens             *auth.JWTManager
	DB                 Pinger
	Metrics            *metrics.Metrics
	Logger             *applog.Logger
	Calendar           *calendar.Feed
	RateLimitPerMinute int
	TrustedProxies     []string
}

type Server struct {
	http.Server
	mux      *http.ServeMux
	svc      Services
	tokens   *auth.JWTManager
	db       Pinger
	metrics  *metrics.Metrics
	logger   *applog.Logger
	calendar *calendar.Feed

	limiter  *ratelimit.Limiter
	detector *security.Detector
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. It fails only on an invalid trusted
// proxy entry.
func NewServer(opts Options, svc Services) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	detector, err := security.NewDetector(opts.TrustedProxies...)
	if err != nil {
		return nil, err
	}
	feed := opts.Calendar
	if feed == nil {
		feed = calendar.NewFeed("eventdesk", time.UTC)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		svc:      svc,
		tokens:   opts.Tokens,
		db:       opts.DB,
		metrics:  opts.Metrics,
		logger:   logger.WithComponent(applog.ComponentHTTP),
		calendar: feed,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: detector,
		started:  time.Now(),
	}
	s.routes()

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(s.mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /readyz", s.handleReady)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)

	s.mux.Handle("GET /api/me", s.authed(s.handleMe))
	s.mux.Handle("PUT /api/me", s.authed(s.handleUpdateMe))
	s.mux.Handle("PUT /api/me/role", s.authed(s.handleSwitchRole))

	s.mux.Handle("GET /api/clients", s.authed(s.handleListClients))
	s.mux.Handle("POST /api/clients", s.authed(s.handleCreateClient))
	s.mux.Handle("GET /api/clients/{id}", s.authed(s.handleGetClient))
	s.mux.Handle("PUT /api/clients/{id}", s.authed(s.handleUpdateClient))
	s.mux.Handle("DELETE /api/clients/{id}", s.authed(s.handleDeleteClient))

	s.mux.Handle("GET /api/vendors", s.authed(s.handleListVendors))
	s.mux.Handle("POST /api/vendors", s.authed(s.handleCreateVendor))
	s.mux.Handle("GET /api/vendors/{id}", s.authed(s.handleGetVendor))
	s.mux.Handle("PUT /api/vendors/{id}", s.authed(s.handleUpdateVendor))
	s.mux.Handle("DELETE /api/vendors/{id}", s.authed(s.handleDeleteVendor))

	s.mux.Handle("GET /api/events", s.authed(s.handleListEvents))
	s.mux.Handle("POST /api/events", s.authed(s.handleCreateEvent))
	s.mux.Handle("GET /api/events/conflict", s.authed(s.handleCheckConflict))
	s.mux.Handle("GET /api/events.ics", s.authed(s.handleEventsCalendar))
	s.mux.Handle("GET /api/events/{id}", s.authed(s.handleGetEvent))
	s.mux.Handle("PUT /api/events/{id}", s.authed(s.handleUpdateEvent))
	s.mux.Handle("DELETE /api/events/{id}", s.authed(s.handleDeleteEvent))

	s.mux.Handle("GET /api/budgets", s.authed(s.handleListBudgets))
	s.mux.Handle("POST /api/budgets", s.authed(s.handleCreateBudget))
	s.mux.Handle("GET /api/budgets/{id}", s.authed(s.handleGetBudget))
	s.mux.Handle("PUT /api/budgets/{id}", s.authed(s.handleUpdateBudget))
	s.mux.Handle("DELETE /api/budgets/{id}", s.authed(s.handleDeleteBudget))
	s.mux.Handle("GET /api/budgets/{id}/expenses", s.authed(s.handleListExpenses))
	s.mux.Handle("POST /api/budgets/{id}/expenses", s.authed(s.handleAddExpense))
	s.mux.Handle("DELETE /api/expenses/{id}", s.authed(s.handleDeleteExpense))

	s.mux.Handle("GET /api/dashboard", s.authed(s.handleDashboard))
	s.mux.Handle("GET /api/activity", s.authed(s.handleActivity))
}

// middleware wraps h, outermost first: security headers, request logger,
// tracing, request-id tagging, suspicious-request logging, then rate
// limiting on /api and /auth.
func (s *Server) middleware(h http.Handler) http.Handler {
	open := h
	limited := s.limiter.Middleware(s.detector.ClientIP, s.onRateLimited)(h)
	h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/auth/") {
			limited.ServeHTTP(w, r)
			return
		}
		open.ServeHTTP(w, r)
	})
	h = s.detector.Middleware(s.onSuspicious)(h)
	h = applog.RequestIDMiddleware(trace.FromHeader)(h)
	h = trace.NewMiddleware(s.logger, s.metrics, s.detector.ClientIP, s.routeOf).Middleware(h)
	h = applog.Middleware(s.logger)(h)
	return security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
}

func (s *Server) routeOf(r *http.Request) string {
	_, pattern := s.mux.Handler(r)
	return pattern
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.metrics.RateLimited()
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ClientIP(r),
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}

func (s *Server) onSuspicious(r *http.Request) {
	s.metrics.Suspicious()
	applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).WarnContext(r.Context(), "Suspicious request",
		applog.FieldClientIP, s.detector.ClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path,
		applog.FieldUserAgent, r.Header.Get("User-Agent"))
}

// Shutdown stops the limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
