package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"eventdesk/internal/amqp"
	"eventdesk/internal/auth"
	"eventdesk/internal/cache"
	"eventdesk/internal/cli"
	apphttp "eventdesk/internal/http"
	applog "eventdesk/internal/log"
	"eventdesk/internal/metrics"
	"eventdesk/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(cli.BootstrapLogger(applog.ComponentApp))
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	logger.Info("Starting eventdesk", applog.FieldOperation, applog.OpStartup, "port", cfg.Port)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	m := metrics.New()

	// Without a broker the API still works; the activity log just stays empty.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, change messages disabled", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled, change messages will not be published")
	}
	changes := services.NewChanges(publisher, m, logger)

	dashboards := cache.NewLRUCache[services.Dashboard](256, cfg.DashboardCacheTTL)
	m.RegisterCacheStats("dashboard", dashboards.Stats)
	janitor := cache.NewJanitor(logger)
	janitor.Register(dashboards)
	janitor.Start(time.Minute)
	defer janitor.Stop()

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	svc := apphttp.Services{
		Accounts:  services.NewAccountService(repo, auth.NewPasswordAuthenticator(repo), tokens, changes, logger),
		Clients:   services.NewClientService(repo, changes, logger),
		Vendors:   services.NewVendorService(repo, changes, logger),
		Events:    services.NewEventService(repo, changes, m, logger),
		Budgets:   services.NewBudgetService(repo, changes, m, logger),
		Dashboard: services.NewDashboardService(repo, dashboards, changes, logger),
		Activity:  services.NewActivityService(repo, logger),
	}

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Tokens:             tokens,
		DB:                 repo,
		Metrics:            m,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	}, svc)
	if err != nil {
		logger.Error("Failed to create HTTP server", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	}()

	logger.Info("HTTP server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	<-stopped
	logger.Info("Server stopped gracefully")
}
