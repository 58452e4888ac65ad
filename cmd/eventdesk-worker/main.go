package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"eventdesk/internal/amqp"
	"eventdesk/internal/cli"
	applog "eventdesk/internal/log"
	"eventdesk/internal/metrics"
	"eventdesk/internal/scheduler"
	gsheet "eventdesk/internal/sheets/google"
	"eventdesk/internal/services"
	"eventdesk/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(cli.BootstrapLogger(applog.ComponentWorker))
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)

	logger.Info("Starting eventdesk-worker", applog.FieldOperation, applog.OpStartup)

	if cfg.AMQPURL == "" && !cfg.SheetsEnabled() {
		logger.Error("Nothing to do: set AMQP_URL and/or GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	m := metrics.New()
	ctx, stop := cli.SignalContext(logger)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		activity := worker.NewActivityWorker(services.NewActivityService(repo, logger), m, logger)
		g.Go(func() error {
			err := client.ConsumeChanges(gctx, activity.HandleChange)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("AMQP disabled, activity log will not be updated")
	}

	if cfg.SheetsEnabled() {
		sheet, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleReportSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}

		reports := services.NewDashboardService(repo, nil, nil, logger)
		exporter := worker.NewReportExporter(reports, sheet, m, logger)

		sched := scheduler.New(time.Local, logger)
		id, err := sched.Add("report-export", cfg.ReportExportCron, exporter.Export)
		if err != nil {
			logger.Error("Failed to schedule report export", applog.FieldError, err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("Report export scheduled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"schedule", cfg.ReportExportCron,
			"next_run", sched.Next(id))
	} else {
		logger.Info("Google Sheets disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	if cfg.WorkerMetricsPort != "" {
		srv := &http.Server{
			Addr:              ":" + cfg.WorkerMetricsPort,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
