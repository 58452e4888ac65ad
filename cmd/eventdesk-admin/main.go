// Command eventdesk-admin runs maintenance tasks against the eventdesk
// database.
//
//	eventdesk-admin migrate up|down|version
//	eventdesk-admin set-role <email> <user|worker>
//	eventdesk-admin export-report [-dry-run]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"eventdesk/internal/cli"
	"eventdesk/internal/config"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
	"eventdesk/internal/services"
	"eventdesk/internal/session"
	"eventdesk/internal/sheets"
	gsheet "eventdesk/internal/sheets/google"
	"eventdesk/internal/sheets/memory"
	"eventdesk/internal/storage"
	"eventdesk/internal/worker"
)

var errUsage = errors.New("usage: eventdesk-admin migrate up|down|version | set-role <email> <role> | export-report [-dry-run]")

func main() {
	cli.LoadEnvFile()
	logger := cli.BootstrapLogger(applog.ComponentAdmin)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", applog.FieldError, err)
		os.Exit(1)
	}
	logger = cli.SetupLogger(cfg, applog.ComponentAdmin)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	if err := run(ctx, os.Args[1:], cfg, os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logger.Error("Command failed", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg *config.Config, stdout io.Writer, logger *applog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	if cfg.SQLiteDBPath == "" {
		return errors.New("SQLITE_DB_PATH is empty")
	}
	switch args[0] {
	case "migrate":
		return runMigrate(args[1:], cfg, stdout, logger)
	case "set-role":
		return runSetRole(ctx, args[1:], cfg, stdout, logger)
	case "export-report":
		return runExport(ctx, args[1:], cfg, stdout, logger)
	}
	return errUsage
}

func runMigrate(args []string, cfg *config.Config, stdout io.Writer, logger *applog.Logger) error {
	if len(args) != 1 {
		return errUsage
	}
	switch args[0] {
	case "up":
		if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
			return err
		}
		logger.Info("Migrations applied", "path", cfg.SQLiteDBPath)
	case "down":
		if err := storage.RollbackMigrations(cfg.SQLiteDBPath); err != nil {
			return err
		}
		logger.Warn("Migrations rolled back", "path", cfg.SQLiteDBPath)
	case "version":
	default:
		return errUsage
	}
	version, dirty, err := storage.MigrationVersion(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "version %d dirty=%t\n", version, dirty)
	return nil
}

func runSetRole(ctx context.Context, args []string, cfg *config.Config, stdout io.Writer, logger *applog.Logger) error {
	if len(args) != 2 {
		return errUsage
	}
	role, err := core.ParseRole(args[1])
	if err != nil {
		return err
	}
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	p, err := repo.GetProfileByEmail(ctx, args[0])
	if err != nil {
		return fmt.Errorf("find %s: %w", args[0], err)
	}
	if err := session.NewResolver(repo, p.ID).Switch(ctx, role); err != nil {
		return err
	}
	logger.Info("Role updated", applog.FieldUserID, p.ID, applog.FieldRole, string(role))
	fmt.Fprintf(stdout, "%s is now %s\n", p.Email, role)
	return nil
}

func runExport(ctx context.Context, args []string, cfg *config.Config, stdout io.Writer, logger *applog.Logger) error {
	fs := flag.NewFlagSet("export-report", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dryRun := fs.Bool("dry-run", false, "print the rows instead of writing the sheet")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	var (
		writer sheets.ReportWriter
		dump   *memory.Store
	)
	if *dryRun {
		dump = memory.New()
		writer = dump
	} else {
		if !cfg.SheetsEnabled() {
			return errors.New("GOOGLE_SPREADSHEET_ID is not set; use -dry-run to print the report")
		}
		client, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleReportSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			return err
		}
		writer = client
	}

	exporter := worker.NewReportExporter(services.NewDashboardService(repo, nil, nil, logger), writer, nil, logger)
	if err := exporter.Export(ctx); err != nil {
		return err
	}
	if dump != nil {
		return dump.Dump(stdout)
	}
	fmt.Fprintf(stdout, "report written to sheet %q\n", cfg.GoogleReportSheetName)
	return nil
}
