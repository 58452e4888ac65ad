// Package worker holds the background jobs run by eventdesk-worker: the
// change-message consumer that keeps the activity log, and the scheduled
// report export.
package worker

import (
	"context"
	"fmt"

	"eventdesk/internal/amqp"
	applog "eventdesk/internal/log"
	"eventdesk/internal/metrics"
	"eventdesk/internal/rules"
	"eventdesk/internal/session"
	"eventdesk/internal/sheets"
)

// Recorder persists one change message.
type Recorder interface {
	Record(ctx context.Context, msg *amqp.ChangeMessage) error
}

// ReportSource builds the dashboard report for a scope.
type ReportSource interface {
	Report(ctx context.Context, scope session.Scope) (rules.Report, error)
}

type ActivityWorker struct {
	recorder Recorder
	metrics  *metrics.Metrics
	logger   *applog.Logger
}

func NewActivityWorker(recorder Recorder, m *metrics.Metrics, logger *applog.Logger) *ActivityWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ActivityWorker{recorder: recorder, metrics: m, logger: logger.WithComponent(applog.ComponentWorker)}
}

// HandleChange is an amqp.Handler.
func (w *ActivityWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	w.logger.InfoContext(ctx, "Processing change message",
		applog.FieldEntity, msg.Entity,
		applog.FieldEntityID, msg.ID,
		applog.FieldOperation, msg.Action)

	if err := w.recorder.Record(ctx, msg); err != nil {
		w.metrics.Consumed(false)
		return fmt.Errorf("record activity: %w", err)
	}
	w.metrics.Consumed(true)
	return nil
}

// ReportExporter writes the cross-tenant dashboard report to a sheet.
type ReportExporter struct {
	source  ReportSource
	writer  sheets.ReportWriter
	metrics *metrics.Metrics
	logger  *applog.Logger
}

func NewReportExporter(source ReportSource, writer sheets.ReportWriter, m *metrics.Metrics, logger *applog.Logger) *ReportExporter {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ReportExporter{source: source, writer: writer, metrics: m, logger: logger.WithComponent(applog.ComponentSheets)}
}

// Export is a scheduler.Job.
func (e *ReportExporter) Export(ctx context.Context) error {
	report, err := e.source.Report(ctx, session.Scope{All: true})
	if err != nil {
		e.metrics.ReportExported(false)
		return fmt.Errorf("build report: %w", err)
	}
	rows := sheets.Rows(report)
	if err := e.writer.WriteRows(ctx, rows); err != nil {
		e.metrics.ReportExported(false)
		return fmt.Errorf("write report: %w", err)
	}
	e.metrics.ReportExported(true)
	e.logger.InfoContext(ctx, "Exported dashboard report",
		applog.FieldOperation, applog.OpExport,
		applog.FieldCount, len(rows))
	return nil
}
