package services

import (
	"context"
	"time"

	"eventdesk/internal/amqp"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
	"eventdesk/internal/session"
	"eventdesk/internal/storage"
)

// ActivityService keeps the audit trail built from change messages.
type ActivityService struct {
	repo   *storage.SQLiteRepository
	logger *applog.Logger
}

func NewActivityService(repo *storage.SQLiteRepository, logger *applog.Logger) *ActivityService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ActivityService{repo: repo, logger: logger.WithComponent(applog.ComponentWorker)}
}

// Record stores one change message. It is the worker's consumer handler.
func (s *ActivityService) Record(ctx context.Context, msg *amqp.ChangeMessage) error {
	occurred := msg.Timestamp
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	id, err := s.repo.RecordActivity(ctx, core.Activity{
		Entity:     msg.Entity,
		Action:     msg.Action,
		EntityID:   msg.ID,
		Owner:      msg.Owner,
		OccurredAt: occurred,
	})
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Recorded activity",
		"activity_id", id,
		applog.FieldEntity, msg.Entity,
		applog.FieldEntityID, msg.ID,
		applog.FieldOperation, msg.Action)
	return nil
}

// Recent returns the latest entries. Only workers may read the trail.
func (s *ActivityService) Recent(ctx context.Context, sess session.Session, limit int) ([]core.Activity, error) {
	if !sess.IsWorker() {
		return nil, core.ErrForbidden
	}
	return s.repo.ListActivity(ctx, limit)
}
