package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventdesk/internal/amqp"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
	"eventdesk/internal/metrics"
	"eventdesk/internal/rules"
	"eventdesk/internal/session"
	"eventdesk/internal/storage"
)

type EventService struct {
	repo    *storage.SQLiteRepository
	changes *Changes
	metrics *metrics.Metrics
	logger  *applog.Logger
}

func NewEventService(repo *storage.SQLiteRepository, changes *Changes, m *metrics.Metrics, logger *applog.Logger) *EventService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &EventService{repo: repo, changes: changes, metrics: m, logger: logger.WithComponent(applog.ComponentEvents)}
}

// List returns the visible events ordered by date then time.
func (s *EventService) List(ctx context.Context, sess session.Session) ([]core.Event, error) {
	return s.repo.ListEvents(ctx, sess.Scope())
}

func (s *EventService) Get(ctx context.Context, sess session.Session, id string) (core.Event, error) {
	return s.repo.GetEvent(ctx, sess.Scope(), id)
}

// CheckConflict reports whether the slot is taken by another active event.
// A failed lookup is logged and reported as no conflict.
func (s *EventService) CheckConflict(ctx context.Context, slot rules.Slot) bool {
	existing, err := s.repo.ListEventsAt(ctx, slot.Date, slot.Time)
	if err != nil {
		s.metrics.ConflictCheckFailed()
		s.logger.WarnContext(ctx, "Venue conflict check failed, allowing booking",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpConflict,
			applog.FieldDate, slot.Date.String(),
			applog.FieldTime, string(slot.Time),
			applog.FieldVenue, slot.Venue)
		return false
	}
	return rules.HasVenueConflict(existing, slot)
}

func (s *EventService) Create(ctx context.Context, sess session.Session, e core.Event) (core.Event, error) {
	e = normalizeEvent(e)
	if err := s.prepare(ctx, sess, e); err != nil {
		return core.Event{}, err
	}
	e.Owner = sess.UserID

	created, err := s.repo.CreateEvent(ctx, e)
	if errors.Is(err, core.ErrNotFound) {
		return core.Event{}, &core.ValidationError{Field: "client_id", Err: core.ErrNotFound}
	}
	if err != nil {
		return core.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.changes.Notify(ctx, amqp.EntityEvent, amqp.ActionCreated, created.ID, created.Owner)
	return created, nil
}

func (s *EventService) Update(ctx context.Context, sess session.Session, id string, e core.Event) (core.Event, error) {
	e = normalizeEvent(e)
	e.ID = id
	if _, err := s.repo.GetEvent(ctx, sess.Scope(), id); err != nil {
		return core.Event{}, err
	}
	if err := s.prepare(ctx, sess, e); err != nil {
		return core.Event{}, err
	}

	updated, err := s.repo.UpdateEvent(ctx, sess.Scope(), e)
	if err != nil {
		return core.Event{}, err
	}
	s.changes.Notify(ctx, amqp.EntityEvent, amqp.ActionUpdated, updated.ID, updated.Owner)
	return updated, nil
}

// Delete removes the event along with its budget and expenses.
func (s *EventService) Delete(ctx context.Context, sess session.Session, id string) error {
	if err := s.repo.DeleteEvent(ctx, sess.Scope(), id); err != nil {
		return err
	}
	s.changes.Notify(ctx, amqp.EntityEvent, amqp.ActionDeleted, id, sess.UserID)
	return nil
}

// prepare validates e, checks that its client is visible and that the venue
// slot is free. Cancelled events never conflict.
func (s *EventService) prepare(ctx context.Context, sess session.Session, e core.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.GetClient(ctx, sess.Scope(), e.ClientID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return &core.ValidationError{Field: "client_id", Err: core.ErrNotFound}
		}
		return fmt.Errorf("load client: %w", err)
	}
	if e.Status == core.StatusCancelled {
		return nil
	}
	slot := rules.Slot{Date: e.Date, Time: e.Time, Venue: e.Venue, ExcludeID: e.ID}
	if s.CheckConflict(ctx, slot) {
		s.metrics.VenueConflict()
		s.logger.InfoContext(ctx, "Rejected booking for taken venue slot",
			applog.FieldOperation, applog.OpConflict,
			applog.FieldDate, e.Date.String(),
			applog.FieldTime, string(e.Time),
			applog.FieldVenue, e.Venue)
		return core.ErrVenueConflict
	}
	return nil
}

func normalizeEvent(e core.Event) core.Event {
	e.Name = strings.TrimSpace(e.Name)
	e.Venue = strings.TrimSpace(e.Venue)
	e.ClientID = strings.TrimSpace(e.ClientID)
	e.Description = strings.TrimSpace(e.Description)
	if e.Status == "" {
		e.Status = core.StatusPlanned
	}
	ids := make([]string, 0, len(e.VendorIDs))
	seen := make(map[string]bool, len(e.VendorIDs))
	for _, id := range e.VendorIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	e.VendorIDs = ids
	return e
}
