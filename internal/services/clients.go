package services

import (
	"context"
	"fmt"
	"strings"

	"eventdesk/internal/amqp"
	"eventdesk/internal/core"
	applog "eventdesk/internal/log"
	"eventdesk/internal/session"
	"eventdesk/internal/storage"
)

type ClientService struct {
	repo    *storage.SQLiteRepository
	changes *Changes
	logger  *applog.Logger
}

func NewClientService(repo *storage.SQLiteRepository, changes *Changes, logger *applog.Logger) *ClientService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ClientService{repo: repo, changes: changes, logger: logger.WithComponent(applog.ComponentClients)}
}

func (s *ClientService) List(ctx context.Context, sess session.Session, query string) ([]core.Client, error) {
	return s.repo.ListClients(ctx, sess.Scope(), storage.ListFilter{Query: strings.TrimSpace(query)})
}

func (s *ClientService) Get(ctx context.Context, sess session.Session, id string) (core.Client, error) {
	return s.repo.GetClient(ctx, sess.Scope(), id)
}

func (s *ClientService) Create(ctx context.Context, sess session.Session, c core.Client) (core.Client, error) {
	c = normalizeClient(c)
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	c.Owner = sess.UserID

	created, err := s.repo.CreateClient(ctx, c)
	if err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}
	s.changes.Notify(ctx, amqp.EntityClient, amqp.ActionCreated, created.ID, created.Owner)
	return created, nil
}

// Update replaces the editable fields of the client with id.
func (s *ClientService) Update(ctx context.Context, sess session.Session, id string, c core.Client) (core.Client, error) {
	c = normalizeClient(c)
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	c.ID = id

	updated, err := s.repo.UpdateClient(ctx, sess.Scope(), c)
	if err != nil {
		return core.Client{}, err
	}
	s.changes.Notify(ctx, amqp.EntityClient, amqp.ActionUpdated, updated.ID, updated.Owner)
	return updated, nil
}

func (s *ClientService) Delete(ctx context.Context, sess session.Session, id string) error {
	if err := s.repo.DeleteClient(ctx, sess.Scope(), id); err != nil {
		return err
	}
	s.changes.Notify(ctx, amqp.EntityClient, amqp.ActionDeleted, id, sess.UserID)
	return nil
}

func normalizeClient(c core.Client) core.Client {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Company = strings.TrimSpace(c.Company)
	c.Address = strings.TrimSpace(c.Address)
	return c
}
