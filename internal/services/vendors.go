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

type VendorService struct {
	repo    *storage.SQLiteRepository
	changes *Changes
	logger  *applog.Logger
}

func NewVendorService(repo *storage.SQLiteRepository, changes *Changes, logger *applog.Logger) *VendorService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &VendorService{repo: repo, changes: changes, logger: logger.WithComponent(applog.ComponentVendors)}
}

// List filters by a free-text query over name and services, and by
// exact service category.
func (s *VendorService) List(ctx context.Context, sess session.Session, query, category string) ([]core.Vendor, error) {
	return s.repo.ListVendors(ctx, sess.Scope(), storage.ListFilter{
		Query:    strings.TrimSpace(query),
		Category: strings.TrimSpace(category),
	})
}

func (s *VendorService) Get(ctx context.Context, sess session.Session, id string) (core.Vendor, error) {
	return s.repo.GetVendor(ctx, sess.Scope(), id)
}

func (s *VendorService) Create(ctx context.Context, sess session.Session, v core.Vendor) (core.Vendor, error) {
	v = normalizeVendor(v)
	if err := v.Validate(); err != nil {
		return core.Vendor{}, err
	}
	v.Owner = sess.UserID

	created, err := s.repo.CreateVendor(ctx, v)
	if err != nil {
		return core.Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	s.changes.Notify(ctx, amqp.EntityVendor, amqp.ActionCreated, created.ID, created.Owner)
	return created, nil
}

func (s *VendorService) Update(ctx context.Context, sess session.Session, id string, v core.Vendor) (core.Vendor, error) {
	v = normalizeVendor(v)
	if err := v.Validate(); err != nil {
		return core.Vendor{}, err
	}
	v.ID = id

	updated, err := s.repo.UpdateVendor(ctx, sess.Scope(), v)
	if err != nil {
		return core.Vendor{}, err
	}
	s.changes.Notify(ctx, amqp.EntityVendor, amqp.ActionUpdated, updated.ID, updated.Owner)
	return updated, nil
}

// Delete removes the vendor. Events that listed it keep the stale id.
func (s *VendorService) Delete(ctx context.Context, sess session.Session, id string) error {
	if err := s.repo.DeleteVendor(ctx, sess.Scope(), id); err != nil {
		return err
	}
	s.changes.Notify(ctx, amqp.EntityVendor, amqp.ActionDeleted, id, sess.UserID)
	return nil
}

func normalizeVendor(v core.Vendor) core.Vendor {
	v.Name = strings.TrimSpace(v.Name)
	v.Email = strings.TrimSpace(v.Email)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Services = strings.TrimSpace(v.Services)
	v.Pricing = strings.TrimSpace(v.Pricing)
	if v.Availability == "" {
		v.Availability = core.Available
	}
	return v
}
