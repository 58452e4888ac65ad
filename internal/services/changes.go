package services

import (
	"context"
	"sync"

	"eventdesk/internal/amqp"
	applog "eventdesk/internal/log"
	"eventdesk/internal/metrics"
)

// Publisher sends change messages to the broker.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// Changes fans a successful mutation out to the broker and to in-process
// listeners such as the dashboard cache. Publishing never fails the write.
type Changes struct {
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *applog.Logger

	mu        sync.RWMutex
	listeners []func(entity string)
}

// NewChanges accepts a nil publisher, in which case messages are dropped.
func NewChanges(publisher Publisher, m *metrics.Metrics, logger *applog.Logger) *Changes {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Changes{publisher: publisher, metrics: m, logger: logger}
}

// Subscribe registers fn to run after every mutation.
func (c *Changes) Subscribe(fn func(entity string)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Changes) Notify(ctx context.Context, entity, action, id, owner string) {
	c.metrics.Mutation(entity, action)

	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(entity)
	}

	if c.publisher == nil {
		c.logger.DebugContext(ctx, "AMQP publisher not configured, skipping change message",
			applog.FieldEntity, entity, applog.FieldEntityID, id)
		return
	}
	msg := amqp.NewChangeMessage(entity, action, id, owner)
	if err := c.publisher.PublishChange(ctx, msg); err != nil {
		c.metrics.PublishFailed()
		c.logger.ErrorContext(ctx, "Failed to publish change message",
			applog.FieldError, err,
			applog.FieldEntity, entity,
			applog.FieldEntityID, id,
			applog.FieldOperation, applog.OpPublish)
	}
}
