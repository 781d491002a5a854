// Package events carries dataset reload notifications over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// ReloadEvent announces that a new dataset version was loaded.
type ReloadEvent struct {
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Invalidator is anything holding results that a reload makes stale.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Connect opens a NATS connection with the shared client settings.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name(name), nats.Timeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	return nc, nil
}

// Publisher emits reload events.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher publishes on subject, or the default reload subject when empty.
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = contract.DefaultReloadSubject
	}
	return &Publisher{nc: nc, subject: subject}
}

// PublishReload sends the event and waits for the server to acknowledge the flush.
func (p *Publisher) PublishReload(ctx context.Context, version string, loadedAt time.Time) error {
	body, err := json.Marshal(ReloadEvent{Version: version, LoadedAt: loadedAt.UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode reload event: %w", err)
	}
	if err := p.nc.Publish(p.subject, body); err != nil {
		return fmt.Errorf("publishing reload event on %s: %w", p.subject, err)
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flushing reload event: %w", err)
	}
	return nil
}

// Subscriber invalidates its target whenever a reload event arrives.
type Subscriber struct {
	target   Invalidator
	logger   *zap.Logger
	onReload func(ReloadEvent)
}

// NewSubscriber creates a subscriber. onReload may be nil.
func NewSubscriber(target Invalidator, logger *zap.Logger, onReload func(ReloadEvent)) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{target: target, logger: logger, onReload: onReload}
}

// handle processes one message. Malformed payloads still invalidate, since
// any message on the subject means the data moved.
func (s *Subscriber) handle(ctx context.Context, msg *nats.Msg) {
	var event ReloadEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Warn("malformed reload event", zap.String("subject", msg.Subject), zap.Error(err))
		event = ReloadEvent{}
	}

	if err := s.target.Invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("version", event.Version), zap.Error(err))
		return
	}
	s.logger.Info("cache invalidated", zap.String("version", event.Version), zap.Time("loaded_at", event.LoadedAt))
	if s.onReload != nil {
		s.onReload(event)
	}
}

// Watch subscribes to subject and blocks until ctx is done.
func (s *Subscriber) Watch(ctx context.Context, nc *nats.Conn, subject string) error {
	if subject == "" {
		subject = contract.DefaultReloadSubject
	}
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		s.handle(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	s.logger.Info("watching for dataset reloads", zap.String("subject", subject))

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil && nc.IsConnected() {
		return fmt.Errorf("unsubscribing from %s: %w", subject, err)
	}
	return nil
}
