package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

// Publisher sends registry events to subscribers.
type Publisher interface {
	// Publish encodes payload as JSON and sends it.
	Publish(ctx context.Context, payload any) error
	// Close releases the underlying connection.
	Close()
}

// NATSPublisher publishes events on a fixed NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// New returns a NATS backed publisher, or a Noop publisher when no URL is configured.
func New(cfg Config) (Publisher, error) {
	if !cfg.Enabled() {
		return Noop{}, nil
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientName),
		nats.Timeout(time.Duration(timeout)*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	_ = p.conn.Drain()
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, any) error { return nil }

// Close implements Publisher.
func (Noop) Close() {}
