// Package notify publishes launcher lifecycle events to NATS so other local
// tooling can react to backend and frontend starts and stops.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/eventstore"
	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
)

// Message is the JSON document published for every event.
type Message struct {
	RunID     string            `json:"run_id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   json.RawMessage   `json:"payload,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// Publisher sends events to subject prefix + "." + snake-cased event type.
type Publisher struct {
	conn    Conn
	subject string
}

// Connect dials url and returns a publisher for subject.
func Connect(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("branchlaunch"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, ferrors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}

	slog.Info("NATS publisher connected", logfields.URL(url), slog.String("subject", subject))
	return NewPublisher(conn, subject), nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// Subject returns the subject an event type is published on.
func (p *Publisher) Subject(eventType string) string {
	return p.subject + "." + snakeCase(eventType)
}

// Record publishes e and flushes so the event is on the wire before the
// launcher moves on.
func (p *Publisher) Record(ctx context.Context, e eventstore.Event) error {
	msg := Message{
		RunID:     e.RunID(),
		Type:      e.Type(),
		Timestamp: e.Timestamp().UTC(),
		Payload:   json.RawMessage(e.Payload()),
		Metadata:  e.Metadata(),
	}
	if len(msg.Payload) == 0 {
		msg.Payload = nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	subject := p.Subject(e.Type())
	if err := p.conn.Publish(subject, data); err != nil {
		return ferrors.NotifyError("failed to publish event").
			WithCause(err).
			WithContext("subject", subject).
			Build()
	}

	flushCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(flushCtx); err != nil {
		return ferrors.NotifyError("failed to flush event").
			WithCause(err).
			WithContext("subject", subject).
			Build()
	}
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
