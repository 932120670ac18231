// Package events fans check-in transitions out to other consumers, such as
// dashboards on other stations.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	DefaultSubject = "checkin.events"

	TypeCheckedIn = "checkin.checked_in"
)

// Event is the message published for each successful check-in.
type Event struct {
	Type        string    `json:"type"`
	AttendeeID  string    `json:"attendee_id"`
	Name        string    `json:"name"`
	CheckInTime time.Time `json:"check_in_time"`
	SessionID   string    `json:"session_id,omitempty"`
}

// Publisher delivers events. Publishing is best effort: callers log
// failures and carry on, the store remains the source of truth.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// NATSPublisher publishes events as JSON on a single subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url. The connection reconnects forever so a
// broker restart does not take the service down.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("checkin"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, data)
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
