package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/events"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("database is locked")

// countingStore wraps a real store so tests can count reads/writes and
// inject write failures.
type countingStore struct {
	store.Store
	attendees *countingAttendees
}

func (s *countingStore) Attendees() store.Attendees { return s.attendees }

type countingAttendees struct {
	store.Attendees

	mu          sync.Mutex
	reads       int
	writes      int
	failWrites  int
	beforeWrite func()
}

func (a *countingAttendees) GetAttendeeByID(ctx context.Context, id string) (domain.Attendee, error) {
	a.mu.Lock()
	a.reads++
	a.mu.Unlock()
	return a.Attendees.GetAttendeeByID(ctx, id)
}

func (a *countingAttendees) MarkCheckedIn(ctx context.Context, id string, at time.Time) (domain.Attendee, error) {
	a.mu.Lock()
	a.writes++
	fail := a.failWrites > 0
	if fail {
		a.failWrites--
	}
	hook := a.beforeWrite
	a.mu.Unlock()

	if hook != nil {
		hook()
	}
	if fail {
		return domain.Attendee{}, errTransient
	}
	return a.Attendees.MarkCheckedIn(ctx, id, at)
}

func (a *countingAttendees) counts() (reads, writes int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reads, a.writes
}

func newCountingStore(t *testing.T) (*countingStore, *sqlite.Store) {
	t.Helper()

	inner, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = inner.Close() })
	require.NoError(t, inner.ApplyMigrations())

	return &countingStore{
		Store:     inner,
		attendees: &countingAttendees{Attendees: inner.Attendees()},
	}, inner
}

func seedAttendee(t *testing.T, st store.Store, id, name string) domain.Attendee {
	t.Helper()

	a := domain.Attendee{
		ID:        id,
		Name:      name,
		Phone:     "0400 000 000",
		QRCode:    `{"userId":"` + id + `"}`,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Attendees().CreateAttendee(context.Background(), a))
	return a
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}
