package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
)

var (
	ErrNotFound         = errors.New("store: not found")
	ErrAlreadyExists    = errors.New("store: already exists")
	ErrAlreadyCheckedIn = errors.New("store: already checked in")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories hang off it as methods so a Tx-scoped Store
// hands out the same repositories bound to the transaction.
type Store interface {
	Attendees() Attendees

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Attendees interface {
	// GetAttendeeByID returns an attendee by id or ErrNotFound.
	GetAttendeeByID(ctx context.Context, id string) (domain.Attendee, error)

	// CreateAttendee inserts a new attendee. ErrAlreadyExists if the id is taken.
	CreateAttendee(ctx context.Context, a domain.Attendee) error

	// MarkCheckedIn sets checked_in and check_in_time only if the attendee is
	// not yet checked in, and returns the updated record. This is the
	// compare-and-swap that keeps check-in at most once across stations.
	// Returns ErrNotFound for an unknown id. When the condition did not hold
	// it returns the current record together with ErrAlreadyCheckedIn.
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (domain.Attendee, error)

	// ListAttendees returns all attendees ordered by creation date (newest first).
	ListAttendees(ctx context.Context) ([]domain.Attendee, error)

	// CountAttendees returns the total, checked-in and paid counts.
	CountAttendees(ctx context.Context) (total, checkedIn, paid int, err error)
}
