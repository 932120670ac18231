package sqlite_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestCreateAndGetAttendee(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	a := domain.Attendee{
		ID:            "0b7c6a8e-3f0e-4a57-9a43-5d2b0b1f2c11",
		Name:          "Alice",
		Phone:         "0400 000 000",
		PaymentStatus: true,
		QRCode:        `{"userId":"0b7c6a8e-3f0e-4a57-9a43-5d2b0b1f2c11","name":"Alice"}`,
		CreatedAt:     created,
	}
	require.NoError(t, st.Attendees().CreateAttendee(ctx, a))

	got, err := st.Attendees().GetAttendeeByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Name, got.Name)
	require.Equal(t, a.Phone, got.Phone)
	require.True(t, got.PaymentStatus)
	require.False(t, got.CheckedIn)
	require.Nil(t, got.CheckInTime)
	require.Equal(t, a.QRCode, got.QRCode)
	require.True(t, created.Equal(got.CreatedAt))

	// Ids are unique
	err = st.Attendees().CreateAttendee(ctx, a)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = st.Attendees().GetAttendeeByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkCheckedInIsConditional(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Attendees().CreateAttendee(ctx, domain.Attendee{
		ID: "a1", Name: "Alice", Phone: "1", QRCode: `{"userId":"a1"}`,
	}))

	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated, err := st.Attendees().MarkCheckedIn(ctx, "a1", first)
	require.NoError(t, err)
	require.True(t, updated.CheckedIn)
	require.NotNil(t, updated.CheckInTime)
	require.True(t, first.Equal(*updated.CheckInTime))

	// A second transition must not move the check-in time.
	current, err := st.Attendees().MarkCheckedIn(ctx, "a1", first.Add(time.Hour))
	require.ErrorIs(t, err, store.ErrAlreadyCheckedIn)
	require.True(t, first.Equal(*current.CheckInTime))

	_, err = st.Attendees().MarkCheckedIn(ctx, "missing", first)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkCheckedInConcurrentStations(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Attendees().CreateAttendee(ctx, domain.Attendee{
		ID: "a1", Name: "Alice", Phone: "1", QRCode: `{"userId":"a1"}`,
	}))

	const stations = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range stations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Attendees().MarkCheckedIn(ctx, "a1", time.Now())
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
}

func TestListAndCountAttendees(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, a := range []domain.Attendee{
		{ID: "a1", Name: "Alice", Phone: "1", PaymentStatus: true},
		{ID: "a2", Name: "Bob", Phone: "2"},
		{ID: "a3", Name: "Carol", Phone: "3", PaymentStatus: true},
	} {
		a.QRCode = `{"userId":"` + a.ID + `"}`
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, st.Attendees().CreateAttendee(ctx, a))
	}
	_, err := st.Attendees().MarkCheckedIn(ctx, "a2", base.Add(time.Hour))
	require.NoError(t, err)

	list, err := st.Attendees().ListAttendees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "a3", list[0].ID) // newest first
	require.Equal(t, "a1", list[2].ID)

	total, checkedIn, paid, err := st.Attendees().CountAttendees(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Equal(t, 1, checkedIn)
	require.Equal(t, 2, paid)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Attendees().CreateAttendee(ctx, domain.Attendee{ID: "a1", Name: "Alice", Phone: "1"}); err != nil {
			return err
		}
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = st.Attendees().GetAttendeeByID(ctx, "a1")
	require.ErrorIs(t, err, store.ErrNotFound)
}
