package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// newTestStore starts a throwaway postgres container. It is skipped in
// -short mode and when no container runtime is reachable.
func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres driver test needs a container runtime")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("checkin"),
		tcpostgres.WithUsername("checkin"),
		tcpostgres.WithPassword("checkin"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	st, err := postgres.NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestPostgresCheckInLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, a := range []domain.Attendee{
		{ID: "a1", Name: "Alice", Phone: "1", PaymentStatus: true},
		{ID: "a2", Name: "Bob", Phone: "2"},
	} {
		a.QRCode = `{"userId":"` + a.ID + `"}`
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, st.Attendees().CreateAttendee(ctx, a))
	}

	err := st.Attendees().CreateAttendee(ctx, domain.Attendee{ID: "a1", Name: "Dup", Phone: "9"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = st.Attendees().GetAttendeeByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.Attendees().MarkCheckedIn(ctx, "a1", time.Now()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)

	a, err := st.Attendees().MarkCheckedIn(ctx, "a1", time.Now())
	require.ErrorIs(t, err, store.ErrAlreadyCheckedIn)
	require.True(t, a.CheckedIn)
	require.NotNil(t, a.CheckInTime)

	_, err = st.Attendees().MarkCheckedIn(ctx, "missing", time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := st.Attendees().ListAttendees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a2", list[0].ID)

	total, checkedIn, paid, err := st.Attendees().CountAttendees(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, 1, checkedIn)
	require.Equal(t, 1, paid)
}
