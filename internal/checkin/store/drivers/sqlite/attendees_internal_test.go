package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/sqlite/gen"
	"github.com/stretchr/testify/require"
)

// failingReads lets writes through but fails every plain SELECT, the way a
// busy or dropped connection would right after a commit.
type failingReads struct {
	*sql.DB
}

func (f failingReads) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	if strings.Contains(query, "-- name: GetAttendeeByID") {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		return f.DB.QueryRowContext(cancelled, query, args...)
	}
	return f.DB.QueryRowContext(ctx, query, args...)
}

func TestMarkCheckedInSurvivesFailedRead(t *testing.T) {
	ctx := context.Background()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	require.NoError(t, st.Attendees().CreateAttendee(ctx, domain.Attendee{
		ID: "a1", Name: "Alice", Phone: "1", QRCode: `{"userId":"a1"}`,
	}))

	repo := &attendeesRepo{q: gen.New(failingReads{st.db})}

	_, err = repo.GetAttendeeByID(ctx, "a1")
	require.ErrorIs(t, err, context.Canceled)

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated, err := repo.MarkCheckedIn(ctx, "a1", at)
	require.NoError(t, err)
	require.True(t, updated.CheckedIn)
	require.Equal(t, "Alice", updated.Name)
	require.NotNil(t, updated.CheckInTime)
	require.True(t, at.Equal(*updated.CheckInTime))

	stored, err := st.Attendees().GetAttendeeByID(ctx, "a1")
	require.NoError(t, err)
	require.True(t, stored.CheckedIn)
}
