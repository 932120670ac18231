package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/internal/checkin/store/drivers/sqlite/gen"
)

type attendeesRepo struct {
	q *gen.Queries
}

func (r *attendeesRepo) GetAttendeeByID(ctx context.Context, id string) (domain.Attendee, error) {
	row, err := r.q.GetAttendeeByID(ctx, id)
	if err != nil {
		return domain.Attendee{}, mapNotFound(err)
	}
	return mapAttendee(row), nil
}

func (r *attendeesRepo) CreateAttendee(ctx context.Context, a domain.Attendee) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := r.q.CreateAttendee(ctx, gen.CreateAttendeeParams{
		ID:            a.ID,
		Name:          a.Name,
		Phone:         a.Phone,
		PaymentStatus: a.PaymentStatus,
		CheckedIn:     a.CheckedIn,
		CheckInTime:   mapOptionalTime(a.CheckInTime),
		QrCode:        a.QRCode,
		CreatedAt:     createdAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *attendeesRepo) MarkCheckedIn(
	ctx context.Context,
	id string,
	at time.Time,
) (domain.Attendee, error) {
	// The write and the read of the updated row are one statement, so a
	// committed check-in is never reported as a failure.
	row, err := r.q.MarkCheckedIn(ctx, gen.MarkCheckedInParams{
		CheckInTime: sql.NullTime{Time: at.UTC(), Valid: true},
		ID:          id,
	})
	if err == nil {
		return mapAttendee(row), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Attendee{}, err
	}

	current, err := r.GetAttendeeByID(ctx, id)
	if err != nil {
		return domain.Attendee{}, err
	}
	return current, store.ErrAlreadyCheckedIn
}

func (r *attendeesRepo) ListAttendees(ctx context.Context) ([]domain.Attendee, error) {
	rows, err := r.q.ListAttendees(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Attendee, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAttendee(row))
	}
	return out, nil
}

func (r *attendeesRepo) CountAttendees(ctx context.Context) (int, int, int, error) {
	row, err := r.q.CountAttendees(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	return int(row.Total), int(row.CheckedIn), int(row.Paid), nil
}
