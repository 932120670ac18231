package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/jackc/pgx/v5"
)

const attendeeColumns = `id, name, phone, payment_status, checked_in, check_in_time, qr_code, created_at`

type attendeesRepo struct {
	q querier
}

func (r *attendeesRepo) GetAttendeeByID(ctx context.Context, id string) (domain.Attendee, error) {
	row := r.q.QueryRow(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE id = $1`, id)
	a, err := scanAttendee(row)
	if err != nil {
		return domain.Attendee{}, mapNotFound(err)
	}
	return a, nil
}

func (r *attendeesRepo) CreateAttendee(ctx context.Context, a domain.Attendee) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.q.Exec(ctx, `
		INSERT INTO attendees (`+attendeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID,
		a.Name,
		a.Phone,
		a.PaymentStatus,
		a.CheckedIn,
		a.CheckInTime,
		a.QRCode,
		createdAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *attendeesRepo) MarkCheckedIn(
	ctx context.Context,
	id string,
	at time.Time,
) (domain.Attendee, error) {
	// The row lock taken by UPDATE serialises concurrent stations; the
	// loser re-evaluates the WHERE clause and matches nothing.
	row := r.q.QueryRow(ctx, `
		UPDATE attendees
		SET checked_in = TRUE, check_in_time = $1
		WHERE id = $2 AND checked_in = FALSE
		RETURNING `+attendeeColumns,
		at.UTC(), id,
	)
	a, err := scanAttendee(row)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Attendee{}, err
	}

	current, err := r.GetAttendeeByID(ctx, id)
	if err != nil {
		return domain.Attendee{}, err
	}
	return current, store.ErrAlreadyCheckedIn
}

func (r *attendeesRepo) ListAttendees(ctx context.Context) ([]domain.Attendee, error) {
	rows, err := r.q.Query(ctx, `SELECT `+attendeeColumns+` FROM attendees ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attendee
	for rows.Next() {
		a, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *attendeesRepo) CountAttendees(ctx context.Context) (int, int, int, error) {
	var total, checkedIn, paid int
	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE checked_in),
			COUNT(*) FILTER (WHERE payment_status)
		FROM attendees`,
	).Scan(&total, &checkedIn, &paid)
	if err != nil {
		return 0, 0, 0, err
	}
	return total, checkedIn, paid, nil
}
