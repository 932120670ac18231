package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/events"
	"github.com/aussiebroadwan/checkin/internal/checkin/metrics"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/pkg/qrx"
	"github.com/aussiebroadwan/checkin/pkg/slogx"
)

const (
	ReasonMissingUserID    = "missing user id"
	ReasonMalformedPayload = "invalid QR code format"
	ReasonRecentlyScanned  = "recently scanned"
)

// AttendanceVerifier turns a decoded QR payload into an attendance state
// transition. Every failure is converted into a domain.Outcome; nothing is
// returned as an error.
type AttendanceVerifier struct {
	Store   store.Store
	Guard   *ReplayGuard
	Events  events.Publisher // optional
	Metrics *metrics.Metrics // optional

	// SessionID is attached to published events.
	SessionID string

	// Now defaults to time.Now.
	Now func() time.Time
}

// VerifyText decodes scanned text and verifies the resulting payload.
func (v *AttendanceVerifier) VerifyText(ctx context.Context, text string) domain.Outcome {
	payload, err := qrx.Decode(text)
	if err != nil {
		start := time.Now()
		log := slogx.FromContext(ctx)

		reason := ReasonMalformedPayload
		if errors.Is(err, qrx.ErrMissingIdentifier) {
			reason = ReasonMissingUserID
		}
		log.Warn("rejected unreadable qr payload", slog.Any("error", err))

		outcome := domain.Invalid(reason)
		v.Metrics.ObserveOutcome(outcome.Kind.String(), time.Since(start))
		return outcome
	}

	return v.Verify(ctx, payload)
}

// Verify applies the check-in rules, in order, each step short-circuiting:
//  1. the payload must carry a user id
//  2. ids already seen this session raise a security alert without a store read
//  3. the attendee must exist
//  4. a name mismatch is flagged but does not block
//  5. an attendee already checked in is reported as a duplicate, no write
//  6. otherwise the attendee is conditionally marked checked in
func (v *AttendanceVerifier) Verify(ctx context.Context, payload qrx.Payload) domain.Outcome {
	start := time.Now()
	outcome := v.verify(ctx, payload)
	v.Metrics.ObserveOutcome(outcome.Kind.String(), time.Since(start))
	return outcome
}

func (v *AttendanceVerifier) verify(ctx context.Context, payload qrx.Payload) domain.Outcome {
	log := slogx.FromContext(ctx)

	// 1. Structural validation
	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		log.Warn("scan rejected: payload has no user id")
		return domain.Invalid(ReasonMissingUserID)
	}
	log = log.With(slog.String("user_id", userID))

	// 2. Replay check
	if v.Guard.HasRecentlyScanned(userID) {
		log.Warn("security alert: code re-presented within session")
		return domain.SecurityAlert(ReasonRecentlyScanned)
	}

	// 3. Lookup
	attendee, err := v.Store.Attendees().GetAttendeeByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("scan rejected: attendee not found")
		} else {
			log.Error("failed to look up attendee", slog.Any("error", err))
		}
		return domain.NotFound()
	}

	// 4. Secondary consistency check
	nameMismatch := payload.Name != "" && payload.Name != attendee.Name
	if nameMismatch {
		log.Warn("qr name does not match stored name",
			slog.String("qr_name", payload.Name),
			slog.String("stored_name", attendee.Name),
		)
	}

	// 5. Already checked in
	if attendee.CheckedIn {
		return v.duplicate(log, attendee, nameMismatch)
	}

	// 6. First check-in
	updated, err := v.Store.Attendees().MarkCheckedIn(ctx, userID, v.now())
	if err != nil {
		if errors.Is(err, store.ErrAlreadyCheckedIn) {
			// Another station won the conditional update.
			return v.duplicate(log, updated, nameMismatch)
		}
		log.Error("failed to mark attendee checked in", slog.Any("error", err))
		return domain.TransitionFailed()
	}

	v.Guard.RecordScanned(userID)
	v.publish(ctx, log, updated)

	log.Info("attendee checked in", slog.Time("check_in_time", *updated.CheckInTime))

	outcome := domain.CheckedIn(updated)
	outcome.NameMismatch = nameMismatch
	return outcome
}

func (v *AttendanceVerifier) duplicate(
	log *slog.Logger,
	attendee domain.Attendee,
	nameMismatch bool,
) domain.Outcome {
	v.Guard.RecordScanned(attendee.ID)

	log.Warn("security alert: attendee already checked in",
		slog.String("name", attendee.Name),
	)

	outcome := domain.AlreadyCheckedIn(attendee)
	outcome.NameMismatch = nameMismatch
	return outcome
}

func (v *AttendanceVerifier) publish(ctx context.Context, log *slog.Logger, a domain.Attendee) {
	if v.Events == nil {
		return
	}

	err := v.Events.Publish(ctx, events.Event{
		Type:        events.TypeCheckedIn,
		AttendeeID:  a.ID,
		Name:        a.Name,
		CheckInTime: *a.CheckInTime,
		SessionID:   v.SessionID,
	})
	if err != nil {
		log.Warn("failed to publish check-in event", slog.Any("error", err))
	}
}

func (v *AttendanceVerifier) now() time.Time {
	if v.Now != nil {
		return v.Now().UTC()
	}
	return time.Now().UTC()
}
