package http

import (
	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/scan"
	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/pkg/checkinsdk"
)

func toAttendee(a domain.Attendee) checkinsdk.Attendee {
	return checkinsdk.Attendee{
		ID:            a.ID,
		Name:          a.Name,
		Phone:         a.Phone,
		PaymentStatus: a.PaymentStatus,
		CheckedIn:     a.CheckedIn,
		CheckInTime:   a.CheckInTime,
		QRCode:        a.QRCode,
		CreatedAt:     a.CreatedAt,
	}
}

func toOutcome(o domain.Outcome) checkinsdk.Outcome {
	out := checkinsdk.Outcome{
		Kind:             o.Kind.String(),
		Message:          o.Message(),
		Reason:           o.Reason,
		Duplicate:        o.Duplicate,
		NameMismatch:     o.NameMismatch,
		Retryable:        o.Retryable(),
		SecurityRelevant: o.SecurityRelevant(),
	}
	if o.Attendee != nil {
		a := toAttendee(*o.Attendee)
		out.Attendee = &a
	}
	return out
}

func toScanResult(r scan.Result) checkinsdk.ScanResult {
	return checkinsdk.ScanResult{
		Outcome: toOutcome(r.Outcome),
		Source:  string(r.Source),
		At:      r.At,
	}
}

func toSession(v service.SessionView) checkinsdk.Session {
	out := checkinsdk.Session{
		ID:            v.ID,
		State:         v.Snapshot.State.String(),
		CreatedAt:     v.CreatedAt,
		LastActive:    v.LastActive,
		Scanned:       v.Scanned,
		SecurityAlert: v.Snapshot.SecurityAlert,
	}
	if v.Snapshot.Last != nil {
		r := toScanResult(*v.Snapshot.Last)
		out.Last = &r
	}
	return out
}
