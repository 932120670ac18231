package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/service"
	"github.com/aussiebroadwan/checkin/pkg/qrx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegisterIssuesPayload(t *testing.T) {
	ctx := context.Background()
	st, _ := newCountingStore(t)

	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &service.RegistrationService{Store: st, Now: func() time.Time { return fixed }}

	a, err := svc.Register(ctx, service.RegisterRequest{
		Name:          "  Alice  ",
		Phone:         " 0400 111 222 ",
		PaymentStatus: true,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(a.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", a.Name)
	require.Equal(t, "0400 111 222", a.Phone)
	require.False(t, a.CheckedIn)

	p, err := qrx.Decode(a.QRCode)
	require.NoError(t, err)
	require.Equal(t, qrx.Payload{UserID: a.ID, Name: "Alice", Timestamp: fixed.UnixMilli()}, p)

	stored, err := st.Attendees().GetAttendeeByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.QRCode, stored.QRCode)
	require.True(t, stored.PaymentStatus)
	require.Nil(t, stored.CheckInTime)
}

func TestRegisterRequiresNameAndPhone(t *testing.T) {
	st, _ := newCountingStore(t)
	svc := &service.RegistrationService{Store: st}

	for _, req := range []service.RegisterRequest{
		{Name: "", Phone: "0400"},
		{Name: "Alice", Phone: "   "},
		{},
	} {
		_, err := svc.Register(context.Background(), req)
		require.ErrorIs(t, err, service.ErrInvalidRegistration)
	}
}

func TestRegisteredAttendeeChecksIn(t *testing.T) {
	ctx := context.Background()
	st, _ := newCountingStore(t)

	a, err := (&service.RegistrationService{Store: st}).Register(ctx, service.RegisterRequest{
		Name:  "Alice",
		Phone: "0400",
	})
	require.NoError(t, err)

	v := &service.AttendanceVerifier{Store: st, Guard: service.NewReplayGuard()}

	first := v.VerifyText(ctx, a.QRCode)
	require.Equal(t, domain.OutcomeCheckedIn, first.Kind)

	second := v.VerifyText(ctx, a.QRCode)
	require.Equal(t, domain.OutcomeSecurityAlert, second.Kind)
}
