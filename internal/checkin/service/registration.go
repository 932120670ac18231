package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/pkg/qrx"
	"github.com/aussiebroadwan/checkin/pkg/slogx"
	"github.com/google/uuid"
)

var ErrInvalidRegistration = errors.New("name and phone are required")

type RegisterRequest struct {
	Name          string
	Phone         string
	PaymentStatus bool
}

type RegistrationService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

// Register stores a new attendee and issues the QR payload they present at
// the door.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (domain.Attendee, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		log.Warn("rejected registration with missing fields")
		return domain.Attendee{}, ErrInvalidRegistration
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	now = now.UTC()

	// 2. Issue the payload
	id := uuid.NewString()
	payload, err := qrx.Encode(qrx.Payload{
		UserID:    id,
		Name:      name,
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("encode qr payload: %w", err)
	}

	attendee := domain.Attendee{
		ID:            id,
		Name:          name,
		Phone:         phone,
		PaymentStatus: req.PaymentStatus,
		QRCode:        payload,
		CreatedAt:     now,
	}

	// 3. Persist
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Attendees().CreateAttendee(ctx, attendee)
	})
	if err != nil {
		log.Error("failed to create attendee",
			slog.String("user_id", id),
			slog.Any("error", err),
		)
		return domain.Attendee{}, err
	}

	log.Info("attendee registered",
		slog.String("user_id", id),
		slog.Bool("paid", req.PaymentStatus),
	)
	return attendee, nil
}
