package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
	"github.com/aussiebroadwan/checkin/internal/checkin/store"
	"github.com/aussiebroadwan/checkin/pkg/qrx"
)

type AttendeeService struct {
	Store store.Store
}

// List returns attendees newest first. A non-empty search keeps attendees
// whose name contains it (case-insensitive) or whose phone contains it.
func (s *AttendeeService) List(ctx context.Context, search string) ([]domain.Attendee, error) {
	all, err := s.Store.Attendees().ListAttendees(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.TrimSpace(search)
	if search == "" {
		return all, nil
	}

	needle := strings.ToLower(search)
	out := make([]domain.Attendee, 0, len(all))
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Name), needle) || strings.Contains(a.Phone, search) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Get fetches a single attendee.
func (s *AttendeeService) Get(ctx context.Context, id string) (domain.Attendee, error) {
	return s.Store.Attendees().GetAttendeeByID(ctx, id)
}

// Stats summarises attendance for the dashboard.
func (s *AttendeeService) Stats(ctx context.Context) (domain.Stats, error) {
	total, checkedIn, paid, err := s.Store.Attendees().CountAttendees(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.NewStats(total, checkedIn, paid), nil
}

// QRImage renders the attendee's stored payload as a PNG and returns it with
// a download filename derived from their name.
func (s *AttendeeService) QRImage(ctx context.Context, id string, size int) ([]byte, string, error) {
	a, err := s.Store.Attendees().GetAttendeeByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	png, err := qrx.PNG(a.QRCode, size)
	if err != nil {
		return nil, "", fmt.Errorf("render qr: %w", err)
	}
	return png, QRFilename(a.Name), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]`)

// QRFilename maps "Alice O'Neil" to "qr_alice_o_neil.png".
func QRFilename(name string) string {
	return "qr_" + unsafeFilenameChars.ReplaceAllString(strings.ToLower(name), "_") + ".png"
}
