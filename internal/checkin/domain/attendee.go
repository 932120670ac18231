package domain

import "time"

// Attendee is a registered person eligible for check-in. Name, phone and
// payment status are fixed at registration; only CheckedIn and CheckInTime
// are ever mutated, and only once.
type Attendee struct {
	ID            string
	Name          string
	Phone         string
	PaymentStatus bool
	CheckedIn     bool
	CheckInTime   *time.Time // nil until the first successful check-in
	QRCode        string     // payload text issued at registration (audit only)
	CreatedAt     time.Time
}
