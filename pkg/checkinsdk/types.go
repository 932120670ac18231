package checkinsdk

import "time"

// ============================================================================
// Attendees
// ============================================================================

// RegisterRequest is the body of POST /v1/attendees.
type RegisterRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	PaymentStatus bool   `json:"payment_status"`
}

// Attendee is a registered attendee as returned by the API.
type Attendee struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	PaymentStatus bool       `json:"payment_status"`
	CheckedIn     bool       `json:"checked_in"`
	CheckInTime   *time.Time `json:"check_in_time,omitempty"`
	QRCode        string     `json:"qr_code"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ListAttendeesResponse is returned from GET /v1/attendees, newest first.
type ListAttendeesResponse struct {
	Attendees []Attendee `json:"attendees"`
	Count     int        `json:"count"`
}

// StatsResponse is returned from GET /v1/stats. Percentages are rounded.
type StatsResponse struct {
	Total            int `json:"total"`
	CheckedIn        int `json:"checked_in"`
	Paid             int `json:"paid"`
	CheckedInPercent int `json:"checked_in_percent"`
	PaidPercent      int `json:"paid_percent"`
}

// ============================================================================
// Scan sessions
// ============================================================================

// ScanRequest is the body of POST /v1/sessions/{id}/scan.
type ScanRequest struct {
	Text string `json:"text"`
}

// Outcome is the result of verifying one scanned code.
type Outcome struct {
	// Kind is one of invalid, security_alert, not_found,
	// already_checked_in, transition_failed, checked_in.
	Kind string `json:"kind"`

	// Message is the text to show staff at the door.
	Message string `json:"message"`

	Reason           string    `json:"reason,omitempty"`
	Attendee         *Attendee `json:"attendee,omitempty"`
	Duplicate        bool      `json:"duplicate"`
	NameMismatch     bool      `json:"name_mismatch"`
	Retryable        bool      `json:"retryable"`
	SecurityRelevant bool      `json:"security_relevant"`
}

// ScanResult is returned from the scan and image endpoints.
type ScanResult struct {
	Outcome Outcome   `json:"outcome"`
	Source  string    `json:"source"`
	At      time.Time `json:"at"`
}

// Session is a snapshot of a scan session.
type Session struct {
	ID            string      `json:"id"`
	State         string      `json:"state"`
	CreatedAt     time.Time   `json:"created_at"`
	LastActive    time.Time   `json:"last_active"`
	Scanned       int         `json:"scanned"`
	SecurityAlert bool        `json:"security_alert"`
	Last          *ScanResult `json:"last,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned from /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks lists the dependencies checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}
