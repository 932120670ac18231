package checkinsdk

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a check-in server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is a staff bearer token. Leave empty when the server runs
	// without auth.
	Token string
}

// NewClient creates a client with a 10 second timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ============================================================================
// Attendees
// ============================================================================

// Register creates an attendee and returns it with its QR payload.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Attendee, error) {
	var out Attendee
	if err := c.doJSON(ctx, http.MethodPost, "/v1/attendees", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAttendees returns attendees newest first, filtered by search when set.
func (c *Client) ListAttendees(ctx context.Context, search string) (*ListAttendeesResponse, error) {
	path := "/v1/attendees"
	if search != "" {
		path += "?q=" + url.QueryEscape(search)
	}

	var out ListAttendeesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAttendee fetches a single attendee.
func (c *Client) GetAttendee(ctx context.Context, id string) (*Attendee, error) {
	var out Attendee
	if err := c.doJSON(ctx, http.MethodGet, "/v1/attendees/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the dashboard counters.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var out StatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/stats", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Scan sessions
// ============================================================================

// CreateSession opens a scan session that is ready to accept codes.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	var out Session
	if err := c.doJSON(ctx, http.MethodPost, "/v1/sessions", nil, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession returns the current snapshot of a session.
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	var out Session
	if err := c.doJSON(ctx, http.MethodGet, sessionPath(id, ""), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scan submits decoded QR text. A session in cooldown answers with an
// APIError whose code is ErrorCodeBusy.
func (c *Client) Scan(ctx context.Context, sessionID, text string) (*ScanResult, error) {
	var out ScanResult
	err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "/scan"), ScanRequest{Text: text}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitImage uploads an image of a QR code.
func (c *Client) SubmitImage(ctx context.Context, sessionID, filename string, image []byte) (*ScanResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/image"), &body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var out ScanResult
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScanNext skips the cooldown.
func (c *Client) ScanNext(ctx context.Context, sessionID string) (*Session, error) {
	var out Session
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "/next"), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Restart clears the displayed result and resumes scanning.
func (c *Client) Restart(ctx context.Context, sessionID string) (*Session, error) {
	var out Session
	if err := c.doJSON(ctx, http.MethodPost, sessionPath(sessionID, "/restart"), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession ends a session.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	resp, err := c.do(ctx, http.MethodDelete, sessionPath(sessionID, ""), nil, "")
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ============================================================================
// Health
// ============================================================================

// Livez calls the liveness probe.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz calls the readiness probe. A server that cannot reach its database
// answers 503, which is returned as an APIError.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func sessionPath(id, suffix string) string {
	return "/v1/sessions/" + url.PathEscape(id) + suffix
}
