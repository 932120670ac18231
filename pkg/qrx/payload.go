// Package qrx encodes and decodes the attendee QR payload. The payload is a
// bearer token: possession plus server-side idempotency is its only
// protection, so nothing here signs or expires it.
package qrx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

var (
	ErrMalformedFormat   = errors.New("qrx: malformed payload")
	ErrMissingIdentifier = errors.New("qrx: missing user id")
)

// Payload is the structured data carried by an attendee QR code.
type Payload struct {
	UserID    string
	Name      string // optional, used for a soft consistency check
	Timestamp int64  // optional, ms since epoch, audit only
}

// DecodeError reports why a scanned text could not become a Payload. It
// matches ErrMalformedFormat or ErrMissingIdentifier with errors.Is.
type DecodeError struct {
	Kind error
	Err  error // underlying parse error, if any
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *DecodeError) Is(target error) bool { return target == e.Kind }

func (e *DecodeError) Unwrap() error { return e.Err }

// wirePayload fixes the field order so Encode is deterministic.
type wirePayload struct {
	UserID    string `json:"userId"`
	Name      string `json:"name,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Encode serialises the payload as a JSON object. Empty optional fields are
// omitted.
func Encode(p Payload) (string, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return "", ErrMissingIdentifier
	}

	b, err := json.Marshal(wirePayload{
		UserID:    p.UserID,
		Name:      p.Name,
		Timestamp: p.Timestamp,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses scanned text into a Payload. The text must be exactly one
// JSON object with correctly typed fields; unknown fields are ignored.
func Decode(text string) (Payload, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Payload{}, &DecodeError{Kind: ErrMalformedFormat}
	}

	var raw struct {
		UserID    *string      `json:"userId"`
		Name      *string      `json:"name"`
		Timestamp *json.Number `json:"timestamp"`
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Payload{}, &DecodeError{Kind: ErrMalformedFormat, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Payload{}, &DecodeError{Kind: ErrMalformedFormat, Err: errors.New("trailing data")}
	}

	var p Payload
	if raw.Timestamp != nil {
		ts, err := parseTimestamp(*raw.Timestamp)
		if err != nil {
			return Payload{}, &DecodeError{Kind: ErrMalformedFormat, Err: err}
		}
		p.Timestamp = ts
	}
	if raw.Name != nil {
		p.Name = *raw.Name
	}
	if raw.UserID == nil || strings.TrimSpace(*raw.UserID) == "" {
		return Payload{}, &DecodeError{Kind: ErrMissingIdentifier}
	}
	p.UserID = *raw.UserID

	return p, nil
}

func parseTimestamp(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", n.String())
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("timestamp %q out of range", n.String())
	}
	return int64(f), nil
}
