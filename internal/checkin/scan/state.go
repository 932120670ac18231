package scan

import (
	"time"

	"github.com/aussiebroadwan/checkin/internal/checkin/domain"
)

// State is the position of a scan session in its lifecycle.
type State int

const (
	Idle State = iota
	Scanning
	Processing
	ShowingResult
	Cooldown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Processing:
		return "processing"
	case ShowingResult:
		return "showing_result"
	case Cooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Source records where the scanned text came from.
type Source string

const (
	SourceStream Source = "stream"
	SourceText   Source = "text"
	SourceImage  Source = "image"
)

// Result is one verification as seen by the station.
type Result struct {
	Outcome domain.Outcome
	Source  Source
	At      time.Time
}

// Snapshot is a point-in-time view of a Controller.
type Snapshot struct {
	State         State
	Last          *Result
	SecurityAlert bool
}
