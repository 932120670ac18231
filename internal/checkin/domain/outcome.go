package domain

// OutcomeKind tags the variant carried by an Outcome.
type OutcomeKind int

const (
	OutcomeInvalid OutcomeKind = iota
	OutcomeSecurityAlert
	OutcomeNotFound
	OutcomeAlreadyCheckedIn
	OutcomeTransitionFailed
	OutcomeCheckedIn
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSecurityAlert:
		return "security_alert"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeAlreadyCheckedIn:
		return "already_checked_in"
	case OutcomeTransitionFailed:
		return "transition_failed"
	case OutcomeCheckedIn:
		return "checked_in"
	default:
		return "unknown"
	}
}

// Outcome is the result of one verification attempt. Kind selects the
// variant; Reason is set for Invalid and SecurityAlert, Attendee for
// AlreadyCheckedIn and CheckedIn.
type Outcome struct {
	Kind     OutcomeKind
	Reason   string
	Attendee *Attendee

	// Duplicate marks an AlreadyCheckedIn outcome as a re-presented code.
	Duplicate bool

	// NameMismatch is a soft warning: the name carried in the QR payload
	// differs from the stored record. It never changes Kind.
	NameMismatch bool
}

func Invalid(reason string) Outcome { return Outcome{Kind: OutcomeInvalid, Reason: reason} }

func SecurityAlert(reason string) Outcome {
	return Outcome{Kind: OutcomeSecurityAlert, Reason: reason}
}

func NotFound() Outcome { return Outcome{Kind: OutcomeNotFound} }

func AlreadyCheckedIn(a Attendee) Outcome {
	return Outcome{Kind: OutcomeAlreadyCheckedIn, Attendee: &a, Duplicate: true}
}

func TransitionFailed() Outcome { return Outcome{Kind: OutcomeTransitionFailed} }

func CheckedIn(a Attendee) Outcome { return Outcome{Kind: OutcomeCheckedIn, Attendee: &a} }

// Retryable reports whether the same scan may be submitted again. Only a
// failed store write qualifies since the attendee is still unchecked.
func (o Outcome) Retryable() bool { return o.Kind == OutcomeTransitionFailed }

// SecurityRelevant reports outcomes surfaced with elevated severity: a
// replayed code or one that was already used may indicate code sharing.
func (o Outcome) SecurityRelevant() bool {
	return o.Kind == OutcomeSecurityAlert || o.Kind == OutcomeAlreadyCheckedIn
}

// Message is the staff-facing text for the outcome.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeInvalid:
		return "Invalid QR code: " + o.Reason
	case OutcomeSecurityAlert:
		return "Security alert: this QR code was " + o.Reason
	case OutcomeNotFound:
		return "Attendee not found in the system"
	case OutcomeAlreadyCheckedIn:
		return "WARNING: this attendee has already checked in"
	case OutcomeTransitionFailed:
		return "Failed to mark attendance, please try again"
	case OutcomeCheckedIn:
		if o.Attendee != nil {
			return o.Attendee.Name + " marked as present"
		}
		return "Marked as present"
	default:
		return "Unknown outcome"
	}
}
