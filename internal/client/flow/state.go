package flow

import "github.com/dmitrijs2005/yogayukt/internal/client/validation"

// State is the screen the auth flow is on.
type State int

const (
	StateLanding State = iota
	StateLogin
	StateSignup
	StateOTPVerify
	StateSeekerHome
)

func (s State) String() string {
	switch s {
	case StateLanding:
		return "landing"
	case StateLogin:
		return "login"
	case StateSignup:
		return "signup"
	case StateOTPVerify:
		return "otp_verify"
	case StateSeekerHome:
		return "seeker_home"
	default:
		return "unknown"
	}
}

// Outcome reports what a submit did.
type Outcome int

const (
	// OutcomeAdvanced: the flow moved to the next state.
	OutcomeAdvanced Outcome = iota + 1
	// OutcomeInvalid: the form failed validation; see View.FieldErrors.
	OutcomeInvalid
	// OutcomeFailed: the backend call failed; see View.Error.
	OutcomeFailed
	// OutcomeIgnored: wrong state, a call already in flight, or terms not
	// accepted. Nothing changed.
	OutcomeIgnored
	// OutcomeStale: the user navigated away while the call was in flight
	// and its result was dropped.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdvanced:
		return "advanced"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// View is what a screen needs to render the flow.
type View struct {
	State       State
	FieldErrors validation.FieldErrors
	Pending     bool
	Error       string
	OTP         []string
	OTPComplete bool
}
