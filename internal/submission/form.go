// Package submission holds the email form state machine and the client for
// the remote collaborator that judges the email.
package submission

import "regexp"

// State is the form lifecycle: Idle -> Submitting -> Succeeded|Failed -> Idle.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LooksLikeEmail is a cheap client-side hint. It never decides validity;
// the collaborator does.
func LooksLikeEmail(s string) bool {
	return emailShape.MatchString(s)
}

// Ticket identifies one in-flight submit. Only the newest ticket may apply
// its outcome.
type Ticket struct {
	Seq   uint64
	Email string
}

// Form is not safe for concurrent use; the owning session serializes access.
type Form struct {
	email   string
	message string
	state   State
	seq     uint64
}

func NewForm() *Form {
	return &Form{state: StateIdle}
}

func (f *Form) Email() string   { return f.email }
func (f *Form) Message() string { return f.message }
func (f *Form) State() State    { return f.state }

// SetEmail stores the input value. A finished form goes back to idle.
func (f *Form) SetEmail(value string) {
	f.email = value
	if f.state != StateSubmitting {
		f.state = StateIdle
	}
}

// SetMessage overrides the message line, used for navigation feedback.
func (f *Form) SetMessage(msg string) {
	f.message = msg
}

// Begin starts a submit of the current email. Any earlier ticket becomes stale.
func (f *Form) Begin() Ticket {
	f.seq++
	f.state = StateSubmitting
	return Ticket{Seq: f.seq, Email: f.email}
}

// Finish applies outcome if t is still the newest ticket and reports whether
// it did.
func (f *Form) Finish(t Ticket, outcome Outcome) bool {
	if t.Seq != f.seq {
		return false
	}
	f.message = outcome.Message
	if outcome.Accepted {
		f.state = StateSucceeded
		if f.email == t.Email {
			f.email = ""
		}
	} else {
		f.state = StateFailed
	}
	return true
}

// Abort ends the newest submit without touching the message, as happens on a
// transport failure.
func (f *Form) Abort(t Ticket) bool {
	if t.Seq != f.seq {
		return false
	}
	f.state = StateIdle
	return true
}

// Reset clears the email and message and invalidates in-flight submits.
func (f *Form) Reset() {
	f.seq++
	f.email = ""
	f.message = ""
	f.state = StateIdle
}
