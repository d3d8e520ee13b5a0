package session

import (
	"context"
	"sync"
	"time"

	"bgrid/internal/grid"
	"bgrid/internal/submission"
)

// Session holds the state for a single mount of the board: one navigator and
// one email form sharing a message line.
type Session struct {
	mu        sync.Mutex
	ID        string
	CreatedAt time.Time
	nav       *grid.Navigator
	form      *submission.Form
}

// New returns a session on the center cell with an empty form.
func New(id string, policy grid.Policy) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		nav:       grid.NewNavigator(policy),
		form:      submission.NewForm(),
	}
}

// Move applies one move. A blocked move sets the edge message, any other
// move clears the message.
func (s *Session) Move(dir grid.Direction) grid.MoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.nav.Move(dir)
	if res.Blocked {
		s.form.SetMessage(grid.BlockedMessage(dir))
	} else {
		s.form.SetMessage("")
	}
	return res
}

// Reset restores the center cell, zero steps, an empty message and an empty
// email. Results of submits still in flight are dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.Reset()
	s.form.Reset()
}

// SetEmail stores the email input value.
func (s *Session) SetEmail(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.SetEmail(value)
}

// SubmitResult reports what a Submit call did.
type SubmitResult struct {
	Outcome submission.Outcome
	// Applied is false when a newer submit or a reset superseded this one.
	Applied bool
}

// Pending is a submit that has started but has no answer yet.
type Pending struct {
	ticket  submission.Ticket
	Request submission.Request
}

// BeginSubmit marks the form as submitting and captures the email, position
// and steps to send. Any earlier pending submit becomes stale.
func (s *Session) BeginSubmit() Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket := s.form.Begin()
	x, y := s.nav.Coordinates()
	return Pending{
		ticket:  ticket,
		Request: submission.Request{X: x, Y: y, Steps: s.nav.Steps(), Email: ticket.Email},
	}
}

// FinishSubmit applies the answer to p. Only the newest submit may write the
// message. On a transport error the message is left as it was and err is
// returned.
func (s *Session) FinishSubmit(p Pending, outcome submission.Outcome, err error) (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.form.Abort(p.ticket)
		return SubmitResult{}, err
	}
	applied := s.form.Finish(p.ticket, outcome)
	return SubmitResult{Outcome: outcome, Applied: applied}, nil
}

// Submit runs BeginSubmit, the request and FinishSubmit. The lock is not held
// while the request is in flight, so moves can interleave.
func (s *Session) Submit(ctx context.Context, sub submission.Submitter) (SubmitResult, error) {
	p := s.BeginSubmit()
	outcome, err := sub.Submit(ctx, p.Request)
	return s.FinishSubmit(p, outcome, err)
}

// Snapshot is a consistent copy of the session state for rendering.
type Snapshot struct {
	ID        string
	Index     int
	X         int
	Y         int
	Steps     int
	Message   string
	Email     string
	FormState submission.State
}

// Snapshot returns a consistent view of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, y := s.nav.Coordinates()
	return Snapshot{
		ID:        s.ID,
		Index:     s.nav.Index(),
		X:         x,
		Y:         y,
		Steps:     s.nav.Steps(),
		Message:   s.form.Message(),
		Email:     s.form.Email(),
		FormState: s.form.State(),
	}
}
