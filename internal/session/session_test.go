package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"bgrid/internal/grid"
	"bgrid/internal/submission"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func acceptAll(msg string) submission.Submitter {
	return submission.SubmitterFunc(func(ctx context.Context, req submission.Request) (submission.Outcome, error) {
		return submission.Outcome{Accepted: true, Message: msg}, nil
	})
}

func TestNew(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	snap := s.Snapshot()
	if snap.ID != "abc" {
		t.Errorf("ID %q, want abc", snap.ID)
	}
	if snap.Index != grid.Center {
		t.Errorf("Index %d, want %d", snap.Index, grid.Center)
	}
	if snap.X != 2 || snap.Y != 2 {
		t.Errorf("coordinates (%d, %d), want (2, 2)", snap.X, snap.Y)
	}
	if snap.Steps != 0 || snap.Message != "" || snap.Email != "" {
		t.Errorf("unexpected initial snapshot %+v", snap)
	}
	if snap.FormState != submission.StateIdle {
		t.Errorf("FormState %q, want idle", snap.FormState)
	}
}

func TestSession_MoveBlockedSetsMessage(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.Move(grid.Up)
	res := s.Move(grid.Up)
	if !res.Blocked {
		t.Fatal("second Up should be blocked")
	}
	if got := s.Snapshot().Message; got != "You can't go up" {
		t.Errorf("Message %q, want You can't go up", got)
	}
	s.Move(grid.Down)
	if got := s.Snapshot().Message; got != "" {
		t.Errorf("Message %q, want empty after a successful move", got)
	}
}

func TestSession_ResetClearsEverything(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.Move(grid.Up)
	s.Move(grid.Up)
	s.SetEmail("lady@gaga.com")
	s.Reset()
	snap := s.Snapshot()
	if snap.Index != grid.Center || snap.Steps != 0 || snap.Message != "" || snap.Email != "" {
		t.Errorf("after Reset %+v", snap)
	}
	s.Reset()
	if again := s.Snapshot(); again != snap {
		t.Errorf("second Reset changed state: %+v vs %+v", again, snap)
	}
}

func TestSession_SubmitSendsPosition(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.Move(grid.Up)
	s.Move(grid.Left)
	s.SetEmail("lady@gaga.com")

	var got submission.Request
	sub := submission.SubmitterFunc(func(ctx context.Context, req submission.Request) (submission.Outcome, error) {
		got = req
		return submission.Outcome{Accepted: true, Message: "lady win #29"}, nil
	})
	res, err := s.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Applied {
		t.Error("result should be applied")
	}
	want := submission.Request{X: 1, Y: 1, Steps: 2, Email: "lady@gaga.com"}
	if got != want {
		t.Errorf("request %+v, want %+v", got, want)
	}
	snap := s.Snapshot()
	if snap.Message != "lady win #29" {
		t.Errorf("Message %q", snap.Message)
	}
	if snap.Email != "" {
		t.Errorf("Email %q, want cleared after success", snap.Email)
	}
}

func TestSession_SubmitRejected(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.SetEmail("bad@email")
	sub := submission.SubmitterFunc(func(ctx context.Context, req submission.Request) (submission.Outcome, error) {
		return submission.Outcome{Accepted: false, Message: "Ouch: email must be a valid email"}, nil
	})
	if _, err := s.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	snap := s.Snapshot()
	if snap.Message != "Ouch: email must be a valid email" {
		t.Errorf("Message %q", snap.Message)
	}
	if snap.FormState != submission.StateFailed {
		t.Errorf("FormState %q, want failed", snap.FormState)
	}
}

func TestSession_SubmitTransportErrorKeepsMessage(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.Move(grid.Left)
	s.Move(grid.Left)
	sub := submission.SubmitterFunc(func(ctx context.Context, req submission.Request) (submission.Outcome, error) {
		return submission.Outcome{}, submission.ErrTransport
	})
	_, err := s.Submit(context.Background(), sub)
	if !errors.Is(err, submission.ErrTransport) {
		t.Fatalf("err %v, want ErrTransport", err)
	}
	snap := s.Snapshot()
	if snap.Message != "You can't go left" {
		t.Errorf("Message %q, want unchanged", snap.Message)
	}
	if snap.FormState != submission.StateIdle {
		t.Errorf("FormState %q, want idle", snap.FormState)
	}
}

func TestSession_ResetDuringSubmitDropsResult(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.SetEmail("lady@gaga.com")
	started := make(chan struct{})
	release := make(chan struct{})
	sub := submission.SubmitterFunc(func(ctx context.Context, req submission.Request) (submission.Outcome, error) {
		close(started)
		<-release
		return submission.Outcome{Accepted: true, Message: "lady win #31"}, nil
	})

	var wg sync.WaitGroup
	var res SubmitResult
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, _ = s.Submit(context.Background(), sub)
	}()
	<-started
	s.Move(grid.Up)
	s.Reset()
	close(release)
	wg.Wait()

	if res.Applied {
		t.Error("result should be dropped after reset")
	}
	if got := s.Snapshot().Message; got != "" {
		t.Errorf("Message %q, want empty", got)
	}
}

func TestSession_OverlappingSubmitsLastWins(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.SetEmail("first@example.com")
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	slow := submission.SubmitterFunc(func(ctx context.Context, req submission.Request) (submission.Outcome, error) {
		close(firstStarted)
		<-releaseFirst
		return submission.Outcome{Accepted: true, Message: "first win #1"}, nil
	})

	var wg sync.WaitGroup
	var first SubmitResult
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, _ = s.Submit(context.Background(), slow)
	}()
	<-firstStarted
	s.SetEmail("second@example.com")
	second, err := s.Submit(context.Background(), acceptAll("second win #2"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	close(releaseFirst)
	wg.Wait()

	if !second.Applied || first.Applied {
		t.Errorf("applied first=%t second=%t, want false true", first.Applied, second.Applied)
	}
	if got := s.Snapshot().Message; got != "second win #2" {
		t.Errorf("Message %q, want second win #2", got)
	}
}

func TestSession_BeginSubmitIsVisibleUntilFinished(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.Move(grid.Down)
	s.SetEmail("lady@gaga.com")

	p := s.BeginSubmit()
	if got := s.Snapshot().FormState; got != submission.StateSubmitting {
		t.Fatalf("FormState %q, want submitting", got)
	}
	want := submission.Request{X: 2, Y: 3, Steps: 1, Email: "lady@gaga.com"}
	if p.Request != want {
		t.Errorf("Request %+v, want %+v", p.Request, want)
	}

	res, err := s.FinishSubmit(p, submission.Outcome{Accepted: true, Message: "lady win #38"}, nil)
	if err != nil {
		t.Fatalf("FinishSubmit: %v", err)
	}
	if !res.Applied {
		t.Error("result not applied")
	}
	snap := s.Snapshot()
	if snap.FormState != submission.StateSucceeded || snap.Message != "lady win #38" {
		t.Errorf("after finish %+v", snap)
	}
}

func TestSession_FinishSubmitTransportError(t *testing.T) {
	s := New("abc", grid.DefaultPolicy())
	s.Move(grid.Up)
	s.Move(grid.Up)
	p := s.BeginSubmit()

	_, err := s.FinishSubmit(p, submission.Outcome{}, submission.ErrTransport)
	if !errors.Is(err, submission.ErrTransport) {
		t.Fatalf("err %v, want ErrTransport", err)
	}
	snap := s.Snapshot()
	if snap.Message != "You can't go up" {
		t.Errorf("Message %q, want the blocked-move message", snap.Message)
	}
	if snap.FormState != submission.StateIdle {
		t.Errorf("FormState %q, want idle", snap.FormState)
	}
}
