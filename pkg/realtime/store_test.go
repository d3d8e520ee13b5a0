package realtime

import (
	"context"
	"testing"
	"time"
)

func TestNewRoomStore(t *testing.T) {
	s := NewRoomStore[string]()
	if s == nil {
		t.Fatal("NewRoomStore returned nil")
	}
}

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("room1", "state1")
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}
	if room.Hub() == nil {
		t.Error("room should have a broadcaster")
	}

	_, ok = s.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing ID")
	}
}

func TestRoomStore_Publish(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, ok := s.Broadcaster("r1")
	if !ok {
		t.Fatal("Broadcaster returned false for existing room")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish("r1", "event1")
	got := <-ch
	if got != "event1" {
		t.Errorf("got %q, want event1", got)
	}
}

func TestRoomStore_UnknownRoomHasNoBroadcaster(t *testing.T) {
	s := NewRoomStore[string]()
	if _, ok := s.Broadcaster("unknown"); ok {
		t.Error("Broadcaster should not exist for an unknown room")
	}
	s.Publish("unknown", "event")
	if s.Len() != 0 {
		t.Errorf("Publish created a room, Len %d", s.Len())
	}
}

func TestRoomStore_Delete(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()

	if !s.Delete("r1") {
		t.Fatal("Delete returned false for existing room")
	}
	if _, open := <-ch; open {
		t.Error("subscriber channel should be closed after Delete")
	}
	if s.Delete("r1") {
		t.Error("second Delete should return false")
	}
}

func TestRoomStore_Sweep(t *testing.T) {
	s := NewRoomStore[string]()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	s.Create("old", "a")
	s.Create("watched", "b")
	hub, _ := s.Broadcaster("watched")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	now = now.Add(10 * time.Minute)
	s.Create("fresh", "c")
	s.Touch("fresh")

	ids := s.Sweep(5 * time.Minute)
	if len(ids) != 1 || ids[0] != "old" {
		t.Errorf("Sweep removed %v, want [old]", ids)
	}
	if _, ok := s.Get("watched"); !ok {
		t.Error("room with a subscriber should survive the sweep")
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Error("fresh room should survive the sweep")
	}
}

func TestRoomStore_RunJanitorStopsOnCancel(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x")
	evicted := make(chan []string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunJanitor(ctx, 5*time.Millisecond, 0, func(ids []string) {
			select {
			case evicted <- ids:
			default:
			}
		})
		close(done)
	}()

	select {
	case ids := <-evicted:
		if len(ids) != 1 || ids[0] != "r1" {
			t.Errorf("evicted %v, want [r1]", ids)
		}
	case <-time.After(time.Second):
		t.Fatal("janitor did not evict")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
