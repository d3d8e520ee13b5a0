package realtime

import (
	"context"
	"sync"
	"time"
)

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID       string
	State    T
	hub      *Broadcaster
	lastSeen time.Time
}

// Hub returns the room's broadcaster.
func (r *Room[T]) Hub() *Broadcaster { return r.hub }

// RoomStore manages rooms and their broadcasters.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
	now   func() time.Time
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create adds a room with the given id and state, and a new Broadcaster.
func (s *RoomStore[T]) Create(id string, state T) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster(), lastSeen: s.now()}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Touch marks the room as used now, postponing its expiry.
func (s *RoomStore[T]) Touch(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if ok {
		r.lastSeen = s.now()
	}
	return ok
}

// Delete removes the room and closes its broadcaster.
func (s *RoomStore[T]) Delete(id string) bool {
	s.mu.Lock()
	r, ok := s.rooms[id]
	delete(s.rooms, id)
	s.mu.Unlock()
	if ok {
		r.hub.Close()
	}
	return ok
}

// Len returns the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Publish notifies subscribers of the room's broadcaster. Unknown rooms are
// ignored.
func (s *RoomStore[T]) Publish(id string, event string) {
	if hub, ok := s.Broadcaster(id); ok {
		hub.Publish(event)
	}
}

// Broadcaster returns the broadcaster for the room.
func (s *RoomStore[T]) Broadcaster(id string) (*Broadcaster, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	return r.hub, true
}

// Sweep deletes rooms whose last use is older than ttl and returns their ids.
// Rooms with live subscribers are kept.
func (s *RoomStore[T]) Sweep(ttl time.Duration) []string {
	cutoff := s.now().Add(-ttl)
	s.mu.Lock()
	var expired []*Room[T]
	for id, r := range s.rooms {
		if r.lastSeen.Before(cutoff) && r.hub.Len() == 0 {
			expired = append(expired, r)
			delete(s.rooms, id)
		}
	}
	s.mu.Unlock()

	ids := make([]string, 0, len(expired))
	for _, r := range expired {
		r.hub.Close()
		ids = append(ids, r.ID)
	}
	return ids
}

// RunJanitor sweeps every interval until ctx is done. onEvict, if set, is
// called with the ids removed by each sweep.
func (s *RoomStore[T]) RunJanitor(ctx context.Context, interval, ttl time.Duration, onEvict func([]string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ids := s.Sweep(ttl)
			if len(ids) > 0 && onEvict != nil {
				onEvict(ids)
			}
		}
	}
}
