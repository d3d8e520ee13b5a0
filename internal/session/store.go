// Package session owns per-mount board state and the store that creates,
// finds and tears down sessions.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bgrid/internal/grid"
	"bgrid/pkg/realtime"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// EventBoard is published whenever a session's visible state changes.
const EventBoard = "board"

// Store holds sessions and delegates to realtime.RoomStore for lookup and broadcast.
type Store struct {
	r      *realtime.RoomStore[*Session]
	policy grid.Policy
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore creates an in-memory session store. Sessions idle for longer than
// ttl are removed by RunJanitor.
func NewStore(policy grid.Policy, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		r:      realtime.NewRoomStore[*Session](),
		policy: policy,
		ttl:    ttl,
		logger: logger,
	}
}

// Create initializes a fresh session and registers its broadcaster.
func (s *Store) Create() *Session {
	sess := New(uuid.NewString(), s.policy)
	s.r.Create(sess.ID, sess)
	s.logger.Debug("session created", zap.String("session", sess.ID))
	return sess
}

// Get returns a session by ID and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.r.Touch(id)
	return room.State, nil
}

// Close tears a session down and ends its streams.
func (s *Store) Close(id string) error {
	if !s.r.Delete(id) {
		return ErrNotFound
	}
	s.logger.Debug("session closed", zap.String("session", id))
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.r.Len()
}

// Broadcaster returns the SSE broadcaster for a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, error) {
	hub, ok := s.r.Broadcaster(id)
	if !ok {
		return nil, ErrNotFound
	}
	return hub, nil
}

// Publish notifies subscribers of a session update.
func (s *Store) Publish(id string, event string) {
	s.r.Publish(id, event)
}

// RunJanitor removes idle sessions every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	s.r.RunJanitor(ctx, interval, s.ttl, func(ids []string) {
		s.logger.Info("expired idle sessions", zap.Int("count", len(ids)))
	})
}
