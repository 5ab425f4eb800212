package widget

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/swelljoe/weatherfinder/internal/observability"
)

// Sessions keeps one Controller per browser session. Sessions idle longer
// than the TTL are dropped by Sweep, discarding their snapshot.
type Sessions struct {
	newController func() *Controller
	clock         clockwork.Clock
	ttl           time.Duration
	metrics       *observability.Metrics

	mu      sync.Mutex
	entries map[string]*session
}

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewSessions creates an empty registry. newController builds the widget for each new session.
func NewSessions(newController func() *Controller, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Sessions {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sessions{
		newController: newController,
		clock:         clock,
		ttl:           ttl,
		metrics:       metrics,
		entries:       make(map[string]*session),
	}
}

// Create starts a new session and returns its ID.
func (s *Sessions) Create() (string, *Controller) {
	id := uuid.NewString()
	ctrl := s.newController()

	s.mu.Lock()
	s.entries[id] = &session{ctrl: ctrl, lastSeen: s.clock.Now()}
	n := len(s.entries)
	s.mu.Unlock()

	s.metrics.SessionsActive.Set(float64(n))
	return id, ctrl
}

// Get returns the session's controller and marks it as seen.
func (s *Sessions) Get(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.clock.Now()
	return e.ctrl, true
}

// Sweep removes sessions idle for longer than the TTL and returns how many were removed.
func (s *Sessions) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	removed := 0
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, id)
			removed++
		}
	}
	n := len(s.entries)
	s.mu.Unlock()

	s.metrics.SessionsActive.Set(float64(n))
	return removed
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}
