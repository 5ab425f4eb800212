package widget

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swelljoe/weatherfinder/internal/observability"
)

func newTestSessions(clock clockwork.Clock) (*Sessions, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	factory := func() *Controller {
		c, _ := newTestController(returning(london(), nil))
		return c
	}
	return NewSessions(factory, 10*time.Minute, clock, m), m
}

func TestSessions_CreateAndGet(t *testing.T) {
	s, m := newTestSessions(clockwork.NewFakeClock())

	id, ctrl := s.Create()
	require.NotEmpty(t, id)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, ctrl, got)

	_, ok = s.Get("unknown")
	assert.False(t, ok)

	other, _ := s.Create()
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsActive))
}

func TestSessions_StateIsPerSession(t *testing.T) {
	s, _ := newTestSessions(clockwork.NewFakeClock())

	_, a := s.Create()
	_, b := s.Create()

	a.Submit(context.Background(), "London")
	assert.NotNil(t, a.State().Snapshot)
	assert.Equal(t, StatusIdle, b.State().Status())
}

func TestSessions_SweepEvictsIdle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, m := newTestSessions(clock)

	stale, _ := s.Create()
	clock.Advance(6 * time.Minute)
	fresh, _ := s.Create()
	clock.Advance(5 * time.Minute)

	assert.Equal(t, 1, s.Sweep())

	_, ok := s.Get(stale)
	assert.False(t, ok, "stale session should be evicted")
	_, ok = s.Get(fresh)
	assert.True(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsActive))
}

func TestSessions_GetRefreshesLastSeen(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, _ := newTestSessions(clock)

	id, _ := s.Create()
	clock.Advance(9 * time.Minute)
	_, ok := s.Get(id)
	require.True(t, ok)
	clock.Advance(9 * time.Minute)

	assert.Zero(t, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestSessions_RunSweeper(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s, _ := newTestSessions(clock)
	s.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Minute)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(11 * time.Minute)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
