// Package widget holds the lookup widget's state: the query typed into the
// form, the busy flag, and either the last snapshot or the last error.
//
// A Controller moves through idle → loading → success/error. Starting a new
// request clears both the snapshot and the error before the network call
// begins. Requests are never cancelled or deduplicated, so when two overlap
// the one that finishes last decides what is displayed.
package widget

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/swelljoe/weatherfinder/internal/observability"
	"github.com/swelljoe/weatherfinder/internal/weather"
)

// Status is the widget's position in its request lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a copy of the widget's fields at one instant.
type State struct {
	Query    string
	Loading  bool
	Snapshot *weather.Snapshot
	Err      *weather.LookupError
}

// Status derives the lifecycle position from the state fields.
func (s State) Status() Status {
	switch {
	case s.Loading:
		return StatusLoading
	case s.Err != nil:
		return StatusError
	case s.Snapshot != nil:
		return StatusSuccess
	default:
		return StatusIdle
	}
}

// ValidateQuery trims the raw form value and rejects blank input.
func ValidateQuery(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", weather.ErrEmptyQuery
	}
	return q, nil
}

// Controller owns one widget's state and performs its lookups.
type Controller struct {
	provider weather.Provider
	metrics  *observability.Metrics
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

// NewController creates an idle widget backed by provider.
func NewController(provider weather.Provider, metrics *observability.Metrics, logger *slog.Logger) *Controller {
	return &Controller{
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Request is an accepted submission waiting to be fetched.
type Request struct {
	c     *Controller
	query string
}

// Query is the trimmed city name that will be sent to the provider.
func (r *Request) Query() string { return r.query }

// Start records a submission. A blank query sets the validation error and
// returns nil without touching the snapshot or the busy flag. Otherwise the
// widget enters loading with snapshot and error cleared, and the returned
// Request performs the fetch.
func (c *Controller) Start(raw string) *Request {
	query, err := ValidateQuery(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Query = raw
	if err != nil {
		c.state.Err = weather.Classify(err)
		c.metrics.Lookups.WithLabelValues(string(weather.KindValidation)).Inc()
		return nil
	}

	c.state.Loading = true
	c.state.Snapshot = nil
	c.state.Err = nil
	return &Request{c: c, query: query}
}

// Do performs the provider call and applies the outcome. It returns the state
// as left by this request.
func (r *Request) Do(ctx context.Context) State {
	c := r.c

	c.metrics.LookupsInFlight.Inc()
	start := time.Now()
	snap, err := c.provider.CurrentWeather(ctx, r.query)
	c.metrics.ProviderDuration.Observe(time.Since(start).Seconds())
	c.metrics.LookupsInFlight.Dec()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = false
	if err != nil {
		le := weather.Classify(err)
		c.state.Snapshot = nil
		c.state.Err = le
		c.metrics.Lookups.WithLabelValues(string(le.Kind)).Inc()
		c.logger.WarnContext(ctx, "weather lookup failed", "query", r.query, "kind", le.Kind, "error", err)
		return c.state
	}

	c.state.Snapshot = snap
	c.state.Err = nil
	c.metrics.Lookups.WithLabelValues("success").Inc()
	c.logger.InfoContext(ctx, "weather lookup succeeded", "query", r.query, "location", snap.Location)
	return c.state
}

// Submit runs Start and, when the query is accepted, Do.
func (c *Controller) Submit(ctx context.Context, raw string) State {
	req := c.Start(raw)
	if req == nil {
		return c.State()
	}
	return req.Do(ctx)
}
