package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Provider fetches the current conditions for a city.
type Provider interface {
	CurrentWeather(ctx context.Context, city string) (*Snapshot, error)
}

// RateLimitedProvider wraps a Provider with a token bucket so a busy server
// cannot exhaust the API key's quota.
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider creates a rate limited provider.
// rps is the maximum requests per second allowed (can be fractional); burst is the maximum burst size.
func NewRateLimitedProvider(provider Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// CurrentWeather waits for the limiter, then forwards to the wrapped provider.
func (r *RateLimitedProvider) CurrentWeather(ctx context.Context, city string) (*Snapshot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.CurrentWeather(ctx, city)
}

var (
	_ Provider = (*Client)(nil)
	_ Provider = (*RateLimitedProvider)(nil)
)
