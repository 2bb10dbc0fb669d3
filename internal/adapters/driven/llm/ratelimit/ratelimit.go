// Package ratelimit bounds how often a grounded generator is called.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/scout-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// Ensure Generator implements the interface.
var _ driven.GroundedGenerator = (*Generator)(nil)

// DefaultBackoff applies after a 429 that carried no Retry-After header.
const DefaultBackoff = 30 * time.Second

// Generator wraps another generator with a token bucket and a backoff window
// opened by provider rate limit errors. It never retries: a call made during
// the backoff window fails immediately with domain.ErrRateLimited.
type Generator struct {
	next    driven.GroundedGenerator
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
	now     func() time.Time
}

// New wraps next. requestsPerMinute <= 0 disables the token bucket but keeps
// the backoff window.
func New(next driven.GroundedGenerator, requestsPerMinute int) *Generator {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &Generator{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// Retrieve waits for a token and forwards the request.
func (g *Generator) Retrieve(ctx context.Context, req domain.RetrievalRequest) (domain.RawResponse, error) {
	if wait := g.backoffRemaining(); wait > 0 {
		return domain.RawResponse{}, fmt.Errorf("%w: provider asked to wait %s", domain.ErrRateLimited, wait.Round(time.Second))
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return domain.RawResponse{}, fmt.Errorf("rate limit wait: %w", err)
	}

	raw, err := g.next.Retrieve(ctx, req)
	if err != nil && errors.Is(err, domain.ErrRateLimited) {
		g.recordRateLimit(llm.RetryAfter(err))
	}
	return raw, err
}

// Provider returns the wrapped provider.
func (g *Generator) Provider() domain.GeneratorProvider {
	return g.next.Provider()
}

// ModelName returns the wrapped model name.
func (g *Generator) ModelName() string {
	return g.next.ModelName()
}

// Ping bypasses the limiter.
func (g *Generator) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}

// Close closes the wrapped generator.
func (g *Generator) Close() error {
	return g.next.Close()
}

// Unwrap returns the wrapped generator.
func (g *Generator) Unwrap() driven.GroundedGenerator {
	return g.next
}

func (g *Generator) backoffRemaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.retryAt.Sub(g.now())
}

// recordRateLimit opens the backoff window.
func (g *Generator) recordRateLimit(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = DefaultBackoff
	}
	g.mu.Lock()
	g.retryAt = g.now().Add(retryAfter)
	g.mu.Unlock()
	logger.Warn("%s rate limited, backing off for %s", g.next.Provider(), retryAfter)
}
