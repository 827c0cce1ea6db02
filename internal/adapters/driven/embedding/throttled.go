// Package embedding provides decorators shared by the provider adapters.
package embedding

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// Ensure Throttled implements the interface.
var _ driven.EmbeddingService = (*Throttled)(nil)

// Throttled wraps an embedding service with a token-bucket rate limit.
// Cloud embedding APIs meter requests per minute; indexing a large
// document fires one request per chunk, which trips those quotas fast.
type Throttled struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter
}

// Throttle wraps svc so Embed calls never exceed requestsPerMinute.
// A non-positive requestsPerMinute returns svc unchanged.
func Throttle(svc driven.EmbeddingService, requestsPerMinute int) driven.EmbeddingService {
	if requestsPerMinute <= 0 {
		return svc
	}
	return &Throttled{
		inner:   svc,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

// Embed waits for the rate limiter, then delegates.
func (t *Throttled) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.Embed(ctx, text)
}

// Dimensions returns the embedding vector size.
func (t *Throttled) Dimensions() int {
	return t.inner.Dimensions()
}

// ModelName returns the name of the embedding model being used.
func (t *Throttled) ModelName() string {
	return t.inner.ModelName()
}

// Ping validates the underlying service is reachable. Pings are not
// throttled; they are rare and never count against inference quotas.
func (t *Throttled) Ping(ctx context.Context) error {
	return t.inner.Ping(ctx)
}

// Close releases resources.
func (t *Throttled) Close() error {
	return t.inner.Close()
}
