package blobstore

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// Throttled wraps a Store and limits how often Put reaches it.
//
// Every online assignment rewrites the whole dataset, so remote backends
// are usually wrapped to keep request rates within provider quotas.
// Put blocks until the limiter admits it or ctx is done.
type Throttled struct {
	inner   Store
	limiter *rate.Limiter
}

// NewThrottled wraps inner with a limiter allowing perSecond Puts with the given burst.
// A non-positive perSecond disables throttling.
func NewThrottled(inner Store, perSecond float64, burst int) *Throttled {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (t *Throttled) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return t.inner.Open(ctx, name)
}

func (t *Throttled) Put(ctx context.Context, name string, data []byte) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.inner.Put(ctx, name, data)
}

func (t *Throttled) Delete(ctx context.Context, name string) error {
	return t.inner.Delete(ctx, name)
}

func (t *Throttled) List(ctx context.Context, prefix string) ([]string, error) {
	return t.inner.List(ctx, prefix)
}
