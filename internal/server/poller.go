package server

import (
	"context"

	"lazystream/internal/poller"
)

// Refresher defines the minimal background refresh behavior the server needs.
type Refresher interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

// cacheWarmer drops expired schedules before warming today's.
type cacheWarmer struct {
	cache interface {
		Warm(ctx context.Context, date string) (int, error)
		Prune() int
	}
}

func (w cacheWarmer) Warm(ctx context.Context, date string) (int, error) {
	w.cache.Prune()
	return w.cache.Warm(ctx, date)
}
