// Package store caches loaded schedules in memory.
package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"lazystream/internal/domain"
	"lazystream/internal/schedule"
)

const (
	defaultTTL         = 10 * time.Minute
	defaultLoadTimeout = 30 * time.Second
)

// Loader builds the schedule of one date.
type Loader func(ctx context.Context, date string) (*schedule.Schedule, error)

type entry struct {
	schedule *schedule.Schedule
	loadedAt time.Time
}

// ScheduleCache keeps loaded schedules of one sport for a TTL. Streams carry
// memoized resolution state, so an expired schedule is rebuilt to give feeds
// a fresh chance to go live.
type ScheduleCache struct {
	sport       domain.Sport
	load        Loader
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

// NewScheduleCache constructs an empty cache. A non-positive ttl uses the default.
func NewScheduleCache(sport domain.Sport, load Loader, ttl time.Duration) *ScheduleCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ScheduleCache{
		sport:       sport,
		load:        load,
		ttl:         ttl,
		loadTimeout: defaultLoadTimeout,
		now:         time.Now,
		entries:     make(map[string]entry),
	}
}

// Sport is the sport every cached schedule belongs to.
func (c *ScheduleCache) Sport() domain.Sport { return c.sport }

// Get returns the cached schedule for date, loading it when missing or
// expired. Concurrent misses for the same date share one load, which is not
// canceled when the caller that started it goes away.
func (c *ScheduleCache) Get(ctx context.Context, date string) (*schedule.Schedule, error) {
	if s, ok := c.lookup(date); ok {
		return s, nil
	}
	return c.refresh(ctx, date)
}

// Warm reloads date unconditionally and reports how many games it has.
func (c *ScheduleCache) Warm(ctx context.Context, date string) (int, error) {
	s, err := c.refresh(ctx, date)
	if err != nil {
		return 0, err
	}
	return len(s.Games()), nil
}

// Invalidate drops the cached schedule of date.
func (c *ScheduleCache) Invalidate(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, c.key(date))
}

// Prune drops every expired entry and returns how many were removed.
func (c *ScheduleCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of cached schedules, expired or not.
func (c *ScheduleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ScheduleCache) lookup(date string) (*schedule.Schedule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[c.key(date)]
	if !ok || c.expired(e) {
		return nil, false
	}
	return e.schedule, true
}

func (c *ScheduleCache) refresh(ctx context.Context, date string) (*schedule.Schedule, error) {
	key := c.key(date)
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		s, err := c.load(loadCtx, date)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{schedule: s, loadedAt: c.now()}
		c.mu.Unlock()
		return s, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*schedule.Schedule), nil
	}
}

func (c *ScheduleCache) expired(e entry) bool {
	return c.now().Sub(e.loadedAt) >= c.ttl
}

func (c *ScheduleCache) key(date string) string {
	return string(c.sport) + "/" + date
}
