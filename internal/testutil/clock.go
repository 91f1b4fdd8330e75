package testutil

import (
	"context"
	"sync"
	"time"
)

// NowAt returns a clock function fixed at the provided time.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// MustParseRFC3339 parses an RFC3339 timestamp or panics; intended for tests.
func MustParseRFC3339(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

// FakeSleeper records requested sleeps instead of blocking. OnSleep, when
// set, runs before each sleep returns; tests use it to flip upstream state
// between polling cycles.
type FakeSleeper struct {
	OnSleep func(call int)

	mu    sync.Mutex
	calls []time.Duration
}

// Sleep honours an already cancelled context like a real sleep would.
func (f *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, d)
	n := len(f.calls)
	f.mu.Unlock()
	if f.OnSleep != nil {
		f.OnSleep(n)
	}
	return ctx.Err()
}

// Calls lists the durations passed to Sleep.
func (f *FakeSleeper) Calls() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.calls...)
}
