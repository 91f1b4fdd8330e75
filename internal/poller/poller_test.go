package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubWarmer struct {
	mu     sync.Mutex
	dates  []string
	err    error
	calls  atomic.Int32
	notify chan struct{}
	once   sync.Once
}

func (w *stubWarmer) Warm(ctx context.Context, date string) (int, error) {
	_ = ctx
	w.calls.Add(1)
	w.mu.Lock()
	w.dates = append(w.dates, date)
	err := w.err
	w.mu.Unlock()
	if w.notify != nil {
		w.once.Do(func() { close(w.notify) })
	}
	return 2, err
}

func (w *stubWarmer) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
}

func TestRefresherWarmsBusinessDate(t *testing.T) {
	warmer := &stubWarmer{notify: make(chan struct{})}
	r := NewRefresher(warmer, nil, 10*time.Millisecond, "America/New_York")
	// 03:00 UTC is still the previous evening in New York.
	r.now = func() time.Time { return time.Date(2019, 10, 3, 3, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	select {
	case <-warmer.notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}
	_ = r.Stop(context.Background())

	warmer.mu.Lock()
	defer warmer.mu.Unlock()
	if warmer.dates[0] != "2019-10-02" {
		t.Fatalf("expected business date 2019-10-02, got %s", warmer.dates[0])
	}
}

func TestRefresherStopsOnContextCancel(t *testing.T) {
	warmer := &stubWarmer{notify: make(chan struct{})}
	r := NewRefresher(warmer, nil, 5*time.Millisecond, "")
	ctx, cancel := context.WithCancel(context.Background())

	r.Start(ctx)
	select {
	case <-warmer.notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	cancel()
	_ = r.Stop(context.Background())
	time.Sleep(10 * time.Millisecond)

	callsAfterStop := warmer.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if warmer.calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional refreshes after stop; before=%d after=%d", callsAfterStop, warmer.calls.Load())
	}
}

func TestRefresherStartAndStopAreIdempotent(t *testing.T) {
	r := NewRefresher(&stubWarmer{}, nil, time.Hour, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx)
	r.Start(ctx)

	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := r.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestRefresherDefaultsInterval(t *testing.T) {
	r := NewRefresher(&stubWarmer{}, nil, 0, "")
	if r.interval != defaultRefreshInterval {
		t.Fatalf("expected default interval %s, got %s", defaultRefreshInterval, r.interval)
	}
}

func TestRefresherStatusTracksFailuresAndSuccess(t *testing.T) {
	warmer := &stubWarmer{err: errors.New("boom")}
	r := NewRefresher(warmer, nil, time.Hour, "")
	ctx := context.Background()

	r.refreshOnce(ctx)
	status := r.Status()
	if status.ConsecutiveFailures != 1 {
		t.Fatalf("expected 1 failure, got %d", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Fatalf("expected last error recorded")
	}
	if !status.LastSuccess.IsZero() {
		t.Fatalf("expected no success recorded yet")
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	warmer.setErr(nil)
	r.refreshOnce(ctx)
	status = r.Status()
	if status.ConsecutiveFailures != 0 || status.LastError != "" {
		t.Fatalf("expected failures reset, got %+v", status)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestStatusIsReadyThreshold(t *testing.T) {
	s := Status{LastSuccess: time.Now(), ConsecutiveFailures: 2}
	if !s.IsReady() {
		t.Fatalf("expected ready with 2 failures")
	}
	s.ConsecutiveFailures = 3
	if s.IsReady() {
		t.Fatalf("expected not ready with 3 failures")
	}
}
