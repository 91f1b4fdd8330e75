package httpclient

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// pacedTransport waits on a per-host token bucket before each request.
type pacedTransport struct {
	next  http.RoundTripper
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newPacedTransport(next http.RoundTripper, limit rate.Limit, burst int) *pacedTransport {
	return &pacedTransport{
		next:     next,
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiterFor(req.URL.Host).Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

func (t *pacedTransport) limiterFor(host string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[host] = limiter
	}
	return limiter
}
