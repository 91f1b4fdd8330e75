// Package httpclient builds the single outbound HTTP client shared by the
// stats API source and every stream resolution.
package httpclient

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout         = 15 * time.Second
	defaultMaxConnsPerHost = 8
	defaultIdleConnTimeout = 90 * time.Second
	defaultUserAgent       = "lazystream"
)

// Config controls the shared client.
type Config struct {
	Timeout         time.Duration
	MaxConnsPerHost int
	// RequestsPerSecond paces requests per host. Zero disables pacing.
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
	Logger            *slog.Logger
	// Base overrides the innermost transport, mainly for tests.
	Base http.RoundTripper
}

// New constructs a client whose transport bounds connections per host,
// optionally paces requests per host and transparently decodes gzip, deflate
// and brotli bodies.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := cfg.Base
	if base == nil {
		base = newBaseTransport(cfg.MaxConnsPerHost)
	}

	var rt http.RoundTripper = &decodingTransport{next: base, logger: cfg.Logger}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		rt = newPacedTransport(rt, rate.Limit(cfg.RequestsPerSecond), burst)
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	rt = &userAgentTransport{next: rt, userAgent: ua}

	return &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}
}

func newBaseTransport(maxConnsPerHost int) *http.Transport {
	if maxConnsPerHost <= 0 {
		maxConnsPerHost = defaultMaxConnsPerHost
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = maxConnsPerHost
	transport.MaxIdleConnsPerHost = maxConnsPerHost
	transport.IdleConnTimeout = defaultIdleConnTimeout
	// Encoding is negotiated by decodingTransport so brotli is covered too.
	transport.DisableCompression = true
	return transport
}

type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(clone)
}
