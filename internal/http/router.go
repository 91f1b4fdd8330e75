package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"lazystream/internal/http/handlers"
)

// NewRouter registers HTTP routes. Middlewares run inside the router so they
// can see the matched route pattern.
func NewRouter(handler *handlers.Handler, middlewares ...func(nethttp.Handler) nethttp.Handler) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	r.Route("/games", func(r chi.Router) {
		r.Get("/", handler.Games)
		r.Get("/{team}/feeds", handler.Feeds)
		r.Get("/{team}/stream", handler.Stream)
		r.Get("/{team}/variants", handler.Variants)
	})
	return r
}
