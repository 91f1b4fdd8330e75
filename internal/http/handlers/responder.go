package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lazystream/internal/domain"
	"lazystream/internal/http/middleware"
	"lazystream/internal/http/requestutil"
	"lazystream/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(requestutil.HeaderRequestID)
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeDomainError maps resolution failures onto HTTP statuses. Upstream
// failures are 502, a feed that is not live yet is 409.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Error(loggerFromContext(r, logger), "request failed", err)
	}
	writeError(w, r, status, err.Error(), logger)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownTeam),
		errors.Is(err, domain.ErrNoGame),
		errors.Is(err, domain.ErrNoMatchingFeed):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStreamNotLive):
		return http.StatusConflict
	case errors.Is(err, domain.ErrQualityUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrScheduleUnavailable),
		errors.Is(err, domain.ErrGameContentUnavailable),
		errors.Is(err, domain.ErrManifestMalformed),
		errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
