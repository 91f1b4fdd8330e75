package server

import (
	"strings"

	"lazystream/internal/providers"
)

// normalizeProviderName returns a lower-cased provider name, deriving from the instance when not explicitly configured.
func normalizeProviderName(raw string, provider providers.StatsProvider) string {
	if raw != "" {
		return strings.ToLower(raw)
	}
	if provider != nil {
		return strings.ToLower(provider.Name())
	}
	return "provider"
}
