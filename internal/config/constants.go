package config

import "time"

const (
	envPrefix      = "LAZYSTREAM"
	configFileName = "lazystream"

	defaultSport    = "nhl"
	defaultCDN      = "akc"
	defaultHost     = "http://nhl.freegamez.ga"
	defaultProvider = "statsapi"
	defaultTimezone = "America/New_York"

	defaultHTTPTimeout       = 15 * time.Second
	defaultMaxConnsPerHost   = 8
	defaultRequestsPerSecond = 4.0
	defaultUserAgent         = "lazystream/1.0"

	defaultPollInterval       = 30 * time.Minute
	defaultResolveConcurrency = 8

	defaultPort            = "4000"
	defaultScheduleTTL     = 10 * time.Minute
	defaultRefreshInterval = 5 * time.Minute

	defaultMetricsPort = "9090"
	defaultServiceName = "lazystream"

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)
