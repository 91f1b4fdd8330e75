// Package config loads runtime settings from an optional lazystream.yaml,
// a .env file and LAZYSTREAM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration for the resolver and the server.
type Config struct {
	Sport    string `mapstructure:"sport"`
	Date     string `mapstructure:"date"`
	Team     string `mapstructure:"team"`
	Feed     string `mapstructure:"feed"`
	Quality  string `mapstructure:"quality"`
	CDN      string `mapstructure:"cdn"`
	Host     string `mapstructure:"host"`
	Provider string `mapstructure:"provider"`
	Timezone string `mapstructure:"timezone"`
	// StatsBaseURL overrides the sport's stats API location.
	StatsBaseURL string `mapstructure:"stats_base_url"`

	HTTP    HTTPConfig    `mapstructure:"http"`
	Poll    PollConfig    `mapstructure:"poll"`
	Resolve ResolveConfig `mapstructure:"resolve"`
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// HTTPConfig tunes the shared outbound client.
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxConnsPerHost   int           `mapstructure:"max_conns_per_host"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// PollConfig controls waiting on feeds that are not live yet.
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	FailFast bool          `mapstructure:"fail_fast"`
}

// ResolveConfig controls bulk resolution.
type ResolveConfig struct {
	Concurrency  int      `mapstructure:"concurrency"`
	ExcludeFeeds []string `mapstructure:"exclude_feeds"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ScheduleTTL     time.Duration `mapstructure:"schedule_ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. Environment variables take precedence over the
// config file and use underscores for nesting, e.g. LAZYSTREAM_POLL_INTERVAL.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/lazystream")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// SetDefaults registers every key so environment overrides are picked up.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sport", defaultSport)
	v.SetDefault("date", "")
	v.SetDefault("team", "")
	v.SetDefault("feed", "")
	v.SetDefault("quality", "")
	v.SetDefault("cdn", defaultCDN)
	v.SetDefault("host", defaultHost)
	v.SetDefault("provider", defaultProvider)
	v.SetDefault("timezone", defaultTimezone)
	v.SetDefault("stats_base_url", "")

	v.SetDefault("http.timeout", defaultHTTPTimeout)
	v.SetDefault("http.max_conns_per_host", defaultMaxConnsPerHost)
	v.SetDefault("http.requests_per_second", defaultRequestsPerSecond)
	v.SetDefault("http.user_agent", defaultUserAgent)

	v.SetDefault("poll.interval", defaultPollInterval)
	v.SetDefault("poll.fail_fast", false)

	v.SetDefault("resolve.concurrency", defaultResolveConcurrency)
	v.SetDefault("resolve.exclude_feeds", []string{})

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.schedule_ttl", defaultScheduleTTL)
	v.SetDefault("server.refresh_interval", defaultRefreshInterval)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", defaultMetricsPort)
	v.SetDefault("metrics.otlp_endpoint", "")
	v.SetDefault("metrics.service_name", defaultServiceName)
	v.SetDefault("metrics.otlp_insecure", true)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", defaultLogFormat)
}

// normalize resets non-positive tunables to their defaults.
func (c *Config) normalize() {
	c.Team = strings.ToUpper(strings.TrimSpace(c.Team))
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = defaultHTTPTimeout
	}
	if c.HTTP.MaxConnsPerHost <= 0 {
		c.HTTP.MaxConnsPerHost = defaultMaxConnsPerHost
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = defaultPollInterval
	}
	if c.Resolve.Concurrency <= 0 {
		c.Resolve.Concurrency = defaultResolveConcurrency
	}
	if c.Server.ScheduleTTL <= 0 {
		c.Server.ScheduleTTL = defaultScheduleTTL
	}
	if c.Server.RefreshInterval <= 0 {
		c.Server.RefreshInterval = defaultRefreshInterval
	}
	c.Resolve.ExcludeFeeds = splitList(c.Resolve.ExcludeFeeds)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.Selection(time.Now()); err != nil {
		return err
	}
	switch c.Provider {
	case "statsapi", "fixture":
	default:
		return fmt.Errorf("provider must be one of: statsapi, fixture")
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	return nil
}

// splitList flattens comma separated entries, which is how list values
// arrive from a single environment variable.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
