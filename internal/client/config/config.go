package config

import (
	"strings"
	"time"

	"github.com/akhmads/adscli/internal/common"
)

// Config holds runtime settings for the marketplace CLI.
//
// Every field can also be set from the environment with the AKHMADS_ prefix,
// e.g. AKHMADS_SERVER_URL or AKHMADS_REQUEST_TIMEOUT=10s.
type Config struct {
	ServerURL       string        `env:"SERVER_URL"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"`
	PollInterval    time.Duration `env:"POLL_INTERVAL"`
	PollMaxAttempts int           `env:"POLL_MAX_ATTEMPTS"`

	// DBPath is the local SQLite file holding the session and drafts.
	DBPath string `env:"DB_PATH"`
	// SessionPassphrase, when set, seals the stored tokens at rest.
	SessionPassphrase string `env:"SESSION_PASSPHRASE"`

	BannerTTL       time.Duration `env:"BANNER_TTL"`
	PricingDebounce time.Duration `env:"PRICING_DEBOUNCE"`
	LogLevel        string        `env:"LOG_LEVEL"`
}

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultPollInterval    = 2 * time.Second
	defaultPollMaxAttempts = 150
	defaultDBPath          = "akhmads.db"
	defaultBannerTTL       = 5 * time.Second
	defaultPricingDebounce = 500 * time.Millisecond
	defaultLogLevel        = "info"

	minPollInterval = 100 * time.Millisecond
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = common.DefaultAPIBaseURL
	c.RequestTimeout = defaultRequestTimeout
	c.PollInterval = defaultPollInterval
	c.PollMaxAttempts = defaultPollMaxAttempts
	c.DBPath = defaultDBPath
	c.BannerTTL = defaultBannerTTL
	c.PricingDebounce = defaultPricingDebounce
	c.LogLevel = defaultLogLevel
}

// Sanitize repairs values no source should be able to break the client with.
func (c *Config) Sanitize() {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	if c.ServerURL == "" {
		c.ServerURL = common.DefaultAPIBaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.PollInterval < minPollInterval {
		c.PollInterval = defaultPollInterval
	}
	if c.PollMaxAttempts <= 0 {
		c.PollMaxAttempts = defaultPollMaxAttempts
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = defaultDBPath
	}
	if c.BannerTTL <= 0 {
		c.BannerTTL = defaultBannerTTL
	}
	if c.PricingDebounce <= 0 {
		c.PricingDebounce = defaultPricingDebounce
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		c.LogLevel = defaultLogLevel
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), .env and the environment, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, "")
	parseFlags(cfg)
	cfg.Sanitize()
	return cfg
}
