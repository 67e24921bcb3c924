package config

import (
	"encoding/json"
	"os"

	"github.com/akhmads/adscli/internal/flagx"
	"github.com/akhmads/adscli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// are timex.Duration so the file may use "3s" or integer nanoseconds. Zero
// values leave the current setting untouched.
type JsonConfig struct {
	ServerURL         string         `json:"server_url"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	PollInterval      timex.Duration `json:"poll_interval"`
	PollMaxAttempts   int            `json:"poll_max_attempts"`
	DBPath            string         `json:"db_path"`
	SessionPassphrase string         `json:"session_passphrase"`
	BannerTTL         timex.Duration `json:"banner_ttl"`
	PricingDebounce   timex.Duration `json:"pricing_debounce"`
	LogLevel          string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config. Without
// either flag nothing is loaded. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.SessionPassphrase, jc.SessionPassphrase)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.PollMaxAttempts > 0 {
		cfg.PollMaxAttempts = jc.PollMaxAttempts
	}
	if jc.BannerTTL.Duration > 0 {
		cfg.BannerTTL = jc.BannerTTL.Duration
	}
	if jc.PricingDebounce.Duration > 0 {
		cfg.PricingDebounce = jc.PricingDebounce.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
