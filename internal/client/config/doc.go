// Package config loads runtime configuration for the marketplace CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. An optional .env file and the process environment, AKHMADS_ prefix.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// (*Config).Sanitize runs last and replaces unusable values with defaults.
//
// Supported flags
//
//	-a string   marketplace API base URL
//	-t int      request timeout (seconds)
//	-db string  local database file
//	-v string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "https://api.akhmads.net/api/v1",
//	  "request_timeout": "30s",
//	  "poll_interval": "2s",
//	  "poll_max_attempts": 150,
//	  "db_path": "akhmads.db",
//	  "session_passphrase": "",
//	  "banner_ttl": "5s",
//	  "pricing_debounce": "500ms",
//	  "log_level": "info"
//	}
package config
