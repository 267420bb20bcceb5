// Package config handles configuration for the Daybook CLI, including
// defaults, JSON overlay, and flags.
package config

import "time"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the Daybook API.
//   - PageSize: entries fetched per page when listing.
//   - Debounce: pause after the last keystroke before a search fires.
type Config struct {
	ServerURL string
	PageSize  int
	Debounce  time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.PageSize = 12
	c.Debounce = 350 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
