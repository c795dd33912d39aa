// Package config holds runtime settings for the local core: where the
// store lives and how reconciliation is scheduled.
package config

import "time"

// Config holds runtime settings for the hyphen core.
//
// Fields:
//   - DatabasePath: path of the local SQLite store.
//   - SyncInterval: how often the reconciler drains the sync queue.
//   - MaxSyncRetries: retry ceiling before a queue entry is abandoned.
type Config struct {
	DatabasePath   string
	SyncInterval   time.Duration
	MaxSyncRetries int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "hyphen.db"
	c.SyncInterval = 30 * time.Second
	c.MaxSyncRetries = 5
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
