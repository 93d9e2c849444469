// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DedupeSize sets the size of the settle idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxPageSize caps leaderboard and match-list page sizes.
	MaxPageSize int `koanf:"max_page_size"`

	// Rating environment parameters. InitialSigma is conventionally
	// InitialMu/3 so fresh players start at conservative rating zero.
	InitialMu    float64 `koanf:"initial_mu"`
	InitialSigma float64 `koanf:"initial_sigma"`
	Beta         float64 `koanf:"beta"`
	Tau          float64 `koanf:"tau"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9080",
		DedupeSize:   50_000,
		MaxPageSize:  100,
		InitialMu:    25.0,
		InitialSigma: 8.3333,
		Beta:         4.1667,
		Tau:          0.0833,
	}
}
