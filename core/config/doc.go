// Package config provides type-safe configuration loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and parses
// environment variables into struct fields via the caarlos0/env library.
//
// Basic usage:
//
//	type ClientConfig struct {
//		BaseURL string        `env:"ALAT_API_URL" envDefault:"http://localhost:8080/api"`
//		Timeout time.Duration `env:"ALAT_API_TIMEOUT" envDefault:"15s"`
//	}
//
//	var cfg ClientConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// MustLoad panics on failure, which is appropriate at startup.
//
// LoadFile layers configuration as env defaults, then a YAML file, then
// explicitly-set environment variables, so a checked-in config file can be
// adjusted per deployment without editing it. File loads are not cached.
package config
