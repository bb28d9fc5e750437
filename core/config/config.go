package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	cache       sync.Map // reflect.Type -> parsed config value
	loadEnvOnce sync.Once
)

// Load parses environment variables into cfg. The first successful load of
// each type is cached; later calls for the same type return the cached
// value so every caller observes identical configuration.
func Load[T any](cfg *T) error {
	loadEnvOnce.Do(func() {
		// Missing .env files are expected outside local development.
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s from environment: %w", key, err)
	}

	cache.Store(key, *cfg)
	return nil
}

// MustLoad is Load but panics on failure. Use during startup where a
// missing required variable should stop the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// LoadFile reads YAML configuration from path into cfg with precedence
// env defaults < file < explicitly-set environment variables, so a
// checked-in file overrides defaults and the environment always wins.
// An empty path skips the file and behaves like a cache-bypassing Load.
func LoadFile[T any](path string, cfg *T) error {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	// Defaults first. Running this pass after the file would clobber file
	// values on every field whose variable happens to be unset.
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: apply environment defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// Pointing the default tag at an unused name keeps this pass from
	// reapplying envDefault values, so only variables present in the
	// environment override the file.
	if err := env.ParseWithOptions(cfg, env.Options{DefaultValueTagName: "envFileDefault"}); err != nil {
		return fmt.Errorf("config: apply environment overrides: %w", err)
	}
	return nil
}
