package session

import (
	"io"
	"log/slog"
	"time"
)

// Config holds session store configuration.
type Config struct {
	// DefaultTTL is used by ResolveTTL when the server omits a TTL and the
	// token carries no expiry hint of its own.
	DefaultTTL time.Duration

	// TouchInterval throttles LastActivity updates on Load so reads do not
	// become writes on every call. Zero disables throttling (every
	// successful Load writes).
	TouchInterval time.Duration

	logger *slog.Logger
	now    func() time.Time
}

func defaultConfig() *Config {
	return &Config{
		DefaultTTL:    24 * time.Hour,
		TouchInterval: time.Minute,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
	}
}

// Option is a functional option for configuring the session store.
type Option func(*Config)

// WithDefaultTTL sets the fallback session time-to-live.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Config) {
		if ttl > 0 {
			c.DefaultTTL = ttl
		}
	}
}

// WithTouchInterval sets the minimum time between LastActivity updates.
// Set to 0 to record activity on every read.
func WithTouchInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.TouchInterval = interval
	}
}

// WithLogger sets the logger for diagnostics. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Config) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithClock overrides the time source. Intended for tests that simulate
// expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.now = now
		}
	}
}
