package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarpras/alatclient/app/shell"
	"github.com/sarpras/alatclient/core/config"
	"github.com/sarpras/alatclient/core/kvs"
	"github.com/sarpras/alatclient/core/logger"
	"github.com/sarpras/alatclient/core/session"
	"github.com/sarpras/alatclient/integration/alatapi"
)

var (
	cfgFile string
	version = "dev" // set by build
)

// Config is the CLI configuration, loadable from a YAML file with
// environment overrides on top.
type Config struct {
	API alatapi.Config `yaml:"api"`

	Store struct {
		// Type selects the state backend: file, leveldb, redis, or memory.
		Type string `yaml:"type" env:"ALAT_STORE" envDefault:"file"`
		// Path is the state location for file and leveldb backends.
		// Defaults to the user config directory.
		Path string `yaml:"path" env:"ALAT_STORE_PATH"`

		Redis struct {
			Addr     string `yaml:"addr" env:"ALAT_REDIS_ADDR" envDefault:"localhost:6379"`
			Password string `yaml:"password" env:"ALAT_REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"ALAT_REDIS_DB"`
		} `yaml:"redis"`
	} `yaml:"store"`

	// Durations are environment-only: the YAML decoder has no duration
	// syntax, so values like "24h" would not round-trip through a file.
	SessionTTL       time.Duration `yaml:"-" env:"ALAT_SESSION_TTL" envDefault:"24h"`
	ProtectionWindow time.Duration `yaml:"-" env:"ALAT_PROTECTION_WINDOW" envDefault:"10s"`
}

var rootCmd = &cobra.Command{
	Use:   "alat",
	Short: "Client for the equipment-maintenance tracking backend",
	Long: `alat is a terminal client for the equipment-maintenance tracking system.

It keeps your login session on this machine, lists tracked equipment,
records corrective and preventive maintenance events, and resolves
scanned QR codes to equipment records.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to YAML configuration file")
}

// env holds the wired-up client stack shared by all commands.
type env struct {
	cfg      Config
	backend  kvs.Store
	sessions *session.Store
	api      *alatapi.Client
	shell    *shell.Shell
}

func (e *env) close() {
	if e.backend != nil {
		_ = e.backend.Close()
	}
}

func newEnv(ctx context.Context) (*env, error) {
	var cfg Config
	if err := config.LoadFile(cfgFile, &cfg); err != nil {
		return nil, err
	}

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New()
	sessions := session.New(backend,
		session.WithDefaultTTL(cfg.SessionTTL),
		session.WithLogger(log),
	)

	api, err := alatapi.New(cfg.API, sessions, alatapi.WithClientLogger(log))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	return &env{
		cfg:      cfg,
		backend:  backend,
		sessions: sessions,
		api:      api,
		shell: shell.New(sessions, api,
			shell.WithProtectionWindow(cfg.ProtectionWindow),
			shell.WithLogger(log),
		),
	}, nil
}

func newBackend(ctx context.Context, cfg Config) (kvs.Store, error) {
	switch cfg.Store.Type {
	case "file", "":
		path := cfg.Store.Path
		if path == "" {
			path = filepath.Join(defaultStateDir(), "state.json")
		}
		return kvs.NewFile(path)
	case "leveldb":
		path := cfg.Store.Path
		if path == "" {
			path = filepath.Join(defaultStateDir(), "state.db")
		}
		return kvs.NewLevelDB(path)
	case "redis":
		return kvs.NewRedis(ctx, kvs.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
	case "memory":
		return kvs.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported store type %q", cfg.Store.Type)
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "alatclient")
}
