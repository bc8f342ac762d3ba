// Package config handles configuration loading and validation for dailyflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/dailyflow/internal/core/styles"
	"github.com/colonyops/dailyflow/internal/core/task"
)

// Backend selects where tasks are stored.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRemote   Backend = "remote"
	BackendMemory   Backend = "memory"
)

// IsValid reports whether b is a supported backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendSQLite, BackendPostgres, BackendRemote, BackendMemory:
		return true
	default:
		return false
	}
}

// Config holds the application configuration.
type Config struct {
	Backend  Backend        `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Remote   RemoteConfig   `yaml:"remote"`
	Server   ServerConfig   `yaml:"server"`
	TUI      TUIConfig      `yaml:"tui"`
	Defaults DefaultsConfig `yaml:"defaults"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// DatabaseConfig tunes the sqlite and postgres connection pools.
type DatabaseConfig struct {
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
	// PostgresDSN is required when backend is postgres. Environment
	// variables in it are expanded.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// RemoteConfig points the remote backend at a `dailyflow serve` instance.
type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures `dailyflow serve`.
type ServerConfig struct {
	Addr      string        `yaml:"addr"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
	// WatchStore reloads the task list when another process writes the
	// sqlite database. Defaults to true.
	WatchStore *bool         `yaml:"watch_store"`
	ToastTTL   time.Duration `yaml:"toast_ttl"`
	// RefreshInterval reloads the task list periodically for backends the
	// store watcher cannot observe (postgres, remote). Zero disables it.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// WatchStoreEnabled reports whether store watching is on.
func (t TUIConfig) WatchStoreEnabled() bool {
	return t.WatchStore == nil || *t.WatchStore
}

// DefaultsConfig seeds new task drafts.
type DefaultsConfig struct {
	Category task.Category `yaml:"category"`
	Priority task.Priority `yaml:"priority"`
}

// Draft returns an empty draft carrying the configured defaults.
func (d DefaultsConfig) Draft() task.Draft {
	return task.Draft{Category: d.Category, Priority: d.Priority}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendSQLite,
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5 * time.Second,
		},
		Remote: RemoteConfig{
			Timeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:7420",
			TokenTTL: 30 * 24 * time.Hour,
		},
		TUI: TUIConfig{
			Theme:           styles.DefaultTheme,
			ToastTTL:        4 * time.Second,
			RefreshInterval: 30 * time.Second,
		},
		Defaults: DefaultsConfig{
			Category: task.DefaultCategory,
			Priority: task.DefaultPriority,
		},
	}
}

// Load reads configuration from configPath and sets the data directory. A
// missing file yields the defaults.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()
	cfg.expandEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Backend == "" {
		c.Backend = defaults.Backend
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = defaults.Remote.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.TokenTTL == 0 {
		c.Server.TokenTTL = defaults.Server.TokenTTL
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.ToastTTL == 0 {
		c.TUI.ToastTTL = defaults.TUI.ToastTTL
	}
	if c.Defaults.Category == "" {
		c.Defaults.Category = defaults.Defaults.Category
	}
	if c.Defaults.Priority == "" {
		c.Defaults.Priority = defaults.Defaults.Priority
	}
}

func (c *Config) expandEnv() {
	c.Database.PostgresDSN = os.ExpandEnv(c.Database.PostgresDSN)
	c.Remote.Token = os.ExpandEnv(c.Remote.Token)
	c.Server.JWTSecret = os.ExpandEnv(c.Server.JWTSecret)
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if !c.Backend.IsValid() {
		return fmt.Errorf("backend %q is not one of sqlite, postgres, remote, memory", c.Backend)
	}

	switch c.Backend {
	case BackendPostgres:
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("database.postgres_dsn is required for the postgres backend")
		}
	case BackendRemote:
		if c.Remote.URL == "" {
			return fmt.Errorf("remote.url is required for the remote backend")
		}
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be between 0 and max_open_conns")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is unknown", c.TUI.Theme)
	}

	if !c.Defaults.Category.IsValid() {
		return fmt.Errorf("defaults.category %q is unknown", c.Defaults.Category)
	}
	if !c.Defaults.Priority.IsValid() {
		return fmt.Errorf("defaults.priority %q is unknown", c.Defaults.Priority)
	}

	return nil
}

// LogFile returns the default log path inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "dailyflow.log")
}
