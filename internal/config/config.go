package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/claude/mapty/internal/storage"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Map       MapConfig       `yaml:"map"`
	Events    EventsConfig    `yaml:"events"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// StaticDir, when set, is served as the browser frontend.
	StaticDir string `yaml:"static_dir"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	Key        string `yaml:"key"`
	Path       string `yaml:"path"`
	Migrations string `yaml:"migrations"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MapConfig struct {
	DefaultZoom int `yaml:"default_zoom"`
}

type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// StorageOptions translates the config into storage.Open options.
func (c *Config) StorageOptions() storage.Options {
	opts := storage.Options{
		Driver:     c.Storage.Driver,
		Path:       c.Storage.Path,
		Migrations: c.Storage.Migrations,
	}
	if c.Storage.Driver == storage.DriverPostgres {
		opts.DSN = c.Database.DSN()
	}
	return opts
}

// Load reads config from a YAML file, applies environment variable overrides, then defaults.
// Env vars use the prefix MAPTY_ and underscore-separated paths:
//
//	MAPTY_SERVER_HOST, MAPTY_SERVER_PORT, MAPTY_SERVER_STATIC_DIR,
//	MAPTY_STORAGE_DRIVER, MAPTY_STORAGE_KEY, MAPTY_STORAGE_PATH,
//	MAPTY_DB_HOST, MAPTY_DB_PORT, MAPTY_DB_NAME,
//	MAPTY_DB_USER, MAPTY_DB_PASSWORD, MAPTY_DB_SSLMODE,
//	MAPTY_AUTH_API_KEY, MAPTY_TAILSCALE_ENABLED,
//	MAPTY_EVENTS_ENABLED, MAPTY_EVENTS_BROKERS (comma-separated)
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = storage.DriverSQLite
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = storage.DefaultKey
	}
	if cfg.Storage.Path == "" {
		switch cfg.Storage.Driver {
		case storage.DriverSQLite:
			cfg.Storage.Path = "data/mapty.db"
		case storage.DriverFile:
			cfg.Storage.Path = "data"
		}
	}
	if cfg.Storage.Migrations == "" {
		cfg.Storage.Migrations = "migrations"
	}
	if cfg.Map.DefaultZoom == 0 {
		cfg.Map.DefaultZoom = 13
	}
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = "mapty.workouts"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "mapty"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAPTY_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("MAPTY_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MAPTY_SERVER_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("MAPTY_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("MAPTY_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("MAPTY_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MAPTY_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("MAPTY_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("MAPTY_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("MAPTY_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("MAPTY_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("MAPTY_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("MAPTY_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("MAPTY_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("MAPTY_EVENTS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Events.Enabled = b
		}
	}
	if v := os.Getenv("MAPTY_EVENTS_BROKERS"); v != "" {
		cfg.Events.Brokers = splitAndTrim(v)
	}
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Storage.Driver {
	case storage.DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case storage.DriverSQLite, storage.DriverFile, storage.DriverMemory:
	default:
		return fmt.Errorf("storage.driver %q is not one of postgres, sqlite, file, memory", c.Storage.Driver)
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers is required when events are enabled")
	}
	return nil
}
