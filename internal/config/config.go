package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "configs/development.yaml"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Server Server `yaml:"server"`

	API API `yaml:"api"`

	Session Session `yaml:"session"`

	Storage Storage `yaml:"storage"`

	Log Log `yaml:"log"`

	Dev Dev `yaml:"dev"`
}

type Server struct {
	Address     string `yaml:"address" env:"SERVER_ADDRESS"`
	Environment string `yaml:"environment" env:"ENVIRONMENT"`
}

// API describes the remote El Criollo API.
type API struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT"`
}

type Session struct {
	// ResolveWait bounds how long a guarded view waits for the session to resolve.
	ResolveWait time.Duration `yaml:"resolve_wait" env:"SESSION_RESOLVE_WAIT"`
}

type Storage struct {
	Driver   string   `yaml:"driver" env:"STORAGE_DRIVER"`
	File     File     `yaml:"file"`
	Redis    Redis    `yaml:"redis"`
	Database Database `yaml:"database"`
}

type File struct {
	Path          string `yaml:"path" env:"STORAGE_FILE_PATH"`
	EncryptionKey string `yaml:"encryption_key" env:"STORAGE_ENCRYPTION_KEY"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	Prefix   string `yaml:"prefix" env:"REDIS_PREFIX"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
	// Station namespaces rows so several stations can share one database.
	Station string `yaml:"station" env:"STATION_ID"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
}

// Dev holds development conveniences. They are ignored in production.
type Dev struct {
	QuickLogin bool                   `yaml:"quick_login" env:"DEV_QUICK_LOGIN"`
	Accounts   map[string]Credentials `yaml:"accounts"`
}

type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// QuickLoginEnabled reports whether the dev quick-login shortcut may be used.
func (c *Config) QuickLoginEnabled() bool {
	return c.Dev.QuickLogin && c.Server.Environment != EnvProduction
}

// Load reads the YAML file named by CONFIG_PATH (or the development default)
// and applies environment overrides on top of it.
func Load() (*Config, error) {
	configPath := defaultConfigPath
	explicit := false
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
		explicit = true
	}

	return LoadFrom(context.Background(), configPath, explicit, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit file and environment source. A missing
// file is an error only when required is set.
func LoadFrom(ctx context.Context, path string, required bool, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
		// defaults and environment only
	default:
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:           &cfg,
		Lookuper:         lookuper,
		DefaultOverwrite: true,
	}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = EnvDevelopment
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:7121/api"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 10 * time.Second
	}
	if c.Session.ResolveWait == 0 {
		c.Session.ResolveWait = 2 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.File.Path == "" {
		c.Storage.File.Path = "data/session.yaml"
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = "localhost:6379"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "criollo:"
	}
	if c.Storage.Database.Port == 0 {
		c.Storage.Database.Port = 5432
	}
	if c.Storage.Database.SSLMode == "" {
		c.Storage.Database.SSLMode = "disable"
	}
	if c.Storage.Database.Station == "" {
		c.Storage.Database.Station = "default"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base_url %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api timeout %s", c.API.Timeout)
	}
	switch c.Storage.Driver {
	case "file", "redis", "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
