package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env             string        `yaml:"env"              env:"APP_ENV"           env-default:"development"`
	LogLevel        string        `yaml:"log_level"        env:"LOG_LEVEL"         env-default:"info"`
	HTTPAddr        string        `yaml:"http_addr"        env:"HTTP_ADDR"         env-default:":8088"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"  env-default:"10s"`

	AuthToken      string `yaml:"auth_token"       env:"AUTH_TOKEN"        env-default:"MOCK-TOKEN"`
	AuthUserID     string `yaml:"auth_user_id"     env:"AUTH_USER_ID"      env-default:"u1"`
	AuthUserName   string `yaml:"auth_user_name"   env:"AUTH_USER_NAME"    env-default:"Demo Sleeper"`
	AuthServiceURL string `yaml:"auth_service_url" env:"AUTH_SERVICE_URL"`

	// StorageBackend selects the device-local key-value store: file, sqlite, redis or memory.
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"file"`
	FileKV         string `yaml:"file_kv"         env:"KV_FILE"         env-default:"data/local_storage.json"`
	SQLitePath     string `yaml:"sqlite_path"     env:"SQLITE_PATH"     env-default:"data/local_storage.db"`
	RedisAddr      string `yaml:"redis_addr"      env:"REDIS_ADDR"`
	RedisPassword  string `yaml:"redis_password"  env:"REDIS_PASSWORD"`
	RedisDB        int    `yaml:"redis_db"        env:"REDIS_DB"        env-default:"0"`

	// DatabaseBackend selects the realtime database: memory or postgres.
	DatabaseBackend string `yaml:"database_backend" env:"DATABASE_BACKEND" env-default:"memory"`
	PostgresDSN     string `yaml:"postgres_dsn"     env:"POSTGRES_DSN"`
}

// Load reads CONFIG_PATH (default ./config.yaml) when it exists, then applies
// environment overrides. An explicit CONFIG_PATH that is missing is an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "file":
		if c.FileKV == "" {
			return errors.New("KV_FILE is required when STORAGE_BACKEND=file")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when STORAGE_BACKEND=redis")
		}
	case "memory":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: file, sqlite, redis, memory (got %q)", c.StorageBackend)
	}

	switch c.DatabaseBackend {
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when DATABASE_BACKEND=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("DATABASE_BACKEND must be one of: memory, postgres (got %q)", c.DatabaseBackend)
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env == "development" && (c.AuthToken == "" || c.AuthUserID == "") {
		return errors.New("AUTH_TOKEN and AUTH_USER_ID are required in development")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	return nil
}
