package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_PATH", "APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "SHUTDOWN_TIMEOUT",
		"AUTH_TOKEN", "AUTH_USER_ID", "AUTH_USER_NAME", "AUTH_SERVICE_URL", "STORAGE_BACKEND", "KV_FILE", "SQLITE_PATH",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "DATABASE_BACKEND", "POSTGRES_DSN",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	chdir(t, t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8088", cfg.HTTPAddr)
	assert.Equal(t, "MOCK-TOKEN", cfg.AuthToken)
	assert.Equal(t, "u1", cfg.AuthUserID)
	assert.Equal(t, "file", cfg.StorageBackend)
	assert.Equal(t, "data/local_storage.json", cfg.FileKV)
	assert.Equal(t, "memory", cfg.DatabaseBackend)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.StorageBackend)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_backend: sqlite\nsqlite_path: /tmp/kv.db\nhttp_addr: \":9000\"\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StorageBackend)
	assert.Equal(t, "/tmp/kv.db", cfg.SQLitePath)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Env: "development", AuthToken: "t", AuthUserID: "u1", StorageBackend: "memory", DatabaseBackend: "memory"}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown storage", func(c *Config) { c.StorageBackend = "etcd" }, "STORAGE_BACKEND"},
		{"file without path", func(c *Config) { c.StorageBackend = "file" }, "KV_FILE"},
		{"sqlite without path", func(c *Config) { c.StorageBackend = "sqlite" }, "SQLITE_PATH"},
		{"redis without addr", func(c *Config) { c.StorageBackend = "redis" }, "REDIS_ADDR"},
		{"postgres without dsn", func(c *Config) { c.DatabaseBackend = "postgres" }, "POSTGRES_DSN"},
		{"unknown database", func(c *Config) { c.DatabaseBackend = "firebase" }, "DATABASE_BACKEND"},
		{"unknown env", func(c *Config) { c.Env = "qa" }, "APP_ENV"},
		{"development without owner", func(c *Config) { c.AuthUserID = "" }, "AUTH_USER_ID"},
		{"production without auth service", func(c *Config) { c.Env = "production" }, "AUTH_SERVICE_URL"},
		{"production with auth service", func(c *Config) {
			c.Env = "production"
			c.AuthServiceURL = "http://auth/validate"
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
