package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"todoTracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, ":8080", cfg.GetServerAddr())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  request_timeout: 5s
repository:
  type: sqlite
sqlite:
  path: /tmp/todos.db
pagination:
  default_size: 10
  max_size: 50
cors:
  allowed_origins: ["https://example.com"]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.RepositorySQLite, cfg.Repository.Type)
	assert.Equal(t, "/tmp/todos.db", cfg.SQLite.Path)
	assert.Equal(t, 10, cfg.Pagination.DefaultSize)
	assert.Equal(t, 50, cfg.Pagination.MaxSize)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "repository:\n  type: inmemory\n")

	t.Setenv("TODO_SERVER_PORT", "7070")
	t.Setenv("TODO_REPOSITORY_TYPE", "postgres")
	t.Setenv("TODO_DATABASE_URL", "postgres://u:p@localhost:5432/todos")
	t.Setenv("TODO_LOG_DEVELOPMENT", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, config.RepositoryPostgres, cfg.Repository.Type)
	assert.Equal(t, "postgres://u:p@localhost:5432/todos", cfg.Database.URL)
	assert.True(t, cfg.Logging.Development)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("broken yaml", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "server: [port"))
		assert.Error(t, err)
	})

	t.Run("bad bool in env", func(t *testing.T) {
		t.Setenv("TODO_LOG_DEVELOPMENT", "sometimes")
		_, err := config.Load(writeConfig(t, ""))
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *config.Config) {}},
		{name: "unknown repository", mutate: func(c *config.Config) { c.Repository.Type = "redis" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *config.Config) { c.Repository.Type = config.RepositoryPostgres }, wantErr: true},
		{
			name: "sqlite without path",
			mutate: func(c *config.Config) {
				c.Repository.Type = config.RepositorySQLite
				c.SQLite.Path = ""
			},
			wantErr: true,
		},
		{name: "default above max", mutate: func(c *config.Config) { c.Pagination.DefaultSize = 500 }, wantErr: true},
		{name: "zero max size", mutate: func(c *config.Config) { c.Pagination.MaxSize = 0 }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *config.Config) { c.RateLimit.RequestsPerMinute = -1 }, wantErr: true},
		{name: "empty port", mutate: func(c *config.Config) { c.Server.Port = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
