package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestNewConfig_DefaultsAreValid(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "daylog.db", filepath.Base(cfg.GetDatabasePath()))
	assert.Equal(t, 10*time.Second, cfg.GetQueryTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetWriteTimeout())
	assert.Empty(t, cfg.Backup.Schedule)
}

func TestLoader_Environment(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("DAYLOG_DB_DIR", dir)
	t.Setenv("DAYLOG_DB_QUERY_TIMEOUT", "3s")
	t.Setenv("DAYLOG_VALIDATION_TITLE_MAX", "40")
	t.Setenv("DAYLOG_APP_VERBOSE", "true")
	t.Setenv("DAYLOG_USER", "alice")
	t.Setenv("DAYLOG_SERVER_TICK_INTERVAL", "not-a-duration")
	t.Setenv("DAYLOG_DB_DIR_PERMISSIONS", "700")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Database.Dir)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 40, cfg.Validation.TitleMaxLength)
	assert.True(t, cfg.Application.Verbose)
	assert.Equal(t, "alice", cfg.Application.User)
	assert.Equal(t, time.Second, cfg.Server.TickInterval, "unparseable values keep the previous setting")
	assert.Equal(t, uint32(0700), cfg.Database.DirPermissions)
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: memory
  data_dir: /tmp/daylog-data
database:
  query_timeout: 2s
server:
  addr: ":9090"
backup:
  schedule: "0 3 * * *"
  keep: 3
`), 0644))

	t.Setenv(ConfigPathEnv, path)
	t.Setenv("DAYLOG_SERVER_ADDR", ":7070")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/daylog-data", cfg.Storage.DataDir)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "daylog.db", cfg.Database.Filename, "unset keys keep defaults")
	assert.Equal(t, ":7070", cfg.Server.Addr, "environment wins over file")
	assert.Equal(t, "0 3 * * *", cfg.Backup.Schedule)
	assert.Equal(t, 3, cfg.Backup.Keep)
}

func TestLoader_FileParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0644))

	_, err := NewLoaderWithPath(path).Load()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "file", cfgErr.Field)
}

func TestLoader_Overrides(t *testing.T) {
	isolate(t)
	backend := BackendPostgres
	dsn := "postgres://daylog@localhost/daylog"
	format := "json"
	user := "bob"

	cfg, err := NewLoader().LoadWithOverrides(&ConfigOverrides{
		Backend:     &backend,
		PostgresDSN: &dsn,
		Format:      &format,
		User:        &user,
	})
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, dsn, cfg.Database.PostgresDSN)
	assert.Equal(t, "json", cfg.Display.Format)
	assert.Equal(t, "bob", cfg.Application.User)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "mongo" }, "storage.backend"},
		{"postgres without dsn", func(c *Config) { c.Storage.Backend = BackendPostgres }, "database.postgres_dsn"},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, "storage.data_dir"},
		{"empty db dir", func(c *Config) { c.Database.Dir = "" }, "database.dir"},
		{"zero query timeout", func(c *Config) { c.Database.QueryTimeout = 0 }, "database.query_timeout"},
		{"title max below min", func(c *Config) { c.Validation.TitleMaxLength = 0 }, "validation.title_max_length"},
		{"bad format", func(c *Config) { c.Display.Format = "xml" }, "display.format"},
		{"blank user", func(c *Config) { c.Application.User = " " }, "application.user"},
		{"bad cron", func(c *Config) { c.Backup.Schedule = "every day" }, "backup.schedule"},
		{"zero range days", func(c *Config) { c.Validation.MaxRangeDays = 0 }, "validation.max_range_days"},
		{"negative keep", func(c *Config) { c.Backup.Keep = -1 }, "backup.keep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDurationWithFallback("5s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("x", time.Second))
	assert.Equal(t, 7, ParseIntWithFallback("7", 1))
	assert.Equal(t, 1, ParseIntWithFallback("seven", 1))
	assert.True(t, ParseBoolWithFallback("true", false))
	assert.Equal(t, uint32(0700), ParseUint32WithFallback("700", 8, 0755))
}
