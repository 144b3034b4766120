package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Storage backends for activities, todos and profiles.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds every setting. The env tags name the variables read by
// LoadFromEnvironment.
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Database    DatabaseConfig    `yaml:"database"`
	Validation  ValidationConfig  `yaml:"validation"`
	Display     DisplayConfig     `yaml:"display"`
	Application ApplicationConfig `yaml:"application"`
	Server      ServerConfig      `yaml:"server"`
	Backup      BackupConfig      `yaml:"backup"`
}

// StorageConfig selects where collections are persisted
type StorageConfig struct {
	Backend string `yaml:"backend" env:"DAYLOG_STORAGE_BACKEND"`
	DataDir string `yaml:"data_dir" env:"DAYLOG_DATA_DIR"`
}

// DatabaseConfig holds table store configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" env:"DAYLOG_DB_DIR"`
	Filename       string        `yaml:"filename" env:"DAYLOG_DB_FILENAME"`
	PostgresDSN    string        `yaml:"postgres_dsn" env:"DAYLOG_POSTGRES_DSN"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"DAYLOG_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"DAYLOG_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"DAYLOG_DB_DIR_PERMISSIONS"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMinLength  int `yaml:"title_min_length" env:"DAYLOG_VALIDATION_TITLE_MIN"`
	TitleMaxLength  int `yaml:"title_max_length" env:"DAYLOG_VALIDATION_TITLE_MAX"`
	MaxTimerMinutes int `yaml:"max_timer_minutes" env:"DAYLOG_VALIDATION_MAX_TIMER_MINUTES"`
	MaxRangeDays    int `yaml:"max_range_days" env:"DAYLOG_VALIDATION_MAX_RANGE_DAYS"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat string `yaml:"date_format" env:"DAYLOG_DISPLAY_DATE_FORMAT"`
	Format     string `yaml:"format" env:"DAYLOG_DISPLAY_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"DAYLOG_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"DAYLOG_APP_VERBOSE"`
	User    string        `yaml:"user" env:"DAYLOG_USER"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"DAYLOG_SERVER_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"DAYLOG_SERVER_READ_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"DAYLOG_SERVER_SHUTDOWN_TIMEOUT"`
	TickInterval    time.Duration `yaml:"tick_interval" env:"DAYLOG_SERVER_TICK_INTERVAL"`
}

// BackupConfig controls scheduled snapshots of local collections. An empty
// schedule disables backups.
type BackupConfig struct {
	Schedule string `yaml:"schedule" env:"DAYLOG_BACKUP_SCHEDULE"`
	Dir      string `yaml:"dir" env:"DAYLOG_BACKUP_DIR"`
	Keep     int    `yaml:"keep" env:"DAYLOG_BACKUP_KEEP"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	baseDir := filepath.Join(homeDir, ".daylog")

	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DataDir: filepath.Join(baseDir, "data"),
		},
		Database: DatabaseConfig{
			Dir:            baseDir,
			Filename:       "daylog.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Validation: ValidationConfig{
			TitleMinLength:  1,
			TitleMaxLength:  255,
			MaxTimerMinutes: 24 * 60,
			MaxRangeDays:    366,
		},
		Display: DisplayConfig{
			DateFormat: "Jan 2, 2006",
			Format:     "table",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			User:    "local",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			TickInterval:    time.Second,
		},
		Backup: BackupConfig{
			Dir:  filepath.Join(baseDir, "backups"),
			Keep: 7,
		},
	}
}

// GetDatabasePath returns the SQLite file location.
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

func (c *Config) GetQueryTimeout() time.Duration { return c.Database.QueryTimeout }

func (c *Config) GetWriteTimeout() time.Duration { return c.Database.WriteTimeout }

var durationType = reflect.TypeOf(time.Duration(0))

// LoadFromEnvironment overrides every field carrying an env tag whose
// variable is set. Values that fail to parse keep the current setting.
func (c *Config) LoadFromEnvironment() error {
	return loadEnv(reflect.ValueOf(c).Elem())
}

func loadEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.Struct {
			if err := loadEnv(field); err != nil {
				return err
			}
			continue
		}

		key := t.Field(i).Tag.Get("env")
		raw := os.Getenv(key)
		if key == "" || raw == "" {
			continue
		}

		switch {
		case field.Type() == durationType:
			field.SetInt(int64(ParseDurationWithFallback(raw, time.Duration(field.Int()))))
		case field.Kind() == reflect.String:
			field.SetString(raw)
		case field.Kind() == reflect.Int:
			field.SetInt(int64(ParseIntWithFallback(raw, int(field.Int()))))
		case field.Kind() == reflect.Bool:
			field.SetBool(ParseBoolWithFallback(raw, field.Bool()))
		case field.Kind() == reflect.Uint32:
			// permissions are written in octal
			field.SetUint(uint64(ParseUint32WithFallback(raw, 8, uint32(field.Uint()))))
		default:
			return &ConfigError{Field: key, Message: "unsupported type " + field.Type().String()}
		}
	}
	return nil
}

// Validate returns a ConfigError for the first setting that is unusable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory, BackendPostgres:
	default:
		return &ConfigError{Field: "storage.backend", Message: fmt.Sprintf("unknown backend %q", c.Storage.Backend)}
	}

	cronMsg := ""
	if c.Backup.Schedule != "" {
		if _, err := cron.ParseStandard(c.Backup.Schedule); err != nil {
			cronMsg = "invalid cron expression: " + err.Error()
		}
	}
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	rules := []struct {
		broken bool
		field  string
		msg    string
	}{
		{c.Storage.Backend == BackendPostgres && blank(c.Database.PostgresDSN), "database.postgres_dsn", "postgres DSN is required for the postgres backend"},
		{c.Storage.DataDir == "", "storage.data_dir", "data directory cannot be empty"},
		{c.Database.Dir == "", "database.dir", "database directory cannot be empty"},
		{c.Database.Filename == "", "database.filename", "database filename cannot be empty"},
		{c.Database.QueryTimeout <= 0, "database.query_timeout", "query timeout must be positive"},
		{c.Database.WriteTimeout <= 0, "database.write_timeout", "write timeout must be positive"},
		{c.Validation.TitleMinLength < 1, "validation.title_min_length", "title minimum length must be at least 1"},
		{c.Validation.TitleMaxLength < c.Validation.TitleMinLength, "validation.title_max_length", "title maximum length must not be below the minimum"},
		{c.Validation.MaxTimerMinutes <= 0, "validation.max_timer_minutes", "max timer minutes must be positive"},
		{c.Validation.MaxRangeDays <= 0, "validation.max_range_days", "max range days must be positive"},
		{c.Display.DateFormat == "", "display.date_format", "date format cannot be empty"},
		{c.Display.Format != "table" && c.Display.Format != "json", "display.format", "format must be table or json"},
		{c.Application.Timeout <= 0, "application.timeout", "application timeout must be positive"},
		{blank(c.Application.User), "application.user", "user cannot be empty"},
		{c.Server.Addr == "", "server.addr", "listen address cannot be empty"},
		{c.Server.TickInterval <= 0, "server.tick_interval", "tick interval must be positive"},
		{cronMsg != "", "backup.schedule", cronMsg},
		{c.Backup.Schedule != "" && c.Backup.Dir == "", "backup.dir", "backup directory cannot be empty"},
		{c.Backup.Keep < 0, "backup.keep", "keep cannot be negative"},
	}
	for _, r := range rules {
		if r.broken {
			return &ConfigError{Field: r.field, Message: r.msg}
		}
	}
	return nil
}

// ConfigError names the offending setting by its YAML path.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	return orFallback(s, fallback, func(s string) (uint32, error) {
		u, err := strconv.ParseUint(s, base, 32)
		return uint32(u), err
	})
}
