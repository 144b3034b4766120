package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPathEnv points at a YAML config file.
const ConfigPathEnv = "DAYLOG_CONFIG"

// Loader resolves a Config from defaults, a YAML file, the environment and
// finally command line overrides, each layer replacing what came before.
type Loader struct {
	config *Config
	path   string
}

// NewLoader reads the file named by DAYLOG_CONFIG, or
// <user config dir>/daylog/config.yaml when unset.
func NewLoader() *Loader {
	return NewLoaderWithPath(DefaultConfigPath())
}

func NewLoaderWithPath(path string) *Loader {
	return &Loader{config: NewConfig(), path: path}
}

func DefaultConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "daylog", "config.yaml")
}

// Load applies the file and environment layers and validates the result.
func (l *Loader) Load() (*Config, error) {
	for _, layer := range []func() error{l.loadFile, l.config.LoadFromEnvironment, l.config.Validate} {
		if err := layer(); err != nil {
			return nil, err
		}
	}
	return l.config, nil
}

// loadFile merges the YAML file over the current values. A missing file is
// skipped.
func (l *Loader) loadFile() error {
	if l.path == "" {
		return nil
	}
	data, err := os.ReadFile(l.path)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("read config %s: %w", l.path, err)
	}
	if err := yaml.Unmarshal(data, l.config); err != nil {
		return &ConfigError{Field: "file", Message: fmt.Sprintf("parse %s: %v", l.path, err)}
	}
	return nil
}

// LoadWithOverrides is Load followed by the flag layer. The merged config is
// validated again since flags can introduce invalid combinations.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	overrides.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigOverrides carries flag values. Nil fields were not given on the
// command line and leave the config untouched.
type ConfigOverrides struct {
	Backend *string
	DataDir *string

	DBDir          *string
	DBFilename     *string
	PostgresDSN    *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	Format *string

	Timeout *time.Duration
	Verbose *bool
	User    *string

	Addr           *string
	BackupSchedule *string
}

// Apply copies every set override into cfg. A nil receiver is a no-op.
func (o *ConfigOverrides) Apply(cfg *Config) {
	if o == nil {
		return
	}
	override(&cfg.Storage.Backend, o.Backend)
	override(&cfg.Storage.DataDir, o.DataDir)

	override(&cfg.Database.Dir, o.DBDir)
	override(&cfg.Database.Filename, o.DBFilename)
	override(&cfg.Database.PostgresDSN, o.PostgresDSN)
	override(&cfg.Database.QueryTimeout, o.DBQueryTimeout)
	override(&cfg.Database.WriteTimeout, o.DBWriteTimeout)

	override(&cfg.Display.Format, o.Format)

	override(&cfg.Application.Timeout, o.Timeout)
	override(&cfg.Application.Verbose, o.Verbose)
	override(&cfg.Application.User, o.User)

	override(&cfg.Server.Addr, o.Addr)
	override(&cfg.Backup.Schedule, o.BackupSchedule)
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// orFallback returns parse(s), or fallback when s does not parse.
func orFallback[T any](s string, fallback T, parse func(string) (T, error)) T {
	if v, err := parse(s); err == nil {
		return v
	}
	return fallback
}

func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	return orFallback(s, fallback, time.ParseDuration)
}

func ParseIntWithFallback(s string, fallback int) int {
	return orFallback(s, fallback, strconv.Atoi)
}

func ParseBoolWithFallback(s string, fallback bool) bool {
	return orFallback(s, fallback, strconv.ParseBool)
}
