package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"daylog/internal/api"
	"daylog/internal/config"
	"daylog/internal/logging"
)

// APIFactory opens the BusinessAPI once the configuration is final.
type APIFactory func(ctx context.Context, cfg *config.Config, opts ...api.Option) (api.BusinessAPI, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd          *cobra.Command
	loader       *config.Loader
	factory      APIFactory
	config       *config.Config
	api          api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewRootCommand creates the root cobra command with global flags. The API is
// opened lazily by the first command that needs it.
func NewRootCommand(loader *config.Loader, factory APIFactory) *RootCommand {
	if loader == nil {
		loader = config.NewLoader()
	}
	if factory == nil {
		factory = api.New
	}
	root := &RootCommand{
		loader:       loader,
		factory:      factory,
		errorHandler: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "daylog",
		Short: "Track activities, todos, countdown timers and books",
		Long: `daylog is a personal tracking tool: log how each day was spent, keep a todo
list, run countdown timers and keep a small book catalog.

EXAMPLES:
  daylog activity add "Deep work" -c work -m 90   # Log 90 minutes of work today
  daylog activity stats --date yesterday          # Summarise yesterday
  daylog todo add Buy milk                        # Add a todo
  daylog timer add --template Pomodoro            # Create a 25 minute timer
  daylog serve                                    # Run the HTTP API and timers

CONFIGURATION:
  Configuration follows this priority order:
    command-line flags > environment variables > config file > defaults

  The config file is read from $DAYLOG_CONFIG or <user config dir>/daylog/config.yaml.

  Storage:
    DAYLOG_STORAGE_BACKEND                 sqlite, postgres or memory (default: sqlite)
    DAYLOG_DATA_DIR                        Local collections directory (default: ~/.daylog/data)
    DAYLOG_DB_DIR                          SQLite directory (default: ~/.daylog)
    DAYLOG_DB_FILENAME                     SQLite filename (default: daylog.db)
    DAYLOG_POSTGRES_DSN                    PostgreSQL connection string
    DAYLOG_DB_QUERY_TIMEOUT                Query timeout (default: 10s)
    DAYLOG_DB_WRITE_TIMEOUT                Write timeout (default: 5s)

  Application:
    DAYLOG_USER                            User for activities and todos (default: local)
    DAYLOG_DISPLAY_FORMAT                  table or json (default: table)
    DAYLOG_APP_TIMEOUT                     Command timeout (default: 60s)
    DAYLOG_APP_VERBOSE                     Enable verbose output (default: false)
    DAYLOG_DEBUG                           Enable debug logging

  Server:
    DAYLOG_SERVER_ADDR                     Listen address (default: :8080)
    DAYLOG_BACKUP_SCHEDULE                 Cron schedule for local backups (default: off)
    DAYLOG_BACKUP_DIR                      Backup directory (default: ~/.daylog/backups)
    DAYLOG_BACKUP_KEEP                     Snapshots to keep (default: 7)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
	}

	root.addGlobalFlags()
	root.cmd.AddCommand(
		root.newActivityCommand(),
		root.newTodoCommand(),
		root.newTimerCommand(),
		root.newBookCommand(),
		root.newProfileCommand(),
		root.newServeCommand(),
	)

	return root
}

// Execute runs the root command and releases the API afterwards
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.Close()
	return r.cmd.ExecuteContext(ctx)
}

// Close releases the API if a command opened it
func (r *RootCommand) Close() error {
	if r.api == nil {
		return nil
	}
	err := r.api.Close()
	r.api = nil
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides DAYLOG_CONFIG)")

	// Storage configuration
	flags.String("backend", "", "Storage backend: sqlite, postgres or memory (overrides DAYLOG_STORAGE_BACKEND)")
	flags.String("data-dir", "", "Local collections directory (overrides DAYLOG_DATA_DIR)")
	flags.String("db-dir", "", "SQLite directory (overrides DAYLOG_DB_DIR)")
	flags.String("db-filename", "", "SQLite filename (overrides DAYLOG_DB_FILENAME)")
	flags.String("postgres-dsn", "", "PostgreSQL connection string (overrides DAYLOG_POSTGRES_DSN)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides DAYLOG_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides DAYLOG_DB_WRITE_TIMEOUT)")

	// Application configuration
	flags.StringP("output", "o", "", "Output format: table or json (overrides DAYLOG_DISPLAY_FORMAT)")
	flags.StringP("user", "u", "", "User for activities and todos (overrides DAYLOG_USER)")
	flags.Duration("app-timeout", 0, "Command timeout (overrides DAYLOG_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable verbose output (overrides DAYLOG_APP_VERBOSE)")
}

// loadConfig runs the config cascade and applies flags that were set explicitly
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	loader := r.loader
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader = config.NewLoaderWithPath(path)
	}

	cfg, err := loader.LoadWithOverrides(overridesFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.config = cfg

	logging.SetGlobal(logging.New(cfg.Application.Verbose))
	logging.Debugf("config loaded: backend=%s data_dir=%s", cfg.Storage.Backend, cfg.Storage.DataDir)
	return nil
}

// overridesFromFlags collects every configuration flag the user set, including
// command-local ones such as serve's --addr.
func overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}

	o.Backend = str("backend")
	o.DataDir = str("data-dir")
	o.DBDir = str("db-dir")
	o.DBFilename = str("db-filename")
	o.PostgresDSN = str("postgres-dsn")
	o.DBQueryTimeout = dur("db-query-timeout")
	o.DBWriteTimeout = dur("db-write-timeout")
	o.Format = str("output")
	o.User = str("user")
	o.Timeout = dur("app-timeout")
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	o.Addr = str("addr")
	o.BackupSchedule = str("backup-schedule")
	return o
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// openAPI opens the API on first use.
func (r *RootCommand) openAPI(ctx context.Context, opts ...api.Option) (api.BusinessAPI, error) {
	if r.api != nil {
		return r.api, nil
	}
	a, err := r.factory(ctx, r.config, opts...)
	if err != nil {
		return nil, err
	}
	r.api = a
	return a, nil
}

// run adapts a handler to cobra, bounding it by the application timeout.
func (r *RootCommand) run(fn func(ctx context.Context, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()

		a, err := r.openAPI(ctx)
		if err != nil {
			return r.errorHandler.Handle("open storage", err)
		}
		app := NewAppWithConfig(a, r.config, cmd.OutOrStdout())
		return r.errorHandler.HandleSimple(fn(ctx, app, args))
	}
}
