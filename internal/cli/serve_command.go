package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"daylog/internal/api"
	"daylog/internal/httpapi"
	"daylog/internal/logging"
	"daylog/internal/metrics"
	"daylog/internal/scheduler"
	"daylog/internal/storage/local"
	"daylog/internal/timer"
)

func (r *RootCommand) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, tick running timers and take scheduled backups",
		Long: `Serve the HTTP API on --addr. While serving, running timers count down once
per tick and, when a backup schedule is configured, local collections are
snapshotted on that cron schedule.

Metrics are exposed at /metrics and liveness at /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides DAYLOG_SERVER_ADDR)")
	cmd.Flags().String("backup-schedule", "", "Cron schedule for local backups (overrides DAYLOG_BACKUP_SCHEDULE)")
	return cmd
}

// serve runs until ctx is cancelled or one of its components fails.
func (r *RootCommand) serve(ctx context.Context) error {
	cfg := r.config
	log := logging.NewJSON(cfg.Application.Verbose)
	logging.SetGlobal(log)
	defer log.Sync()

	m := metrics.New()
	store, err := local.New(cfg.Storage.DataDir)
	if err != nil {
		return r.errorHandler.Handle("open data directory", err)
	}

	a, err := r.openAPI(ctx, api.WithObserver(m.Observe), api.WithLocalStore(store))
	if err != nil {
		return r.errorHandler.Handle("open storage", err)
	}

	var backup *scheduler.Backup
	if cfg.Backup.Schedule != "" {
		if backup, err = scheduler.NewBackup(store, cfg.Backup, scheduler.OnDone(m.BackupDone)); err != nil {
			return err
		}
	}

	eg, ctx := errgroup.WithContext(ctx)

	srv := httpapi.NewServer(cfg.Server, httpapi.NewRouter(a, m, log.Named("http")))
	eg.Go(func() error {
		return httpapi.Serve(ctx, srv, cfg.Server.ShutdownTimeout, log.Named("http"))
	})

	ticker := timer.NewTicker(timer.BoardFunc(a.TickTimers), cfg.Server.TickInterval, timer.OnFinish(m.TimerFinished))
	eg.Go(func() error {
		return ticker.Run(ctx)
	})

	if backup != nil {
		eg.Go(func() error {
			return backup.Run(ctx)
		})
	}

	err = eg.Wait()
	log.Info("server stopped", zap.Error(err))
	return err
}
