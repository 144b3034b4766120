// Package scheduler runs cron-scheduled snapshot backups of local storage.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"daylog/internal/config"
	"daylog/internal/logging"
	"daylog/internal/storage/local"
)

// snapshotLayout names backup directories so that lexical order is chronological.
const snapshotLayout = "20060102T150405.000000000Z"

// Backup copies every local storage key into a timestamped directory on a
// cron schedule and keeps only the newest snapshots.
type Backup struct {
	store    *local.Store
	schedule cron.Schedule
	expr     string
	dir      string
	keep     int
	now      func() time.Time
	onDone   func(at time.Time, err error)
	log      *zap.Logger
}

// Option configures a Backup.
type Option func(*Backup)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Backup) { b.now = now }
}

// OnDone is called after every backup run.
func OnDone(fn func(at time.Time, err error)) Option {
	return func(b *Backup) { b.onDone = fn }
}

// NewBackup parses cfg.Schedule as a standard five-field cron expression.
func NewBackup(store *local.Store, cfg config.BackupConfig, opts ...Option) (*Backup, error) {
	expr := strings.TrimSpace(cfg.Schedule)
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, &config.ConfigError{Field: "backup.schedule", Message: fmt.Sprintf("invalid cron expression %q: %v", expr, err)}
	}
	b := &Backup{
		store:    store,
		schedule: schedule,
		expr:     expr,
		dir:      cfg.Dir,
		keep:     cfg.Keep,
		now:      time.Now,
		log:      logging.L().Named("backup"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Next returns the first scheduled run after t.
func (b *Backup) Next(t time.Time) time.Time {
	return b.schedule.Next(t)
}

// Run starts the cron loop and blocks until ctx is done. A run in progress is
// allowed to finish.
func (b *Backup) Run(ctx context.Context) error {
	c := cron.New()
	c.Schedule(b.schedule, cron.FuncJob(func() {
		if _, err := b.RunOnce(); err != nil {
			b.log.Error("backup failed", zap.Error(err))
		}
	}))
	c.Start()
	b.log.Info("backups scheduled", zap.String("schedule", b.expr), zap.Time("next", b.Next(b.now())))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// RunOnce takes a snapshot now and prunes old ones. It returns the snapshot directory.
func (b *Backup) RunOnce() (string, error) {
	at := b.now().UTC()
	target := filepath.Join(b.dir, at.Format(snapshotLayout))

	err := b.store.CopyTo(target)
	if err == nil {
		err = b.prune()
	}
	if b.onDone != nil {
		b.onDone(at, err)
	}
	if err != nil {
		return "", fmt.Errorf("backup to %s: %w", target, err)
	}
	b.log.Info("backup written", zap.String("dir", target))
	return target, nil
}

// Snapshots lists existing snapshot directories, oldest first.
func (b *Backup) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(snapshotLayout, e.Name()); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (b *Backup) prune() error {
	if b.keep <= 0 {
		return nil
	}
	names, err := b.Snapshots()
	if err != nil {
		return err
	}
	for len(names) > b.keep {
		if err := os.RemoveAll(filepath.Join(b.dir, names[0])); err != nil {
			return err
		}
		b.log.Debug("pruned backup", zap.String("name", names[0]))
		names = names[1:]
	}
	return nil
}
