// Package api assembles the table store, local storage and services behind a
// single BusinessAPI.
package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"daylog/internal/collection"
	"daylog/internal/config"
	"daylog/internal/errors"
	"daylog/internal/logging"
	"daylog/internal/repository"
	"daylog/internal/repository/postgres"
	"daylog/internal/repository/sqlite"
	"daylog/internal/services"
	"daylog/internal/storage/local"
	"daylog/internal/validation"
)

// Option configures New.
type Option func(*buildOptions)

type buildOptions struct {
	services []services.Option
	repo     repository.Repository
	store    *local.Store
}

// WithObserver reports every collection operation, typically to metrics.
func WithObserver(fn collection.Observer) Option {
	return func(o *buildOptions) {
		o.services = append(o.services, services.WithObserver(fn))
	}
}

// WithRepository uses repo instead of opening the configured backend.
func WithRepository(repo repository.Repository) Option {
	return func(o *buildOptions) { o.repo = repo }
}

// WithLocalStore uses store for timers and books instead of opening
// cfg.Storage.DataDir.
func WithLocalStore(store *local.Store) Option {
	return func(o *buildOptions) { o.store = store }
}

// OpenRepository opens the table store selected by cfg.Storage.Backend.
func OpenRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		return sqlite.NewWithConfig(cfg.GetDatabasePath(), cfg)
	case config.BackendMemory:
		return sqlite.NewWithConfig(sqlite.MemoryPath, cfg)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg)
	default:
		return nil, errors.NewInvalidInputError("storage.backend", cfg.Storage.Backend, "unknown backend")
	}
}

// New opens storage and wires every service.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (BusinessAPI, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	repo := o.repo
	if repo == nil {
		var err error
		if repo, err = OpenRepository(ctx, cfg); err != nil {
			return nil, err
		}
	}

	store := o.store
	if store == nil {
		var err error
		if store, err = local.New(cfg.Storage.DataDir); err != nil {
			repo.Close()
			return nil, err
		}
	}

	v := validation.NewValidatorWithConfig(cfg)
	timers, err := services.NewTimerBoard(store, v, o.services...)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to load timers: %w", err)
	}
	books, err := services.NewBookCatalog(store, v, o.services...)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to load books: %w", err)
	}

	container := &services.ServiceContainer{
		Activities: services.NewActivityLog(repo, v, o.services...),
		Todos:      services.NewTodoList(repo, v, o.services...),
		Timers:     timers,
		Books:      books,
		Profiles:   services.NewProfileService(repo, v, o.services...),
	}

	logging.L().Debug("api ready",
		zap.String("backend", cfg.Storage.Backend), zap.String("data_dir", store.Dir()))
	return NewBusinessAPI(container, repo), nil
}
