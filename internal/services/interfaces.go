package services

import (
	"context"
	"time"

	"daylog/internal/aggregate"
	"daylog/internal/collection"
	"daylog/internal/domain"
	"daylog/internal/errors"
)

// DayReport is everything the day view shows besides the activity list.
type DayReport struct {
	Stats     aggregate.DayStats   `json:"stats"`
	TitleBars []aggregate.TitleBar `json:"title_bars"`
}

// RangeReport summarises a user's activities over an inclusive date range.
type RangeReport struct {
	From              string                    `json:"from"`
	To                string                    `json:"to"`
	Activities        []domain.Activity         `json:"activities"`
	Days              []aggregate.DayTotal      `json:"days"`
	TotalMinutes      int                       `json:"total_minutes"`
	CategoryBreakdown []aggregate.CategoryShare `json:"category_breakdown"`
}

// TimerQuery selects and orders a timer listing. An empty Category lists all.
type TimerQuery struct {
	Category domain.TimerCategory
	Sort     domain.TimerSort
}

// ActivityLog manages the per-day activity lists, mirrored to the table store.
type ActivityLog interface {
	// Load refreshes the day's list from the table store and returns it in creation order.
	Load(ctx context.Context, userID, date string) ([]domain.Activity, error)
	Add(ctx context.Context, userID, date string, input domain.ActivityInput) (*domain.Activity, error)
	Edit(ctx context.Context, id string, patch domain.ActivityPatch) (*domain.Activity, error)
	Remove(ctx context.Context, id string) error
	Stats(ctx context.Context, userID, date string) (*DayReport, error)
	Range(ctx context.Context, userID, from, to string) (*RangeReport, error)
}

// TodoList manages per-user todos, mirrored to the table store.
type TodoList interface {
	Add(ctx context.Context, userID, title string) (*domain.Todo, error)
	Toggle(ctx context.Context, id string) (*domain.Todo, error)
	Rename(ctx context.Context, id, title string) (*domain.Todo, error)
	Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, userID string, filter domain.TodoFilter) ([]domain.Todo, error)
	Stats(ctx context.Context, userID string) (*aggregate.TodoStats, error)
}

// TimerBoard manages countdown timers kept in local storage.
type TimerBoard interface {
	Add(ctx context.Context, name string, seconds int, category domain.TimerCategory) (*domain.Timer, error)
	AddFromTemplate(ctx context.Context, template string) (*domain.Timer, error)
	Remove(ctx context.Context, id string) error
	Toggle(ctx context.Context, id string) (*domain.Timer, error)
	Reset(ctx context.Context, id string) (*domain.Timer, error)
	Edit(ctx context.Context, id, name string, seconds int, category domain.TimerCategory) (*domain.Timer, error)
	// Tick advances every running timer by one second and returns the timers
	// that finished on this tick.
	Tick(ctx context.Context) ([]domain.Timer, error)
	List(query TimerQuery) []domain.Timer
	Stats() aggregate.TimerStatsSummary
}

// BookCatalog manages the book list kept in local storage.
type BookCatalog interface {
	Add(ctx context.Context, title, author string, price float64, image string) (*domain.Book, error)
	Remove(ctx context.Context, id string) error
	List() []domain.Book
	Stats() aggregate.BookStats
}

// ProfileService reads profiles and changes roles.
type ProfileService interface {
	List(ctx context.Context) ([]domain.Profile, error)
	Get(ctx context.Context, id string) (*domain.Profile, error)
	Create(ctx context.Context, username string, role domain.Role) (*domain.Profile, error)
	ChangeRole(ctx context.Context, actorID, targetID string, role domain.Role) (*domain.Profile, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Activities ActivityLog
	Todos      TodoList
	Timers     TimerBoard
	Books      BookCatalog
	Profiles   ProfileService
}

// Option configures a service.
type Option func(*options)

type options struct {
	now      func() time.Time
	observer collection.Observer
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithObserver reports every collection operation to fn.
func WithObserver(fn collection.Observer) Option {
	return func(o *options) { o.observer = fn }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func storeOptions[T collection.Record](o options, p collection.Persister[T]) []collection.Option[T] {
	out := []collection.Option[T]{collection.WithPersister[T](p)}
	if o.observer != nil {
		out = append(out, collection.WithObserver[T](o.observer))
	}
	return out
}

// invalid wraps a validation failure as an application validation error.
func invalid(message string, err error) error {
	if err == nil {
		return nil
	}
	return errors.NewValidationError(message, err)
}

// repoPersister mirrors collection changes one record at a time.
func repoPersister[T collection.Record](
	create func(context.Context, *T) error,
	update func(context.Context, *T) error,
	remove func(context.Context, string) error,
) collection.Persister[T] {
	return collection.PersisterFunc[T](func(ctx context.Context, change collection.Change[T]) error {
		record := change.Record
		switch change.Op {
		case collection.OpCreate:
			return create(ctx, &record)
		case collection.OpUpdate:
			return update(ctx, &record)
		case collection.OpDelete:
			return remove(ctx, change.ID)
		}
		return nil
	})
}

func valuesOf[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}
