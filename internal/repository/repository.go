// Package repository defines the table store contract shared by the SQLite
// and PostgreSQL backends.
package repository

import (
	"context"

	"daylog/internal/domain"
)

// ActivityRepository stores activities scoped by owner and date.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *domain.Activity) error
	GetActivity(ctx context.Context, id string) (*domain.Activity, error)
	UpdateActivity(ctx context.Context, activity *domain.Activity) error
	DeleteActivity(ctx context.Context, id string) error
	// ListActivities returns one user's activities for a date in creation order.
	ListActivities(ctx context.Context, userID, date string) ([]*domain.Activity, error)
	// ListActivitiesInRange returns activities with from <= date <= to, ordered
	// by date then creation time.
	ListActivitiesInRange(ctx context.Context, userID, from, to string) ([]*domain.Activity, error)
}

// TodoRepository stores per-user todos.
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *domain.Todo) error
	GetTodo(ctx context.Context, id string) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, todo *domain.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	ListTodos(ctx context.Context, userID string) ([]*domain.Todo, error)
}

// ProfileRepository stores account profiles.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	ListProfiles(ctx context.Context) ([]*domain.Profile, error)
	UpdateProfileRole(ctx context.Context, id string, role domain.Role) error
}

// Repository is a complete table backend.
type Repository interface {
	ActivityRepository
	TodoRepository
	ProfileRepository

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
