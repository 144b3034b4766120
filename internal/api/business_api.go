package api

import (
	"context"

	"daylog/internal/aggregate"
	"daylog/internal/domain"
	"daylog/internal/repository"
	"daylog/internal/services"
)

// BusinessAPI is the single entry point used by the CLI and the HTTP server.
type BusinessAPI interface {
	// ========== Activity Log ==========

	// ListActivities returns a user's activities for one day in creation order
	ListActivities(ctx context.Context, userID, date string) ([]domain.Activity, error)

	// AddActivity logs a new activity, rejecting it if the day would exceed 24 hours
	AddActivity(ctx context.Context, userID, date string, input domain.ActivityInput) (*domain.Activity, error)

	// EditActivity applies a partial update
	EditActivity(ctx context.Context, id string, patch domain.ActivityPatch) (*domain.Activity, error)

	// DeleteActivity removes an activity
	DeleteActivity(ctx context.Context, id string) error

	// DayStats returns totals, category breakdown and title bars for one day
	DayStats(ctx context.Context, userID, date string) (*services.DayReport, error)

	// ActivityRange summarises activities between two dates inclusive
	ActivityRange(ctx context.Context, userID, from, to string) (*services.RangeReport, error)

	// ========== Todos ==========

	ListTodos(ctx context.Context, userID string, filter domain.TodoFilter) ([]domain.Todo, error)
	AddTodo(ctx context.Context, userID, title string) (*domain.Todo, error)
	ToggleTodo(ctx context.Context, id string) (*domain.Todo, error)
	RenameTodo(ctx context.Context, id, title string) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	TodoStats(ctx context.Context, userID string) (*aggregate.TodoStats, error)

	// ========== Timers ==========

	ListTimers(query services.TimerQuery) []domain.Timer
	AddTimer(ctx context.Context, name string, seconds int, category domain.TimerCategory) (*domain.Timer, error)
	AddTimerFromTemplate(ctx context.Context, template string) (*domain.Timer, error)
	ToggleTimer(ctx context.Context, id string) (*domain.Timer, error)
	ResetTimer(ctx context.Context, id string) (*domain.Timer, error)
	EditTimer(ctx context.Context, id, name string, seconds int, category domain.TimerCategory) (*domain.Timer, error)
	DeleteTimer(ctx context.Context, id string) error
	TickTimers(ctx context.Context) ([]domain.Timer, error)
	TimerStats() aggregate.TimerStatsSummary
	TimerTemplates() []domain.TimerTemplate

	// ========== Books ==========

	ListBooks() []domain.Book
	AddBook(ctx context.Context, title, author string, price float64, image string) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error
	BookStats() aggregate.BookStats

	// ========== Profiles ==========

	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, username string, role domain.Role) (*domain.Profile, error)
	ChangeRole(ctx context.Context, actorID, targetID string, role domain.Role) (*domain.Profile, error)

	// ========== Lifecycle ==========

	// Ping checks the table store
	Ping(ctx context.Context) error

	// Close releases the table store
	Close() error
}

type businessAPIImpl struct {
	services *services.ServiceContainer
	repo     repository.Repository
}

// NewBusinessAPI wraps an assembled service container.
func NewBusinessAPI(container *services.ServiceContainer, repo repository.Repository) BusinessAPI {
	return &businessAPIImpl{services: container, repo: repo}
}

func (b *businessAPIImpl) ListActivities(ctx context.Context, userID, date string) ([]domain.Activity, error) {
	return b.services.Activities.Load(ctx, userID, date)
}

func (b *businessAPIImpl) AddActivity(ctx context.Context, userID, date string, input domain.ActivityInput) (*domain.Activity, error) {
	return b.services.Activities.Add(ctx, userID, date, input)
}

func (b *businessAPIImpl) EditActivity(ctx context.Context, id string, patch domain.ActivityPatch) (*domain.Activity, error) {
	return b.services.Activities.Edit(ctx, id, patch)
}

func (b *businessAPIImpl) DeleteActivity(ctx context.Context, id string) error {
	return b.services.Activities.Remove(ctx, id)
}

func (b *businessAPIImpl) DayStats(ctx context.Context, userID, date string) (*services.DayReport, error) {
	return b.services.Activities.Stats(ctx, userID, date)
}

func (b *businessAPIImpl) ActivityRange(ctx context.Context, userID, from, to string) (*services.RangeReport, error) {
	return b.services.Activities.Range(ctx, userID, from, to)
}

func (b *businessAPIImpl) ListTodos(ctx context.Context, userID string, filter domain.TodoFilter) ([]domain.Todo, error) {
	return b.services.Todos.List(ctx, userID, filter)
}

func (b *businessAPIImpl) AddTodo(ctx context.Context, userID, title string) (*domain.Todo, error) {
	return b.services.Todos.Add(ctx, userID, title)
}

func (b *businessAPIImpl) ToggleTodo(ctx context.Context, id string) (*domain.Todo, error) {
	return b.services.Todos.Toggle(ctx, id)
}

func (b *businessAPIImpl) RenameTodo(ctx context.Context, id, title string) (*domain.Todo, error) {
	return b.services.Todos.Rename(ctx, id, title)
}

func (b *businessAPIImpl) UpdateTodo(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	return b.services.Todos.Update(ctx, id, patch)
}

func (b *businessAPIImpl) DeleteTodo(ctx context.Context, id string) error {
	return b.services.Todos.Remove(ctx, id)
}

func (b *businessAPIImpl) TodoStats(ctx context.Context, userID string) (*aggregate.TodoStats, error) {
	return b.services.Todos.Stats(ctx, userID)
}

func (b *businessAPIImpl) ListTimers(query services.TimerQuery) []domain.Timer {
	return b.services.Timers.List(query)
}

func (b *businessAPIImpl) AddTimer(ctx context.Context, name string, seconds int, category domain.TimerCategory) (*domain.Timer, error) {
	return b.services.Timers.Add(ctx, name, seconds, category)
}

func (b *businessAPIImpl) AddTimerFromTemplate(ctx context.Context, template string) (*domain.Timer, error) {
	return b.services.Timers.AddFromTemplate(ctx, template)
}

func (b *businessAPIImpl) ToggleTimer(ctx context.Context, id string) (*domain.Timer, error) {
	return b.services.Timers.Toggle(ctx, id)
}

func (b *businessAPIImpl) ResetTimer(ctx context.Context, id string) (*domain.Timer, error) {
	return b.services.Timers.Reset(ctx, id)
}

func (b *businessAPIImpl) EditTimer(ctx context.Context, id, name string, seconds int, category domain.TimerCategory) (*domain.Timer, error) {
	return b.services.Timers.Edit(ctx, id, name, seconds, category)
}

func (b *businessAPIImpl) DeleteTimer(ctx context.Context, id string) error {
	return b.services.Timers.Remove(ctx, id)
}

func (b *businessAPIImpl) TickTimers(ctx context.Context) ([]domain.Timer, error) {
	return b.services.Timers.Tick(ctx)
}

func (b *businessAPIImpl) TimerStats() aggregate.TimerStatsSummary {
	return b.services.Timers.Stats()
}

func (b *businessAPIImpl) TimerTemplates() []domain.TimerTemplate {
	return domain.TimerTemplates()
}

func (b *businessAPIImpl) ListBooks() []domain.Book {
	return b.services.Books.List()
}

func (b *businessAPIImpl) AddBook(ctx context.Context, title, author string, price float64, image string) (*domain.Book, error) {
	return b.services.Books.Add(ctx, title, author, price, image)
}

func (b *businessAPIImpl) DeleteBook(ctx context.Context, id string) error {
	return b.services.Books.Remove(ctx, id)
}

func (b *businessAPIImpl) BookStats() aggregate.BookStats {
	return b.services.Books.Stats()
}

func (b *businessAPIImpl) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return b.services.Profiles.List(ctx)
}

func (b *businessAPIImpl) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	return b.services.Profiles.Get(ctx, id)
}

func (b *businessAPIImpl) CreateProfile(ctx context.Context, username string, role domain.Role) (*domain.Profile, error) {
	return b.services.Profiles.Create(ctx, username, role)
}

func (b *businessAPIImpl) ChangeRole(ctx context.Context, actorID, targetID string, role domain.Role) (*domain.Profile, error) {
	return b.services.Profiles.ChangeRole(ctx, actorID, targetID, role)
}

func (b *businessAPIImpl) Ping(ctx context.Context) error {
	return b.repo.Ping(ctx)
}

func (b *businessAPIImpl) Close() error {
	return b.repo.Close()
}
