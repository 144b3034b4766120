// Package postgres implements the hosted table store on PostgreSQL.
package postgres

import (
	"context"
	_ "embed"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"daylog/internal/config"
	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/logging"
	"daylog/internal/repository"
)

//go:embed schema.sql
var schema string

var _ repository.Repository = (*PostgresRepository)(nil)

// PostgresRepository implements repository.Repository against a remote
// PostgreSQL database.
type PostgresRepository struct {
	db           *sqlx.DB
	queryTimeout time.Duration
	writeTimeout time.Duration
}

// Open connects to the database named by cfg.Database.PostgresDSN and makes
// sure the schema exists.
func Open(ctx context.Context, cfg *config.Config) (*PostgresRepository, error) {
	if cfg.Database.PostgresDSN == "" {
		return nil, errors.NewInvalidInputError("database.postgres_dsn", "", "required for the postgres backend")
	}
	db, err := sqlx.Open("pgx", cfg.Database.PostgresDSN)
	if err != nil {
		return nil, errors.NewRemoteUnavailableError("open database", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	r := NewWithDB(db, cfg.GetQueryTimeout(), cfg.GetWriteTimeout())
	if err := r.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logging.L().Debug("connected to postgres", zap.Duration("query_timeout", r.queryTimeout))
	return r, nil
}

// NewWithDB wraps an existing connection pool.
func NewWithDB(db *sqlx.DB, queryTimeout, writeTimeout time.Duration) *PostgresRepository {
	return &PostgresRepository{db: db, queryTimeout: queryTimeout, writeTimeout: writeTimeout}
}

// EnsureSchema creates the tables if they are missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return handleError("create schema", "schema", "", err)
	}
	return nil
}

// Close closes the connection pool.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks that the server is reachable.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return handleError("ping", "database", "", err)
	}
	return nil
}

func (r *PostgresRepository) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

func (r *PostgresRepository) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.writeTimeout)
}

const (
	activityColumns = `id, user_id, to_char(date, 'YYYY-MM-DD') AS date, title, category, duration, created_at, updated_at`
	todoColumns     = `id, user_id, title, completed, created_at`
	profileColumns  = `id, username, role, created_at`
)

type activityRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Date      string    `db:"date"`
	Title     string    `db:"title"`
	Category  string    `db:"category"`
	Duration  int       `db:"duration"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row activityRow) toDomain() *domain.Activity {
	return &domain.Activity{
		ID:        row.ID,
		UserID:    row.UserID,
		Date:      row.Date,
		Title:     row.Title,
		Category:  domain.Category(row.Category),
		Duration:  row.Duration,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

type todoRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Completed bool      `db:"completed"`
	CreatedAt time.Time `db:"created_at"`
}

func (row todoRow) toDomain() *domain.Todo {
	return &domain.Todo{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

type profileRow struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

func (row profileRow) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:        row.ID,
		Username:  row.Username,
		Role:      domain.Role(row.Role),
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func mapRows[R interface{ toDomain() *T }, T any](rows []R) []*T {
	out := make([]*T, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out
}

// CreateActivity inserts a new activity.
func (r *PostgresRepository) CreateActivity(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO activities (id, user_id, date, title, category, duration, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Date, a.Title, string(a.Category), a.Duration, a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	return handleError("create activity", "activity", a.ID, err)
}

// GetActivity retrieves an activity by ID.
func (r *PostgresRepository) GetActivity(ctx context.Context, id string) (*domain.Activity, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	var row activityRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id); err != nil {
		return nil, handleError("get activity", "activity", id, err)
	}
	return row.toDomain(), nil
}

// UpdateActivity replaces the mutable fields of an activity.
func (r *PostgresRepository) UpdateActivity(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	UPDATE activities
	SET title = $1, category = $2, duration = $3, updated_at = $4
	WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, a.Title, string(a.Category), a.Duration, a.UpdatedAt.UTC(), a.ID)
	if err != nil {
		return handleError("update activity", "activity", a.ID, err)
	}
	return checkRowsAffected(result, "update activity", "activity", a.ID)
}

// DeleteActivity deletes an activity by ID.
func (r *PostgresRepository) DeleteActivity(ctx context.Context, id string) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return handleError("delete activity", "activity", id, err)
	}
	return checkRowsAffected(result, "delete activity", "activity", id)
}

// ListActivities returns one user's activities for a date in creation order.
func (r *PostgresRepository) ListActivities(ctx context.Context, userID, date string) ([]*domain.Activity, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT ` + activityColumns + `
	FROM activities
	WHERE user_id = $1 AND date = $2
	ORDER BY created_at ASC, id ASC`

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, date); err != nil {
		return nil, handleError("list activities", "activities", userID, err)
	}
	return mapRows[activityRow, domain.Activity](rows), nil
}

// ListActivitiesInRange returns a user's activities between two dates inclusive.
func (r *PostgresRepository) ListActivitiesInRange(ctx context.Context, userID, from, to string) ([]*domain.Activity, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT ` + activityColumns + `
	FROM activities
	WHERE user_id = $1 AND date >= $2 AND date <= $3
	ORDER BY activities.date ASC, created_at ASC, id ASC`

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, from, to); err != nil {
		return nil, handleError("list activities", "activities", userID, err)
	}
	return mapRows[activityRow, domain.Activity](rows), nil
}

// CreateTodo inserts a new todo.
func (r *PostgresRepository) CreateTodo(ctx context.Context, t *domain.Todo) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `INSERT INTO todos (id, user_id, title, completed, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Title, t.Completed, t.CreatedAt.UTC())
	return handleError("create todo", "todo", t.ID, err)
}

// GetTodo retrieves a todo by ID.
func (r *PostgresRepository) GetTodo(ctx context.Context, id string) (*domain.Todo, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	var row todoRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id); err != nil {
		return nil, handleError("get todo", "todo", id, err)
	}
	return row.toDomain(), nil
}

// UpdateTodo updates a todo's title and completion flag.
func (r *PostgresRepository) UpdateTodo(ctx context.Context, t *domain.Todo) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `UPDATE todos SET title = $1, completed = $2 WHERE id = $3`, t.Title, t.Completed, t.ID)
	if err != nil {
		return handleError("update todo", "todo", t.ID, err)
	}
	return checkRowsAffected(result, "update todo", "todo", t.ID)
}

// DeleteTodo deletes a todo by ID.
func (r *PostgresRepository) DeleteTodo(ctx context.Context, id string) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return handleError("delete todo", "todo", id, err)
	}
	return checkRowsAffected(result, "delete todo", "todo", id)
}

// ListTodos returns a user's todos, oldest first.
func (r *PostgresRepository) ListTodos(ctx context.Context, userID string) ([]*domain.Todo, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	var rows []todoRow
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, handleError("list todos", "todos", userID, err)
	}
	return mapRows[todoRow, domain.Todo](rows), nil
}

// CreateProfile inserts a profile.
func (r *PostgresRepository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `INSERT INTO profiles (id, username, role, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Username, string(p.Role), p.CreatedAt.UTC())
	return handleError("create profile", "profile", p.ID, err)
}

// GetProfile retrieves a profile by ID.
func (r *PostgresRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	var row profileRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id); err != nil {
		return nil, handleError("get profile", "profile", id, err)
	}
	return row.toDomain(), nil
}

// ListProfiles returns all profiles, oldest first.
func (r *PostgresRepository) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	var rows []profileRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, handleError("list profiles", "profiles", "", err)
	}
	return mapRows[profileRow, domain.Profile](rows), nil
}

// UpdateProfileRole sets a profile's role.
func (r *PostgresRepository) UpdateProfileRole(ctx context.Context, id string, role domain.Role) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET role = $1 WHERE id = $2`, string(role), id)
	if err != nil {
		return handleError("update profile", "profile", id, err)
	}
	return checkRowsAffected(result, "update profile", "profile", id)
}
