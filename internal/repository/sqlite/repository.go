package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"daylog/internal/config"
	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/repository"
	"daylog/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var _ repository.Repository = (*SQLiteRepository)(nil)

// SQLiteRepository implements repository.Repository on a local SQLite file
type SQLiteRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	writeTimeout time.Duration
}

// New creates a new SQLite repository instance with default timeouts
func New(dbPath string) (*SQLiteRepository, error) {
	return open(dbPath, 10*time.Second, 5*time.Second)
}

// NewWithConfig opens the database named by cfg, creating its directory if needed
func NewWithConfig(dbPath string, cfg *config.Config) (*SQLiteRepository, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), os.FileMode(cfg.Database.DirPermissions)); err != nil {
			return nil, errors.NewDatabaseError("create database directory", err)
		}
	}
	return open(dbPath, cfg.GetQueryTimeout(), cfg.GetWriteTimeout())
}

func open(dbPath string, queryTimeout, writeTimeout time.Duration) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	if dbPath == MemoryPath {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, queryTimeout: queryTimeout, writeTimeout: writeTimeout}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return classify("ping", err)
	}
	return nil
}

func (r *SQLiteRepository) readCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.queryTimeout)
}

func (r *SQLiteRepository) writeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.writeTimeout)
}

// CreateActivity inserts a new activity
func (r *SQLiteRepository) CreateActivity(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	INSERT INTO activities (` + activityColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	return exec(ctx, r.db, "create activity", query,
		a.ID, a.UserID, a.Date, a.Title, string(a.Category), a.Duration,
		FormatTimeForDB(a.CreatedAt), FormatTimeForDB(a.UpdatedAt))
}

// GetActivity retrieves an activity by ID
func (r *SQLiteRepository) GetActivity(ctx context.Context, id string) (*domain.Activity, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	return getOne(ctx, r.db, ScanActivity, "activity", id, query, id)
}

// UpdateActivity replaces the mutable fields of an activity
func (r *SQLiteRepository) UpdateActivity(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `
	UPDATE activities
	SET title = ?, category = ?, duration = ?, updated_at = ?
	WHERE id = ?`

	return execOne(ctx, r.db, "activity", a.ID, query,
		a.Title, string(a.Category), a.Duration, FormatTimeForDB(a.UpdatedAt), a.ID)
}

// DeleteActivity deletes an activity by ID
func (r *SQLiteRepository) DeleteActivity(ctx context.Context, id string) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return execOne(ctx, r.db, "activity", id, `DELETE FROM activities WHERE id = ?`, id)
}

// ListActivities returns one user's activities for a date in creation order
func (r *SQLiteRepository) ListActivities(ctx context.Context, userID, date string) ([]*domain.Activity, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT ` + activityColumns + `
	FROM activities
	WHERE user_id = ? AND date = ?
	ORDER BY created_at ASC, rowid ASC`

	return getAll(ctx, r.db, ScanActivities, "activities", query, userID, date)
}

// ListActivitiesInRange returns a user's activities between two dates inclusive
func (r *SQLiteRepository) ListActivitiesInRange(ctx context.Context, userID, from, to string) ([]*domain.Activity, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `
	SELECT ` + activityColumns + `
	FROM activities
	WHERE user_id = ? AND date >= ? AND date <= ?
	ORDER BY date ASC, created_at ASC, rowid ASC`

	return getAll(ctx, r.db, ScanActivities, "activities", query, userID, from, to)
}

// CreateTodo inserts a new todo
func (r *SQLiteRepository) CreateTodo(ctx context.Context, t *domain.Todo) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `INSERT INTO todos (` + todoColumns + `) VALUES (?, ?, ?, ?, ?)`
	return exec(ctx, r.db, "create todo", query, t.ID, t.UserID, t.Title, t.Completed, FormatTimeForDB(t.CreatedAt))
}

// GetTodo retrieves a todo by ID
func (r *SQLiteRepository) GetTodo(ctx context.Context, id string) (*domain.Todo, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	return getOne(ctx, r.db, ScanTodo, "todo", id, query, id)
}

// UpdateTodo updates a todo's title and completion flag
func (r *SQLiteRepository) UpdateTodo(ctx context.Context, t *domain.Todo) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `UPDATE todos SET title = ?, completed = ? WHERE id = ?`
	return execOne(ctx, r.db, "todo", t.ID, query, t.Title, t.Completed, t.ID)
}

// DeleteTodo deletes a todo by ID
func (r *SQLiteRepository) DeleteTodo(ctx context.Context, id string) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return execOne(ctx, r.db, "todo", id, `DELETE FROM todos WHERE id = ?`, id)
}

// ListTodos returns a user's todos, oldest first
func (r *SQLiteRepository) ListTodos(ctx context.Context, userID string) ([]*domain.Todo, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = ? ORDER BY created_at ASC, rowid ASC`
	return getAll(ctx, r.db, ScanTodos, "todos", query, userID)
}

// CreateProfile inserts a profile
func (r *SQLiteRepository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?)`
	return exec(ctx, r.db, "create profile", query, p.ID, p.Username, string(p.Role), FormatTimeForDB(p.CreatedAt))
}

// GetProfile retrieves a profile by ID
func (r *SQLiteRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`
	return getOne(ctx, r.db, ScanProfile, "profile", id, query, id)
}

// ListProfiles returns all profiles, oldest first
func (r *SQLiteRepository) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := r.readCtx(ctx)
	defer cancel()

	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC, rowid ASC`
	return getAll(ctx, r.db, ScanProfiles, "profiles", query)
}

// UpdateProfileRole sets a profile's role
func (r *SQLiteRepository) UpdateProfileRole(ctx context.Context, id string, role domain.Role) error {
	ctx, cancel := r.writeCtx(ctx)
	defer cancel()

	return execOne(ctx, r.db, "profile", id, `UPDATE profiles SET role = ? WHERE id = ?`, string(role), id)
}
