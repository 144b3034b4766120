// Package migrations evolves the SQLite schema. Steps are embedded SQL files
// named NNNNNN_name.up.sql / .down.sql or Go functions registered from init.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"daylog/internal/logging"
)

//go:embed *.sql
var sqlFiles embed.FS

// GoMigrationFunc runs a step that cannot be expressed in SQL.
type GoMigrationFunc func(ctx context.Context, tx *sql.Tx) error

// Migration is one schema step. Either the SQL text or the funcs are set.
type Migration struct {
	Version  int
	Up       string
	Down     string
	UpFunc   GoMigrationFunc
	DownFunc GoMigrationFunc
}

func (m Migration) up(ctx context.Context, tx *sql.Tx) error {
	if m.UpFunc != nil {
		return m.UpFunc(ctx, tx)
	}
	_, err := tx.ExecContext(ctx, m.Up)
	return err
}

var registry = struct {
	sync.Mutex
	steps map[int]Migration
}{steps: map[int]Migration{}}

// RegisterGoMigration adds a Go step. Registering a version twice panics.
func RegisterGoMigration(version int, up, down GoMigrationFunc) {
	registry.Lock()
	defer registry.Unlock()
	if _, taken := registry.steps[version]; taken {
		panic(fmt.Sprintf("migration %d registered twice", version))
	}
	registry.steps[version] = Migration{Version: version, UpFunc: up, DownFunc: down}
}

const bookkeeping = `
CREATE TABLE IF NOT EXISTS migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	dirty BOOLEAN DEFAULT FALSE
)`

// RunMigrations applies every pending step in version order. A database left
// dirty by an earlier failure is refused until repaired by hand.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, bookkeeping); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, dirty, err := readState(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to check migration state: %w", err)
	}
	if len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state; failed migration(s): %v", dirty)
	}

	steps, err := collect()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	log := logging.L()
	for _, m := range steps {
		if applied[m.Version] {
			continue
		}
		log.Debug("applying migration", zap.Int("version", m.Version))
		if err := apply(ctx, db, m); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// Version returns the highest cleanly applied step, 0 for a fresh database.
func Version(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM migrations WHERE dirty = FALSE").Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

// readState returns the clean versions as a set and the dirty ones in order.
func readState(ctx context.Context, db *sql.DB) (map[int]bool, []int, error) {
	rows, err := db.QueryContext(ctx, "SELECT version, dirty FROM migrations ORDER BY version")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	applied := map[int]bool{}
	var dirty []int
	for rows.Next() {
		var (
			version int
			isDirty bool
		)
		if err := rows.Scan(&version, &isDirty); err != nil {
			return nil, nil, err
		}
		if isDirty {
			dirty = append(dirty, version)
		}
		applied[version] = true
	}
	return applied, dirty, rows.Err()
}

// collect merges the embedded SQL steps with the registered Go steps.
func collect() ([]Migration, error) {
	byVersion := map[int]Migration{}

	ups, err := fs.Glob(sqlFiles, "*.up.sql")
	if err != nil {
		return nil, err
	}
	for _, name := range ups {
		version := extractVersion(name)
		if version == 0 {
			continue
		}
		up, err := sqlFiles.ReadFile(name)
		if err != nil {
			return nil, err
		}
		down, err := sqlFiles.ReadFile(strings.TrimSuffix(name, ".up.sql") + ".down.sql")
		if err != nil {
			return nil, err
		}
		byVersion[version] = Migration{Version: version, Up: string(up), Down: string(down)}
	}

	registry.Lock()
	defer registry.Unlock()
	for v, m := range registry.steps {
		if _, clash := byVersion[v]; clash {
			return nil, fmt.Errorf("migration %d defined in both SQL and Go", v)
		}
		byVersion[v] = m
	}

	steps := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		steps = append(steps, m)
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	return steps, nil
}

// apply runs m and its bookkeeping row in one transaction. On failure the
// version is recorded as dirty.
func apply(ctx context.Context, db *sql.DB, m Migration) (err error) {
	defer func() {
		if err == nil {
			return
		}
		if _, markErr := db.ExecContext(ctx, "INSERT OR REPLACE INTO migrations (version, dirty) VALUES (?, TRUE)", m.Version); markErr != nil {
			logging.L().Error("failed to mark migration dirty", zap.Int("version", m.Version), zap.Error(markErr))
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err = m.up(ctx, tx); err == nil {
		_, err = tx.ExecContext(ctx, "INSERT INTO migrations (version, dirty) VALUES (?, FALSE)", m.Version)
	}
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// extractVersion reads the numeric prefix of a migration file name.
func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
