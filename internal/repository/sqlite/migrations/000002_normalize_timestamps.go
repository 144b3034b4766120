package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"daylog/internal/logging"
)

// TimestampLayout is the fixed-width UTC layout timestamps are stored in, so
// lexical order matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

func init() {
	RegisterGoMigration(2, upNormalizeTimestamps, downNormalizeTimestamps)
}

var timestampColumns = []struct {
	table   string
	columns []string
}{
	{"activities", []string{"created_at", "updated_at"}},
	{"todos", []string{"created_at"}},
	{"profiles", []string{"created_at"}},
}

// upNormalizeTimestamps rewrites every stored timestamp into TimestampLayout.
// Rows written by older builds may hold RFC3339 with an offset or Go's
// default time.String form.
func upNormalizeTimestamps(ctx context.Context, tx *sql.Tx) error {
	for _, tc := range timestampColumns {
		for _, col := range tc.columns {
			if err := normalizeColumn(ctx, tx, tc.table, col); err != nil {
				return err
			}
		}
	}
	return nil
}

func normalizeColumn(ctx context.Context, tx *sql.Tx, table, column string) error {
	type row struct {
		id    string
		value string
	}

	rows, err := tx.QueryContext(ctx, fmt.Sprintf("SELECT id, %s FROM %s", column, table))
	if err != nil {
		return fmt.Errorf("failed to query %s.%s: %w", table, column, err)
	}
	var pending []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.value); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating %s: %w", table, err)
	}
	rows.Close()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", table, column))
	if err != nil {
		return fmt.Errorf("failed to prepare %s.%s update: %w", table, column, err)
	}
	defer stmt.Close()

	updated, skipped := 0, 0
	for _, r := range pending {
		normalized, err := normalizeTimestamp(r.value)
		if err != nil {
			logging.L().Warn("could not parse timestamp",
				zap.String("table", table), zap.String("column", column), zap.String("id", r.id), zap.Error(err))
			skipped++
			continue
		}
		if normalized == r.value {
			continue
		}
		if _, err := stmt.ExecContext(ctx, normalized, r.id); err != nil {
			return fmt.Errorf("failed to update %s.%s for id %s: %w", table, column, r.id, err)
		}
		updated++
	}

	logging.L().Debug("normalized timestamps",
		zap.String("table", table), zap.String("column", column),
		zap.Int("rows", len(pending)), zap.Int("updated", updated), zap.Int("skipped", skipped))
	return nil
}

// downNormalizeTimestamps is a no-op: the normalized form is valid RFC3339.
func downNormalizeTimestamps(context.Context, *sql.Tx) error {
	return nil
}

// normalizeTimestamp parses the formats older builds wrote and returns the
// value in TimestampLayout.
func normalizeTimestamp(s string) (string, error) {
	s = stripMonotonicSuffix(strings.TrimSpace(s))

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999 -0700",
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(TimestampLayout), nil
		}
	}
	return "", fmt.Errorf("could not parse time format: %s", s)
}

// stripMonotonicSuffix removes the monotonic clock reading from time.String output.
func stripMonotonicSuffix(s string) string {
	if idx := strings.Index(s, " m="); idx != -1 {
		return s[:idx]
	}
	return s
}
