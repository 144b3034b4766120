package sqlite

import (
	"time"

	"daylog/internal/repository/sqlite/migrations"
)

// FormatTimeForDB formats t in fixed-width UTC so text comparison orders chronologically
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(migrations.TimestampLayout)
}

// ParseTimeFromDB parses a stored timestamp. Any RFC3339 value is accepted.
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
