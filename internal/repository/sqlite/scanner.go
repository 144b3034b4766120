package sqlite

import (
	"daylog/internal/domain"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

const (
	activityColumns = "id, user_id, date, title, category, duration, created_at, updated_at"
	todoColumns     = "id, user_id, title, completed, created_at"
	profileColumns  = "id, username, role, created_at"
)

// ScanActivity scans a single activity from a database row
func ScanActivity(scanner Scanner) (*domain.Activity, error) {
	a := &domain.Activity{}
	var category, createdAt, updatedAt string

	err := scanner.Scan(&a.ID, &a.UserID, &a.Date, &a.Title, &category, &a.Duration, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.Category = domain.Category(category)

	if a.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// ScanActivities scans multiple activities from database rows
func ScanActivities(rows Rows) ([]*domain.Activity, error) {
	return scanAll(rows, ScanActivity)
}

// ScanTodo scans a single todo from a database row
func ScanTodo(scanner Scanner) (*domain.Todo, error) {
	t := &domain.Todo{}
	var createdAt string

	if err := scanner.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	return t, nil
}

// ScanTodos scans multiple todos from database rows
func ScanTodos(rows Rows) ([]*domain.Todo, error) {
	return scanAll(rows, ScanTodo)
}

// ScanProfile scans a single profile from a database row
func ScanProfile(scanner Scanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	var role, createdAt string

	if err := scanner.Scan(&p.ID, &p.Username, &role, &createdAt); err != nil {
		return nil, err
	}
	p.Role = domain.Role(role)

	var err error
	if p.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	return p, nil
}

// ScanProfiles scans multiple profiles from database rows
func ScanProfiles(rows Rows) ([]*domain.Profile, error) {
	return scanAll(rows, ScanProfile)
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	items := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
