package domain

import (
	"strings"
	"time"
)

// Todo is a single checklist item.
type Todo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// TodoPatch changes a todo in one write. A nil Title keeps the current one.
type TodoPatch struct {
	Title  *string `json:"title,omitempty"`
	Toggle bool    `json:"toggle"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool { return p.Title == nil && !p.Toggle }

// TodoFilter selects todos by completion state.
type TodoFilter string

const (
	TodoFilterAll       TodoFilter = "all"
	TodoFilterActive    TodoFilter = "active"
	TodoFilterCompleted TodoFilter = "completed"
)

// NewTodo creates an open todo.
func NewTodo(userID, title string, now time.Time) Todo {
	return Todo{
		ID:        NewID(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		CreatedAt: now,
	}
}

// RecordID implements collection.Record.
func (t Todo) RecordID() string { return t.ID }

// Matches reports whether the todo passes the filter. Unknown filters match everything.
func (f TodoFilter) Matches(t Todo) bool {
	switch f {
	case TodoFilterActive:
		return !t.Completed
	case TodoFilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// ParseTodoFilter returns the filter named by s, defaulting to all.
func ParseTodoFilter(s string) (TodoFilter, bool) {
	switch TodoFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", TodoFilterAll:
		return TodoFilterAll, true
	case TodoFilterActive:
		return TodoFilterActive, true
	case TodoFilterCompleted:
		return TodoFilterCompleted, true
	}
	return TodoFilterAll, false
}
