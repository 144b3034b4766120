package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used to scope activities.
const DateLayout = "2006-01-02"

// MinutesPerDay is the budget an activity log may fill for a single date.
const MinutesPerDay = 1440

// Category is the kind of an activity.
type Category string

const (
	CategoryWork          Category = "Work"
	CategoryStudy         Category = "Study"
	CategorySleep         Category = "Sleep"
	CategoryEntertainment Category = "Entertainment"
	CategoryExercise      Category = "Exercise"
)

// Categories returns all activity categories in display order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryStudy, CategorySleep, CategoryEntertainment, CategoryExercise}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	for _, known := range Categories() {
		if strings.EqualFold(string(known), strings.TrimSpace(s)) {
			return known, true
		}
	}
	return "", false
}

// Activity is one logged block of time for a user on a date.
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Duration  int       `json:"duration"` // minutes
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityInput holds the user-editable fields of an activity.
type ActivityInput struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Duration int      `json:"duration"`
}

// ActivityPatch is a partial update; nil fields are left unchanged.
type ActivityPatch struct {
	Title    *string   `json:"title,omitempty"`
	Category *Category `json:"category,omitempty"`
	Duration *int      `json:"duration,omitempty"`
}

// NewID returns a fresh random record identifier.
func NewID() string {
	return uuid.NewString()
}

// NewActivity creates an activity for the given owner and date.
func NewActivity(userID, date string, input ActivityInput, now time.Time) Activity {
	return Activity{
		ID:        NewID(),
		UserID:    userID,
		Date:      date,
		Title:     strings.TrimSpace(input.Title),
		Category:  input.Category,
		Duration:  input.Duration,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecordID implements collection.Record.
func (a Activity) RecordID() string { return a.ID }

// Apply returns a copy of the activity with the patch applied.
func (a Activity) Apply(p ActivityPatch, now time.Time) Activity {
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	a.UpdatedAt = now
	return a
}

// IsEmpty reports whether the patch changes nothing.
func (p ActivityPatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Duration == nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats t as a YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
