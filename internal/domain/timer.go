package domain

import (
	"sort"
	"strings"
	"time"
)

// TimerCategory is the kind of a countdown timer.
type TimerCategory string

const (
	TimerWork       TimerCategory = "work"
	TimerStudy      TimerCategory = "study"
	TimerExercise   TimerCategory = "exercise"
	TimerMeditation TimerCategory = "meditation"
	TimerOther      TimerCategory = "other"
)

// TimerCategories returns all timer categories in display order.
func TimerCategories() []TimerCategory {
	return []TimerCategory{TimerWork, TimerStudy, TimerExercise, TimerMeditation, TimerOther}
}

// IsValid reports whether c is a known timer category.
func (c TimerCategory) IsValid() bool {
	for _, known := range TimerCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Timer is a countdown timer. Durations are in whole seconds.
type Timer struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Duration    int           `json:"duration"`
	Remaining   int           `json:"remaining"`
	IsRunning   bool          `json:"is_running"`
	Category    TimerCategory `json:"category"`
	CreatedAt   time.Time     `json:"created_at"`
	Completions int           `json:"completions"`
}

// NewTimer creates a paused timer with a full countdown.
func NewTimer(name string, seconds int, category TimerCategory, now time.Time) Timer {
	return Timer{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		Duration:  seconds,
		Remaining: seconds,
		Category:  category,
		CreatedAt: now,
	}
}

// RecordID implements collection.Record.
func (t Timer) RecordID() string { return t.ID }

// Toggle flips the running flag. A finished timer restarts from its full duration.
func (t Timer) Toggle() Timer {
	if !t.IsRunning && t.Remaining == 0 {
		t.Remaining = t.Duration
	}
	t.IsRunning = !t.IsRunning
	return t
}

// Reset restores the full countdown and pauses the timer.
func (t Timer) Reset() Timer {
	t.Remaining = t.Duration
	t.IsRunning = false
	return t
}

// Edit replaces the editable fields and restarts the countdown at the new duration.
func (t Timer) Edit(name string, seconds int, category TimerCategory) Timer {
	t.Name = strings.TrimSpace(name)
	t.Duration = seconds
	t.Remaining = seconds
	t.Category = category
	return t
}

// Tick advances a running timer by one second. It reports true when this tick
// finished the countdown, in which case completions is incremented and the
// timer stops.
func (t Timer) Tick() (Timer, bool) {
	if !t.IsRunning {
		return t, false
	}
	if t.Remaining > 0 {
		t.Remaining--
	}
	if t.Remaining == 0 {
		t.IsRunning = false
		t.Completions++
		return t, true
	}
	return t, false
}

// TimerTemplate is a preset used to create timers quickly.
type TimerTemplate struct {
	Name     string        `json:"name"`
	Minutes  int           `json:"duration"`
	Category TimerCategory `json:"category"`
}

// TimerTemplates returns the built-in presets.
func TimerTemplates() []TimerTemplate {
	return []TimerTemplate{
		{Name: "Pomodoro", Minutes: 25, Category: TimerWork},
		{Name: "Short break", Minutes: 5, Category: TimerWork},
		{Name: "Long break", Minutes: 15, Category: TimerWork},
		{Name: "Deep study", Minutes: 45, Category: TimerStudy},
		{Name: "Meditation", Minutes: 10, Category: TimerMeditation},
		{Name: "Exercise", Minutes: 30, Category: TimerExercise},
	}
}

// FindTimerTemplate looks a preset up by name, case-insensitively.
func FindTimerTemplate(name string) (TimerTemplate, bool) {
	for _, tpl := range TimerTemplates() {
		if strings.EqualFold(tpl.Name, strings.TrimSpace(name)) {
			return tpl, true
		}
	}
	return TimerTemplate{}, false
}

// TimerStat counts finished countdowns for one day and category.
type TimerStat struct {
	Date        string        `json:"date"`
	Category    TimerCategory `json:"category"`
	Completions int           `json:"completions"`
}

// RecordStat increments the stat row for date and category, appending one if missing.
func RecordStat(stats []TimerStat, date string, category TimerCategory) []TimerStat {
	out := make([]TimerStat, len(stats), len(stats)+1)
	copy(out, stats)
	for i := range out {
		if out[i].Date == date && out[i].Category == category {
			out[i].Completions++
			return out
		}
	}
	return append(out, TimerStat{Date: date, Category: category, Completions: 1})
}

// TimerSort orders a timer listing.
type TimerSort string

const (
	SortTimersByName      TimerSort = "name"
	SortTimersByDuration  TimerSort = "duration"
	SortTimersByRemaining TimerSort = "remaining"
)

// SortTimers sorts in place: name ascending, duration descending, or remaining ascending.
func SortTimers(timers []Timer, by TimerSort) {
	switch by {
	case SortTimersByDuration:
		sort.SliceStable(timers, func(i, j int) bool { return timers[i].Duration > timers[j].Duration })
	case SortTimersByRemaining:
		sort.SliceStable(timers, func(i, j int) bool { return timers[i].Remaining < timers[j].Remaining })
	default:
		sort.SliceStable(timers, func(i, j int) bool {
			return strings.ToLower(timers[i].Name) < strings.ToLower(timers[j].Name)
		})
	}
}
