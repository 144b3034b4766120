package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"daylog/internal/domain"
)

func activity(title string, cat domain.Category, minutes int) domain.Activity {
	return domain.Activity{ID: title, Title: title, Category: cat, Duration: minutes, Date: "2024-03-01"}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name        string
		part, whole float64
		want        float64
	}{
		{"zero whole", 10, 0, 0},
		{"zero both", 0, 0, 0},
		{"quarter", 30, 120, 25},
		{"third rounds", 1, 3, 33.3},
		{"two thirds rounds", 2, 3, 66.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.part, tt.whole)
			assert.False(t, math.IsNaN(got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotalMinutes(t *testing.T) {
	assert.Equal(t, 0, TotalMinutes(nil))
	assert.Equal(t, 120, TotalMinutes([]domain.Activity{
		activity("A", domain.CategoryWork, 30),
		activity("B", domain.CategoryStudy, 90),
	}))
}

func TestCategoryBreakdown(t *testing.T) {
	activities := []domain.Activity{
		activity("B", domain.CategoryStudy, 90),
		activity("A", domain.CategoryWork, 30),
	}

	want := []CategoryShare{
		{Category: domain.CategoryWork, Minutes: 30, Hours: 0.5, Percentage: 25},
		{Category: domain.CategoryStudy, Minutes: 90, Hours: 1.5, Percentage: 75},
	}
	got := CategoryBreakdown(activities)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CategoryBreakdown() mismatch (-want +got):\n%s", diff)
	}

	sum := 0.0
	for _, s := range got {
		sum += s.Percentage
	}
	assert.InDelta(t, 100, sum, 0.1)
}

func TestCategoryBreakdown_SumsToHundred(t *testing.T) {
	activities := []domain.Activity{
		activity("a", domain.CategoryWork, 1),
		activity("b", domain.CategoryStudy, 1),
		activity("c", domain.CategorySleep, 1),
	}
	sum := 0.0
	for _, s := range CategoryBreakdown(activities) {
		sum += s.Percentage
	}
	assert.InDelta(t, 100, sum, 0.2)
}

func TestDay(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got := Day("2024-03-01", nil)
		want := DayStats{
			Date:              "2024-03-01",
			CategoryBreakdown: []CategoryShare{},
			RemainingMinutes:  domain.MinutesPerDay,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Day() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("partial day", func(t *testing.T) {
		got := Day("2024-03-01", []domain.Activity{
			activity("Sleep", domain.CategorySleep, 480),
			activity("Work", domain.CategoryWork, 240),
			activity("More work", domain.CategoryWork, 120),
		})
		assert.Equal(t, 840, got.TotalMinutes)
		assert.Equal(t, 14.0, got.TotalHours)
		assert.Equal(t, 3, got.TotalActivities)
		assert.Equal(t, 2, got.CategoryCount)
		assert.Equal(t, 58.3, got.CoveragePercent)
		assert.Equal(t, 600, got.RemainingMinutes)
		assert.True(t, got.CanAnalyze)
	})

	t.Run("over budget cannot be analyzed", func(t *testing.T) {
		got := Day("2024-03-01", []domain.Activity{activity("x", domain.CategoryWork, 1500)})
		assert.Equal(t, 0, got.RemainingMinutes)
		assert.False(t, got.CanAnalyze)
	})
}

func TestDailyTotals(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	activities := []domain.Activity{
		{Date: "2024-03-01", Duration: 30},
		{Date: "2024-03-03", Duration: 45},
		{Date: "2024-03-03", Duration: 15},
		{Date: "2024-04-01", Duration: 999},
	}

	want := []DayTotal{
		{Date: "2024-03-01", Minutes: 30, Activities: 1},
		{Date: "2024-03-02"},
		{Date: "2024-03-03", Minutes: 60, Activities: 2},
	}
	if diff := cmp.Diff(want, DailyTotals(activities, from, to)); diff != "" {
		t.Errorf("DailyTotals() mismatch (-want +got):\n%s", diff)
	}
}

func TestTitleBars(t *testing.T) {
	bars := TitleBars([]domain.Activity{
		activity("Short", domain.CategoryWork, 90),
		activity("A very long activity title", domain.CategoryStudy, 30),
	})

	assert.Equal(t, "Short", bars[0].Label)
	assert.Equal(t, 1.5, bars[0].Hours)
	assert.Equal(t, "A very long activity...", bars[1].Label)
	assert.Equal(t, domain.CategoryStudy, bars[1].Category)
}

func TestTodos(t *testing.T) {
	assert.Equal(t, TodoStats{}, Todos(nil))

	got := Todos([]domain.Todo{{Completed: true}, {}, {}, {Completed: true}, {}})
	assert.Equal(t, TodoStats{Total: 5, Completed: 2, Pending: 3, CompletionRate: 40}, got)
}

func TestTimers(t *testing.T) {
	stats := []domain.TimerStat{
		{Date: "2024-05-01", Category: domain.TimerWork, Completions: 3},
		{Date: "2024-05-02", Category: domain.TimerWork, Completions: 1},
		{Date: "2024-05-02", Category: domain.TimerMeditation, Completions: 4},
	}

	want := TimerStatsSummary{
		TotalCompletions: 8,
		TodayCompletions: 5,
		ByCategory: []TimerCategoryCount{
			{Category: domain.TimerWork, Completions: 4, Percentage: 50},
			{Category: domain.TimerMeditation, Completions: 4, Percentage: 50},
		},
	}
	if diff := cmp.Diff(want, Timers(stats, "2024-05-02")); diff != "" {
		t.Errorf("Timers() mismatch (-want +got):\n%s", diff)
	}

	empty := Timers(nil, "2024-05-02")
	assert.Equal(t, 0, empty.TotalCompletions)
	assert.Empty(t, empty.ByCategory)
}

func TestBooks(t *testing.T) {
	assert.Equal(t, BookStats{}, Books(nil))

	got := Books([]domain.Book{{Price: 10.5}, {Price: 4.5}, {Price: 3}})
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, 18.0, got.TotalPrice)
	assert.Equal(t, 6.0, got.AveragePrice)
}
