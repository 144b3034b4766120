// Package aggregate derives read-only views from record collections. Nothing
// here is stored; every value is recomputed from the records passed in.
package aggregate

import (
	"math"
	"time"

	"daylog/internal/domain"
)

// TitleBarLimit is the number of title characters kept before truncation.
const TitleBarLimit = 20

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Percentage returns part as a percentage of whole, rounded to one decimal.
// A zero whole yields 0.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round1(part / whole * 100)
}

// TotalMinutes sums activity durations.
func TotalMinutes(activities []domain.Activity) int {
	total := 0
	for _, a := range activities {
		total += a.Duration
	}
	return total
}

// CategoryShare is the time spent in one category.
type CategoryShare struct {
	Category   domain.Category `json:"category"`
	Minutes    int             `json:"minutes"`
	Hours      float64         `json:"hours"`
	Percentage float64         `json:"percentage"`
}

// CategoryBreakdown groups minutes by category. Only categories with at least
// one activity are returned, in domain.Categories order.
func CategoryBreakdown(activities []domain.Activity) []CategoryShare {
	minutes := make(map[domain.Category]int)
	for _, a := range activities {
		minutes[a.Category] += a.Duration
	}
	total := float64(TotalMinutes(activities))

	shares := make([]CategoryShare, 0, len(minutes))
	for _, c := range domain.Categories() {
		m, ok := minutes[c]
		if !ok {
			continue
		}
		shares = append(shares, CategoryShare{
			Category:   c,
			Minutes:    m,
			Hours:      Hours(m),
			Percentage: Percentage(float64(m), total),
		})
	}
	return shares
}

// Hours converts minutes to hours rounded to one decimal.
func Hours(minutes int) float64 {
	return Round1(float64(minutes) / 60)
}

// DayStats summarises a single day of activities.
type DayStats struct {
	Date              string          `json:"date"`
	TotalMinutes      int             `json:"total_minutes"`
	TotalHours        float64         `json:"total_hours"`
	TotalActivities   int             `json:"total_activities"`
	CategoryBreakdown []CategoryShare `json:"category_breakdown"`
	CategoryCount     int             `json:"category_count"`
	CoveragePercent   float64         `json:"coverage_percent"`
	RemainingMinutes  int             `json:"remaining_minutes"`
	CanAnalyze        bool            `json:"can_analyze"`
}

// Day computes DayStats for the activities of one date.
func Day(date string, activities []domain.Activity) DayStats {
	total := TotalMinutes(activities)
	breakdown := CategoryBreakdown(activities)
	remaining := domain.MinutesPerDay - total
	if remaining < 0 {
		remaining = 0
	}
	return DayStats{
		Date:              date,
		TotalMinutes:      total,
		TotalHours:        Hours(total),
		TotalActivities:   len(activities),
		CategoryBreakdown: breakdown,
		CategoryCount:     len(breakdown),
		CoveragePercent:   Percentage(float64(total), domain.MinutesPerDay),
		RemainingMinutes:  remaining,
		CanAnalyze:        total > 0 && total <= domain.MinutesPerDay,
	}
}

// DayTotal is the logged time for one date.
type DayTotal struct {
	Date       string `json:"date"`
	Minutes    int    `json:"minutes"`
	Activities int    `json:"activities"`
}

// DailyTotals returns one entry per date from..to inclusive, including days
// with nothing logged. Activities outside the range are ignored.
func DailyTotals(activities []domain.Activity, from, to time.Time) []DayTotal {
	byDate := make(map[string]DayTotal)
	for _, a := range activities {
		d := byDate[a.Date]
		d.Minutes += a.Duration
		d.Activities++
		byDate[a.Date] = d
	}

	var out []DayTotal
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := domain.FormatDate(day)
		d := byDate[key]
		d.Date = key
		out = append(out, d)
	}
	return out
}

// TitleBar is one bar of the per-activity duration chart.
type TitleBar struct {
	Label    string          `json:"label"`
	Minutes  int             `json:"minutes"`
	Hours    float64         `json:"hours"`
	Category domain.Category `json:"category"`
}

// TitleBars labels each activity by its title, truncated to TitleBarLimit
// characters with a trailing ellipsis.
func TitleBars(activities []domain.Activity) []TitleBar {
	bars := make([]TitleBar, 0, len(activities))
	for _, a := range activities {
		bars = append(bars, TitleBar{
			Label:    truncate(a.Title, TitleBarLimit),
			Minutes:  a.Duration,
			Hours:    Hours(a.Duration),
			Category: a.Category,
		})
	}
	return bars
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// TodoStats counts todos by completion state.
type TodoStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// Todos computes TodoStats.
func Todos(todos []domain.Todo) TodoStats {
	var s TodoStats
	s.Total = len(todos)
	for _, t := range todos {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	s.CompletionRate = Percentage(float64(s.Completed), float64(s.Total))
	return s
}

// TimerCategoryCount is the completions recorded for one timer category.
type TimerCategoryCount struct {
	Category    domain.TimerCategory `json:"category"`
	Completions int                  `json:"completions"`
	Percentage  float64              `json:"percentage"`
}

// TimerStatsSummary aggregates recorded timer completions.
type TimerStatsSummary struct {
	TotalCompletions int                  `json:"total_completions"`
	TodayCompletions int                  `json:"today_completions"`
	ByCategory       []TimerCategoryCount `json:"by_category"`
}

// Timers summarises stats. today is a domain.DateLayout date.
func Timers(stats []domain.TimerStat, today string) TimerStatsSummary {
	var s TimerStatsSummary
	byCategory := make(map[domain.TimerCategory]int)
	for _, st := range stats {
		s.TotalCompletions += st.Completions
		if st.Date == today {
			s.TodayCompletions += st.Completions
		}
		byCategory[st.Category] += st.Completions
	}

	s.ByCategory = []TimerCategoryCount{}
	for _, c := range domain.TimerCategories() {
		n := byCategory[c]
		if n == 0 {
			continue
		}
		s.ByCategory = append(s.ByCategory, TimerCategoryCount{
			Category:    c,
			Completions: n,
			Percentage:  Percentage(float64(n), float64(s.TotalCompletions)),
		})
	}
	return s
}

// BookStats summarises the book catalog.
type BookStats struct {
	Count        int     `json:"count"`
	TotalPrice   float64 `json:"total_price"`
	AveragePrice float64 `json:"average_price"`
}

// Books computes BookStats. Prices are rounded to cents.
func Books(books []domain.Book) BookStats {
	var s BookStats
	s.Count = len(books)
	for _, b := range books {
		s.TotalPrice += b.Price
	}
	s.TotalPrice = math.Round(s.TotalPrice*100) / 100
	if s.Count > 0 {
		s.AveragePrice = math.Round(s.TotalPrice/float64(s.Count)*100) / 100
	}
	return s
}
