package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/storage/local"
)

func setupTimerBoard(t *testing.T) (TimerBoard, *local.Store) {
	t.Helper()
	store := setupLocal(t)
	board, err := NewTimerBoard(store, nil, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return board, store
}

func TestTimerBoard_Add(t *testing.T) {
	tests := []struct {
		name     string
		timer    string
		seconds  int
		category domain.TimerCategory
		wantErr  bool
	}{
		{name: "valid timer", timer: "Focus", seconds: 1500, category: domain.TimerWork},
		{name: "empty name", timer: "", seconds: 60, category: domain.TimerWork, wantErr: true},
		{name: "zero length", timer: "Nothing", seconds: 0, category: domain.TimerWork, wantErr: true},
		{name: "longer than a day", timer: "Marathon", seconds: 86401, category: domain.TimerExercise, wantErr: true},
		{name: "unknown category", timer: "Nap", seconds: 60, category: "sleep", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, _ := setupTimerBoard(t)

			got, err := board.Add(context.Background(), tt.timer, tt.seconds, tt.category)
			if tt.wantErr {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				assert.Empty(t, board.List(TimerQuery{}))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, got.Remaining)
			assert.False(t, got.IsRunning)
		})
	}
}

func TestTimerBoard_AddFromTemplate(t *testing.T) {
	board, _ := setupTimerBoard(t)

	got, err := board.AddFromTemplate(context.Background(), "pomodoro")
	require.NoError(t, err)
	assert.Equal(t, "Pomodoro", got.Name)
	assert.Equal(t, 1500, got.Duration)
	assert.Equal(t, domain.TimerWork, got.Category)

	_, err = board.AddFromTemplate(context.Background(), "siesta")
	assert.True(t, errors.IsNotFound(err))
}

func TestTimerBoard_TickCompletesAndRecordsStat(t *testing.T) {
	board, store := setupTimerBoard(t)
	ctx := context.Background()

	short, err := board.Add(ctx, "Short", 2, domain.TimerStudy)
	require.NoError(t, err)
	idle, err := board.Add(ctx, "Idle", 60, domain.TimerWork)
	require.NoError(t, err)

	_, err = board.Toggle(ctx, short.ID)
	require.NoError(t, err)

	finished, err := board.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, finished)

	finished, err = board.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, short.ID, finished[0].ID)
	assert.Equal(t, 0, finished[0].Remaining)
	assert.False(t, finished[0].IsRunning)
	assert.Equal(t, 1, finished[0].Completions)

	// Stopped timers no longer move.
	finished, err = board.Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, finished)

	for _, timer := range board.List(TimerQuery{}) {
		if timer.ID == idle.ID {
			assert.Equal(t, 60, timer.Remaining)
		}
	}

	stats := board.Stats()
	assert.Equal(t, 1, stats.TotalCompletions)
	assert.Equal(t, 1, stats.TodayCompletions)
	require.Len(t, stats.ByCategory, 1)
	assert.Equal(t, domain.TimerStudy, stats.ByCategory[0].Category)
	assert.Equal(t, 100.0, stats.ByCategory[0].Percentage)

	persisted, err := local.LoadList[domain.TimerStat](store, TimerStatsKey)
	require.NoError(t, err)
	assert.Equal(t, []domain.TimerStat{{Date: "2024-03-01", Category: domain.TimerStudy, Completions: 1}}, persisted)
}

func TestTimerBoard_TickStatWriteFailureKeepsTimerRunning(t *testing.T) {
	board, store := setupTimerBoard(t)
	ctx := context.Background()

	timer, err := board.Add(ctx, "Breathe", 1, domain.TimerMeditation)
	require.NoError(t, err)
	_, err = board.Toggle(ctx, timer.ID)
	require.NoError(t, err)

	// A directory where the stats file belongs makes the stat write fail.
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), TimerStatsKey+".json"), 0755))

	finished, err := board.Tick(ctx)
	require.Error(t, err)
	assert.Empty(t, finished)

	timers := board.List(TimerQuery{})
	require.Len(t, timers, 1)
	assert.True(t, timers[0].IsRunning)
	assert.Equal(t, 1, timers[0].Remaining)
	assert.Equal(t, 0, timers[0].Completions)
	assert.Equal(t, 0, board.Stats().TotalCompletions)

	persisted, err := local.LoadList[domain.Timer](store, TimersKey)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, 0, persisted[0].Completions)

	require.NoError(t, os.Remove(filepath.Join(store.Dir(), TimerStatsKey+".json")))
	finished, err = board.Tick(ctx)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, 1, board.Stats().TotalCompletions)
}

func TestTimerBoard_ToggleResetEditRemove(t *testing.T) {
	board, _ := setupTimerBoard(t)
	ctx := context.Background()

	timer, err := board.Add(ctx, "Read", 120, domain.TimerStudy)
	require.NoError(t, err)

	started, err := board.Toggle(ctx, timer.ID)
	require.NoError(t, err)
	assert.True(t, started.IsRunning)

	_, err = board.Tick(ctx)
	require.NoError(t, err)

	reset, err := board.Reset(ctx, timer.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, reset.Remaining)
	assert.False(t, reset.IsRunning)

	edited, err := board.Edit(ctx, timer.ID, "Read more", 300, domain.TimerOther)
	require.NoError(t, err)
	assert.Equal(t, "Read more", edited.Name)
	assert.Equal(t, 300, edited.Remaining)

	_, err = board.Edit(ctx, timer.ID, "Read more", -1, domain.TimerOther)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	require.NoError(t, board.Remove(ctx, timer.ID))
	assert.True(t, errors.IsNotFound(board.Remove(ctx, timer.ID)))
	_, err = board.Toggle(ctx, timer.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestTimerBoard_ListFilterAndSort(t *testing.T) {
	board, _ := setupTimerBoard(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name     string
		seconds  int
		category domain.TimerCategory
	}{
		{"beta", 300, domain.TimerWork},
		{"Alpha", 60, domain.TimerWork},
		{"gamma", 900, domain.TimerStudy},
	} {
		_, err := board.Add(ctx, tc.name, tc.seconds, tc.category)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"beta", "Alpha", "gamma"}, timerNames(board.List(TimerQuery{})))
	assert.Equal(t, []string{"Alpha", "beta"}, timerNames(board.List(TimerQuery{Category: domain.TimerWork, Sort: domain.SortTimersByName})))
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, timerNames(board.List(TimerQuery{Sort: domain.SortTimersByDuration})))
}

func TestTimerBoard_ReloadsFromLocalStorage(t *testing.T) {
	store := setupLocal(t)
	ctx := context.Background()

	first, err := NewTimerBoard(store, nil)
	require.NoError(t, err)
	_, err = first.Add(ctx, "one", 60, domain.TimerWork)
	require.NoError(t, err)
	_, err = first.Add(ctx, "two", 60, domain.TimerWork)
	require.NoError(t, err)

	second, err := NewTimerBoard(store, nil)
	require.NoError(t, err)
	assert.Equal(t, first.List(TimerQuery{}), second.List(TimerQuery{}))
}

func timerNames(timers []domain.Timer) []string {
	out := make([]string, len(timers))
	for i, t := range timers {
		out[i] = t.Name
	}
	return out
}
