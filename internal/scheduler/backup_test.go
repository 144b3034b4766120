package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daylog/internal/config"
	"daylog/internal/storage/local"
)

func setupStore(t *testing.T) *local.Store {
	t.Helper()
	store, err := local.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, local.SaveList(store, "books", []map[string]string{{"id": "b1"}}))
	require.NoError(t, local.SaveList(store, "timers", []map[string]string{}))
	return store
}

// steppingClock advances one minute per call.
func steppingClock() func() time.Time {
	now := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func TestNewBackup_InvalidSchedule(t *testing.T) {
	_, err := NewBackup(setupStore(t), config.BackupConfig{Schedule: "every day"})
	require.Error(t, err)

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "backup.schedule", cfgErr.Field)
}

func TestBackup_Next(t *testing.T) {
	b, err := NewBackup(setupStore(t), config.BackupConfig{Schedule: "0 3 * * *", Dir: t.TempDir()})
	require.NoError(t, err)

	from := time.Date(2024, 3, 1, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC), b.Next(from))
}

func TestBackup_RunOnceCopiesKeys(t *testing.T) {
	dir := t.TempDir()
	var results []error
	b, err := NewBackup(setupStore(t), config.BackupConfig{Schedule: "@daily", Dir: dir, Keep: 3},
		WithClock(steppingClock()),
		OnDone(func(_ time.Time, err error) { results = append(results, err) }))
	require.NoError(t, err)

	target, err := b.RunOnce()
	require.NoError(t, err)

	copied, err := local.New(target)
	require.NoError(t, err)
	keys, err := copied.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"books", "timers"}, keys)
	assert.Equal(t, []error{nil}, results)
}

func TestBackup_PrunesOldSnapshots(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBackup(setupStore(t), config.BackupConfig{Schedule: "@hourly", Dir: dir, Keep: 2},
		WithClock(steppingClock()))
	require.NoError(t, err)

	var targets []string
	for i := 0; i < 4; i++ {
		target, err := b.RunOnce()
		require.NoError(t, err)
		targets = append(targets, filepath.Base(target))
	}

	snapshots, err := b.Snapshots()
	require.NoError(t, err)
	assert.Equal(t, targets[2:], snapshots)

	// Unrelated entries are left alone.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "manual"), 0755))
	_, err = b.RunOnce()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "manual"))
	assert.NoError(t, err)
}

func TestBackup_RunStopsOnCancel(t *testing.T) {
	b, err := NewBackup(setupStore(t), config.BackupConfig{Schedule: "@yearly", Dir: t.TempDir()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- b.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
