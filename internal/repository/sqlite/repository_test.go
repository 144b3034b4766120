package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daylog/internal/config"
	"daylog/internal/domain"
	"daylog/internal/errors"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := New(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newActivity(user, date, title string, cat domain.Category, minutes int, created time.Time) *domain.Activity {
	a := domain.NewActivity(user, date, domain.ActivityInput{Title: title, Category: cat, Duration: minutes}, created)
	return &a
}

func TestNewWithConfig_CreatesDirectory(t *testing.T) {
	cfg := config.NewConfig()
	path := filepath.Join(t.TempDir(), "nested", "daylog.db")

	repo, err := NewWithConfig(path, cfg)
	require.NoError(t, err)
	defer repo.Close()

	assert.NoError(t, repo.Ping(context.Background()))
}

func TestActivityCRUD(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	a := newActivity("u1", "2024-03-01", "Write report", domain.CategoryWork, 90, created)
	require.NoError(t, repo.CreateActivity(ctx, a))

	got, err := repo.GetActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.Category, got.Category)
	assert.Equal(t, 90, got.Duration)
	assert.True(t, created.Equal(got.CreatedAt))

	a.Title = "Write longer report"
	a.Duration = 120
	a.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, repo.UpdateActivity(ctx, a))

	got, err = repo.GetActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write longer report", got.Title)
	assert.Equal(t, 120, got.Duration)
	assert.True(t, a.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, repo.DeleteActivity(ctx, a.ID))
	_, err = repo.GetActivity(ctx, a.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestActivity_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)

	_, err := repo.GetActivity(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "not found")

	err = repo.UpdateActivity(ctx, &domain.Activity{ID: "missing", Title: "x", Category: domain.CategoryWork, Duration: 1})
	assert.True(t, errors.IsNotFound(err))

	assert.True(t, errors.IsNotFound(repo.DeleteActivity(ctx, "missing")))
}

func TestActivity_DuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	a := newActivity("u1", "2024-03-01", "Run", domain.CategoryExercise, 30, time.Now())

	require.NoError(t, repo.CreateActivity(ctx, a))
	err := repo.CreateActivity(ctx, a)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestListActivities(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	second := newActivity("u1", "2024-03-01", "Second", domain.CategoryStudy, 60, base.Add(time.Minute))
	first := newActivity("u1", "2024-03-01", "First", domain.CategoryWork, 30, base)
	otherDay := newActivity("u1", "2024-03-02", "Other day", domain.CategoryWork, 30, base)
	otherUser := newActivity("u2", "2024-03-01", "Other user", domain.CategoryWork, 30, base)
	for _, a := range []*domain.Activity{second, first, otherDay, otherUser} {
		require.NoError(t, repo.CreateActivity(ctx, a))
	}

	list, err := repo.ListActivities(ctx, "u1", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Title)
	assert.Equal(t, "Second", list[1].Title)

	empty, err := repo.ListActivities(ctx, "nobody", "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListActivitiesInRange(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	entries := []*domain.Activity{
		newActivity("u1", "2024-03-03", "C late", domain.CategoryWork, 10, base.Add(2*time.Hour)),
		newActivity("u1", "2024-03-01", "A", domain.CategoryWork, 10, base.Add(3*time.Hour)),
		newActivity("u1", "2024-03-03", "C early", domain.CategoryWork, 10, base),
		newActivity("u1", "2024-03-05", "Outside", domain.CategoryWork, 10, base),
		newActivity("u2", "2024-03-02", "Other user", domain.CategoryWork, 10, base),
	}
	for _, a := range entries {
		require.NoError(t, repo.CreateActivity(ctx, a))
	}

	list, err := repo.ListActivitiesInRange(ctx, "u1", "2024-03-01", "2024-03-04")
	require.NoError(t, err)

	titles := make([]string, len(list))
	for i, a := range list {
		titles[i] = a.Title
	}
	assert.Equal(t, []string{"A", "C early", "C late"}, titles)
}

func TestTodoCRUD(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	milk := domain.NewTodo("u1", "Buy milk", base)
	bread := domain.NewTodo("u1", "Buy bread", base.Add(time.Second))
	require.NoError(t, repo.CreateTodo(ctx, &milk))
	require.NoError(t, repo.CreateTodo(ctx, &bread))

	milk.Completed = true
	require.NoError(t, repo.UpdateTodo(ctx, &milk))

	got, err := repo.GetTodo(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	list, err := repo.ListTodos(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, milk.ID, list[0].ID)

	require.NoError(t, repo.DeleteTodo(ctx, milk.ID))
	assert.True(t, errors.IsNotFound(repo.DeleteTodo(ctx, milk.ID)))

	list, err = repo.ListTodos(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	repo := setupTestDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	alice := &domain.Profile{ID: "p1", Username: "alice", Role: domain.RoleAdmin, CreatedAt: base}
	bob := &domain.Profile{ID: "p2", Username: "bob", Role: domain.RoleUser, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.CreateProfile(ctx, bob))
	require.NoError(t, repo.CreateProfile(ctx, alice))

	list, err := repo.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)

	require.NoError(t, repo.UpdateProfileRole(ctx, "p2", domain.RoleAdmin))
	got, err := repo.GetProfile(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	assert.True(t, errors.IsNotFound(repo.UpdateProfileRole(ctx, "nobody", domain.RoleUser)))

	err = repo.UpdateProfileRole(ctx, "p1", domain.Role("owner"))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase), "check constraint rejects unknown roles")
}

func TestCancelledContext(t *testing.T) {
	repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListTodos(ctx, "u1")
	assert.Error(t, err)
}
