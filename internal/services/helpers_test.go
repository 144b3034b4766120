package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/repository"
	"daylog/internal/repository/sqlite"
	"daylog/internal/storage/local"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// clock returns a time source that advances one second per call so creation
// order is strict.
func clock() func() time.Time {
	now := fixedNow
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func setupRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func setupLocal(t *testing.T) *local.Store {
	t.Helper()
	store, err := local.New(t.TempDir())
	require.NoError(t, err)
	return store
}

// unreachableRepo fails every write the way a remote backend does when it
// cannot be reached.
type unreachableRepo struct {
	repository.Repository
}

func (unreachableRepo) CreateActivity(context.Context, *domain.Activity) error {
	return errors.NewRemoteUnavailableError("create activity", context.DeadlineExceeded)
}

func (unreachableRepo) UpdateActivity(context.Context, *domain.Activity) error {
	return errors.NewRemoteUnavailableError("update activity", context.DeadlineExceeded)
}

func (unreachableRepo) DeleteTodo(context.Context, string) error {
	return errors.NewRemoteUnavailableError("delete todo", context.DeadlineExceeded)
}
