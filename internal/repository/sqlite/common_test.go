package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"daylog/internal/errors"
)

type fakeResult struct {
	n   int64
	err error
}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }

func (r fakeResult) RowsAffected() (int64, error) { return r.n, r.err }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorType
	}{
		{"driver failure", stderrors.New("disk I/O error"), errors.ErrorTypeDatabase},
		{"deadline", fmt.Errorf("exec: %w", context.DeadlineExceeded), errors.ErrorTypeTimeout},
		{"primary key", stderrors.New("constraint failed: UNIQUE constraint failed: todos.id (1555)"), errors.ErrorTypeConflict},
		{"already typed", errors.NewNotFoundError("todo", "t1"), errors.ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("write todo", tt.err)
			assert.True(t, errors.IsErrorType(got, tt.want), "got %v", got)
		})
	}

	assert.NoError(t, classify("noop", nil))
	assert.Contains(t, classify("load day", stderrors.New("locked")).Error(), "load day")
}

func TestNotFoundIfNoRows(t *testing.T) {
	assert.True(t, errors.IsNotFound(notFoundIfNoRows(sql.ErrNoRows, "activity", "abc")))
	assert.True(t, errors.IsNotFound(notFoundIfNoRows(fmt.Errorf("scan: %w", sql.ErrNoRows), "activity", "abc")))

	other := stderrors.New("some other error")
	assert.Same(t, other, notFoundIfNoRows(other, "activity", "abc"))
}

func TestRequireAffected(t *testing.T) {
	tests := []struct {
		name   string
		result sql.Result
		want   errors.ErrorType
		ok     bool
	}{
		{"one row", fakeResult{n: 1}, 0, true},
		{"no rows", fakeResult{}, errors.ErrorTypeNotFound, false},
		{"driver error", fakeResult{err: stderrors.New("unsupported")}, errors.ErrorTypeDatabase, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireAffected(tt.result, "todo", "t1")
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsErrorType(err, tt.want), "got %v", err)
		})
	}
}
