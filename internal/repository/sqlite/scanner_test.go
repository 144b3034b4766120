package sqlite

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daylog/internal/domain"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}
	if len(dest) != len(ts.data) {
		return stderrors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *int:
			*v = ts.data[i].(int)
		case *bool:
			*v = ts.data[i].(bool)
		case *string:
			*v = ts.data[i].(string)
		}
	}
	return nil
}

// TestRows implements the Rows interface for testing
type TestRows struct {
	rows    [][]interface{}
	current int
	err     error
}

func (tr *TestRows) Next() bool {
	if tr.current >= len(tr.rows) {
		return false
	}
	tr.current++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return (&TestScanner{data: tr.rows[tr.current-1]}).Scan(dest...)
}

func (tr *TestRows) Err() error {
	return tr.err
}

func activityRow(id string) []interface{} {
	return []interface{}{id, "u1", "2024-01-15", "Deep work", "Work", 90,
		"2024-01-15T10:00:00.000000000Z", "2024-01-15T11:00:00.000000000Z"}
}

func TestScanActivity(t *testing.T) {
	a, err := ScanActivity(&TestScanner{data: activityRow("a1")})
	require.NoError(t, err)

	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "2024-01-15", a.Date)
	assert.Equal(t, domain.CategoryWork, a.Category)
	assert.Equal(t, 90, a.Duration)
	assert.True(t, a.CreatedAt.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))
	assert.True(t, a.UpdatedAt.Equal(time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)))
}

func TestScanActivity_Errors(t *testing.T) {
	_, err := ScanActivity(&TestScanner{err: stderrors.New("boom")})
	assert.Error(t, err)

	row := activityRow("a1")
	row[6] = "not a time"
	_, err = ScanActivity(&TestScanner{data: row})
	assert.Error(t, err)
}

func TestScanActivities(t *testing.T) {
	rows := &TestRows{rows: [][]interface{}{activityRow("a1"), activityRow("a2")}}
	activities, err := ScanActivities(rows)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "a2", activities[1].ID)

	empty, err := ScanActivities(&TestRows{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = ScanActivities(&TestRows{err: stderrors.New("iteration failed")})
	assert.Error(t, err)
}

func TestScanTodo(t *testing.T) {
	todo, err := ScanTodo(&TestScanner{data: []interface{}{"t1", "u1", "Buy milk", true, "2024-01-15T10:00:00Z"}})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", todo.Title)
	assert.True(t, todo.Completed)
}

func TestScanProfiles(t *testing.T) {
	rows := &TestRows{rows: [][]interface{}{
		{"p1", "alice", "admin", "2024-01-01T00:00:00Z"},
		{"p2", "bob", "user", "2024-01-02T00:00:00Z"},
	}}
	profiles, err := ScanProfiles(rows)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.True(t, profiles[0].IsAdmin())
	assert.Equal(t, domain.RoleUser, profiles[1].Role)
}
