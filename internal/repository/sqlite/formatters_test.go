package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "Valid time",
			input:    time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			expected: "2024-01-15T10:30:45.000000000Z",
		},
		{
			name:     "Zero time",
			input:    time.Time{},
			expected: "0001-01-01T00:00:00.000000000Z",
		},
		{
			name:     "Time with timezone is stored in UTC",
			input:    time.Date(2024, 6, 15, 14, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			expected: "2024-06-15T19:30:00.000000000Z",
		},
		{
			name:     "Time with nanoseconds",
			input:    time.Date(2024, 3, 10, 9, 15, 30, 123456789, time.UTC),
			expected: "2024-03-10T09:15:30.123456789Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimeForDB(tt.input))
		})
	}
}

func TestFormatTimeForDB_SortsChronologically(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	earlier := FormatTimeForDB(base)
	later := FormatTimeForDB(base.Add(500 * time.Millisecond))
	assert.Less(t, earlier, later)
}

func TestParseTimeFromDB(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"Stored layout", "2024-01-15T10:30:45.000000000Z", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC), false},
		{"Plain RFC3339", "2024-01-15T10:30:45Z", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC), false},
		{"With offset", "2024-06-15T14:30:00-05:00", time.Date(2024, 6, 15, 19, 30, 0, 0, time.UTC), false},
		{"Invalid", "15/01/2024", time.Time{}, true},
		{"Empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseTimeFromDB(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result), "got %v", result)
		})
	}
}

func TestFormatTimeForDB_RoundTrip(t *testing.T) {
	original := time.Date(2024, 12, 25, 15, 45, 30, 987654321, time.UTC)
	parsed, err := ParseTimeFromDB(FormatTimeForDB(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}
