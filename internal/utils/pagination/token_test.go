package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	tests := []struct {
		name   string
		cursor Cursor
	}{
		{
			name: "standard values",
			cursor: Cursor{
				Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
				CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
				ID:        "5f0c6d38-7a55-4b8c-9a39-0e6f1c2d3e4f",
			},
		},
		{
			name:   "zero times",
			cursor: Cursor{ID: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := EncodeToken(tt.cursor)
			assert.NotEmpty(t, token)

			decoded, err := DecodeToken(token)
			require.NoError(t, err)
			assert.True(t, tt.cursor.Date.Equal(decoded.Date))
			assert.True(t, tt.cursor.CreatedAt.Equal(decoded.CreatedAt))
			assert.Equal(t, tt.cursor.ID, decoded.ID)
		})
	}
}

func TestDecodeTokenError(t *testing.T) {
	encode := func(s string) string {
		return base64.StdEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"invalid base64", "this is not base64!", "base64 decode"},
		{"missing separator", encode("2023-05-15T00:00:00Z"), "split"},
		{"missing id", encode("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|"), "split"},
		{"invalid date", encode("notadate|2023-05-15T14:30:45Z|id"), "date parse"},
		{"invalid created_at", encode("2023-05-15T00:00:00Z|notatime|id"), "created_at parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCursorBefore(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	c := Cursor{Date: day, CreatedAt: created, ID: "m"}

	assert.True(t, c.Before(day.AddDate(0, 0, -1), created, "z"), "older date")
	assert.False(t, c.Before(day.AddDate(0, 0, 1), created, "a"), "newer date")
	assert.True(t, c.Before(day, created.Add(-time.Second), "z"), "same date, older created")
	assert.True(t, c.Before(day, created, "a"), "tie broken by id")
	assert.False(t, c.Before(day, created, "m"), "the cursor row itself")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}
