package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

func TestParseRange(t *testing.T) {
	from, to, err := ParseRange("2024-01-01", "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), to)
}

func TestParseRange_Invalid(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"malformed from", "01/01/2024", "2024-01-03"},
		{"malformed to", "2024-01-01", "not-a-date"},
		{"equal dates", "2024-01-01", "2024-01-01"},
		{"inverted range", "2024-01-05", "2024-01-03"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRange(tt.from, tt.to)
			assert.ErrorIs(t, err, domain.ErrInvalidRange)
		})
	}
}

func TestDaysInRange_ExcludesCheckout(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	days := DaysInRange(from, to)

	require.Len(t, days, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), days[1])
}

func TestDaysInRange_StripsTimeOfDay(t *testing.T) {
	from := time.Date(2024, 3, 10, 15, 30, 12, 0, time.UTC)
	to := time.Date(2024, 3, 12, 4, 0, 0, 0, time.UTC)

	days := DaysInRange(from, to)

	require.Len(t, days, 2)
	for _, d := range days {
		assert.Equal(t, 0, d.Hour())
		assert.Equal(t, time.UTC, d.Location())
	}
}

func TestDaysInRange_CrossesMonthBoundary(t *testing.T) {
	from := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	days := DaysInRange(from, to)

	require.Len(t, days, 3)
	assert.Equal(t, "2024-01-31", days[1].Format(DayFormat))
	assert.Equal(t, "2024-02-01", days[2].Format(DayFormat))
}

func TestDaysInRange_EmptyWhenInverted(t *testing.T) {
	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, DaysInRange(from, to))
	assert.Empty(t, DaysInRange(from, from))
}
