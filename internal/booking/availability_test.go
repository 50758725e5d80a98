package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestCapacityForDay(t *testing.T) {
	assert.Equal(t, 4, CapacityForDay(domain.DayPrice{}, 4))
	assert.Equal(t, 2, CapacityForDay(domain.DayPrice{AvailableCapacity: intPtr(2)}, 4))
	assert.Equal(t, 0, CapacityForDay(domain.DayPrice{AvailableCapacity: intPtr(0)}, 4))
}

func TestCheckRange_Available(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-03"))
	prices := pricesFor(100, "2024-01-01", "2024-01-02")
	committed := map[time.Time]int{day("2024-01-01"): 2}

	check := CheckRange(days, prices, committed, 4, 2)

	assert.True(t, check.Available)
	assert.Empty(t, check.MissingPriceDays)
	assert.Empty(t, check.UnavailableDays)
}

func TestCheckRange_UnpricedNightIsNotBookable(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-03"))
	prices := pricesFor(100, "2024-01-01") // second night unpriced

	check := CheckRange(days, prices, nil, 4, 1)

	assert.False(t, check.Available)
	require.Len(t, check.MissingPriceDays, 1)
	assert.Equal(t, day("2024-01-02"), check.MissingPriceDays[0])
}

func TestCheckRange_OverrideCapacityWins(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-02"))
	prices := map[time.Time]domain.DayPrice{
		day("2024-01-01"): {Price: 100, AvailableCapacity: intPtr(1), Active: true},
	}

	check := CheckRange(days, prices, nil, 4, 2)

	assert.False(t, check.Available)
	require.Len(t, check.UnavailableDays, 1)
}

func TestAssertAvailable_ReportsEarliestFullNight(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-04"))
	prices := pricesFor(100, "2024-01-01", "2024-01-02", "2024-01-03")
	committed := map[time.Time]int{
		day("2024-01-02"): 3,
		day("2024-01-03"): 4,
	}

	err := AssertAvailable(days, prices, committed, 4, 2)

	var ue *domain.UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, day("2024-01-02"), ue.Day)
	assert.Contains(t, err.Error(), "2024-01-02")
}

func TestAssertAvailable_MissingPricesShortCircuits(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-04"))
	// Even a range that would also fail on capacity reports the missing
	// price first: partial pricing is not partially bookable.
	prices := pricesFor(100, "2024-01-01", "2024-01-02")
	committed := map[time.Time]int{day("2024-01-01"): 4}

	err := AssertAvailable(days, prices, committed, 4, 2)

	assert.ErrorIs(t, err, domain.ErrMissingPrices)
}

func TestAssertAvailable_ExactFitSucceeds(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-02"))
	prices := pricesFor(100, "2024-01-01")
	committed := map[time.Time]int{day("2024-01-01"): 2}

	assert.NoError(t, AssertAvailable(days, prices, committed, 4, 2))
}
