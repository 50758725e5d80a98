package booking

import (
	"time"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// PriceMap indexes active day-price rows by their UTC day.
func PriceMap(prices []domain.DayPrice) map[time.Time]domain.DayPrice {
	m := make(map[time.Time]domain.DayPrice, len(prices))
	for _, p := range prices {
		m[Day(p.Date)] = p
	}
	return m
}

// CapacityForDay returns the max guests a room takes on one night: the
// day-price override when set, otherwise the room-type capacity.
func CapacityForDay(dp domain.DayPrice, roomCapacity int) int {
	if dp.AvailableCapacity != nil {
		return *dp.AvailableCapacity
	}
	return roomCapacity
}

// RangeCheck is the outcome of an availability check over a date range.
type RangeCheck struct {
	Available        bool        `json:"available"`
	MissingPriceDays []time.Time `json:"missingPriceDays,omitempty"`
	UnavailableDays  []time.Time `json:"unavailableDays,omitempty"`
}

// CheckRange answers "can guests be placed in the room for every night
// of days?". committed holds already-booked guests per day from
// non-cancelled reservations. A night with no price row is reported as
// missing, not as free.
func CheckRange(days []time.Time, prices map[time.Time]domain.DayPrice, committed map[time.Time]int, roomCapacity, guests int) RangeCheck {
	check := RangeCheck{Available: true}
	for _, day := range days {
		dp, ok := prices[day]
		if !ok {
			check.Available = false
			check.MissingPriceDays = append(check.MissingPriceDays, day)
			continue
		}
		if committed[day]+guests > CapacityForDay(dp, roomCapacity) {
			check.Available = false
			check.UnavailableDays = append(check.UnavailableDays, day)
		}
	}
	return check
}

// AssertAvailable is the strict form used by the commit workflow: full
// price coverage is a precondition (ErrMissingPrices short-circuits
// before any capacity math), and the earliest full night is reported,
// not the whole list.
func AssertAvailable(days []time.Time, prices map[time.Time]domain.DayPrice, committed map[time.Time]int, roomCapacity, guests int) error {
	if len(prices) != len(days) {
		return domain.ErrMissingPrices
	}
	for _, day := range days {
		dp, ok := prices[day]
		if !ok {
			return domain.ErrMissingPrices
		}
		if committed[day]+guests > CapacityForDay(dp, roomCapacity) {
			return &domain.UnavailableError{Day: day}
		}
	}
	return nil
}
