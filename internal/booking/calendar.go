// Package booking holds the availability and pricing core shared by the
// public booking flow, the internal reservation flow and the quote
// endpoints. Every flow goes through these functions so the rules cannot
// drift between surfaces.
package booking

import (
	"fmt"
	"time"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// Day normalizes a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid date", domain.ErrInvalidRange, s)
	}
	return Day(t), nil
}

// ParseRange parses a [from, to) range. to must be strictly after from:
// a zero-night stay is not a stay.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	fromDate, err := ParseDay(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toDate, err := ParseDay(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !toDate.After(fromDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkout must be after checkin", domain.ErrInvalidRange)
	}
	return fromDate, toDate, nil
}

// DaysInRange expands [from, to) into its ordered calendar days. Each
// returned day corresponds to exactly one night of a stay, one price
// lookup and one capacity check. The checkout day is excluded.
func DaysInRange(from, to time.Time) []time.Time {
	from, to = Day(from), Day(to)
	if !to.After(from) {
		return nil
	}
	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24))
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
