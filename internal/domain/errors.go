package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared across services. Handlers map these to HTTP
// statuses; services wrap them with context via fmt.Errorf and %w.
var (
	// ErrNotFound covers both unknown ids and cross-tenant lookups so
	// that existence of another hostel's data is never leaked.
	ErrNotFound = errors.New("resource not found or access denied")

	// ErrAccessDenied is returned when the caller is authenticated but
	// lacks the capability for the operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput covers malformed payloads and missing required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange is returned when a date fails to parse or the
	// checkout date is not after the checkin date.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrMissingPrices is returned when at least one night in the
	// requested range has no active day price. A partially priced range
	// is never partially bookable.
	ErrMissingPrices = errors.New("missing prices for some days in the selected range")

	// ErrInvalidRatePlan is returned for contradictory rate plans,
	// e.g. resident guests presenting a MuchiCard.
	ErrInvalidRatePlan = errors.New("muchicard only applies to non-resident guests")

	// ErrConflict is returned for uniqueness violations (duplicate
	// email, slug, or external reservation id).
	ErrConflict = errors.New("resource already exists")
)

// UnavailableError reports the earliest night of a range that cannot
// accommodate the requested guests.
type UnavailableError struct {
	Day time.Time
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("no availability for date %s", e.Day.Format("2006-01-02"))
}

// IsUnavailable reports whether err wraps an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
