package domain

import "time"

// DayPrice is the nightly price for one room on one calendar day, with
// an optional capacity override for that day. Rows are soft-deleted via
// the Active flag; at most one active row exists per (room, date).
//
// AvailableCapacity is a static override of how many guests the room
// takes that night. It is never decremented by bookings: committed
// guests are always recomputed live from non-cancelled reservations.
type DayPrice struct {
	ID                string    `json:"id"`
	RoomID            string    `json:"roomId"`
	Date              time.Time `json:"date"`
	Price             float64   `json:"price"`
	AvailableCapacity *int      `json:"availableCapacity,omitempty"`
	Active            bool      `json:"active"`
}

// BulkDayPriceInput describes a price fill over a room x date matrix.
// When Overwrite is false, existing rows are left untouched.
type BulkDayPriceInput struct {
	RoomIDs           []string
	From              time.Time
	To                time.Time
	Price             float64
	AvailableCapacity *int
	Overwrite         bool
}

// RoomDayPrices pairs a room with its (possibly sparse) price rows for a
// date range, used by the per-hostel pricing grid.
type RoomDayPrices struct {
	Room   Room       `json:"room"`
	Prices []DayPrice `json:"prices"`
}

// DayPriceRepository defines the persistence operations for day prices.
type DayPriceRepository interface {
	// Upsert creates or reactivates the price row for (room, date).
	Upsert(dp *DayPrice) error
	// GetRange returns the active price rows for a room in [from, to),
	// ordered by date.
	GetRange(roomID string, from, to time.Time) ([]DayPrice, error)
	// BulkUpsert fills a room x date matrix in a single transaction and
	// returns the number of rows written.
	BulkUpsert(input BulkDayPriceInput) (int, error)
	// Deactivate soft-deletes the price row for (room, date).
	Deactivate(roomID string, date time.Time, hostelID string) error
	// GetGridForHostel returns every room of the hostel with its price
	// rows for [from, to].
	GetGridForHostel(hostelID string, from, to time.Time) ([]RoomDayPrices, error)
}
