package domain

import "time"

// PaymentStatus reflects how much of a reservation's total has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// DerivePaymentStatus is the single source of truth for payment status:
// a pure function of the paid sum against the reservation total.
func DerivePaymentStatus(paid, total float64) PaymentStatus {
	switch {
	case paid <= 0:
		return PaymentPending
	case paid < total:
		return PaymentPartial
	default:
		return PaymentPaid
	}
}

// Reservation books one room from StartDate (inclusive) to EndDate
// (exclusive): the checkout day is not a booked night. Cancelled
// reservations never count toward capacity.
type Reservation struct {
	ID            string        `json:"id"`
	RoomID        string        `json:"roomId"`
	RoomName      string        `json:"roomName,omitempty"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       time.Time     `json:"endDate"`
	Guests        int           `json:"guests"`
	Cancelled     bool          `json:"cancelled"`
	Name          string        `json:"name,omitempty"`
	Email         string        `json:"email,omitempty"`
	TotalPrice    float64       `json:"totalPrice"`
	AmountPaid    float64       `json:"amountPaid"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	GuestID       *string       `json:"guestId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Nights returns the number of booked nights.
func (r *Reservation) Nights() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}

// ReservationFilter narrows reservation listings. Zero values mean "any".
type ReservationFilter struct {
	HostelID         string
	RoomID           string
	From             time.Time
	To               time.Time
	IncludeCancelled bool
	OnlyUpcoming     bool
	OnlyPast         bool
}

// ReservationUpdate carries the mutable fields of a reservation.
type ReservationUpdate struct {
	StartDate time.Time
	EndDate   time.Time
	Guests    int
	Name      string
	Email     string
	GuestID   *string
}

// ReservationRepository defines the persistence operations for
// reservations. CreateCommitted is the only write path that books
// capacity: it re-validates availability and inserts in one serializable
// transaction so that two concurrent bookings cannot overbook a room.
type ReservationRepository interface {
	// CreateCommitted inserts the reservation after re-asserting, inside
	// a serializable transaction, that every night in the range still has
	// room for res.Guests. capacityForDay yields the max guests for a
	// night (day-price override or room-type capacity). On the earliest
	// full night it returns an *UnavailableError and persists nothing.
	CreateCommitted(res *Reservation, capacityForDay func(day time.Time) int) error

	GetByID(id, hostelID string) (*Reservation, error)
	List(filter ReservationFilter) ([]Reservation, error)
	ListByEmail(email string) ([]Reservation, error)
	Update(id string, upd ReservationUpdate) (*Reservation, error)
	Cancel(id string) error
	// Delete removes a reservation. It fails with ErrConflict when
	// payments exist for it.
	Delete(id string) error

	// CommittedGuestsByDay sums guests of non-cancelled reservations
	// overlapping each day in [from, to), keyed by UTC day.
	CommittedGuestsByDay(roomID string, from, to time.Time) (map[time.Time]int, error)
	// CommittedGuestsByHostel is the per-room variant over a whole hostel.
	CommittedGuestsByHostel(hostelID string, from, to time.Time) (map[string]map[time.Time]int, error)

	SetPaymentStatus(id string, status PaymentStatus) error
	// ReconcilePaymentStatuses recomputes stored payment statuses from
	// payment sums and returns the number of rows corrected.
	ReconcilePaymentStatuses() (int, error)
}
