package domain

import "time"

// ReservationPayment is a single payment registered against a
// reservation. Amounts are always positive; refunds are out of scope.
type ReservationPayment struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservationId"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	Create(p *ReservationPayment) error
	ListByReservation(reservationID string) ([]ReservationPayment, error)
	SumByReservation(reservationID string) (float64, error)
}
