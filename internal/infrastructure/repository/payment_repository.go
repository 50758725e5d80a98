package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type paymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates the Postgres-backed payment repository.
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) domain.PaymentRepository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(p *domain.ReservationPayment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO reservation_payments (id, reservation_id, amount, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(query, p.ID, p.ReservationID, p.Amount).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) ListByReservation(reservationID string) ([]domain.ReservationPayment, error) {
	query := `
		SELECT id, reservation_id, amount, created_at
		FROM reservation_payments
		WHERE reservation_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.ReservationPayment
	for rows.Next() {
		var p domain.ReservationPayment
		if err := rows.Scan(&p.ID, &p.ReservationID, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) SumByReservation(reservationID string) (float64, error) {
	var sum float64
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM reservation_payments WHERE reservation_id = $1`,
		reservationID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("summing payments: %w", err)
	}
	return sum, nil
}
