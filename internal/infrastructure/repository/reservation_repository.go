package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type reservationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReservationRepository creates the Postgres-backed reservation repository.
func NewReservationRepository(db *sql.DB, logger *zap.Logger) domain.ReservationRepository {
	return &reservationRepository{db: db, logger: logger}
}

const reservationSelect = `
	SELECT res.id, res.room_id, r.name, res.start_date, res.end_date, res.guests,
	       res.cancelled, COALESCE(res.name, ''), COALESCE(res.email, ''),
	       res.total_price, res.amount_paid, res.payment_status, res.guest_id,
	       res.created_at
	FROM reservations res
	INNER JOIN rooms r ON r.id = res.room_id
`

const committedGuestsQuery = `
	SELECT start_date, end_date, guests
	FROM reservations
	WHERE room_id = $1 AND cancelled = false
	  AND start_date < $3 AND end_date > $2
`

func (r *reservationRepository) CreateCommitted(res *domain.Reservation, capacityForDay func(day time.Time) int) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("starting serializable transaction: %w", err)
	}
	defer tx.Rollback()

	committed, err := committedGuests(tx, res.RoomID, res.StartDate, res.EndDate)
	if err != nil {
		return err
	}

	for day := res.StartDate; day.Before(res.EndDate); day = day.AddDate(0, 0, 1) {
		if committed[day]+res.Guests > capacityForDay(day) {
			return &domain.UnavailableError{Day: day}
		}
	}

	query := `
		INSERT INTO reservations
			(id, room_id, start_date, end_date, guests, cancelled, name, email,
			 total_price, amount_paid, payment_status, guest_id, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(query,
		res.ID, res.RoomID, res.StartDate, res.EndDate, res.Guests,
		res.Name, res.Email, res.TotalPrice, res.AmountPaid, res.PaymentStatus,
		res.GuestID,
	).Scan(&res.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reservation: %w", err)
	}
	return nil
}

type querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// committedGuests spreads each overlapping non-cancelled reservation over
// its nights and sums guests per UTC day.
func committedGuests(q querier, roomID string, from, to time.Time) (map[time.Time]int, error) {
	rows, err := q.Query(committedGuestsQuery, roomID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading committed guests: %w", err)
	}
	defer rows.Close()

	committed := make(map[time.Time]int)
	for rows.Next() {
		var start, end time.Time
		var guests int
		if err := rows.Scan(&start, &end, &guests); err != nil {
			return nil, fmt.Errorf("scanning committed reservation: %w", err)
		}
		start, end = start.UTC(), end.UTC()
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
			committed[day] += guests
		}
	}
	return committed, rows.Err()
}

func (r *reservationRepository) GetByID(id, hostelID string) (*domain.Reservation, error) {
	query := reservationSelect + ` WHERE res.id = $1 AND r.hostel_id = $2`
	res, err := scanReservation(r.db.QueryRow(query, id, hostelID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting reservation: %w", err)
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var guestID sql.NullString
	err := row.Scan(
		&res.ID, &res.RoomID, &res.RoomName, &res.StartDate, &res.EndDate,
		&res.Guests, &res.Cancelled, &res.Name, &res.Email,
		&res.TotalPrice, &res.AmountPaid, &res.PaymentStatus, &guestID,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if guestID.Valid {
		res.GuestID = &guestID.String
	}
	res.StartDate = res.StartDate.UTC()
	res.EndDate = res.EndDate.UTC()
	return &res, nil
}

func (r *reservationRepository) List(filter domain.ReservationFilter) ([]domain.Reservation, error) {
	query := reservationSelect + ` WHERE r.hostel_id = $1`
	args := []interface{}{filter.HostelID}

	if filter.RoomID != "" {
		args = append(args, filter.RoomID)
		query += fmt.Sprintf(" AND res.room_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND res.end_date > $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND res.start_date < $%d", len(args))
	}
	if !filter.IncludeCancelled {
		query += " AND res.cancelled = false"
	}
	if filter.OnlyUpcoming {
		query += " AND res.end_date > NOW()"
	}
	if filter.OnlyPast {
		query += " AND res.end_date <= NOW()"
	}
	query += " ORDER BY res.start_date ASC, res.created_at ASC"

	return r.queryMany(query, args...)
}

func (r *reservationRepository) ListByEmail(email string) ([]domain.Reservation, error) {
	query := reservationSelect + `
		WHERE res.email = $1 AND res.cancelled = false
		ORDER BY res.start_date ASC`
	return r.queryMany(query, email)
}

func (r *reservationRepository) queryMany(query string, args ...interface{}) ([]domain.Reservation, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *reservationRepository) Update(id string, upd domain.ReservationUpdate) (*domain.Reservation, error) {
	query := `
		UPDATE reservations
		SET start_date = $2, end_date = $3, guests = $4, name = $5, email = $6,
		    guest_id = $7
		WHERE id = $1
		RETURNING id
	`
	var updated string
	err := r.db.QueryRow(query, id, upd.StartDate, upd.EndDate, upd.Guests,
		upd.Name, upd.Email, upd.GuestID).Scan(&updated)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating reservation: %w", err)
	}

	res, err := scanReservation(r.db.QueryRow(reservationSelect+` WHERE res.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("reloading reservation: %w", err)
	}
	return res, nil
}

func (r *reservationRepository) Cancel(id string) error {
	res, err := r.db.Exec(`UPDATE reservations SET cancelled = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cancelling reservation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) Delete(id string) error {
	var payments int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM reservation_payments WHERE reservation_id = $1`, id,
	).Scan(&payments)
	if err != nil {
		return fmt.Errorf("counting payments: %w", err)
	}
	if payments > 0 {
		return fmt.Errorf("reservation has payments: %w", domain.ErrConflict)
	}

	res, err := r.db.Exec(`DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting reservation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) CommittedGuestsByDay(roomID string, from, to time.Time) (map[time.Time]int, error) {
	return committedGuests(r.db, roomID, from, to)
}

func (r *reservationRepository) CommittedGuestsByHostel(hostelID string, from, to time.Time) (map[string]map[time.Time]int, error) {
	query := `
		SELECT res.room_id, res.start_date, res.end_date, res.guests
		FROM reservations res
		INNER JOIN rooms r ON r.id = res.room_id
		WHERE r.hostel_id = $1 AND res.cancelled = false
		  AND res.start_date < $3 AND res.end_date > $2
	`
	rows, err := r.db.Query(query, hostelID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading committed guests: %w", err)
	}
	defer rows.Close()

	committed := make(map[string]map[time.Time]int)
	for rows.Next() {
		var roomID string
		var start, end time.Time
		var guests int
		if err := rows.Scan(&roomID, &start, &end, &guests); err != nil {
			return nil, fmt.Errorf("scanning committed reservation: %w", err)
		}
		if committed[roomID] == nil {
			committed[roomID] = make(map[time.Time]int)
		}
		start, end = start.UTC(), end.UTC()
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
			committed[roomID][day] += guests
		}
	}
	return committed, rows.Err()
}

func (r *reservationRepository) SetPaymentStatus(id string, status domain.PaymentStatus) error {
	query := `
		UPDATE reservations
		SET payment_status = $2,
		    amount_paid = COALESCE((SELECT SUM(amount) FROM reservation_payments WHERE reservation_id = $1), 0)
		WHERE id = $1
	`
	res, err := r.db.Exec(query, id, status)
	if err != nil {
		return fmt.Errorf("setting payment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reservationRepository) ReconcilePaymentStatuses() (int, error) {
	query := `
		UPDATE reservations res
		SET amount_paid = p.paid,
		    payment_status = CASE
		        WHEN p.paid <= 0 THEN 'pending'
		        WHEN p.paid < res.total_price THEN 'partial'
		        ELSE 'paid'
		    END
		FROM (
			SELECT res2.id,
			       COALESCE(SUM(pay.amount), 0) AS paid
			FROM reservations res2
			LEFT JOIN reservation_payments pay ON pay.reservation_id = res2.id
			GROUP BY res2.id
		) p
		WHERE p.id = res.id
		  AND (res.amount_paid <> p.paid
		       OR res.payment_status <> CASE
		           WHEN p.paid <= 0 THEN 'pending'
		           WHEN p.paid < res.total_price THEN 'partial'
		           ELSE 'paid'
		       END)
	`
	res, err := r.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("reconciling payment statuses: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
