package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func utcDay(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestCreateCommitted_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db, zap.NewNop())

	res := &domain.Reservation{
		RoomID:        "room-1",
		StartDate:     utcDay("2026-09-10"),
		EndDate:       utcDay("2026-09-12"),
		Guests:        2,
		Name:          "Ana",
		Email:         "ana@example.com",
		TotalPrice:    400,
		PaymentStatus: domain.PaymentPending,
	}

	mock.ExpectBegin()
	// One existing booking for 3 guests overlaps both nights.
	mock.ExpectQuery(`SELECT start_date, end_date, guests`).
		WithArgs("room-1", res.StartDate, res.EndDate).
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date", "guests"}).
			AddRow(utcDay("2026-09-09"), utcDay("2026-09-13"), 3))
	mock.ExpectQuery(`INSERT INTO reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	err := repo.CreateCommitted(res, func(day time.Time) int { return 6 })

	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommitted_FullNightRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db, zap.NewNop())

	res := &domain.Reservation{
		RoomID:    "room-1",
		StartDate: utcDay("2026-09-10"),
		EndDate:   utcDay("2026-09-13"),
		Guests:    2,
	}

	mock.ExpectBegin()
	// The middle night already holds 5 of 6 places.
	mock.ExpectQuery(`SELECT start_date, end_date, guests`).
		WithArgs("room-1", res.StartDate, res.EndDate).
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date", "guests"}).
			AddRow(utcDay("2026-09-11"), utcDay("2026-09-12"), 5))
	mock.ExpectRollback()

	err := repo.CreateCommitted(res, func(day time.Time) int { return 6 })

	var unavailable *domain.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, utcDay("2026-09-11"), unavailable.Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db, zap.NewNop())

	mock.ExpectQuery(`SELECT res.id`).
		WithArgs("res-1", "hostel-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID("res-1", "hostel-1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_BlockedByPayments(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db, zap.NewNop())

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("res-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err := repo.Delete("res-1")

	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommittedGuestsByDay_ClampsToRange(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db, zap.NewNop())

	from, to := utcDay("2026-09-10"), utcDay("2026-09-12")
	mock.ExpectQuery(`SELECT start_date, end_date, guests`).
		WithArgs("room-1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date", "guests"}).
			AddRow(utcDay("2026-09-08"), utcDay("2026-09-11"), 2).
			AddRow(utcDay("2026-09-11"), utcDay("2026-09-20"), 1))

	committed, err := repo.CommittedGuestsByDay("room-1", from, to)

	require.NoError(t, err)
	assert.Equal(t, 2, committed[utcDay("2026-09-10")])
	assert.Equal(t, 1, committed[utcDay("2026-09-11")])
	assert.NotContains(t, committed, utcDay("2026-09-12"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcilePaymentStatuses_CountsCorrections(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db, zap.NewNop())

	mock.ExpectExec(`UPDATE reservations res`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	fixed, err := repo.ReconcilePaymentStatuses()

	require.NoError(t, err)
	assert.Equal(t, 3, fixed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
