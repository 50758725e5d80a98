package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

func TestDayPriceUpsert_SetsActive(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewDayPriceRepository(db, zap.NewNop())

	mock.ExpectExec(`INSERT INTO day_prices`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dp := &domain.DayPrice{RoomID: "room-1", Date: utcDay("2026-09-10"), Price: 120}
	err := repo.Upsert(dp)

	require.NoError(t, err)
	assert.NotEmpty(t, dp.ID)
	assert.True(t, dp.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRange_ReturnsActiveOrdered(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewDayPriceRepository(db, zap.NewNop())

	from, to := utcDay("2026-09-10"), utcDay("2026-09-12")
	rows := sqlmock.NewRows([]string{"id", "room_id", "date", "price", "available_capacity", "active"}).
		AddRow("dp-1", "room-1", utcDay("2026-09-10"), 120.0, nil, true).
		AddRow("dp-2", "room-1", utcDay("2026-09-11"), 150.0, 4, true)

	mock.ExpectQuery(`SELECT id, room_id, date, price`).
		WithArgs("room-1", from, to).
		WillReturnRows(rows)

	prices, err := repo.GetRange("room-1", from, to)

	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Nil(t, prices[0].AvailableCapacity)
	require.NotNil(t, prices[1].AvailableCapacity)
	assert.Equal(t, 4, *prices[1].AvailableCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_SkipsExistingWithoutOverwrite(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewDayPriceRepository(db, zap.NewNop())

	mock.ExpectBegin()
	// Two days for one room: the first already priced (DO NOTHING hits 0 rows).
	mock.ExpectExec(`INSERT INTO day_prices`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO day_prices`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	count, err := repo.BulkUpsert(domain.BulkDayPriceInput{
		RoomIDs:   []string{"room-1"},
		From:      utcDay("2026-09-10"),
		To:        utcDay("2026-09-12"),
		Price:     100,
		Overwrite: false,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate_OtherHostelNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewDayPriceRepository(db, zap.NewNop())

	mock.ExpectExec(`UPDATE day_prices`).
		WithArgs("room-1", utcDay("2026-09-10"), "hostel-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate("room-1", utcDay("2026-09-10"), "hostel-2")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGridForHostel_GroupsByRoom(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewDayPriceRepository(db, zap.NewNop())

	from, to := utcDay("2026-09-10"), utcDay("2026-09-12")
	roomRows := sqlmock.NewRows([]string{
		"id", "hostel_id", "name", "room_type_id",
		"rt_id", "rt_name", "rt_slug", "rt_capacity",
	}).
		AddRow("room-1", "hostel-1", "Dorm A", "rt-1", "rt-1", "Dorm", "dorm", 6).
		AddRow("room-2", "hostel-1", "Private", "rt-2", "rt-2", "Private", "private", 2).
		AddRow("room-3", "hostel-1", "Dorm B", "rt-1", "rt-1", "Dorm", "dorm", 6)
	priceRows := sqlmock.NewRows([]string{"id", "room_id", "date", "price", "available_capacity", "active"}).
		AddRow("dp-1", "room-1", utcDay("2026-09-10"), 120.0, nil, true).
		AddRow("dp-2", "room-1", utcDay("2026-09-11"), 120.0, nil, true).
		AddRow("dp-3", "room-2", utcDay("2026-09-10"), 80.0, 6, true)

	mock.ExpectQuery(`SELECT r.id, r.hostel_id`).
		WithArgs("hostel-1").
		WillReturnRows(roomRows)
	mock.ExpectQuery(`SELECT dp.id, dp.room_id`).
		WithArgs("hostel-1", from, to).
		WillReturnRows(priceRows)

	grid, err := repo.GetGridForHostel("hostel-1", from, to)

	require.NoError(t, err)
	require.Len(t, grid, 3)
	assert.Equal(t, "room-1", grid[0].Room.ID)
	assert.Len(t, grid[0].Prices, 2)
	assert.Equal(t, "room-2", grid[1].Room.ID)
	assert.Len(t, grid[1].Prices, 1)
	// Rooms without prices still appear in the grid.
	assert.Equal(t, "room-3", grid[2].Room.ID)
	assert.Empty(t, grid[2].Prices)
	assert.NoError(t, mock.ExpectationsWereMet())
}
