package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type dayPriceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDayPriceRepository creates the Postgres-backed day price repository.
func NewDayPriceRepository(db *sql.DB, logger *zap.Logger) domain.DayPriceRepository {
	return &dayPriceRepository{db: db, logger: logger}
}

const dayPriceUpsert = `
	INSERT INTO day_prices (id, room_id, date, price, available_capacity, active)
	VALUES ($1, $2, $3, $4, $5, true)
	ON CONFLICT (room_id, date)
	DO UPDATE SET price = EXCLUDED.price,
	              available_capacity = EXCLUDED.available_capacity,
	              active = true
`

func (r *dayPriceRepository) Upsert(dp *domain.DayPrice) error {
	if dp.ID == "" {
		dp.ID = uuid.NewString()
	}
	var capacity sql.NullInt64
	if dp.AvailableCapacity != nil {
		capacity = sql.NullInt64{Int64: int64(*dp.AvailableCapacity), Valid: true}
	}
	_, err := r.db.Exec(dayPriceUpsert, dp.ID, dp.RoomID, dp.Date, dp.Price, capacity)
	if err != nil {
		return fmt.Errorf("upserting day price: %w", err)
	}
	dp.Active = true
	return nil
}

func (r *dayPriceRepository) GetRange(roomID string, from, to time.Time) ([]domain.DayPrice, error) {
	query := `
		SELECT id, room_id, date, price, available_capacity, active
		FROM day_prices
		WHERE room_id = $1 AND date >= $2 AND date < $3 AND active = true
		ORDER BY date ASC
	`
	rows, err := r.db.Query(query, roomID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing day prices: %w", err)
	}
	defer rows.Close()
	return scanDayPrices(rows)
}

func scanDayPrices(rows *sql.Rows) ([]domain.DayPrice, error) {
	var prices []domain.DayPrice
	for rows.Next() {
		var dp domain.DayPrice
		var capacity sql.NullInt64
		if err := rows.Scan(&dp.ID, &dp.RoomID, &dp.Date, &dp.Price, &capacity, &dp.Active); err != nil {
			return nil, fmt.Errorf("scanning day price: %w", err)
		}
		if capacity.Valid {
			c := int(capacity.Int64)
			dp.AvailableCapacity = &c
		}
		dp.Date = dp.Date.UTC()
		prices = append(prices, dp)
	}
	return prices, rows.Err()
}

// BulkUpsert applies one price to every day of [from, to) for each room in a
// single transaction. With overwrite disabled, days that already carry an
// active price are left untouched.
func (r *dayPriceRepository) BulkUpsert(in domain.BulkDayPriceInput) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var capacity sql.NullInt64
	if in.AvailableCapacity != nil {
		capacity = sql.NullInt64{Int64: int64(*in.AvailableCapacity), Valid: true}
	}

	query := dayPriceUpsert
	if !in.Overwrite {
		query = `
	INSERT INTO day_prices (id, room_id, date, price, available_capacity, active)
	VALUES ($1, $2, $3, $4, $5, true)
	ON CONFLICT (room_id, date) DO NOTHING
`
	}

	count := 0
	for _, roomID := range in.RoomIDs {
		for day := in.From; day.Before(in.To); day = day.AddDate(0, 0, 1) {
			res, err := tx.Exec(query, uuid.NewString(), roomID, day, in.Price, capacity)
			if err != nil {
				return 0, fmt.Errorf("upserting day price for room %s: %w", roomID, err)
			}
			n, _ := res.RowsAffected()
			count += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing bulk upsert: %w", err)
	}
	return count, nil
}

func (r *dayPriceRepository) Deactivate(roomID string, date time.Time, hostelID string) error {
	query := `
		UPDATE day_prices dp SET active = false
		FROM rooms r
		WHERE dp.room_id = r.id AND r.hostel_id = $3
		  AND dp.room_id = $1 AND dp.date = $2
	`
	res, err := r.db.Exec(query, roomID, date, hostelID)
	if err != nil {
		return fmt.Errorf("deactivating day price: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetGridForHostel returns every room of the hostel paired with its
// price rows in [from, to). Rooms without prices still appear with an
// empty slice so the grid shows unpriced days.
func (r *dayPriceRepository) GetGridForHostel(hostelID string, from, to time.Time) ([]domain.RoomDayPrices, error) {
	roomQuery := `
		SELECT r.id, r.hostel_id, r.name, r.room_type_id,
		       rt.id, rt.name, rt.slug, rt.capacity
		FROM rooms r
		INNER JOIN room_types rt ON rt.id = r.room_type_id
		WHERE r.hostel_id = $1
		ORDER BY rt.name ASC
	`
	roomRows, err := r.db.Query(roomQuery, hostelID)
	if err != nil {
		return nil, fmt.Errorf("listing rooms for price grid: %w", err)
	}
	defer roomRows.Close()

	var grid []domain.RoomDayPrices
	index := make(map[string]int)
	for roomRows.Next() {
		room := domain.Room{RoomType: &domain.RoomType{}}
		err := roomRows.Scan(
			&room.ID, &room.HostelID, &room.Name, &room.RoomTypeID,
			&room.RoomType.ID, &room.RoomType.Name, &room.RoomType.Slug, &room.RoomType.Capacity,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning room for price grid: %w", err)
		}
		index[room.ID] = len(grid)
		grid = append(grid, domain.RoomDayPrices{Room: room, Prices: []domain.DayPrice{}})
	}
	if err := roomRows.Err(); err != nil {
		return nil, err
	}

	priceQuery := `
		SELECT dp.id, dp.room_id, dp.date, dp.price, dp.available_capacity, dp.active
		FROM day_prices dp
		INNER JOIN rooms r ON r.id = dp.room_id
		WHERE r.hostel_id = $1 AND dp.date >= $2 AND dp.date < $3 AND dp.active = true
		ORDER BY dp.room_id, dp.date ASC
	`
	priceRows, err := r.db.Query(priceQuery, hostelID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing day price grid: %w", err)
	}
	defer priceRows.Close()

	prices, err := scanDayPrices(priceRows)
	if err != nil {
		return nil, err
	}
	for _, dp := range prices {
		if i, ok := index[dp.RoomID]; ok {
			grid[i].Prices = append(grid[i].Prices, dp)
		}
	}
	return grid, nil
}
