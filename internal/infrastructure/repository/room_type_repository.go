package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type roomTypeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRoomTypeRepository creates the Postgres-backed room type repository.
func NewRoomTypeRepository(db *sql.DB, logger *zap.Logger) domain.RoomTypeRepository {
	return &roomTypeRepository{db: db, logger: logger}
}

func (r *roomTypeRepository) Create(rt *domain.RoomType) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}

	query := `INSERT INTO room_types (id, name, slug, capacity) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(query, rt.ID, rt.Name, rt.Slug, rt.Capacity)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("room type slug %q: %w", rt.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("creating room type: %w", err)
	}
	return nil
}

func (r *roomTypeRepository) GetByID(id string) (*domain.RoomType, error) {
	rt := &domain.RoomType{}
	query := `SELECT id, name, slug, capacity FROM room_types WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&rt.ID, &rt.Name, &rt.Slug, &rt.Capacity)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting room type: %w", err)
	}
	return rt, nil
}

func (r *roomTypeRepository) List() ([]domain.RoomType, error) {
	rows, err := r.db.Query(`SELECT id, name, slug, capacity FROM room_types ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing room types: %w", err)
	}
	defer rows.Close()

	var types []domain.RoomType
	for rows.Next() {
		var rt domain.RoomType
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Slug, &rt.Capacity); err != nil {
			return nil, fmt.Errorf("scanning room type: %w", err)
		}
		types = append(types, rt)
	}
	return types, rows.Err()
}

func (r *roomTypeRepository) Update(rt *domain.RoomType) error {
	query := `UPDATE room_types SET name = $2, slug = $3, capacity = $4 WHERE id = $1`
	res, err := r.db.Exec(query, rt.ID, rt.Name, rt.Slug, rt.Capacity)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("room type slug %q: %w", rt.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("updating room type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
