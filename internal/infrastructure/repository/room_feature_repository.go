package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type roomFeatureRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRoomFeatureRepository creates the Postgres-backed feature repository.
func NewRoomFeatureRepository(db *sql.DB, logger *zap.Logger) domain.RoomFeatureRepository {
	return &roomFeatureRepository{db: db, logger: logger}
}

func (r *roomFeatureRepository) Create(f *domain.RoomFeature) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	_, err := r.db.Exec(`INSERT INTO room_features (id, slug) VALUES ($1, $2)`, f.ID, f.Slug)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("feature slug %q: %w", f.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("creating room feature: %w", err)
	}
	return nil
}

func (r *roomFeatureRepository) List() ([]domain.RoomFeature, error) {
	rows, err := r.db.Query(`SELECT id, slug FROM room_features ORDER BY slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing room features: %w", err)
	}
	defer rows.Close()

	var features []domain.RoomFeature
	for rows.Next() {
		var f domain.RoomFeature
		if err := rows.Scan(&f.ID, &f.Slug); err != nil {
			return nil, fmt.Errorf("scanning room feature: %w", err)
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

func (r *roomFeatureRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM room_features WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting room feature: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
