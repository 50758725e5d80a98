package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type hostelRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHostelRepository creates the Postgres-backed hostel repository.
func NewHostelRepository(db *sql.DB, logger *zap.Logger) domain.HostelRepository {
	return &hostelRepository{db: db, logger: logger}
}

func (r *hostelRepository) Create(hostel *domain.Hostel) error {
	if hostel.ID == "" {
		hostel.ID = uuid.NewString()
	}

	query := `
		INSERT INTO hostels (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRow(query, hostel.ID, hostel.Name, hostel.Slug).Scan(&hostel.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("hostel slug %q: %w", hostel.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("creating hostel: %w", err)
	}
	return nil
}

func (r *hostelRepository) GetByID(id string) (*domain.Hostel, error) {
	return r.getOne(`SELECT id, name, slug, created_at FROM hostels WHERE id = $1`, id)
}

func (r *hostelRepository) GetBySlug(slug string) (*domain.Hostel, error) {
	return r.getOne(`SELECT id, name, slug, created_at FROM hostels WHERE slug = $1`, slug)
}

func (r *hostelRepository) getOne(query, arg string) (*domain.Hostel, error) {
	h := &domain.Hostel{}
	err := r.db.QueryRow(query, arg).Scan(&h.ID, &h.Name, &h.Slug, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting hostel: %w", err)
	}
	return h, nil
}

func (r *hostelRepository) List() ([]domain.Hostel, error) {
	rows, err := r.db.Query(`SELECT id, name, slug, created_at FROM hostels ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing hostels: %w", err)
	}
	defer rows.Close()

	var hostels []domain.Hostel
	for rows.Next() {
		var h domain.Hostel
		if err := rows.Scan(&h.ID, &h.Name, &h.Slug, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning hostel: %w", err)
		}
		hostels = append(hostels, h)
	}
	return hostels, rows.Err()
}
