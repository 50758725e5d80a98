package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type channelRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChannelRepository creates the Postgres-backed channel repository.
func NewChannelRepository(db *sql.DB, logger *zap.Logger) domain.ChannelRepository {
	return &channelRepository{db: db, logger: logger}
}

func (r *channelRepository) Create(c *domain.Channel) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `INSERT INTO channels (id, name, code) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(query, c.ID, c.Name, c.Code)
	if isUniqueViolation(err) {
		return fmt.Errorf("channel code already registered: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("creating channel: %w", err)
	}
	return nil
}

func (r *channelRepository) List() ([]domain.Channel, error) {
	rows, err := r.db.Query(`SELECT id, name, code FROM channels ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		var c domain.Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, fmt.Errorf("scanning channel: %w", err)
		}
		channels = append(channels, c)
	}
	return channels, rows.Err()
}

func (r *channelRepository) GetByID(id string) (*domain.Channel, error) {
	var c domain.Channel
	err := r.db.QueryRow(`SELECT id, name, code FROM channels WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Code)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting channel: %w", err)
	}
	return &c, nil
}
