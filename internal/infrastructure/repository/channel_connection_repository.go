package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type channelConnectionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChannelConnectionRepository creates the Postgres-backed channel
// connection repository.
func NewChannelConnectionRepository(db *sql.DB, logger *zap.Logger) domain.ChannelConnectionRepository {
	return &channelConnectionRepository{db: db, logger: logger}
}

const connectionSelect = `
	SELECT cc.id, cc.hostel_id, cc.channel_id, COALESCE(cc.external_id, ''),
	       cc.credentials, cc.enabled, cc.created_at,
	       ch.id, ch.name, ch.code,
	       h.id, h.name, h.slug
	FROM channel_connections cc
	INNER JOIN channels ch ON ch.id = cc.channel_id
	INNER JOIN hostels h ON h.id = cc.hostel_id
`

func (r *channelConnectionRepository) Create(c *domain.ChannelConnection) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `
		INSERT INTO channel_connections (id, hostel_id, channel_id, external_id, credentials, enabled, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(query, c.ID, c.HostelID, c.ChannelID, c.ExternalID,
		[]byte(c.Credentials), c.Enabled).Scan(&c.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("hostel already connected to channel: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("creating channel connection: %w", err)
	}
	return nil
}

func (r *channelConnectionRepository) GetByID(id string) (*domain.ChannelConnection, error) {
	conn, err := scanConnection(r.db.QueryRow(connectionSelect+` WHERE cc.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting channel connection: %w", err)
	}
	return conn, nil
}

func scanConnection(row rowScanner) (*domain.ChannelConnection, error) {
	conn := domain.ChannelConnection{
		Channel: &domain.Channel{},
		Hostel:  &domain.Hostel{},
	}
	var credentials []byte
	err := row.Scan(
		&conn.ID, &conn.HostelID, &conn.ChannelID, &conn.ExternalID,
		&credentials, &conn.Enabled, &conn.CreatedAt,
		&conn.Channel.ID, &conn.Channel.Name, &conn.Channel.Code,
		&conn.Hostel.ID, &conn.Hostel.Name, &conn.Hostel.Slug,
	)
	if err != nil {
		return nil, err
	}
	conn.Credentials = credentials
	return &conn, nil
}

func (r *channelConnectionRepository) ListByHostel(hostelID string) ([]domain.ChannelConnection, error) {
	query := connectionSelect + ` WHERE cc.hostel_id = $1 ORDER BY cc.created_at ASC`
	rows, err := r.db.Query(query, hostelID)
	if err != nil {
		return nil, fmt.Errorf("listing channel connections: %w", err)
	}
	defer rows.Close()

	var conns []domain.ChannelConnection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning channel connection: %w", err)
		}
		conns = append(conns, *conn)
	}
	return conns, rows.Err()
}

func (r *channelConnectionRepository) Update(c *domain.ChannelConnection) error {
	query := `
		UPDATE channel_connections
		SET external_id = NULLIF($2, ''), credentials = $3, enabled = $4
		WHERE id = $1
	`
	res, err := r.db.Exec(query, c.ID, c.ExternalID, []byte(c.Credentials), c.Enabled)
	if err != nil {
		return fmt.Errorf("updating channel connection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *channelConnectionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM channel_connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting channel connection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
