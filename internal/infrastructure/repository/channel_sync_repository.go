package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type channelSyncRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChannelSyncRepository creates the Postgres-backed repository for
// staged external bookings.
func NewChannelSyncRepository(db *sql.DB, logger *zap.Logger) domain.ChannelSyncRepository {
	return &channelSyncRepository{db: db, logger: logger}
}

const syncSelect = `
	SELECT s.id, s.connection_id, s.external_res_id, s.status, s.raw_data,
	       s.reservation_id, COALESCE(s.error_message, ''), s.created_at,
	       cc.id, cc.hostel_id, cc.channel_id, COALESCE(cc.external_id, ''),
	       cc.credentials, cc.enabled, cc.created_at,
	       ch.id, ch.name, ch.code,
	       h.id, h.name, h.slug
	FROM channel_reservation_syncs s
	INNER JOIN channel_connections cc ON cc.id = s.connection_id
	INNER JOIN channels ch ON ch.id = cc.channel_id
	INNER JOIN hostels h ON h.id = cc.hostel_id
`

func (r *channelSyncRepository) Create(s *domain.ChannelReservationSync) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
		INSERT INTO channel_reservation_syncs
			(id, connection_id, external_res_id, status, raw_data, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(query, s.ID, s.ConnectionID, s.ExternalResID,
		s.Status, []byte(s.RawData)).Scan(&s.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("external reservation already staged: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("creating sync record: %w", err)
	}
	return nil
}

func (r *channelSyncRepository) GetByID(id string) (*domain.ChannelReservationSync, error) {
	return r.getOne(syncSelect+` WHERE s.id = $1`, id)
}

func (r *channelSyncRepository) GetByExternalResID(externalResID string) (*domain.ChannelReservationSync, error) {
	return r.getOne(syncSelect+` WHERE s.external_res_id = $1`, externalResID)
}

func (r *channelSyncRepository) getOne(query string, args ...interface{}) (*domain.ChannelReservationSync, error) {
	s, err := scanSync(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting sync record: %w", err)
	}
	return s, nil
}

func scanSync(row rowScanner) (*domain.ChannelReservationSync, error) {
	s := domain.ChannelReservationSync{
		Connection: &domain.ChannelConnection{
			Channel: &domain.Channel{},
			Hostel:  &domain.Hostel{},
		},
	}
	var rawData, credentials []byte
	var reservationID sql.NullString
	err := row.Scan(
		&s.ID, &s.ConnectionID, &s.ExternalResID, &s.Status, &rawData,
		&reservationID, &s.ErrorMessage, &s.CreatedAt,
		&s.Connection.ID, &s.Connection.HostelID, &s.Connection.ChannelID,
		&s.Connection.ExternalID, &credentials, &s.Connection.Enabled,
		&s.Connection.CreatedAt,
		&s.Connection.Channel.ID, &s.Connection.Channel.Name, &s.Connection.Channel.Code,
		&s.Connection.Hostel.ID, &s.Connection.Hostel.Name, &s.Connection.Hostel.Slug,
	)
	if err != nil {
		return nil, err
	}
	s.RawData = rawData
	s.Connection.Credentials = credentials
	if reservationID.Valid {
		s.ReservationID = &reservationID.String
	}
	return &s, nil
}

func (r *channelSyncRepository) ListPaged(filter domain.SyncLogFilter, page, limit int) (*domain.SyncLogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	where := " WHERE 1=1"
	var args []interface{}
	if filter.HostelID != "" {
		args = append(args, filter.HostelID)
		where += fmt.Sprintf(" AND cc.hostel_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND s.status = $%d", len(args))
	}
	if filter.ExternalResID != "" {
		args = append(args, filter.ExternalResID)
		where += fmt.Sprintf(" AND s.external_res_id = $%d", len(args))
	}

	countQuery := `
		SELECT COUNT(*)
		FROM channel_reservation_syncs s
		INNER JOIN channel_connections cc ON cc.id = s.connection_id
	` + where
	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting sync records: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := syncSelect + where + fmt.Sprintf(
		" ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	items, err := r.queryMany(query, args...)
	if err != nil {
		return nil, err
	}

	return &domain.SyncLogPage{Total: total, Page: page, Limit: limit, Items: items}, nil
}

func (r *channelSyncRepository) ListSyncedByHostel(hostelID string) ([]domain.ChannelReservationSync, error) {
	query := syncSelect + ` WHERE cc.hostel_id = $1 AND s.status = $2 ORDER BY s.created_at DESC`
	return r.queryMany(query, hostelID, domain.SyncSynced)
}

func (r *channelSyncRepository) queryMany(query string, args ...interface{}) ([]domain.ChannelReservationSync, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sync records: %w", err)
	}
	defer rows.Close()

	var items []domain.ChannelReservationSync
	for rows.Next() {
		s, err := scanSync(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sync record: %w", err)
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *channelSyncRepository) MarkSynced(id, reservationID string) error {
	query := `
		UPDATE channel_reservation_syncs
		SET status = $2, reservation_id = $3, error_message = NULL
		WHERE id = $1
	`
	res, err := r.db.Exec(query, id, domain.SyncSynced, reservationID)
	if err != nil {
		return fmt.Errorf("marking sync as synced: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *channelSyncRepository) MarkError(id, reason string) error {
	query := `
		UPDATE channel_reservation_syncs
		SET status = $2, error_message = $3
		WHERE id = $1
	`
	res, err := r.db.Exec(query, id, domain.SyncError, reason)
	if err != nil {
		return fmt.Errorf("marking sync as errored: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
