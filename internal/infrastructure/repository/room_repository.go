package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type roomRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRoomRepository creates the Postgres-backed room repository.
func NewRoomRepository(db *sql.DB, logger *zap.Logger) domain.RoomRepository {
	return &roomRepository{db: db, logger: logger}
}

const roomSelect = `
	SELECT r.id, r.hostel_id, r.name, COALESCE(r.description, ''),
	       r.room_type_id, r.external_room_id,
	       rt.id, rt.name, rt.slug, rt.capacity
	FROM rooms r
	INNER JOIN room_types rt ON rt.id = r.room_type_id
`

func (r *roomRepository) Create(room *domain.Room, featureIDs []string) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO rooms (id, hostel_id, name, description, room_type_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(query, room.ID, room.HostelID, room.Name, room.Description, room.RoomTypeID); err != nil {
		return fmt.Errorf("creating room: %w", err)
	}

	if err := setFeatures(tx, room.ID, featureIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing room: %w", err)
	}
	return nil
}

func setFeatures(tx *sql.Tx, roomID string, featureIDs []string) error {
	if _, err := tx.Exec(`DELETE FROM room_feature_assignments WHERE room_id = $1`, roomID); err != nil {
		return fmt.Errorf("clearing room features: %w", err)
	}
	for _, fid := range featureIDs {
		_, err := tx.Exec(
			`INSERT INTO room_feature_assignments (room_id, feature_id) VALUES ($1, $2)`,
			roomID, fid,
		)
		if err != nil {
			return fmt.Errorf("assigning feature %s: %w", fid, err)
		}
	}
	return nil
}

func (r *roomRepository) GetByID(id, hostelID string) (*domain.Room, error) {
	room, err := r.scanOne(roomSelect+` WHERE r.id = $1 AND r.hostel_id = $2`, id, hostelID)
	if err != nil {
		return nil, err
	}
	if err := r.loadFeatures(room); err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) GetByTypeSlug(hostelSlug, roomSlug string) (*domain.Room, error) {
	query := roomSelect + `
		INNER JOIN hostels h ON h.id = r.hostel_id
		WHERE h.slug = $1 AND rt.slug = $2`
	room, err := r.scanOne(query, hostelSlug, roomSlug)
	if err != nil {
		return nil, err
	}
	if err := r.loadFeatures(room); err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomRepository) scanOne(query string, args ...interface{}) (*domain.Room, error) {
	room := &domain.Room{RoomType: &domain.RoomType{}}
	var externalID sql.NullString
	err := r.db.QueryRow(query, args...).Scan(
		&room.ID, &room.HostelID, &room.Name, &room.Description,
		&room.RoomTypeID, &externalID,
		&room.RoomType.ID, &room.RoomType.Name, &room.RoomType.Slug, &room.RoomType.Capacity,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting room: %w", err)
	}
	if externalID.Valid {
		room.ExternalRoomID = &externalID.String
	}
	return room, nil
}

func (r *roomRepository) ListByHostel(hostelID string) ([]domain.Room, error) {
	return r.list(roomSelect+` WHERE r.hostel_id = $1 ORDER BY rt.name ASC`, hostelID)
}

func (r *roomRepository) ListByHostelSlug(slug string) ([]domain.Room, error) {
	query := roomSelect + `
		INNER JOIN hostels h ON h.id = r.hostel_id
		WHERE h.slug = $1
		ORDER BY rt.name ASC`
	return r.list(query, slug)
}

func (r *roomRepository) list(query string, args ...interface{}) ([]domain.Room, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		room := domain.Room{RoomType: &domain.RoomType{}}
		var externalID sql.NullString
		err := rows.Scan(
			&room.ID, &room.HostelID, &room.Name, &room.Description,
			&room.RoomTypeID, &externalID,
			&room.RoomType.ID, &room.RoomType.Name, &room.RoomType.Slug, &room.RoomType.Capacity,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		if externalID.Valid {
			room.ExternalRoomID = &externalID.String
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rooms {
		if err := r.loadFeatures(&rooms[i]); err != nil {
			return nil, err
		}
	}
	return rooms, nil
}

func (r *roomRepository) loadFeatures(room *domain.Room) error {
	query := `
		SELECT f.id, f.slug
		FROM room_features f
		INNER JOIN room_feature_assignments a ON a.feature_id = f.id
		WHERE a.room_id = $1
		ORDER BY f.slug ASC
	`
	rows, err := r.db.Query(query, room.ID)
	if err != nil {
		return fmt.Errorf("loading room features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.RoomFeature
		if err := rows.Scan(&f.ID, &f.Slug); err != nil {
			return fmt.Errorf("scanning feature: %w", err)
		}
		room.Features = append(room.Features, f)
	}
	return rows.Err()
}

func (r *roomRepository) Update(room *domain.Room, featureIDs []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE rooms SET name = $3, description = $4, room_type_id = $5
		WHERE id = $1 AND hostel_id = $2
	`
	res, err := tx.Exec(query, room.ID, room.HostelID, room.Name, room.Description, room.RoomTypeID)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}

	if featureIDs != nil {
		if err := setFeatures(tx, room.ID, featureIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing room update: %w", err)
	}
	return nil
}

func (r *roomRepository) Delete(id, hostelID string) error {
	res, err := r.db.Exec(`DELETE FROM rooms WHERE id = $1 AND hostel_id = $2`, id, hostelID)
	if err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *roomRepository) AssignExternalID(roomID, externalRoomID string) error {
	res, err := r.db.Exec(`UPDATE rooms SET external_room_id = $2 WHERE id = $1`, roomID, externalRoomID)
	if err != nil {
		return fmt.Errorf("assigning external room id: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
