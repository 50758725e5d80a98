package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type guestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGuestRepository creates the Postgres-backed guest repository.
func NewGuestRepository(db *sql.DB, logger *zap.Logger) domain.GuestRepository {
	return &guestRepository{db: db, logger: logger}
}

func (r *guestRepository) Create(g *domain.Guest) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	query := `
		INSERT INTO guests (id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(query, g.ID, g.Name, g.Email, g.Phone).Scan(&g.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("guest email already registered: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("creating guest: %w", err)
	}
	return nil
}

func (r *guestRepository) GetByID(id string) (*domain.Guest, error) {
	return r.getBy("id", id)
}

func (r *guestRepository) GetByEmail(email string) (*domain.Guest, error) {
	return r.getBy("email", email)
}

func (r *guestRepository) getBy(column, value string) (*domain.Guest, error) {
	query := fmt.Sprintf(
		`SELECT id, name, email, COALESCE(phone, ''), created_at FROM guests WHERE %s = $1`,
		column,
	)
	var g domain.Guest
	err := r.db.QueryRow(query, value).Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting guest: %w", err)
	}
	return &g, nil
}

func (r *guestRepository) Search(q string, limit int) ([]domain.Guest, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, name, email, COALESCE(phone, ''), created_at
		FROM guests
		WHERE name ILIKE $1 OR email ILIKE $1
		ORDER BY name ASC
		LIMIT $2
	`
	rows, err := r.db.Query(query, "%"+q+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching guests: %w", err)
	}
	defer rows.Close()
	return scanGuests(rows)
}

func scanGuests(rows *sql.Rows) ([]domain.Guest, error) {
	var guests []domain.Guest
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

var guestSortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
}

func (r *guestRepository) ListPaged(page, limit int, sort, order string) (*domain.GuestPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	column, ok := guestSortColumns[sort]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if strings.EqualFold(order, "desc") {
		direction = "DESC"
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM guests`).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting guests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, COALESCE(phone, ''), created_at
		FROM guests
		ORDER BY %s %s
		LIMIT $1 OFFSET $2
	`, column, direction)
	rows, err := r.db.Query(query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("listing guests: %w", err)
	}
	defer rows.Close()

	guests, err := scanGuests(rows)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	return &domain.GuestPage{
		Data:       guests,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (r *guestRepository) Update(g *domain.Guest) error {
	query := `UPDATE guests SET name = $2, email = $3, phone = $4 WHERE id = $1`
	res, err := r.db.Exec(query, g.ID, g.Name, g.Email, g.Phone)
	if isUniqueViolation(err) {
		return fmt.Errorf("guest email already registered: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("updating guest: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestRepository) Delete(id string) error {
	var referenced int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM reservations WHERE guest_id = $1`, id,
	).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("counting guest reservations: %w", err)
	}
	if referenced > 0 {
		return fmt.Errorf("guest has reservations: %w", domain.ErrConflict)
	}

	res, err := r.db.Exec(`DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting guest: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
