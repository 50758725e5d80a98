package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates the Postgres-backed user repository.
func NewUserRepository(db *sql.DB, logger *zap.Logger) domain.UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) Create(user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, name, email, password, role, hostel_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
	`

	_, err := r.db.Exec(query, user.ID, user.Name, user.Email, user.Password, user.Role, user.HostelID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %q: %w", user.Email, domain.ErrConflict)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(email string) (*domain.User, error) {
	return r.getOne(`
		SELECT id, name, email, password, role, COALESCE(hostel_id, '')
		FROM users WHERE email = $1`, email)
}

func (r *userRepository) GetByID(id string) (*domain.User, error) {
	return r.getOne(`
		SELECT id, name, email, password, role, COALESCE(hostel_id, '')
		FROM users WHERE id = $1`, id)
}

func (r *userRepository) getOne(query, arg string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRow(query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.HostelID)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

func (r *userRepository) ListByHostelAndRole(hostelID string, role domain.UserRole) ([]domain.User, error) {
	query := `
		SELECT id, name, email, role, COALESCE(hostel_id, '')
		FROM users
		WHERE hostel_id = $1 AND role = $2
		ORDER BY name ASC
	`

	rows, err := r.db.Query(query, hostelID, role)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.HostelID); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
