package domain

import "time"

// UserRole identifies the capability level of an authenticated user.
type UserRole string

const (
	RoleSuperadmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleOperator   UserRole = "OPERATOR"
)

// Hostel is a tenant. Every room, user and price belongs to exactly one
// hostel, and tenant isolation is enforced by comparing HostelID on every
// lookup.
type Hostel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is a dashboard account scoped to a hostel. Superadmins have no
// hostel of their own.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"-"`
	Role     UserRole `json:"role"`
	HostelID string   `json:"hostelId,omitempty"`
}

// Identity is the caller identity decoded from an access token.
type Identity struct {
	UserID   string
	Email    string
	Role     UserRole
	HostelID string
}

// HostelRepository defines the persistence operations for hostels.
type HostelRepository interface {
	Create(hostel *Hostel) error
	GetByID(id string) (*Hostel, error)
	GetBySlug(slug string) (*Hostel, error)
	List() ([]Hostel, error)
}

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	ListByHostelAndRole(hostelID string, role UserRole) ([]User, error)
}
