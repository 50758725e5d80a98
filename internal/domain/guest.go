package domain

import "time"

// Guest is an optional identity linked to reservations by email. It is
// contact data only and never authoritative for capacity math.
type Guest struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// GuestPage is a paginated guest listing.
type GuestPage struct {
	Data       []Guest `json:"data"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

// GuestRepository defines the persistence operations for guests.
type GuestRepository interface {
	Create(g *Guest) error
	GetByID(id string) (*Guest, error)
	GetByEmail(email string) (*Guest, error)
	Search(q string, limit int) ([]Guest, error)
	ListPaged(page, limit int, sort, order string) (*GuestPage, error)
	Update(g *Guest) error
	// Delete removes a guest; fails with ErrConflict when reservations
	// reference it.
	Delete(id string) error
}
