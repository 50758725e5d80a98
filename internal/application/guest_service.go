package application

import (
	"fmt"
	"strings"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type GuestService struct {
	guestRepo       domain.GuestRepository
	reservationRepo domain.ReservationRepository
}

// NewGuestService creates the guest directory service.
func NewGuestService(guestRepo domain.GuestRepository, reservationRepo domain.ReservationRepository) *GuestService {
	return &GuestService{guestRepo: guestRepo, reservationRepo: reservationRepo}
}

// Create registers a guest. Email is the natural key.
func (s *GuestService) Create(g *domain.Guest) error {
	if g.Name == "" || g.Email == "" {
		return fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	g.Email = strings.ToLower(g.Email)
	return s.guestRepo.Create(g)
}

// Get loads one guest.
func (s *GuestService) Get(id string) (*domain.Guest, error) {
	return s.guestRepo.GetByID(id)
}

// Search finds guests by a name or email fragment.
func (s *GuestService) Search(q string, limit int) ([]domain.Guest, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}
	return s.guestRepo.Search(q, limit)
}

// List returns a page of the guest directory.
func (s *GuestService) List(page, limit int, sort, order string) (*domain.GuestPage, error) {
	return s.guestRepo.ListPaged(page, limit, sort, order)
}

// Update modifies a guest's contact data.
func (s *GuestService) Update(g *domain.Guest) error {
	if g.Name == "" || g.Email == "" {
		return fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	g.Email = strings.ToLower(g.Email)
	return s.guestRepo.Update(g)
}

// Delete removes a guest without reservation history.
func (s *GuestService) Delete(id string) error {
	return s.guestRepo.Delete(id)
}

// History returns the reservations linked to a guest's email.
func (s *GuestService) History(id string) ([]domain.Reservation, error) {
	guest, err := s.guestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.reservationRepo.ListByEmail(guest.Email)
}
