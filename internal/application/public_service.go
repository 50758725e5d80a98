package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/booking"
	"github.com/ezequieldarevalo/totalhub-backend/internal/cache"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// RoomAvailability is one room in a public availability search, priced
// with the base rate (non-resident, cash, no card).
type RoomAvailability struct {
	Room  domain.Room    `json:"room"`
	Quote *booking.Quote `json:"quote"`
}

// PublicService is the unauthenticated booking-site surface. Every
// operation is scoped by hostel slug and the read-heavy listings go
// through the cache.
type PublicService struct {
	hostelRepo   domain.HostelRepository
	roomRepo     domain.RoomRepository
	reservations *ReservationService
	cache        *cache.Cache
	logger       *zap.Logger
}

// NewPublicService creates the public booking-site service.
func NewPublicService(hostelRepo domain.HostelRepository, roomRepo domain.RoomRepository, reservations *ReservationService, c *cache.Cache, logger *zap.Logger) *PublicService {
	return &PublicService{
		hostelRepo:   hostelRepo,
		roomRepo:     roomRepo,
		reservations: reservations,
		cache:        c,
		logger:       logger,
	}
}

// ListHostels returns every hostel for the public directory.
func (s *PublicService) ListHostels() ([]domain.Hostel, error) {
	return s.hostelRepo.List()
}

// GetHostel resolves a hostel by its public slug.
func (s *PublicService) GetHostel(slug string) (*domain.Hostel, error) {
	return s.hostelRepo.GetBySlug(slug)
}

// ListRooms returns the rooms of a hostel for the booking site.
func (s *PublicService) ListRooms(slug string) ([]domain.Room, error) {
	hostel, err := s.hostelRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := fmt.Sprintf("public:%s:rooms", hostel.ID)
	var rooms []domain.Room
	if s.cache.Get(ctx, key, &rooms) {
		return rooms, nil
	}

	rooms, err = s.roomRepo.ListByHostel(hostel.ID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, rooms, cache.DefaultTTL)
	return rooms, nil
}

// SearchAvailability returns the rooms that can take guests for every
// night of [from, to), each with a base-rate quote.
func (s *PublicService) SearchAvailability(slug, from, to string, guests int) ([]RoomAvailability, error) {
	hostel, err := s.hostelRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if _, _, err := booking.ParseRange(from, to); err != nil {
		return nil, err
	}
	if guests <= 0 {
		return nil, fmt.Errorf("%w: guests must be positive", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := fmt.Sprintf("public:%s:avail:%s:%s:%d", hostel.ID, from, to, guests)
	var cached []RoomAvailability
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	rooms, err := s.roomRepo.ListByHostel(hostel.ID)
	if err != nil {
		return nil, err
	}

	basePlan := booking.RatePlan{PaymentMethod: booking.PayCash}
	results := make([]RoomAvailability, 0, len(rooms))
	for i := range rooms {
		preview, err := s.reservations.Preview(hostel.ID, rooms[i].ID, from, to, guests, basePlan)
		if err != nil {
			return nil, fmt.Errorf("checking room %s: %w", rooms[i].ID, err)
		}
		if preview.Check.Available {
			results = append(results, RoomAvailability{Room: rooms[i], Quote: preview.Quote})
		}
	}

	s.cache.Set(ctx, key, results, cache.DefaultTTL)
	return results, nil
}

// QuoteStay prices a stay in a room resolved by its type slug, applying
// the guest's rate plan.
func (s *PublicService) QuoteStay(slug, roomSlug, from, to string, guests int, plan booking.RatePlan) (*booking.Quote, error) {
	hostel, err := s.hostelRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	room, err := s.roomRepo.GetByTypeSlug(slug, roomSlug)
	if err != nil {
		return nil, err
	}
	return s.reservations.Quote(hostel.ID, room.ID, from, to, guests, plan)
}

// Book places a reservation from the public booking site. The guest's
// contact data is required; the commit workflow is the same one the
// dashboard uses.
func (s *PublicService) Book(slug string, in CreateReservationInput) (*domain.Reservation, error) {
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	hostel, err := s.hostelRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.reservations.Create(hostel.ID, in)
}

// LookupByEmail returns a guest's reservations for the "my bookings"
// page.
func (s *PublicService) LookupByEmail(email string) ([]domain.Reservation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	return s.reservations.reservationRepo.ListByEmail(email)
}
