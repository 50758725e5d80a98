package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/booking"
	"github.com/ezequieldarevalo/totalhub-backend/internal/cache"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type DayPriceService struct {
	dayPriceRepo domain.DayPriceRepository
	roomRepo     domain.RoomRepository
	cache        *cache.Cache
	logger       *zap.Logger
}

// NewDayPriceService creates the pricing calendar service.
func NewDayPriceService(dayPriceRepo domain.DayPriceRepository, roomRepo domain.RoomRepository, c *cache.Cache, logger *zap.Logger) *DayPriceService {
	return &DayPriceService{
		dayPriceRepo: dayPriceRepo,
		roomRepo:     roomRepo,
		cache:        c,
		logger:       logger,
	}
}

// SetPrice creates or replaces the price row for one room and day.
func (s *DayPriceService) SetPrice(hostelID, roomID, day string, price float64, availableCapacity *int) (*domain.DayPrice, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if availableCapacity != nil && *availableCapacity < 0 {
		return nil, fmt.Errorf("%w: capacity override cannot be negative", domain.ErrInvalidInput)
	}
	date, err := booking.ParseDay(day)
	if err != nil {
		return nil, err
	}
	if _, err := s.roomRepo.GetByID(roomID, hostelID); err != nil {
		return nil, fmt.Errorf("resolving room: %w", err)
	}

	dp := &domain.DayPrice{
		RoomID:            roomID,
		Date:              date,
		Price:             price,
		AvailableCapacity: availableCapacity,
	}
	if err := s.dayPriceRepo.Upsert(dp); err != nil {
		return nil, err
	}
	s.invalidatePublic(hostelID)
	return dp, nil
}

// SetRange fills [from, to) for a set of rooms with one price. Every
// room must belong to the hostel or nothing is written.
func (s *DayPriceService) SetRange(hostelID string, roomIDs []string, from, to string, price float64, availableCapacity *int, overwrite bool) (int, error) {
	if len(roomIDs) == 0 {
		return 0, fmt.Errorf("%w: at least one room is required", domain.ErrInvalidInput)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	fromDate, toDate, err := booking.ParseRange(from, to)
	if err != nil {
		return 0, err
	}
	for _, roomID := range roomIDs {
		if _, err := s.roomRepo.GetByID(roomID, hostelID); err != nil {
			return 0, fmt.Errorf("resolving room %s: %w", roomID, err)
		}
	}

	count, err := s.dayPriceRepo.BulkUpsert(domain.BulkDayPriceInput{
		RoomIDs:           roomIDs,
		From:              fromDate,
		To:                toDate,
		Price:             price,
		AvailableCapacity: availableCapacity,
		Overwrite:         overwrite,
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("bulk price fill applied",
		zap.String("hostel_id", hostelID), zap.Int("rooms", len(roomIDs)), zap.Int("rows", count))
	s.invalidatePublic(hostelID)
	return count, nil
}

// RemovePrice deactivates the price row for one room and day, making
// that night unbookable.
func (s *DayPriceService) RemovePrice(hostelID, roomID, day string) error {
	date, err := booking.ParseDay(day)
	if err != nil {
		return err
	}
	if err := s.dayPriceRepo.Deactivate(roomID, date, hostelID); err != nil {
		return err
	}
	s.invalidatePublic(hostelID)
	return nil
}

// GetRoomPrices returns the active price rows of one room in [from, to).
func (s *DayPriceService) GetRoomPrices(hostelID, roomID, from, to string) ([]domain.DayPrice, error) {
	fromDate, toDate, err := booking.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	if _, err := s.roomRepo.GetByID(roomID, hostelID); err != nil {
		return nil, fmt.Errorf("resolving room: %w", err)
	}
	return s.dayPriceRepo.GetRange(roomID, fromDate, toDate)
}

// GetGrid returns the room x day price matrix of the hostel.
func (s *DayPriceService) GetGrid(hostelID, from, to string) ([]domain.RoomDayPrices, error) {
	fromDate, toDate, err := booking.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.dayPriceRepo.GetGridForHostel(hostelID, fromDate, toDate)
}

func (s *DayPriceService) invalidatePublic(hostelID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.cache.InvalidatePrefix(ctx, "public:"+hostelID)
}
