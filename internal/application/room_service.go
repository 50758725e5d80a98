package application

import (
	"fmt"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type RoomService struct {
	roomRepo     domain.RoomRepository
	roomTypeRepo domain.RoomTypeRepository
	featureRepo  domain.RoomFeatureRepository
}

// NewRoomService creates the room catalog service.
func NewRoomService(roomRepo domain.RoomRepository, roomTypeRepo domain.RoomTypeRepository, featureRepo domain.RoomFeatureRepository) *RoomService {
	return &RoomService{
		roomRepo:     roomRepo,
		roomTypeRepo: roomTypeRepo,
		featureRepo:  featureRepo,
	}
}

// CreateRoom adds a room to the hostel, validating the room type first.
func (s *RoomService) CreateRoom(room *domain.Room, featureIDs []string) error {
	if room.Name == "" || room.RoomTypeID == "" {
		return fmt.Errorf("%w: name and room type are required", domain.ErrInvalidInput)
	}
	if _, err := s.roomTypeRepo.GetByID(room.RoomTypeID); err != nil {
		return fmt.Errorf("resolving room type: %w", err)
	}
	return s.roomRepo.Create(room, featureIDs)
}

// GetRoom loads one room of the hostel.
func (s *RoomService) GetRoom(id, hostelID string) (*domain.Room, error) {
	return s.roomRepo.GetByID(id, hostelID)
}

// ListRooms returns every room of the hostel.
func (s *RoomService) ListRooms(hostelID string) ([]domain.Room, error) {
	return s.roomRepo.ListByHostel(hostelID)
}

// UpdateRoom modifies a room. featureIDs nil leaves features untouched.
func (s *RoomService) UpdateRoom(room *domain.Room, featureIDs []string) error {
	if room.RoomTypeID != "" {
		if _, err := s.roomTypeRepo.GetByID(room.RoomTypeID); err != nil {
			return fmt.Errorf("resolving room type: %w", err)
		}
	}
	return s.roomRepo.Update(room, featureIDs)
}

// DeleteRoom removes a room from the hostel.
func (s *RoomService) DeleteRoom(id, hostelID string) error {
	return s.roomRepo.Delete(id, hostelID)
}

// CreateRoomType adds a sellable room category. The slug defaults to a
// slugified name.
func (s *RoomService) CreateRoomType(rt *domain.RoomType) error {
	if rt.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if rt.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if rt.Slug == "" {
		rt.Slug = Slugify(rt.Name)
	}
	return s.roomTypeRepo.Create(rt)
}

// ListRoomTypes returns the room type catalog.
func (s *RoomService) ListRoomTypes() ([]domain.RoomType, error) {
	return s.roomTypeRepo.List()
}

// UpdateRoomType modifies a room type.
func (s *RoomService) UpdateRoomType(rt *domain.RoomType) error {
	if rt.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	return s.roomTypeRepo.Update(rt)
}

// CreateFeature adds a feature tag.
func (s *RoomService) CreateFeature(f *domain.RoomFeature) error {
	if f.Slug == "" {
		return fmt.Errorf("%w: slug is required", domain.ErrInvalidInput)
	}
	f.Slug = Slugify(f.Slug)
	return s.featureRepo.Create(f)
}

// ListFeatures returns the feature catalog.
func (s *RoomService) ListFeatures() ([]domain.RoomFeature, error) {
	return s.featureRepo.List()
}

// DeleteFeature removes a feature tag.
func (s *RoomService) DeleteFeature(id string) error {
	return s.featureRepo.Delete(id)
}
