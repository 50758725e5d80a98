package application

import (
	"fmt"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type HostelService struct {
	hostelRepo domain.HostelRepository
}

// NewHostelService creates the hostel service.
func NewHostelService(hostelRepo domain.HostelRepository) *HostelService {
	return &HostelService{hostelRepo: hostelRepo}
}

// List returns every hostel. Superadmin only at the boundary.
func (s *HostelService) List() ([]domain.Hostel, error) {
	return s.hostelRepo.List()
}

// GetByID loads one hostel.
func (s *HostelService) GetByID(id string) (*domain.Hostel, error) {
	return s.hostelRepo.GetByID(id)
}

// GetBySlug resolves the public identifier used by the booking site.
func (s *HostelService) GetBySlug(slug string) (*domain.Hostel, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", domain.ErrInvalidInput)
	}
	return s.hostelRepo.GetBySlug(slug)
}
