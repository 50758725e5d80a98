package application

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/booking"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// ChannelService manages sales channels, hostel connections and the
// staged-booking sync log.
type ChannelService struct {
	channelRepo    domain.ChannelRepository
	connectionRepo domain.ChannelConnectionRepository
	syncRepo       domain.ChannelSyncRepository
	roomRepo       domain.RoomRepository
	reservations   *ReservationService
	logger         *zap.Logger
}

// NewChannelService creates the channel manager service.
func NewChannelService(
	channelRepo domain.ChannelRepository,
	connectionRepo domain.ChannelConnectionRepository,
	syncRepo domain.ChannelSyncRepository,
	roomRepo domain.RoomRepository,
	reservations *ReservationService,
	logger *zap.Logger,
) *ChannelService {
	return &ChannelService{
		channelRepo:    channelRepo,
		connectionRepo: connectionRepo,
		syncRepo:       syncRepo,
		roomRepo:       roomRepo,
		reservations:   reservations,
		logger:         logger,
	}
}

// CreateChannel registers a sales channel. Superadmin only at the
// boundary.
func (s *ChannelService) CreateChannel(c *domain.Channel) error {
	if c.Name == "" || c.Code == "" {
		return fmt.Errorf("%w: name and code are required", domain.ErrInvalidInput)
	}
	c.Code = Slugify(c.Code)
	return s.channelRepo.Create(c)
}

// ListChannels returns the channel catalog.
func (s *ChannelService) ListChannels() ([]domain.Channel, error) {
	return s.channelRepo.List()
}

// Connect links the hostel to a channel.
func (s *ChannelService) Connect(conn *domain.ChannelConnection) error {
	if conn.HostelID == "" || conn.ChannelID == "" {
		return fmt.Errorf("%w: hostel and channel are required", domain.ErrInvalidInput)
	}
	if _, err := s.channelRepo.GetByID(conn.ChannelID); err != nil {
		return fmt.Errorf("resolving channel: %w", err)
	}
	conn.Enabled = true
	return s.connectionRepo.Create(conn)
}

// GetConnection loads a connection enforcing tenant ownership.
func (s *ChannelService) GetConnection(id, hostelID string) (*domain.ChannelConnection, error) {
	conn, err := s.connectionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if conn.HostelID != hostelID {
		return nil, domain.ErrNotFound
	}
	return conn, nil
}

// ListConnections returns the hostel's channel connections.
func (s *ChannelService) ListConnections(hostelID string) ([]domain.ChannelConnection, error) {
	return s.connectionRepo.ListByHostel(hostelID)
}

// UpdateConnection modifies credentials, external id or the enabled
// flag.
func (s *ChannelService) UpdateConnection(conn *domain.ChannelConnection, hostelID string) error {
	existing, err := s.GetConnection(conn.ID, hostelID)
	if err != nil {
		return err
	}
	conn.HostelID = existing.HostelID
	conn.ChannelID = existing.ChannelID
	return s.connectionRepo.Update(conn)
}

// Disconnect removes a channel connection.
func (s *ChannelService) Disconnect(id, hostelID string) error {
	if _, err := s.GetConnection(id, hostelID); err != nil {
		return err
	}
	return s.connectionRepo.Delete(id)
}

// SyncLog returns a page of staged bookings for the hostel.
func (s *ChannelService) SyncLog(filter domain.SyncLogFilter, page, limit int) (*domain.SyncLogPage, error) {
	return s.syncRepo.ListPaged(filter, page, limit)
}

// GetSync loads one staged booking enforcing tenant ownership.
func (s *ChannelService) GetSync(id, hostelID string) (*domain.ChannelReservationSync, error) {
	sync, err := s.syncRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sync.Connection == nil || sync.Connection.HostelID != hostelID {
		return nil, domain.ErrNotFound
	}
	return sync, nil
}

// RetrySync re-runs materialization of a staged booking that previously
// errored. Already-synced records are left alone.
func (s *ChannelService) RetrySync(id, hostelID string) (*domain.ChannelReservationSync, error) {
	sync, err := s.GetSync(id, hostelID)
	if err != nil {
		return nil, err
	}
	if sync.Status == domain.SyncSynced {
		return nil, fmt.Errorf("%w: booking already synced", domain.ErrConflict)
	}
	if err := s.Materialize(sync); err != nil {
		return nil, err
	}
	return s.syncRepo.GetByID(id)
}

// Materialize turns a staged booking into a committed reservation. The
// booking runs through the same availability and pricing workflow as
// every other flow; failures mark the staged record instead of being
// dropped.
func (s *ChannelService) Materialize(sync *domain.ChannelReservationSync) error {
	raw, err := sync.Booking()
	if err != nil {
		s.markError(sync.ID, fmt.Sprintf("malformed payload: %v", err))
		return fmt.Errorf("%w: malformed booking payload", domain.ErrInvalidInput)
	}

	hostelID := sync.Connection.HostelID
	room, err := s.resolveRoom(hostelID, raw.RoomID)
	if err != nil {
		s.markError(sync.ID, fmt.Sprintf("unknown room %q", raw.RoomID))
		return err
	}

	res, err := s.reservations.Create(hostelID, CreateReservationInput{
		RoomID:    room.ID,
		From:      raw.StartDate,
		To:        raw.EndDate,
		Guests:    raw.Guests,
		Name:      raw.Name,
		Email:     raw.Email,
		Plan:      booking.RatePlan{PaymentMethod: booking.PayCash},
		SkipEmail: true,
	})
	if err != nil {
		s.markError(sync.ID, err.Error())
		return err
	}

	if err := s.syncRepo.MarkSynced(sync.ID, res.ID); err != nil {
		return fmt.Errorf("marking booking synced: %w", err)
	}
	s.logger.Info("external booking materialized",
		zap.String("sync_id", sync.ID),
		zap.String("reservation_id", res.ID),
		zap.String("external_res_id", sync.ExternalResID))
	return nil
}

// resolveRoom matches a channel room reference against local ids first,
// then against assigned external room ids.
func (s *ChannelService) resolveRoom(hostelID, ref string) (*domain.Room, error) {
	if room, err := s.roomRepo.GetByID(ref, hostelID); err == nil {
		return room, nil
	}
	rooms, err := s.roomRepo.ListByHostel(hostelID)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	for i := range rooms {
		if rooms[i].ExternalRoomID != nil && *rooms[i].ExternalRoomID == ref {
			return &rooms[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *ChannelService) markError(id, reason string) {
	if err := s.syncRepo.MarkError(id, reason); err != nil {
		s.logger.Error("marking sync error failed", zap.String("sync_id", id), zap.Error(err))
	}
}
