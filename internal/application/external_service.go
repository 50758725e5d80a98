package application

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/booking"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// ExternalService is the surface the channel manager talks to: booking
// ingestion plus availability and price feeds.
type ExternalService struct {
	connectionRepo domain.ChannelConnectionRepository
	syncRepo       domain.ChannelSyncRepository
	roomRepo       domain.RoomRepository
	dayPriceRepo   domain.DayPriceRepository
	channels       *ChannelService
	reservations   *ReservationService
	logger         *zap.Logger
}

// NewExternalService creates the channel-manager facing service.
func NewExternalService(
	connectionRepo domain.ChannelConnectionRepository,
	syncRepo domain.ChannelSyncRepository,
	roomRepo domain.RoomRepository,
	dayPriceRepo domain.DayPriceRepository,
	channels *ChannelService,
	reservations *ReservationService,
	logger *zap.Logger,
) *ExternalService {
	return &ExternalService{
		connectionRepo: connectionRepo,
		syncRepo:       syncRepo,
		roomRepo:       roomRepo,
		dayPriceRepo:   dayPriceRepo,
		channels:       channels,
		reservations:   reservations,
		logger:         logger,
	}
}

// IngestBooking stages an external booking and tries to materialize it
// into a reservation. The operation is idempotent on externalResID:
// re-posting the same id returns the existing staged record untouched.
func (s *ExternalService) IngestBooking(connectionID, externalResID string, payload json.RawMessage) (*domain.ChannelReservationSync, error) {
	if externalResID == "" {
		return nil, fmt.Errorf("%w: external reservation id is required", domain.ErrInvalidInput)
	}

	if existing, err := s.syncRepo.GetByExternalResID(externalResID); err == nil {
		s.logger.Info("duplicate external booking ignored",
			zap.String("external_res_id", externalResID),
			zap.String("sync_id", existing.ID))
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	conn, err := s.connectionRepo.GetByID(connectionID)
	if err != nil {
		return nil, fmt.Errorf("resolving connection: %w", err)
	}
	if !conn.Enabled {
		return nil, fmt.Errorf("%w: connection is disabled", domain.ErrConflict)
	}

	sync := &domain.ChannelReservationSync{
		ConnectionID:  conn.ID,
		ExternalResID: externalResID,
		Status:        domain.SyncConfirmed,
		RawData:       payload,
		Connection:    conn,
	}
	if err := s.syncRepo.Create(sync); err != nil {
		return nil, err
	}

	// Materialization failure leaves the record in error state for a
	// later retry; the ingestion itself succeeded.
	if err := s.channels.Materialize(sync); err != nil {
		s.logger.Warn("external booking staged but not materialized",
			zap.String("external_res_id", externalResID), zap.Error(err))
	}
	return s.syncRepo.GetByID(sync.ID)
}

// ExternalRoomDay is one day of the availability feed for one room.
type ExternalRoomDay struct {
	Date     string  `json:"date"`
	Free     int     `json:"free"`
	Price    float64 `json:"price"`
	Bookable bool    `json:"bookable"`
}

// ExternalRoomFeed is the feed of one room, keyed for the channel by
// the assigned external room id when present.
type ExternalRoomFeed struct {
	RoomID         string            `json:"roomId"`
	ExternalRoomID string            `json:"externalRoomId,omitempty"`
	Days           []ExternalRoomDay `json:"days"`
}

// AvailabilityFeed reports free places and prices per room per day for
// the connection's hostel, so the channel can keep its own calendar in
// step.
func (s *ExternalService) AvailabilityFeed(connectionID, from, to string) ([]ExternalRoomFeed, error) {
	conn, err := s.connectionRepo.GetByID(connectionID)
	if err != nil {
		return nil, fmt.Errorf("resolving connection: %w", err)
	}

	calendars, err := s.reservations.Calendar(conn.HostelID, from, to)
	if err != nil {
		return nil, err
	}

	feed := make([]ExternalRoomFeed, 0, len(calendars))
	for _, cal := range calendars {
		entry := ExternalRoomFeed{RoomID: cal.Room.ID}
		if cal.Room.ExternalRoomID != nil {
			entry.ExternalRoomID = *cal.Room.ExternalRoomID
		}
		for _, day := range cal.Days {
			entry.Days = append(entry.Days, ExternalRoomDay{
				Date:     day.Date,
				Free:     day.Free,
				Price:    day.Price,
				Bookable: day.Bookable,
			})
		}
		feed = append(feed, entry)
	}
	return feed, nil
}

// PriceFeed reports the active price rows of one room for the channel.
func (s *ExternalService) PriceFeed(connectionID, roomID, from, to string) ([]domain.DayPrice, error) {
	conn, err := s.connectionRepo.GetByID(connectionID)
	if err != nil {
		return nil, fmt.Errorf("resolving connection: %w", err)
	}
	fromDate, toDate, err := booking.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	if _, err := s.roomRepo.GetByID(roomID, conn.HostelID); err != nil {
		return nil, fmt.Errorf("resolving room: %w", err)
	}
	return s.dayPriceRepo.GetRange(roomID, fromDate, toDate)
}

// AssignExternalRoomID maps a local room to the channel's room id so
// future bookings can reference it.
func (s *ExternalService) AssignExternalRoomID(connectionID, roomID, externalRoomID string) error {
	if externalRoomID == "" {
		return fmt.Errorf("%w: external room id is required", domain.ErrInvalidInput)
	}
	conn, err := s.connectionRepo.GetByID(connectionID)
	if err != nil {
		return fmt.Errorf("resolving connection: %w", err)
	}
	if _, err := s.roomRepo.GetByID(roomID, conn.HostelID); err != nil {
		return fmt.Errorf("resolving room: %w", err)
	}
	return s.roomRepo.AssignExternalID(roomID, externalRoomID)
}
