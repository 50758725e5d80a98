package domain

import (
	"encoding/json"
	"time"
)

// SyncStatus is the lifecycle of a staged external booking.
type SyncStatus string

const (
	SyncConfirmed SyncStatus = "confirmed"
	SyncSynced    SyncStatus = "synced"
	SyncError     SyncStatus = "error"
)

// Channel is an external sales channel (an OTA such as a booking site).
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ChannelConnection links a hostel to a channel, carrying the
// credentials the channel manager uses to push bookings.
type ChannelConnection struct {
	ID          string          `json:"id"`
	HostelID    string          `json:"hostelId"`
	ChannelID   string          `json:"channelId"`
	ExternalID  string          `json:"externalId,omitempty"`
	Credentials json.RawMessage `json:"credentials,omitempty"`
	Enabled     bool            `json:"enabled"`
	CreatedAt   time.Time       `json:"createdAt"`
	Channel     *Channel        `json:"channel,omitempty"`
	Hostel      *Hostel         `json:"hostel,omitempty"`
}

// RawBookingData is the payload a channel pushes for one reservation.
type RawBookingData struct {
	RoomID    string `json:"roomId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Guests    int    `json:"guests"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// ChannelReservationSync stages an external booking before it is
// materialized into a Reservation. ExternalResID makes ingestion
// idempotent: re-posting the same id never creates a second row.
type ChannelReservationSync struct {
	ID            string          `json:"id"`
	ConnectionID  string          `json:"connectionId"`
	ExternalResID string          `json:"externalResId"`
	Status        SyncStatus      `json:"status"`
	RawData       json.RawMessage `json:"rawData"`
	ReservationID *string         `json:"reservationId,omitempty"`
	ErrorMessage  string          `json:"errorMessage,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	Connection    *ChannelConnection `json:"connection,omitempty"`
}

// Booking decodes the staged raw payload.
func (s *ChannelReservationSync) Booking() (*RawBookingData, error) {
	var raw RawBookingData
	if err := json.Unmarshal(s.RawData, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// SyncLogFilter narrows sync log listings.
type SyncLogFilter struct {
	HostelID      string
	Status        string
	ExternalResID string
}

// SyncLogPage is a paginated sync log listing.
type SyncLogPage struct {
	Total int                      `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
	Items []ChannelReservationSync `json:"items"`
}

// ChannelRepository defines the persistence operations for channels.
type ChannelRepository interface {
	Create(c *Channel) error
	List() ([]Channel, error)
	GetByID(id string) (*Channel, error)
}

// ChannelConnectionRepository defines the persistence operations for
// hostel-channel connections.
type ChannelConnectionRepository interface {
	Create(c *ChannelConnection) error
	GetByID(id string) (*ChannelConnection, error)
	ListByHostel(hostelID string) ([]ChannelConnection, error)
	Update(c *ChannelConnection) error
	Delete(id string) error
}

// ChannelSyncRepository defines the persistence operations for staged
// external bookings.
type ChannelSyncRepository interface {
	Create(s *ChannelReservationSync) error
	GetByID(id string) (*ChannelReservationSync, error)
	GetByExternalResID(externalResID string) (*ChannelReservationSync, error)
	ListPaged(filter SyncLogFilter, page, limit int) (*SyncLogPage, error)
	ListSyncedByHostel(hostelID string) ([]ChannelReservationSync, error)
	MarkSynced(id, reservationID string) error
	MarkError(id, reason string) error
}
