package domain

// RoomType describes a sellable category of room: its public name, the
// slug used on the booking site and the number of guests it sleeps.
type RoomType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Capacity int    `json:"capacity"`
}

// RoomFeature is a tag attachable to rooms (e.g. "private-bathroom").
type RoomFeature struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// Room is one bookable unit of a hostel. Capacity comes from the room
// type unless a day price overrides it for a specific date.
type Room struct {
	ID             string        `json:"id"`
	HostelID       string        `json:"hostelId"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	RoomTypeID     string        `json:"roomTypeId"`
	ExternalRoomID *string       `json:"externalRoomId,omitempty"`
	RoomType       *RoomType     `json:"roomType,omitempty"`
	Features       []RoomFeature `json:"features,omitempty"`
}

// Capacity returns the default guests-per-night capacity of the room.
func (r *Room) Capacity() int {
	if r.RoomType == nil {
		return 0
	}
	return r.RoomType.Capacity
}

// RoomRepository defines the persistence operations for rooms. All
// lookups taking a hostelID enforce tenant isolation.
type RoomRepository interface {
	Create(room *Room, featureIDs []string) error
	GetByID(id, hostelID string) (*Room, error)
	GetByTypeSlug(hostelSlug, roomSlug string) (*Room, error)
	ListByHostel(hostelID string) ([]Room, error)
	ListByHostelSlug(slug string) ([]Room, error)
	Update(room *Room, featureIDs []string) error
	Delete(id, hostelID string) error
	AssignExternalID(roomID, externalRoomID string) error
}

// RoomTypeRepository defines the persistence operations for room types.
type RoomTypeRepository interface {
	Create(rt *RoomType) error
	GetByID(id string) (*RoomType, error)
	List() ([]RoomType, error)
	Update(rt *RoomType) error
}

// RoomFeatureRepository defines the persistence operations for features.
type RoomFeatureRepository interface {
	Create(f *RoomFeature) error
	List() ([]RoomFeature, error)
	Delete(id string) error
}
