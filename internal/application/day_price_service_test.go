package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

type dayPriceFixture struct {
	svc      *DayPriceService
	hostelID string
	roomID   string
}

func newDayPriceFixture(t *testing.T) *dayPriceFixture {
	t.Helper()

	hostels := newFakeHostelRepo()
	hostel := &domain.Hostel{Name: "Casa Muchi", Slug: "casa-muchi"}
	require.NoError(t, hostels.Create(hostel))

	rooms := newFakeRoomRepo()
	room := &domain.Room{
		HostelID: hostel.ID,
		Name:     "Dorm A",
		RoomType: &domain.RoomType{ID: "rt-1", Name: "Dorm", Slug: "dorm", Capacity: 4},
	}
	require.NoError(t, rooms.Create(room, nil))

	svc := NewDayPriceService(newFakeDayPriceRepo(), rooms, nil, zap.NewNop())
	return &dayPriceFixture{svc: svc, hostelID: hostel.ID, roomID: room.ID}
}

func TestSetPrice_AcceptsFreeNight(t *testing.T) {
	f := newDayPriceFixture(t)

	dp, err := f.svc.SetPrice(f.hostelID, f.roomID, "2026-09-10", 0, nil)

	require.NoError(t, err)
	assert.Equal(t, 0.0, dp.Price)
}

func TestSetPrice_RejectsNegativePrice(t *testing.T) {
	f := newDayPriceFixture(t)

	_, err := f.svc.SetPrice(f.hostelID, f.roomID, "2026-09-10", -1, nil)

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSetRange_AcceptsFreeNights(t *testing.T) {
	f := newDayPriceFixture(t)

	count, err := f.svc.SetRange(f.hostelID, []string{f.roomID}, "2026-09-10", "2026-09-12", 0, nil, true)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSetRange_RejectsNegativePrice(t *testing.T) {
	f := newDayPriceFixture(t)

	_, err := f.svc.SetRange(f.hostelID, []string{f.roomID}, "2026-09-10", "2026-09-12", -5, nil, true)

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSetRange_RejectsForeignRoom(t *testing.T) {
	f := newDayPriceFixture(t)

	_, err := f.svc.SetRange(f.hostelID, []string{"other-room"}, "2026-09-10", "2026-09-12", 50, nil, true)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
