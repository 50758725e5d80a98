package application

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// In-memory fakes shared by the service tests. They implement only the
// behavior the services rely on: tenant checks, committed-guest math and
// error sentinels.

type fakeHostelRepo struct {
	hostels map[string]*domain.Hostel
}

func newFakeHostelRepo() *fakeHostelRepo {
	return &fakeHostelRepo{hostels: make(map[string]*domain.Hostel)}
}

func (f *fakeHostelRepo) Create(h *domain.Hostel) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	for _, existing := range f.hostels {
		if existing.Slug == h.Slug {
			return domain.ErrConflict
		}
	}
	h.CreatedAt = time.Now()
	f.hostels[h.ID] = h
	return nil
}

func (f *fakeHostelRepo) GetByID(id string) (*domain.Hostel, error) {
	if h, ok := f.hostels[id]; ok {
		return h, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeHostelRepo) GetBySlug(slug string) (*domain.Hostel, error) {
	for _, h := range f.hostels {
		if h.Slug == slug {
			return h, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeHostelRepo) List() ([]domain.Hostel, error) {
	out := make([]domain.Hostel, 0, len(f.hostels))
	for _, h := range f.hostels {
		out = append(out, *h)
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) ListByHostelAndRole(hostelID string, role domain.UserRole) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.HostelID == hostelID && u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeRoomRepo struct {
	rooms map[string]*domain.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: make(map[string]*domain.Room)}
}

func (f *fakeRoomRepo) Create(room *domain.Room, featureIDs []string) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) GetByID(id, hostelID string) (*domain.Room, error) {
	room, ok := f.rooms[id]
	if !ok || room.HostelID != hostelID {
		return nil, domain.ErrNotFound
	}
	return room, nil
}

func (f *fakeRoomRepo) GetByTypeSlug(hostelSlug, roomSlug string) (*domain.Room, error) {
	for _, room := range f.rooms {
		if room.RoomType != nil && room.RoomType.Slug == roomSlug {
			return room, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoomRepo) ListByHostel(hostelID string) ([]domain.Room, error) {
	var out []domain.Room
	for _, room := range f.rooms {
		if room.HostelID == hostelID {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (f *fakeRoomRepo) ListByHostelSlug(slug string) ([]domain.Room, error) {
	var out []domain.Room
	for _, room := range f.rooms {
		out = append(out, *room)
	}
	return out, nil
}

func (f *fakeRoomRepo) Update(room *domain.Room, featureIDs []string) error {
	if _, ok := f.rooms[room.ID]; !ok {
		return domain.ErrNotFound
	}
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) Delete(id, hostelID string) error {
	if _, err := f.GetByID(id, hostelID); err != nil {
		return err
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomRepo) AssignExternalID(roomID, externalRoomID string) error {
	room, ok := f.rooms[roomID]
	if !ok {
		return domain.ErrNotFound
	}
	room.ExternalRoomID = &externalRoomID
	return nil
}

type fakeDayPriceRepo struct {
	prices map[string]map[time.Time]domain.DayPrice // roomID -> day -> price
}

func newFakeDayPriceRepo() *fakeDayPriceRepo {
	return &fakeDayPriceRepo{prices: make(map[string]map[time.Time]domain.DayPrice)}
}

func (f *fakeDayPriceRepo) set(roomID string, day time.Time, price float64, capacity *int) {
	if f.prices[roomID] == nil {
		f.prices[roomID] = make(map[time.Time]domain.DayPrice)
	}
	f.prices[roomID][day] = domain.DayPrice{
		ID:                uuid.NewString(),
		RoomID:            roomID,
		Date:              day,
		Price:             price,
		AvailableCapacity: capacity,
		Active:            true,
	}
}

func (f *fakeDayPriceRepo) Upsert(dp *domain.DayPrice) error {
	f.set(dp.RoomID, dp.Date, dp.Price, dp.AvailableCapacity)
	dp.Active = true
	return nil
}

func (f *fakeDayPriceRepo) GetRange(roomID string, from, to time.Time) ([]domain.DayPrice, error) {
	var out []domain.DayPrice
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		if dp, ok := f.prices[roomID][day]; ok {
			out = append(out, dp)
		}
	}
	return out, nil
}

func (f *fakeDayPriceRepo) BulkUpsert(in domain.BulkDayPriceInput) (int, error) {
	count := 0
	for _, roomID := range in.RoomIDs {
		for day := in.From; day.Before(in.To); day = day.AddDate(0, 0, 1) {
			if _, exists := f.prices[roomID][day]; exists && !in.Overwrite {
				continue
			}
			f.set(roomID, day, in.Price, in.AvailableCapacity)
			count++
		}
	}
	return count, nil
}

func (f *fakeDayPriceRepo) Deactivate(roomID string, date time.Time, hostelID string) error {
	if _, ok := f.prices[roomID][date]; !ok {
		return domain.ErrNotFound
	}
	delete(f.prices[roomID], date)
	return nil
}

func (f *fakeDayPriceRepo) GetGridForHostel(hostelID string, from, to time.Time) ([]domain.RoomDayPrices, error) {
	var grid []domain.RoomDayPrices
	for roomID := range f.prices {
		prices, _ := f.GetRange(roomID, from, to)
		grid = append(grid, domain.RoomDayPrices{
			Room:   domain.Room{ID: roomID},
			Prices: prices,
		})
	}
	return grid, nil
}

type fakeReservationRepo struct {
	reservations map[string]*domain.Reservation
	payments     *fakePaymentRepo
}

func newFakeReservationRepo(payments *fakePaymentRepo) *fakeReservationRepo {
	return &fakeReservationRepo{
		reservations: make(map[string]*domain.Reservation),
		payments:     payments,
	}
}

func (f *fakeReservationRepo) CreateCommitted(res *domain.Reservation, capacityForDay func(day time.Time) int) error {
	committed, _ := f.CommittedGuestsByDay(res.RoomID, res.StartDate, res.EndDate)
	for day := res.StartDate; day.Before(res.EndDate); day = day.AddDate(0, 0, 1) {
		if committed[day]+res.Guests > capacityForDay(day) {
			return &domain.UnavailableError{Day: day}
		}
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.CreatedAt = time.Now()
	f.reservations[res.ID] = res
	return nil
}

func (f *fakeReservationRepo) GetByID(id, hostelID string) (*domain.Reservation, error) {
	if res, ok := f.reservations[id]; ok {
		copied := *res
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeReservationRepo) List(filter domain.ReservationFilter) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, res := range f.reservations {
		if !filter.IncludeCancelled && res.Cancelled {
			continue
		}
		if !filter.From.IsZero() && !res.EndDate.After(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !res.StartDate.Before(filter.To) {
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (f *fakeReservationRepo) ListByEmail(email string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, res := range f.reservations {
		if res.Email == email && !res.Cancelled {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) Update(id string, upd domain.ReservationUpdate) (*domain.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	res.StartDate, res.EndDate = upd.StartDate, upd.EndDate
	res.Guests = upd.Guests
	res.Name, res.Email = upd.Name, upd.Email
	res.GuestID = upd.GuestID
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) Cancel(id string) error {
	res, ok := f.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	res.Cancelled = true
	return nil
}

func (f *fakeReservationRepo) Delete(id string) error {
	if _, ok := f.reservations[id]; !ok {
		return domain.ErrNotFound
	}
	if len(f.payments.byReservation[id]) > 0 {
		return domain.ErrConflict
	}
	delete(f.reservations, id)
	return nil
}

func (f *fakeReservationRepo) CommittedGuestsByDay(roomID string, from, to time.Time) (map[time.Time]int, error) {
	committed := make(map[time.Time]int)
	for _, res := range f.reservations {
		if res.RoomID != roomID || res.Cancelled {
			continue
		}
		for day := res.StartDate; day.Before(res.EndDate); day = day.AddDate(0, 0, 1) {
			if !day.Before(from) && day.Before(to) {
				committed[day] += res.Guests
			}
		}
	}
	return committed, nil
}

func (f *fakeReservationRepo) CommittedGuestsByHostel(hostelID string, from, to time.Time) (map[string]map[time.Time]int, error) {
	out := make(map[string]map[time.Time]int)
	for _, res := range f.reservations {
		if res.Cancelled {
			continue
		}
		if out[res.RoomID] == nil {
			out[res.RoomID] = make(map[time.Time]int)
		}
		for day := res.StartDate; day.Before(res.EndDate); day = day.AddDate(0, 0, 1) {
			if !day.Before(from) && day.Before(to) {
				out[res.RoomID][day] += res.Guests
			}
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) SetPaymentStatus(id string, status domain.PaymentStatus) error {
	res, ok := f.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	res.PaymentStatus = status
	paid := 0.0
	for _, p := range f.payments.byReservation[id] {
		paid += p.Amount
	}
	res.AmountPaid = paid
	return nil
}

func (f *fakeReservationRepo) ReconcilePaymentStatuses() (int, error) {
	fixed := 0
	for id, res := range f.reservations {
		paid := 0.0
		for _, p := range f.payments.byReservation[id] {
			paid += p.Amount
		}
		status := domain.DerivePaymentStatus(paid, res.TotalPrice)
		if res.PaymentStatus != status || res.AmountPaid != paid {
			res.PaymentStatus = status
			res.AmountPaid = paid
			fixed++
		}
	}
	return fixed, nil
}

type fakePaymentRepo struct {
	byReservation map[string][]domain.ReservationPayment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byReservation: make(map[string][]domain.ReservationPayment)}
}

func (f *fakePaymentRepo) Create(p *domain.ReservationPayment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	f.byReservation[p.ReservationID] = append(f.byReservation[p.ReservationID], *p)
	return nil
}

func (f *fakePaymentRepo) ListByReservation(reservationID string) ([]domain.ReservationPayment, error) {
	return f.byReservation[reservationID], nil
}

func (f *fakePaymentRepo) SumByReservation(reservationID string) (float64, error) {
	sum := 0.0
	for _, p := range f.byReservation[reservationID] {
		sum += p.Amount
	}
	return sum, nil
}

type fakeGuestRepo struct {
	guests map[string]*domain.Guest
}

func newFakeGuestRepo() *fakeGuestRepo {
	return &fakeGuestRepo{guests: make(map[string]*domain.Guest)}
}

func (f *fakeGuestRepo) Create(g *domain.Guest) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.CreatedAt = time.Now()
	f.guests[g.ID] = g
	return nil
}

func (f *fakeGuestRepo) GetByID(id string) (*domain.Guest, error) {
	if g, ok := f.guests[id]; ok {
		return g, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGuestRepo) GetByEmail(email string) (*domain.Guest, error) {
	for _, g := range f.guests {
		if g.Email == email {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGuestRepo) Search(q string, limit int) ([]domain.Guest, error) {
	var out []domain.Guest
	for _, g := range f.guests {
		if strings.Contains(g.Name, q) || strings.Contains(g.Email, q) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGuestRepo) ListPaged(page, limit int, sort, order string) (*domain.GuestPage, error) {
	var out []domain.Guest
	for _, g := range f.guests {
		out = append(out, *g)
	}
	return &domain.GuestPage{Data: out, Total: len(out), Page: page, Limit: limit, TotalPages: 1}, nil
}

func (f *fakeGuestRepo) Update(g *domain.Guest) error {
	if _, ok := f.guests[g.ID]; !ok {
		return domain.ErrNotFound
	}
	f.guests[g.ID] = g
	return nil
}

func (f *fakeGuestRepo) Delete(id string) error {
	if _, ok := f.guests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.guests, id)
	return nil
}

type fakeSyncRepo struct {
	syncs map[string]*domain.ChannelReservationSync
}

func newFakeSyncRepo() *fakeSyncRepo {
	return &fakeSyncRepo{syncs: make(map[string]*domain.ChannelReservationSync)}
}

func (f *fakeSyncRepo) Create(s *domain.ChannelReservationSync) error {
	for _, existing := range f.syncs {
		if existing.ExternalResID == s.ExternalResID {
			return domain.ErrConflict
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now()
	f.syncs[s.ID] = s
	return nil
}

func (f *fakeSyncRepo) GetByID(id string) (*domain.ChannelReservationSync, error) {
	if s, ok := f.syncs[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSyncRepo) GetByExternalResID(externalResID string) (*domain.ChannelReservationSync, error) {
	for _, s := range f.syncs {
		if s.ExternalResID == externalResID {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSyncRepo) ListPaged(filter domain.SyncLogFilter, page, limit int) (*domain.SyncLogPage, error) {
	var items []domain.ChannelReservationSync
	for _, s := range f.syncs {
		if filter.Status != "" && string(s.Status) != filter.Status {
			continue
		}
		items = append(items, *s)
	}
	return &domain.SyncLogPage{Total: len(items), Page: page, Limit: limit, Items: items}, nil
}

func (f *fakeSyncRepo) ListSyncedByHostel(hostelID string) ([]domain.ChannelReservationSync, error) {
	var items []domain.ChannelReservationSync
	for _, s := range f.syncs {
		if s.Status == domain.SyncSynced {
			items = append(items, *s)
		}
	}
	return items, nil
}

func (f *fakeSyncRepo) MarkSynced(id, reservationID string) error {
	s, ok := f.syncs[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = domain.SyncSynced
	s.ReservationID = &reservationID
	s.ErrorMessage = ""
	return nil
}

func (f *fakeSyncRepo) MarkError(id, reason string) error {
	s, ok := f.syncs[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = domain.SyncError
	s.ErrorMessage = reason
	return nil
}

type fakeConnectionRepo struct {
	connections map[string]*domain.ChannelConnection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{connections: make(map[string]*domain.ChannelConnection)}
}

func (f *fakeConnectionRepo) Create(c *domain.ChannelConnection) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now()
	f.connections[c.ID] = c
	return nil
}

func (f *fakeConnectionRepo) GetByID(id string) (*domain.ChannelConnection, error) {
	if c, ok := f.connections[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConnectionRepo) ListByHostel(hostelID string) ([]domain.ChannelConnection, error) {
	var out []domain.ChannelConnection
	for _, c := range f.connections {
		if c.HostelID == hostelID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConnectionRepo) Update(c *domain.ChannelConnection) error {
	if _, ok := f.connections[c.ID]; !ok {
		return domain.ErrNotFound
	}
	f.connections[c.ID] = c
	return nil
}

func (f *fakeConnectionRepo) Delete(id string) error {
	if _, ok := f.connections[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.connections, id)
	return nil
}
