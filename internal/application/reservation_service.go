package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/booking"
	"github.com/ezequieldarevalo/totalhub-backend/internal/cache"
	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
	"github.com/ezequieldarevalo/totalhub-backend/internal/email"
)

// CreateReservationInput is the admin-side booking request.
type CreateReservationInput struct {
	RoomID         string
	From           string
	To             string
	Guests         int
	Name           string
	Email          string
	Plan           booking.RatePlan
	InitialPayment float64
	Language       string
	SkipEmail      bool
}

// StayPreview is the answer to "can I book this and what would it cost".
type StayPreview struct {
	Check booking.RangeCheck `json:"check"`
	Quote *booking.Quote     `json:"quote,omitempty"`
}

// DayOccupancy is one cell of the occupancy calendar.
type DayOccupancy struct {
	Date      string  `json:"date"`
	Capacity  int     `json:"capacity"`
	Committed int     `json:"committed"`
	Free      int     `json:"free"`
	Bookable  bool    `json:"bookable"`
	Price     float64 `json:"price,omitempty"`
}

// RoomCalendar is the occupancy calendar of one room.
type RoomCalendar struct {
	Room domain.Room    `json:"room"`
	Days []DayOccupancy `json:"days"`
}

// IncomeDay is one day of the income report. Income spreads each
// reservation's total evenly over its nights.
type IncomeDay struct {
	Date   string  `json:"date"`
	Income float64 `json:"income"`
}

// IncomeReport aggregates booked revenue over a date range.
type IncomeReport struct {
	Total float64     `json:"total"`
	Days  []IncomeDay `json:"days"`
}

// OccupancyReport aggregates occupancy over a date range.
type OccupancyReport struct {
	AverageRate float64        `json:"averageRate"`
	Days        []DayOccupancy `json:"days"`
}

type ReservationService struct {
	reservationRepo domain.ReservationRepository
	roomRepo        domain.RoomRepository
	dayPriceRepo    domain.DayPriceRepository
	paymentRepo     domain.PaymentRepository
	guestRepo       domain.GuestRepository
	hostelRepo      domain.HostelRepository
	emailClient     *email.Client
	cache           *cache.Cache
	logger          *zap.Logger
}

// NewReservationService creates the reservation service.
func NewReservationService(
	reservationRepo domain.ReservationRepository,
	roomRepo domain.RoomRepository,
	dayPriceRepo domain.DayPriceRepository,
	paymentRepo domain.PaymentRepository,
	guestRepo domain.GuestRepository,
	hostelRepo domain.HostelRepository,
	emailClient *email.Client,
	c *cache.Cache,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		dayPriceRepo:    dayPriceRepo,
		paymentRepo:     paymentRepo,
		guestRepo:       guestRepo,
		hostelRepo:      hostelRepo,
		emailClient:     emailClient,
		cache:           c,
		logger:          logger,
	}
}

// Preview checks availability and prices the stay without committing
// anything. The quote is only produced when the range is bookable.
func (s *ReservationService) Preview(hostelID, roomID, from, to string, guests int, plan booking.RatePlan) (*StayPreview, error) {
	room, days, prices, committed, err := s.loadStay(hostelID, roomID, from, to, guests)
	if err != nil {
		return nil, err
	}

	check := booking.CheckRange(days, prices, committed, room.Capacity(), guests)
	preview := &StayPreview{Check: check}
	if check.Available {
		quote, err := booking.PriceStay(days, prices, guests, plan)
		if err != nil {
			return nil, err
		}
		preview.Quote = quote
	}
	return preview, nil
}

// Quote prices a stay without an availability check, for rate browsing.
func (s *ReservationService) Quote(hostelID, roomID, from, to string, guests int, plan booking.RatePlan) (*booking.Quote, error) {
	_, days, prices, _, err := s.loadStay(hostelID, roomID, from, to, guests)
	if err != nil {
		return nil, err
	}
	return booking.PriceStay(days, prices, guests, plan)
}

// Create books a room. Availability is checked up front for a fast
// answer, then re-asserted inside the insert transaction, which is the
// authoritative check under concurrency.
func (s *ReservationService) Create(hostelID string, in CreateReservationInput) (*domain.Reservation, error) {
	room, days, prices, committed, err := s.loadStay(hostelID, in.RoomID, in.From, in.To, in.Guests)
	if err != nil {
		return nil, err
	}
	if err := booking.AssertAvailable(days, prices, committed, room.Capacity(), in.Guests); err != nil {
		return nil, err
	}
	quote, err := booking.PriceStay(days, prices, in.Guests, in.Plan)
	if err != nil {
		return nil, err
	}

	res := &domain.Reservation{
		RoomID:        room.ID,
		RoomName:      room.Name,
		StartDate:     days[0],
		EndDate:       days[len(days)-1].AddDate(0, 0, 1),
		Guests:        in.Guests,
		Name:          in.Name,
		Email:         in.Email,
		TotalPrice:    quote.Total,
		PaymentStatus: domain.PaymentPending,
	}
	res.GuestID = s.guestIDFor(in.Name, in.Email)

	capacityForDay := func(day time.Time) int {
		return booking.CapacityForDay(prices[day], room.Capacity())
	}
	if err := s.reservationRepo.CreateCommitted(res, capacityForDay); err != nil {
		return nil, err
	}

	if in.InitialPayment > 0 {
		if err := s.registerPayment(res, in.InitialPayment); err != nil {
			// The reservation stands; the caller retries the payment.
			s.logger.Error("initial payment failed after booking",
				zap.String("reservation_id", res.ID), zap.Error(err))
		}
	}

	s.invalidatePublic(hostelID)
	if !in.SkipEmail && res.Email != "" {
		go s.sendConfirmation(hostelID, room, res, in.Language)
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("room_id", room.ID),
		zap.Int("guests", res.Guests))
	return res, nil
}

// loadStay resolves the room within the tenant and loads the pricing and
// occupancy state every booking decision needs.
func (s *ReservationService) loadStay(hostelID, roomID, from, to string, guests int) (*domain.Room, []time.Time, map[time.Time]domain.DayPrice, map[time.Time]int, error) {
	if guests <= 0 {
		return nil, nil, nil, nil, fmt.Errorf("%w: guests must be positive", domain.ErrInvalidInput)
	}
	room, err := s.roomRepo.GetByID(roomID, hostelID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("resolving room: %w", err)
	}
	fromDate, toDate, err := booking.ParseRange(from, to)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	days := booking.DaysInRange(fromDate, toDate)

	priceRows, err := s.dayPriceRepo.GetRange(room.ID, fromDate, toDate)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading prices: %w", err)
	}
	committed, err := s.reservationRepo.CommittedGuestsByDay(room.ID, fromDate, toDate)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading occupancy: %w", err)
	}
	return room, days, booking.PriceMap(priceRows), committed, nil
}

// guestIDFor finds the guest record behind a booking email, creating it
// when the email is new and the booking carries a name. Guest linkage is
// best effort: lookup or creation failures never fail a booking.
func (s *ReservationService) guestIDFor(name, guestEmail string) *string {
	if guestEmail == "" {
		return nil
	}
	guestEmail = strings.ToLower(guestEmail)
	guest, err := s.guestRepo.GetByEmail(guestEmail)
	if err == nil {
		return &guest.ID
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("guest lookup failed", zap.String("email", guestEmail), zap.Error(err))
		return nil
	}
	if name == "" {
		return nil
	}
	created := &domain.Guest{Name: name, Email: guestEmail}
	if err := s.guestRepo.Create(created); err != nil {
		s.logger.Warn("guest creation failed", zap.String("email", guestEmail), zap.Error(err))
		return nil
	}
	return &created.ID
}

// Get loads one reservation of the hostel.
func (s *ReservationService) Get(id, hostelID string) (*domain.Reservation, error) {
	return s.reservationRepo.GetByID(id, hostelID)
}

// List returns reservations matching the filter.
func (s *ReservationService) List(filter domain.ReservationFilter) ([]domain.Reservation, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.To.After(filter.From) {
		return nil, fmt.Errorf("%w: to must be after from", domain.ErrInvalidRange)
	}
	return s.reservationRepo.List(filter)
}

// Update changes the stay of a reservation after re-checking that the
// new range fits. The reservation's own guests are excluded from the
// occupancy it is checked against.
func (s *ReservationService) Update(id, hostelID string, upd domain.ReservationUpdate) (*domain.Reservation, error) {
	current, err := s.reservationRepo.GetByID(id, hostelID)
	if err != nil {
		return nil, err
	}
	if current.Cancelled {
		return nil, fmt.Errorf("%w: reservation is cancelled", domain.ErrConflict)
	}
	if upd.Guests <= 0 {
		return nil, fmt.Errorf("%w: guests must be positive", domain.ErrInvalidInput)
	}
	if !upd.EndDate.After(upd.StartDate) {
		return nil, fmt.Errorf("%w: checkout must be after checkin", domain.ErrInvalidRange)
	}

	room, err := s.roomRepo.GetByID(current.RoomID, hostelID)
	if err != nil {
		return nil, fmt.Errorf("resolving room: %w", err)
	}
	from, to := booking.Day(upd.StartDate), booking.Day(upd.EndDate)
	days := booking.DaysInRange(from, to)

	priceRows, err := s.dayPriceRepo.GetRange(room.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading prices: %w", err)
	}
	committed, err := s.reservationRepo.CommittedGuestsByDay(room.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading occupancy: %w", err)
	}
	// Free the nights this reservation already holds before re-checking.
	for day := booking.Day(current.StartDate); day.Before(current.EndDate); day = day.AddDate(0, 0, 1) {
		if _, ok := committed[day]; ok {
			committed[day] -= current.Guests
		}
	}
	if err := booking.AssertAvailable(days, booking.PriceMap(priceRows), committed, room.Capacity(), upd.Guests); err != nil {
		return nil, err
	}

	upd.StartDate, upd.EndDate = from, to
	// The guest link survives updates; a new email relinks (or creates).
	upd.GuestID = current.GuestID
	if upd.Email != "" && !strings.EqualFold(upd.Email, current.Email) {
		upd.GuestID = s.guestIDFor(upd.Name, upd.Email)
	}
	updated, err := s.reservationRepo.Update(id, upd)
	if err != nil {
		return nil, err
	}
	s.invalidatePublic(hostelID)
	return updated, nil
}

// Cancel frees the reservation's nights.
func (s *ReservationService) Cancel(id, hostelID string) error {
	if _, err := s.reservationRepo.GetByID(id, hostelID); err != nil {
		return err
	}
	if err := s.reservationRepo.Cancel(id); err != nil {
		return err
	}
	s.invalidatePublic(hostelID)
	return nil
}

// Delete removes a reservation outright. Reservations with payments are
// kept for the books and can only be cancelled.
func (s *ReservationService) Delete(id, hostelID string) error {
	if _, err := s.reservationRepo.GetByID(id, hostelID); err != nil {
		return err
	}
	if err := s.reservationRepo.Delete(id); err != nil {
		return err
	}
	s.invalidatePublic(hostelID)
	return nil
}

// AddPayment registers a payment and recomputes the payment status from
// the new paid sum.
func (s *ReservationService) AddPayment(id, hostelID string, amount float64) (*domain.Reservation, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	res, err := s.reservationRepo.GetByID(id, hostelID)
	if err != nil {
		return nil, err
	}
	if res.Cancelled {
		return nil, fmt.Errorf("%w: reservation is cancelled", domain.ErrConflict)
	}
	if err := s.registerPayment(res, amount); err != nil {
		return nil, err
	}
	return s.reservationRepo.GetByID(id, hostelID)
}

func (s *ReservationService) registerPayment(res *domain.Reservation, amount float64) error {
	payment := &domain.ReservationPayment{ReservationID: res.ID, Amount: amount}
	if err := s.paymentRepo.Create(payment); err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}
	paid, err := s.paymentRepo.SumByReservation(res.ID)
	if err != nil {
		return fmt.Errorf("summing payments: %w", err)
	}
	status := domain.DerivePaymentStatus(paid, res.TotalPrice)
	if err := s.reservationRepo.SetPaymentStatus(res.ID, status); err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	res.AmountPaid = paid
	res.PaymentStatus = status
	return nil
}

// ListPayments returns the payments of a reservation.
func (s *ReservationService) ListPayments(id, hostelID string) ([]domain.ReservationPayment, error) {
	if _, err := s.reservationRepo.GetByID(id, hostelID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByReservation(id)
}

// Calendar builds the per-room occupancy calendar of the hostel.
func (s *ReservationService) Calendar(hostelID, from, to string) ([]RoomCalendar, error) {
	fromDate, toDate, err := booking.ParseRange(from, to)
	if err != nil {
		return nil, err
	}
	days := booking.DaysInRange(fromDate, toDate)

	grid, err := s.dayPriceRepo.GetGridForHostel(hostelID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("loading price grid: %w", err)
	}
	committed, err := s.reservationRepo.CommittedGuestsByHostel(hostelID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("loading occupancy: %w", err)
	}

	calendars := make([]RoomCalendar, 0, len(grid))
	for _, entry := range grid {
		prices := booking.PriceMap(entry.Prices)
		cal := RoomCalendar{Room: entry.Room, Days: make([]DayOccupancy, 0, len(days))}
		for _, day := range days {
			cell := DayOccupancy{
				Date:      day.Format(booking.DayFormat),
				Committed: committed[entry.Room.ID][day],
			}
			if dp, ok := prices[day]; ok {
				cell.Capacity = booking.CapacityForDay(dp, entry.Room.Capacity())
				cell.Price = dp.Price
				cell.Free = cell.Capacity - cell.Committed
				if cell.Free < 0 {
					cell.Free = 0
				}
				cell.Bookable = cell.Free > 0
			}
			cal.Days = append(cal.Days, cell)
		}
		calendars = append(calendars, cal)
	}
	return calendars, nil
}

// Income reports booked revenue per day over [from, to), spreading each
// reservation's total evenly across its nights.
func (s *ReservationService) Income(hostelID, from, to string) (*IncomeReport, error) {
	fromDate, toDate, err := booking.ParseRange(from, to)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservationRepo.List(domain.ReservationFilter{
		HostelID: hostelID, From: fromDate, To: toDate,
	})
	if err != nil {
		return nil, err
	}

	perDay := make(map[time.Time]float64)
	for _, res := range reservations {
		nights := res.Nights()
		if nights <= 0 {
			continue
		}
		nightly := res.TotalPrice / float64(nights)
		for day := booking.Day(res.StartDate); day.Before(res.EndDate); day = day.AddDate(0, 0, 1) {
			if !day.Before(fromDate) && day.Before(toDate) {
				perDay[day] += nightly
			}
		}
	}

	report := &IncomeReport{}
	for _, day := range booking.DaysInRange(fromDate, toDate) {
		income := perDay[day]
		report.Total += income
		report.Days = append(report.Days, IncomeDay{
			Date:   day.Format(booking.DayFormat),
			Income: income,
		})
	}
	return report, nil
}

// Occupancy reports how full the hostel is per day over [from, to).
// Days without any priced capacity count as zero occupancy.
func (s *ReservationService) Occupancy(hostelID, from, to string) (*OccupancyReport, error) {
	calendars, err := s.Calendar(hostelID, from, to)
	if err != nil {
		return nil, err
	}

	fromDate, toDate, _ := booking.ParseRange(from, to)
	days := booking.DaysInRange(fromDate, toDate)

	report := &OccupancyReport{}
	rateSum := 0.0
	for i, day := range days {
		cell := DayOccupancy{Date: day.Format(booking.DayFormat)}
		for _, cal := range calendars {
			cell.Capacity += cal.Days[i].Capacity
			cell.Committed += cal.Days[i].Committed
		}
		cell.Free = cell.Capacity - cell.Committed
		if cell.Free < 0 {
			cell.Free = 0
		}
		cell.Bookable = cell.Free > 0
		if cell.Capacity > 0 {
			rateSum += float64(cell.Committed) / float64(cell.Capacity)
		}
		report.Days = append(report.Days, cell)
	}
	if len(days) > 0 {
		report.AverageRate = rateSum / float64(len(days))
	}
	return report, nil
}

// sendConfirmation delivers the booking mail. It runs detached from the
// request: mail failures never fail a booking.
func (s *ReservationService) sendConfirmation(hostelID string, room *domain.Room, res *domain.Reservation, language string) {
	if s.emailClient == nil {
		return
	}
	hostelName := ""
	if hostel, err := s.hostelRepo.GetByID(hostelID); err == nil {
		hostelName = hostel.Name
	}

	err := s.emailClient.SendBookingConfirmation(email.BookingInfo{
		ReservationID: res.ID,
		HostelName:    hostelName,
		GuestName:     res.Name,
		GuestEmail:    res.Email,
		RoomName:      room.Name,
		CheckIn:       res.StartDate,
		CheckOut:      res.EndDate,
		Nights:        res.Nights(),
		Guests:        res.Guests,
		Total:         res.TotalPrice,
		Language:      language,
	})
	if err != nil {
		s.logger.Error("confirmation mail failed",
			zap.String("reservation_id", res.ID), zap.Error(err))
	}
}

func (s *ReservationService) invalidatePublic(hostelID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.cache.InvalidatePrefix(ctx, "public:"+hostelID)
}
