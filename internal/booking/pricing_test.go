package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func pricesFor(price float64, days ...string) map[time.Time]domain.DayPrice {
	m := make(map[time.Time]domain.DayPrice, len(days))
	for _, d := range days {
		m[day(d)] = domain.DayPrice{RoomID: "room-1", Date: day(d), Price: price, Active: true}
	}
	return m
}

func TestRatePlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    RatePlan
		wantErr error
	}{
		{"resident cash", RatePlan{IsResident: true, PaymentMethod: PayCash}, nil},
		{"resident card", RatePlan{IsResident: true, PaymentMethod: PayCard}, nil},
		{"tourist muchicard", RatePlan{PaymentMethod: PayCash, HasMuchiCard: true, MuchiCardType: MuchiDebit}, nil},
		{"resident with muchicard", RatePlan{IsResident: true, PaymentMethod: PayCash, HasMuchiCard: true, MuchiCardType: MuchiCash}, domain.ErrInvalidRatePlan},
		{"unknown payment method", RatePlan{PaymentMethod: "paypal"}, domain.ErrInvalidInput},
		{"unknown muchicard tier", RatePlan{PaymentMethod: PayCash, HasMuchiCard: true, MuchiCardType: "platinum"}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNightPrice(t *testing.T) {
	tests := []struct {
		name   string
		base   float64
		guests int
		plan   RatePlan
		want   float64
	}{
		{"resident cash has no surcharge", 100, 2, RatePlan{IsResident: true, PaymentMethod: PayCash}, 200.00},
		{"resident card applies vat", 100, 2, RatePlan{IsResident: true, PaymentMethod: PayCard}, 266.66},
		{"tourist card without muchicard pays base", 100, 2, RatePlan{PaymentMethod: PayCard}, 200.00},
		{"muchicard cash tier", 100, 2, RatePlan{PaymentMethod: PayCash, HasMuchiCard: true, MuchiCardType: MuchiCash}, 170.00},
		{"muchicard debit tier", 100, 2, RatePlan{PaymentMethod: PayCash, HasMuchiCard: true, MuchiCardType: MuchiDebit}, 180.00},
		{"muchicard credit tier", 100, 2, RatePlan{PaymentMethod: PayCash, HasMuchiCard: true, MuchiCardType: MuchiCredit}, 190.00},
		{"rounds half away from zero", 33.335, 1, RatePlan{PaymentMethod: PayCash}, 33.34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NightPrice(tt.base, tt.guests, tt.plan), 1e-9)
		})
	}
}

// Two nights at $100 for 2 resident guests paying cash: plain $400.00.
func TestPriceStay_ResidentCash(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-03"))
	prices := pricesFor(100, "2024-01-01", "2024-01-02")

	quote, err := PriceStay(days, prices, 2, RatePlan{IsResident: true, PaymentMethod: PayCash})

	require.NoError(t, err)
	assert.InDelta(t, 400.00, quote.Total, 1e-9)
	require.Len(t, quote.Breakdown, 2)
	assert.InDelta(t, 200.00, quote.Breakdown[0].FinalPrice, 1e-9)
	assert.Equal(t, "2024-01-01", quote.Breakdown[0].Date)
}

// Same stay for a resident paying by card: each night is rounded on its
// own ($266.66), so the trip totals $533.32 rather than $533.33.
func TestPriceStay_ResidentCardRoundsPerNight(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-03"))
	prices := pricesFor(100, "2024-01-01", "2024-01-02")

	quote, err := PriceStay(days, prices, 2, RatePlan{IsResident: true, PaymentMethod: PayCard})

	require.NoError(t, err)
	require.Len(t, quote.Breakdown, 2)
	assert.InDelta(t, 266.66, quote.Breakdown[0].FinalPrice, 1e-9)
	assert.InDelta(t, 266.66, quote.Breakdown[1].FinalPrice, 1e-9)
	assert.InDelta(t, 533.32, quote.Total, 1e-9)
}

func TestPriceStay_MuchiCardDiscountPerNight(t *testing.T) {
	days := DaysInRange(day("2024-06-01"), day("2024-06-04"))
	prices := map[time.Time]domain.DayPrice{
		day("2024-06-01"): {Price: 80, Active: true},
		day("2024-06-02"): {Price: 120, Active: true},
		day("2024-06-03"): {Price: 95.50, Active: true},
	}
	plan := RatePlan{PaymentMethod: PayCard, HasMuchiCard: true, MuchiCardType: MuchiCash}

	quote, err := PriceStay(days, prices, 3, plan)

	require.NoError(t, err)
	// 80*3*0.85=204, 120*3*0.85=306, 95.50*3*0.85=243.525 -> 243.53
	assert.InDelta(t, 204.00, quote.Breakdown[0].FinalPrice, 1e-9)
	assert.InDelta(t, 306.00, quote.Breakdown[1].FinalPrice, 1e-9)
	assert.InDelta(t, 243.53, quote.Breakdown[2].FinalPrice, 1e-9)
	assert.InDelta(t, 753.53, quote.Total, 1e-9)
}

func TestPriceStay_MissingNightRejectsWholeRange(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-04"))
	prices := pricesFor(100, "2024-01-01", "2024-01-03") // 02 missing

	_, err := PriceStay(days, prices, 1, RatePlan{PaymentMethod: PayCash})

	assert.ErrorIs(t, err, domain.ErrMissingPrices)
}

func TestPriceStay_ResidentMuchiCardFails(t *testing.T) {
	days := DaysInRange(day("2024-01-01"), day("2024-01-02"))
	prices := pricesFor(100, "2024-01-01")
	plan := RatePlan{IsResident: true, PaymentMethod: PayCash, HasMuchiCard: true, MuchiCardType: MuchiCash}

	_, err := PriceStay(days, prices, 1, plan)

	assert.ErrorIs(t, err, domain.ErrInvalidRatePlan)
}
