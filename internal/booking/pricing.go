package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// PaymentMethod is how the guest intends to pay.
type PaymentMethod string

const (
	PayCash PaymentMethod = "cash"
	PayCard PaymentMethod = "card"
)

// MuchiCardType is the tier of the non-resident loyalty card.
type MuchiCardType string

const (
	MuchiCash   MuchiCardType = "cash"
	MuchiDebit  MuchiCardType = "debit"
	MuchiCredit MuchiCardType = "credit"
)

// residentCardVAT is the multiplier applied to card payments by
// residents, representing VAT inclusion.
const residentCardVAT = 1.3333

// muchiCardFactors maps each MuchiCard tier to its discount factor.
var muchiCardFactors = map[MuchiCardType]float64{
	MuchiCash:   0.85,
	MuchiDebit:  0.90,
	MuchiCredit: 0.95,
}

// RatePlan selects which pricing adjustments apply to a stay.
type RatePlan struct {
	IsResident    bool          `json:"isResident"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	HasMuchiCard  bool          `json:"hasMuchiCard"`
	MuchiCardType MuchiCardType `json:"muchiCardType,omitempty"`
}

// Validate rejects contradictory or malformed rate plans. MuchiCard is a
// non-resident card, so resident+MuchiCard is always invalid.
func (p RatePlan) Validate() error {
	if p.IsResident && p.HasMuchiCard {
		return domain.ErrInvalidRatePlan
	}
	if p.PaymentMethod != PayCash && p.PaymentMethod != PayCard {
		return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidInput, p.PaymentMethod)
	}
	if p.HasMuchiCard {
		if _, ok := muchiCardFactors[p.MuchiCardType]; !ok {
			return fmt.Errorf("%w: unknown muchicard type %q", domain.ErrInvalidInput, p.MuchiCardType)
		}
	}
	return nil
}

// multiplier resolves the single factor the plan applies to a night.
func (p RatePlan) multiplier() float64 {
	if p.IsResident && p.PaymentMethod == PayCard {
		return residentCardVAT
	}
	if !p.IsResident && p.HasMuchiCard {
		return muchiCardFactors[p.MuchiCardType]
	}
	return 1
}

// round2 rounds to 2 decimals, half away from zero. Currency totals are
// reproducible only if every flow rounds the same way at the same point.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// NightPrice computes the final price of one night for the given base
// price, guest count and plan, rounded at the night level.
func NightPrice(base float64, guests int, plan RatePlan) float64 {
	return round2(base * float64(guests) * plan.multiplier())
}

// DayCharge is one night of a quote breakdown.
type DayCharge struct {
	Date       string  `json:"date"`
	BasePrice  float64 `json:"basePrice"`
	FinalPrice float64 `json:"finalPrice"`
}

// Quote is a priced stay. Total is the sum of the per-night rounded
// values, never a grand total rounded once: nightly prices vary, so the
// breakdown is the source of truth.
type Quote struct {
	Total     float64     `json:"total"`
	Breakdown []DayCharge `json:"breakdown"`
}

// PriceStay prices every night in days using the active price rows and
// the rate plan. Every night must have a price row or the whole range is
// rejected with ErrMissingPrices.
func PriceStay(days []time.Time, prices map[time.Time]domain.DayPrice, guests int, plan RatePlan) (*Quote, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	breakdown := make([]DayCharge, 0, len(days))
	total := 0.0
	for _, day := range days {
		dp, ok := prices[day]
		if !ok {
			return nil, domain.ErrMissingPrices
		}
		final := NightPrice(dp.Price, guests, plan)
		breakdown = append(breakdown, DayCharge{
			Date:       day.Format(DayFormat),
			BasePrice:  dp.Price,
			FinalPrice: final,
		})
		total += final
	}
	return &Quote{Total: round2(total), Breakdown: breakdown}, nil
}
