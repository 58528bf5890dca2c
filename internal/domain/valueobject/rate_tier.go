package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// RateTier – duration-based interest rate bracket
// ---------------------------------------------------------------------------

// RateTier maps a loan duration bracket to an annual interest rate.
// MaxMonths is the inclusive upper bound of the bracket; zero marks the
// unbounded final tier.
type RateTier struct {
	MaxMonths   int             `json:"max_months"`
	RatePercent decimal.Decimal `json:"rate_percent"`
	Label       string          `json:"label"`
}

// Unbounded reports whether the tier has no upper duration bound.
func (t RateTier) Unbounded() bool { return t.MaxMonths == 0 }

// DefaultRateTiers returns the standard offer table. Tiers are ordered by
// ascending MaxMonths with the unbounded tier last.
func DefaultRateTiers() []RateTier {
	return []RateTier{
		{MaxMonths: 6, RatePercent: decimal.NewFromFloat(1.5), Label: "Up to 6 months"},
		{MaxMonths: 12, RatePercent: decimal.NewFromFloat(2.0), Label: "7 – 12 months"},
		{MaxMonths: 24, RatePercent: decimal.NewFromFloat(2.5), Label: "13 – 24 months"},
		{MaxMonths: 36, RatePercent: decimal.NewFromFloat(3.0), Label: "25 – 36 months"},
		{RatePercent: decimal.NewFromFloat(3.5), Label: "Above 36 months"},
	}
}

// ValidateTiers checks that a tier table is usable: non-empty, bounded tiers
// in strictly ascending order, and exactly one unbounded tier in last
// position.
func ValidateTiers(tiers []RateTier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("rate tier table is empty")
	}
	prev := 0
	for i, t := range tiers {
		if t.RatePercent.IsNegative() {
			return fmt.Errorf("tier %d: negative rate", i)
		}
		if t.Unbounded() {
			if i != len(tiers)-1 {
				return fmt.Errorf("tier %d: unbounded tier must be last", i)
			}
			continue
		}
		if t.MaxMonths <= prev {
			return fmt.Errorf("tier %d: max months must ascend", i)
		}
		prev = t.MaxMonths
	}
	if !tiers[len(tiers)-1].Unbounded() {
		return fmt.Errorf("rate tier table must end with an unbounded tier")
	}
	return nil
}

// ResolveTier returns the smallest tier whose bracket covers the requested
// duration, falling through to the unbounded final tier.
func ResolveTier(tiers []RateTier, durationMonths int) (RateTier, error) {
	if durationMonths <= 0 {
		return RateTier{}, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	for _, t := range tiers {
		if t.Unbounded() || durationMonths <= t.MaxMonths {
			return t, nil
		}
	}
	return RateTier{}, fmt.Errorf("no rate tier covers duration of %d months", durationMonths)
}
