package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// DefaultInstallmentFee is the fixed per-month service fee applied when the
// borrower opts in.
var DefaultInstallmentFee = decimal.NewFromInt(25)

// Quote is the priced offer for a loan request. It is ephemeral: recomputed
// on every input change and never persisted directly. Monetary values are
// kept at full precision; rounding to 2 decimals happens at presentation.
type Quote struct {
	Principal      decimal.Decimal `json:"principal"`
	RatePercent    decimal.Decimal `json:"rate_percent"`
	RateLabel      string          `json:"rate_label"`
	DurationMonths int             `json:"duration_months"`
	IncludeFee     bool            `json:"include_fee"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPayback   decimal.Decimal `json:"total_payback"`
	Fee            decimal.Decimal `json:"fee"`
}

// ComputeQuote prices a loan request using the standard fixed-payment
// amortization formula.
//
// The calculation uses:
//
//	monthlyRate = ratePercent / 100 / 12
//	emi         = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degenerates to an even split of the principal. The rate factor
// is computed in float64 (math.Pow has no decimal counterpart) and monetary
// arithmetic stays in decimal.
func ComputeQuote(
	principal decimal.Decimal,
	ratePercent decimal.Decimal,
	durationMonths int,
	includeFee bool,
	fee decimal.Decimal,
) (Quote, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return Quote{}, fmt.Errorf("%w: principal must be positive", valueobject.ErrInvalidInput)
	}
	if ratePercent.IsNegative() {
		return Quote{}, fmt.Errorf("%w: rate must not be negative", valueobject.ErrInvalidInput)
	}
	if durationMonths <= 0 {
		return Quote{}, fmt.Errorf("%w: duration must be positive", valueobject.ErrInvalidInput)
	}

	n := decimal.NewFromInt(int64(durationMonths))

	var emi decimal.Decimal
	monthlyRate := ratePercent.InexactFloat64() / 100 / 12
	if monthlyRate == 0 {
		// Zero-interest: even split, exact in decimal.
		emi = principal.Div(n)
	} else {
		factor := math.Pow(1+monthlyRate, float64(durationMonths))
		emi = decimal.NewFromFloat(principal.InexactFloat64() * monthlyRate * factor / (factor - 1))
	}

	appliedFee := decimal.Zero
	if includeFee {
		appliedFee = fee
	}

	totalWithoutFees := emi.Mul(n)

	return Quote{
		Principal:      principal,
		RatePercent:    ratePercent,
		DurationMonths: durationMonths,
		IncludeFee:     includeFee,
		MonthlyPayment: emi.Add(appliedFee),
		TotalInterest:  totalWithoutFees.Sub(principal),
		TotalPayback:   totalWithoutFees.Add(appliedFee.Mul(n)),
		Fee:            appliedFee,
	}, nil
}
