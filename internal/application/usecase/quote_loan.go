package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wingcash/lending-engine/internal/application/dto"
	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// QuoteLoanUseCase prices a loan request against the configured rate tier
// table. Quotes are ephemeral: nothing is persisted.
type QuoteLoanUseCase struct {
	tiers []valueobject.RateTier
	fee   decimal.Decimal
}

// NewQuoteLoanUseCase wires the tier table and the fixed installment fee.
func NewQuoteLoanUseCase(tiers []valueobject.RateTier, fee decimal.Decimal) *QuoteLoanUseCase {
	return &QuoteLoanUseCase{tiers: tiers, fee: fee}
}

// Execute resolves the rate tier for the requested duration and computes the
// amortized quote.
func (uc *QuoteLoanUseCase) Execute(
	_ context.Context,
	req dto.QuoteRequest,
) (dto.QuoteResponse, error) {
	tier, err := valueobject.ResolveTier(uc.tiers, req.DurationMonths)
	if err != nil {
		return dto.QuoteResponse{}, fmt.Errorf("resolve tier: %w", err)
	}

	quote, err := model.ComputeQuote(req.Principal, tier.RatePercent, req.DurationMonths, req.IncludeFee, uc.fee)
	if err != nil {
		return dto.QuoteResponse{}, fmt.Errorf("compute quote: %w", err)
	}
	quote.RateLabel = tier.Label

	return dto.NewQuoteResponse(quote), nil
}
