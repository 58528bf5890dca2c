package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wingcash/lending-engine/internal/application/dto"
	"github.com/wingcash/lending-engine/internal/domain/event"
	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/port"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// CommitLoanUseCase turns a priced quote into the subject's loan account,
// enforcing the single-active-loan invariant.
type CommitLoanUseCase struct {
	repo      port.AccountDocumentRepository
	publisher port.EventPublisher
	tiers     []valueobject.RateTier
	fee       decimal.Decimal
}

// NewCommitLoanUseCase wires dependencies.
func NewCommitLoanUseCase(
	repo port.AccountDocumentRepository,
	publisher port.EventPublisher,
	tiers []valueobject.RateTier,
	fee decimal.Decimal,
) *CommitLoanUseCase {
	return &CommitLoanUseCase{repo: repo, publisher: publisher, tiers: tiers, fee: fee}
}

// Execute validates, commits, and persists a new loan account for the
// subject. Validation precedes every mutation; a conflicting outstanding
// loan fails with ErrActiveLoanConflict before anything is written.
func (uc *CommitLoanUseCase) Execute(
	ctx context.Context,
	req dto.CommitLoanRequest,
) (dto.LoanAccountResponse, error) {
	if req.SubjectID == "" {
		return dto.LoanAccountResponse{}, fmt.Errorf("%w: subject id is required", valueobject.ErrInvalidInput)
	}
	now := time.Now().UTC()

	// 1. Re-price the request; malformed input never reaches the store.
	tier, err := valueobject.ResolveTier(uc.tiers, req.DurationMonths)
	if err != nil {
		return dto.LoanAccountResponse{}, fmt.Errorf("resolve tier: %w", err)
	}
	quote, err := model.ComputeQuote(req.Principal, tier.RatePercent, req.DurationMonths, req.IncludeFee, uc.fee)
	if err != nil {
		return dto.LoanAccountResponse{}, fmt.Errorf("compute quote: %w", err)
	}
	quote.RateLabel = tier.Label

	// 2. Load the subject document; a subject with no activity yet starts
	// from the empty document.
	doc, err := uc.repo.Get(ctx, req.SubjectID)
	if err != nil {
		if !errors.Is(err, valueobject.ErrNotFound) {
			return dto.LoanAccountResponse{}, fmt.Errorf("load document: %w", err)
		}
		doc = model.NewAccountDocument(req.SubjectID)
	}

	// 3. Single-active-loan invariant.
	if doc.HasOutstandingLoan() {
		return dto.LoanAccountResponse{}, fmt.Errorf(
			"%w: loan %s is still outstanding", valueobject.ErrActiveLoanConflict, doc.Account.ID,
		)
	}

	// 4. Create the account and submit it for document review.
	account := model.NewLoanAccount(quote, now)
	account, err = account.SubmitForReview()
	if err != nil {
		return dto.LoanAccountResponse{}, fmt.Errorf("submit for review: %w", err)
	}

	// 5. Append the history entry and install the new account. The previous
	// schedule belongs to the superseded loan and is discarded.
	doc.History, _ = model.UpsertHistoryEntry(doc.History, model.NewHistoryEntry(account))
	doc.Account = &account
	doc.Schedule = nil
	doc = doc.Touch(now)

	// 6. Persist.
	if err := uc.repo.Put(ctx, doc); err != nil {
		return dto.LoanAccountResponse{}, fmt.Errorf("save document: %w", err)
	}

	// 7. Publish.
	evt := event.NewLoanCommitted(
		account.ID, req.SubjectID,
		account.Principal, account.RatePercent, account.DurationMonths,
		account.MonthlyPayment, account.TotalPayback,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.LoanAccountResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.NewLoanAccountResponse(account), nil
}
