package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// LoanAccount aggregate
// ---------------------------------------------------------------------------

// LoanAccount is the committed form of a quote. It is immutable: transitions
// return a new copy. At most one account per subject may hold an outstanding
// status (PENDING_DOCUMENTS or ACTIVE) at any time; the account is never
// deleted, only superseded once COMPLETED.
type LoanAccount struct {
	ID             string                 `json:"id"`
	Principal      decimal.Decimal        `json:"principal"`
	RatePercent    decimal.Decimal        `json:"rate_percent"`
	DurationMonths int                    `json:"duration_months"`
	MonthlyPayment decimal.Decimal        `json:"monthly_payment"`
	TotalPayback   decimal.Decimal        `json:"total_payback"`
	Status         valueobject.LoanStatus `json:"status"`
	CommittedAt    time.Time              `json:"committed_at"`
}

// NewLoanAccount creates a DRAFT account from a priced quote.
func NewLoanAccount(q Quote, now time.Time) LoanAccount {
	return LoanAccount{
		ID:             uuid.New().String(),
		Principal:      q.Principal,
		RatePercent:    q.RatePercent,
		DurationMonths: q.DurationMonths,
		MonthlyPayment: q.MonthlyPayment,
		TotalPayback:   q.TotalPayback,
		Status:         valueobject.LoanStatusDraft,
		CommittedAt:    now.UTC(),
	}
}

// SubmitForReview transitions DRAFT -> PENDING_DOCUMENTS.
func (a LoanAccount) SubmitForReview() (LoanAccount, error) {
	if !a.Status.Equal(valueobject.LoanStatusDraft) {
		return a, valueobject.ErrInvalidStatusTransition
	}
	next := a
	next.Status = valueobject.LoanStatusPendingDocuments
	return next, nil
}

// Activate transitions PENDING_DOCUMENTS -> ACTIVE once a schedule exists.
// Activating an already ACTIVE account is a no-op.
func (a LoanAccount) Activate() (LoanAccount, error) {
	if a.Status.Equal(valueobject.LoanStatusActive) {
		return a, nil
	}
	if !a.Status.Equal(valueobject.LoanStatusPendingDocuments) {
		return a, valueobject.ErrInvalidStatusTransition
	}
	next := a
	next.Status = valueobject.LoanStatusActive
	return next, nil
}

// MarkCompletedIfSettled transitions to COMPLETED exactly when every
// installment in the schedule is locked. This is the only path to freeing the
// single-active-loan slot. Returns the (possibly unchanged) account and
// whether the transition happened.
func (a LoanAccount) MarkCompletedIfSettled(schedule []InstallmentRecord) (LoanAccount, bool) {
	if a.Status.Equal(valueobject.LoanStatusCompleted) {
		return a, false
	}
	if len(schedule) == 0 || !AllLocked(schedule) {
		return a, false
	}
	next := a
	next.Status = valueobject.LoanStatusCompleted
	return next, true
}

// Outstanding reports whether the account occupies the single-active-loan
// slot by status alone. Whether it still blocks a new commit also depends on
// the schedule; see AccountDocument.HasOutstandingLoan.
func (a LoanAccount) Outstanding() bool {
	return a.Status.Outstanding()
}
