package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DomainEvent is the interface all domain events implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	SubjectID() string
	OccurredAt() time.Time
}

// BaseEvent provides a default implementation of DomainEvent.
type BaseEvent struct {
	ID          string    `json:"event_id"`
	Type        string    `json:"event_type"`
	Aggregate   string    `json:"aggregate_id"`
	Subject     string    `json:"subject_id"`
	OccurredAtT time.Time `json:"occurred_at"`
}

// NewBaseEvent creates a BaseEvent with a generated UUID and the current time.
func NewBaseEvent(eventType, aggregateID, subjectID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Aggregate:   aggregateID,
		Subject:     subjectID,
		OccurredAtT: time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) SubjectID() string     { return e.Subject }
func (e BaseEvent) OccurredAt() time.Time { return e.OccurredAtT }

// ---------------------------------------------------------------------------
// Loan lifecycle events
// ---------------------------------------------------------------------------

// LoanCommitted is raised when a quote is committed into a loan account.
type LoanCommitted struct {
	BaseEvent
	Principal      decimal.Decimal `json:"principal"`
	RatePercent    decimal.Decimal `json:"rate_percent"`
	DurationMonths int             `json:"duration_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalPayback   decimal.Decimal `json:"total_payback"`
}

func NewLoanCommitted(
	loanID, subjectID string,
	principal, ratePercent decimal.Decimal,
	durationMonths int,
	monthlyPayment, totalPayback decimal.Decimal,
) LoanCommitted {
	return LoanCommitted{
		BaseEvent:      NewBaseEvent("lending.loan.committed", loanID, subjectID),
		Principal:      principal,
		RatePercent:    ratePercent,
		DurationMonths: durationMonths,
		MonthlyPayment: monthlyPayment,
		TotalPayback:   totalPayback,
	}
}

// RepaymentScheduleGenerated is raised when the installment schedule for a
// loan is first generated.
type RepaymentScheduleGenerated struct {
	BaseEvent
	Installments int       `json:"installments"`
	FirstDueDate time.Time `json:"first_due_date"`
	PayoffDate   time.Time `json:"payoff_date"`
}

func NewRepaymentScheduleGenerated(
	loanID, subjectID string,
	installments int,
	firstDueDate, payoffDate time.Time,
) RepaymentScheduleGenerated {
	return RepaymentScheduleGenerated{
		BaseEvent:    NewBaseEvent("lending.schedule.generated", loanID, subjectID),
		Installments: installments,
		FirstDueDate: firstDueDate,
		PayoffDate:   payoffDate,
	}
}

// InstallmentsLocked is raised when a save operation locks in tentatively
// settled installments.
type InstallmentsLocked struct {
	BaseEvent
	LockedNow        int             `json:"locked_now"`
	TotalLocked      int             `json:"total_locked"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

func NewInstallmentsLocked(
	loanID, subjectID string,
	lockedNow, totalLocked int,
	remainingBalance decimal.Decimal,
) InstallmentsLocked {
	return InstallmentsLocked{
		BaseEvent:        NewBaseEvent("lending.installments.locked", loanID, subjectID),
		LockedNow:        lockedNow,
		TotalLocked:      totalLocked,
		RemainingBalance: remainingBalance,
	}
}

// LoanCompleted is raised when every installment of a loan is locked and the
// account leaves the single-active-loan slot.
type LoanCompleted struct {
	BaseEvent
}

func NewLoanCompleted(loanID, subjectID string) LoanCompleted {
	return LoanCompleted{
		BaseEvent: NewBaseEvent("lending.loan.completed", loanID, subjectID),
	}
}
