package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// InstallmentRecord and the sequential settlement state machine
// ---------------------------------------------------------------------------

// InstallmentRecord is one scheduled periodic payment obligation. Its state
// collapses to the (Settled, Locked) pair:
//
//	(false, false)  Open
//	(true,  false)  Settling – tentatively marked, reversible
//	(true,  true)   Locked   – final, irreversible
//
// Locked implies Settled; locked records are immutable.
type InstallmentRecord struct {
	SequenceNumber int             `json:"sequence_number"`
	DueDate        time.Time       `json:"due_date"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	Settled        bool            `json:"settled"`
	Locked         bool            `json:"locked"`
}

// Settling reports whether the record is tentatively marked but not yet
// locked in.
func (r InstallmentRecord) Settling() bool { return r.Settled && !r.Locked }

// GenerateSchedule produces the ordered installment sequence for a committed
// account. Due dates use calendar month arithmetic from the anchor date, not
// fixed 30-day increments; given the same anchor the result is
// deterministic. A COMPLETED account gets a back-filled, fully locked
// schedule.
//
// Callers must not regenerate a schedule that already has settled
// installments — regeneration would silently erase progress.
func GenerateSchedule(account LoanAccount, anchor time.Time) ([]InstallmentRecord, error) {
	if account.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", valueobject.ErrInvalidInput)
	}

	settled := account.Status.Equal(valueobject.LoanStatusCompleted)
	amount := account.MonthlyPayment.Round(2)

	schedule := make([]InstallmentRecord, 0, account.DurationMonths)
	for i := 1; i <= account.DurationMonths; i++ {
		schedule = append(schedule, InstallmentRecord{
			SequenceNumber: i,
			DueDate:        anchor.AddDate(0, i, 0),
			AmountDue:      amount,
			Settled:        settled,
			Locked:         settled,
		})
	}
	return schedule, nil
}

// ToggleInstallment flips the tentative settlement mark on one installment
// and returns the updated schedule. The input is not mutated.
//
// Rules:
//   - a Locked installment is silently left untouched (idempotent ignore)
//   - Open -> Settling requires every earlier installment to be locked
//   - only one installment may be Settling at a time
//   - Settling -> Open is always allowed
func ToggleInstallment(schedule []InstallmentRecord, index int) ([]InstallmentRecord, error) {
	if index < 0 || index >= len(schedule) {
		return nil, fmt.Errorf("%w: installment index %d out of range", valueobject.ErrInvalidInput, index)
	}

	out := CloneSchedule(schedule)
	rec := out[index]

	if rec.Locked {
		return out, nil
	}

	if !rec.Settled {
		if index > 0 && !out[index-1].Locked {
			return nil, fmt.Errorf(
				"%w: installment %d requires installment %d to be locked first",
				valueobject.ErrOutOfOrderSettlement, rec.SequenceNumber, out[index-1].SequenceNumber,
			)
		}
		for _, other := range out {
			if other.Settling() {
				return nil, fmt.Errorf(
					"%w: installment %d is awaiting save",
					valueobject.ErrConcurrentSettlement, other.SequenceNumber,
				)
			}
		}
	}

	out[index].Settled = !rec.Settled
	return out, nil
}

// LockSettled locks every Settling installment in one atomic pass. Open
// installments are untouched. Returns the updated schedule and the number of
// installments locked by this call.
func LockSettled(schedule []InstallmentRecord) ([]InstallmentRecord, int) {
	out := CloneSchedule(schedule)
	locked := 0
	for i := range out {
		if out[i].Settling() {
			out[i].Locked = true
			locked++
		}
	}
	return out, locked
}

// LockedCount returns the number of locked installments.
func LockedCount(schedule []InstallmentRecord) int {
	n := 0
	for _, r := range schedule {
		if r.Locked {
			n++
		}
	}
	return n
}

// AllLocked reports whether every installment is locked.
func AllLocked(schedule []InstallmentRecord) bool {
	return len(schedule) > 0 && LockedCount(schedule) == len(schedule)
}

// CloneSchedule returns a defensive copy of the schedule.
func CloneSchedule(schedule []InstallmentRecord) []InstallmentRecord {
	if schedule == nil {
		return nil
	}
	out := make([]InstallmentRecord, len(schedule))
	copy(out, schedule)
	return out
}

// ---------------------------------------------------------------------------
// Derived metrics
// ---------------------------------------------------------------------------

// ScheduleMetrics are the progress figures derived from a schedule.
type ScheduleMetrics struct {
	ProgressValue    float64         `json:"progress_value"`
	TotalRepaid      decimal.Decimal `json:"total_repaid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PayoffDate       time.Time       `json:"payoff_date"`
}

// ComputeScheduleMetrics derives progress and balance figures. By
// construction lockedCount <= durationMonths, so the remaining balance is
// never negative.
func ComputeScheduleMetrics(account LoanAccount, schedule []InstallmentRecord) ScheduleMetrics {
	m := ScheduleMetrics{
		TotalRepaid:      decimal.Zero,
		RemainingBalance: decimal.Zero,
	}
	if len(schedule) == 0 {
		return m
	}

	locked := LockedCount(schedule)
	n := decimal.NewFromInt(int64(account.DurationMonths))

	m.ProgressValue = float64(locked) / float64(len(schedule))
	m.TotalRepaid = account.MonthlyPayment.Mul(decimal.NewFromInt(int64(locked)))
	m.RemainingBalance = account.MonthlyPayment.Mul(n).Sub(m.TotalRepaid)
	m.PayoffDate = schedule[len(schedule)-1].DueDate
	return m
}
