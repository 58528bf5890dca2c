package model

import (
	"github.com/shopspring/decimal"

	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// HistoryEntry is one row of the chronological activity feed. Entries are
// append-only: after creation only Status may change, flipping to COMPLETED
// once every installment of the loan is locked.
type HistoryEntry struct {
	LoanID          string                 `json:"loan_id"`
	Principal       decimal.Decimal        `json:"principal"`
	MonthlyPayment  decimal.Decimal        `json:"monthly_payment"`
	RatePercent     decimal.Decimal        `json:"rate_percent"`
	DurationMonths  int                    `json:"duration_months"`
	TimestampMillis int64                  `json:"timestamp_millis"`
	Status          valueobject.LoanStatus `json:"status"`
}

// NewHistoryEntry builds the feed entry for a committed account. The entry
// timestamp is the commit instant, which is what save-time deduplication
// keys on.
func NewHistoryEntry(account LoanAccount) HistoryEntry {
	return HistoryEntry{
		LoanID:          account.ID,
		Principal:       account.Principal,
		MonthlyPayment:  account.MonthlyPayment,
		RatePercent:     account.RatePercent,
		DurationMonths:  account.DurationMonths,
		TimestampMillis: account.CommittedAt.UnixMilli(),
		Status:          valueobject.LoanStatusActive,
	}
}

// UpsertHistoryEntry prepends the entry to the feed (newest first) unless an
// entry with the same TimestampMillis already exists, in which case only that
// entry's status is refreshed. Returns the updated feed and whether a new
// entry was appended.
func UpsertHistoryEntry(history []HistoryEntry, entry HistoryEntry) ([]HistoryEntry, bool) {
	for i, existing := range history {
		if existing.TimestampMillis == entry.TimestampMillis {
			out := make([]HistoryEntry, len(history))
			copy(out, history)
			out[i].Status = entry.Status
			return out, false
		}
	}
	out := make([]HistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	out = append(out, history...)
	return out, true
}
