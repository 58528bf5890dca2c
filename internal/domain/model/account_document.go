package model

import (
	"time"
)

// AccountDocument is the single per-subject document the engine reads and
// writes through the store. It embeds the loan account, its installment
// schedule, and the history feed so that every mutating operation is one
// atomic read-modify-write of one document.
type AccountDocument struct {
	SubjectID string              `json:"subject_id"`
	Account   *LoanAccount        `json:"account,omitempty"`
	Schedule  []InstallmentRecord `json:"schedule,omitempty"`
	History   []HistoryEntry      `json:"history,omitempty"`
	Version   int                 `json:"version"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewAccountDocument returns the empty document for a subject with no loan
// activity yet.
func NewAccountDocument(subjectID string) AccountDocument {
	return AccountDocument{SubjectID: subjectID}
}

// HasOutstandingLoan reports whether the document blocks a new commit: the
// account status occupies the single-active-loan slot and either no schedule
// has been generated yet (treated conservatively as active) or at least one
// installment is unsettled.
func (d AccountDocument) HasOutstandingLoan() bool {
	if d.Account == nil || !d.Account.Outstanding() {
		return false
	}
	if len(d.Schedule) == 0 {
		return true
	}
	for _, r := range d.Schedule {
		if !r.Settled {
			return true
		}
	}
	return false
}

// Touch bumps the document version and refreshes the update time. Every
// mutating engine operation calls this exactly once before Put.
func (d AccountDocument) Touch(now time.Time) AccountDocument {
	next := d
	next.Version++
	next.UpdatedAt = now.UTC()
	return next
}

// Clone returns a deep copy of the document.
func (d AccountDocument) Clone() AccountDocument {
	out := d
	if d.Account != nil {
		acct := *d.Account
		out.Account = &acct
	}
	out.Schedule = CloneSchedule(d.Schedule)
	if d.History != nil {
		out.History = make([]HistoryEntry, len(d.History))
		copy(out.History, d.History)
	}
	return out
}
