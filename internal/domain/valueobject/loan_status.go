package valueobject

import (
	"encoding/json"
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan account.
type LoanStatus struct {
	value string
}

const (
	loanStatusDraft            = "DRAFT"
	loanStatusPendingDocuments = "PENDING_DOCUMENTS"
	loanStatusActive           = "ACTIVE"
	loanStatusCompleted        = "COMPLETED"
)

var (
	LoanStatusDraft            = LoanStatus{value: loanStatusDraft}
	LoanStatusPendingDocuments = LoanStatus{value: loanStatusPendingDocuments}
	LoanStatusActive           = LoanStatus{value: loanStatusActive}
	LoanStatusCompleted        = LoanStatus{value: loanStatusCompleted}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusDraft:            LoanStatusDraft,
	loanStatusPendingDocuments: LoanStatusPendingDocuments,
	loanStatusActive:           LoanStatusActive,
	loanStatusCompleted:        LoanStatusCompleted,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// Outstanding reports whether the status occupies the single-active-loan slot.
func (s LoanStatus) Outstanding() bool {
	return s.value == loanStatusPendingDocuments || s.value == loanStatusActive
}

// MarshalJSON encodes the status as its string value.
func (s LoanStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes and validates the status. A document carrying an
// unknown status is rejected rather than silently defaulted.
func (s *LoanStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = LoanStatus{}
		return nil
	}
	v, err := NewLoanStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
