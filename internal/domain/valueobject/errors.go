package valueobject

import "errors"

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	// ErrInvalidInput indicates a non-positive or malformed numeric input to
	// quoting or schedule generation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrActiveLoanConflict indicates an attempt to commit a second loan while
	// one is still outstanding for the subject.
	ErrActiveLoanConflict = errors.New("active loan conflict")

	// ErrOutOfOrderSettlement indicates an attempt to settle an installment
	// before its predecessor is locked.
	ErrOutOfOrderSettlement = errors.New("out-of-order settlement")

	// ErrConcurrentSettlement indicates an attempt to open a second tentative
	// settlement before the first is saved or reverted.
	ErrConcurrentSettlement = errors.New("concurrent settlement")

	// ErrNotFound indicates an operation addressed to a subject with no
	// persisted account document.
	ErrNotFound = errors.New("account document not found")

	// ErrInvalidStatusTransition indicates a lifecycle transition that is not
	// allowed from the account's current status.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
