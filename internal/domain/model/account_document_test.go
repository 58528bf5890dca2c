package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

func TestHasOutstandingLoan(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		doc := NewAccountDocument("subject-1")
		assert.False(t, doc.HasOutstandingLoan())
	})

	t.Run("pending account without a schedule blocks", func(t *testing.T) {
		account := activeAccount(3)
		account.Status = valueobject.LoanStatusPendingDocuments
		doc := AccountDocument{SubjectID: "subject-1", Account: &account}
		assert.True(t, doc.HasOutstandingLoan())
	})

	t.Run("active account with unsettled installments blocks", func(t *testing.T) {
		account := activeAccount(3)
		schedule, err := GenerateSchedule(account, account.CommittedAt)
		require.NoError(t, err)
		doc := AccountDocument{SubjectID: "subject-1", Account: &account, Schedule: schedule}
		assert.True(t, doc.HasOutstandingLoan())
	})

	t.Run("fully settled schedule frees the slot", func(t *testing.T) {
		account := activeAccount(2)
		schedule := []InstallmentRecord{
			{SequenceNumber: 1, Settled: true, Locked: true},
			{SequenceNumber: 2, Settled: true, Locked: true},
		}
		doc := AccountDocument{SubjectID: "subject-1", Account: &account, Schedule: schedule}
		assert.False(t, doc.HasOutstandingLoan())
	})

	t.Run("completed account does not block", func(t *testing.T) {
		account := activeAccount(3)
		account.Status = valueobject.LoanStatusCompleted
		doc := AccountDocument{SubjectID: "subject-1", Account: &account}
		assert.False(t, doc.HasOutstandingLoan())
	})
}

func TestAccountDocumentTouch(t *testing.T) {
	doc := NewAccountDocument("subject-1")
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	touched := doc.Touch(now)
	assert.Equal(t, 1, touched.Version)
	assert.Equal(t, now, touched.UpdatedAt)
	assert.Zero(t, doc.Version, "receiver is immutable")

	again := touched.Touch(now.Add(time.Minute))
	assert.Equal(t, 2, again.Version)
}

func TestAccountDocumentClone(t *testing.T) {
	account := activeAccount(2)
	doc := AccountDocument{
		SubjectID: "subject-1",
		Account:   &account,
		Schedule:  []InstallmentRecord{{SequenceNumber: 1}, {SequenceNumber: 2}},
		History:   []HistoryEntry{{LoanID: "loan-1", TimestampMillis: 42}},
		Version:   3,
	}

	clone := doc.Clone()
	clone.Account.Status = valueobject.LoanStatusCompleted
	clone.Schedule[0].Settled = true
	clone.History[0].Status = valueobject.LoanStatusCompleted

	assert.True(t, doc.Account.Status.Equal(valueobject.LoanStatusActive))
	assert.False(t, doc.Schedule[0].Settled)
	assert.True(t, doc.History[0].Status.IsZero())
}
