package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

func TestNewLoanAccount(t *testing.T) {
	quote, err := ComputeQuote(decimal.NewFromInt(5000), decimal.NewFromFloat(2.0), 12, true, DefaultInstallmentFee)
	require.NoError(t, err)

	now := time.Date(2025, 3, 15, 10, 30, 0, 0, time.FixedZone("CET", 3600))
	account := NewLoanAccount(quote, now)

	assert.NotEmpty(t, account.ID)
	assert.True(t, account.Status.Equal(valueobject.LoanStatusDraft))
	assert.True(t, account.Principal.Equal(quote.Principal))
	assert.True(t, account.MonthlyPayment.Equal(quote.MonthlyPayment))
	assert.True(t, account.TotalPayback.Equal(quote.TotalPayback))
	assert.Equal(t, time.UTC, account.CommittedAt.Location(), "commit time is normalized to UTC")
	assert.True(t, account.CommittedAt.Equal(now))
}

func TestLoanAccountTransitions(t *testing.T) {
	quote, err := ComputeQuote(decimal.NewFromInt(1200), decimal.Zero, 3, false, DefaultInstallmentFee)
	require.NoError(t, err)
	draft := NewLoanAccount(quote, time.Now())

	t.Run("draft submits for review", func(t *testing.T) {
		pending, err := draft.SubmitForReview()
		require.NoError(t, err)
		assert.True(t, pending.Status.Equal(valueobject.LoanStatusPendingDocuments))
		assert.True(t, draft.Status.Equal(valueobject.LoanStatusDraft), "receiver is immutable")
	})

	t.Run("pending activates", func(t *testing.T) {
		pending, err := draft.SubmitForReview()
		require.NoError(t, err)
		active, err := pending.Activate()
		require.NoError(t, err)
		assert.True(t, active.Status.Equal(valueobject.LoanStatusActive))
	})

	t.Run("activating an active account is a no-op", func(t *testing.T) {
		active := draft
		active.Status = valueobject.LoanStatusActive
		again, err := active.Activate()
		require.NoError(t, err)
		assert.True(t, again.Status.Equal(valueobject.LoanStatusActive))
	})

	t.Run("draft cannot activate directly", func(t *testing.T) {
		_, err := draft.Activate()
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("resubmitting is rejected", func(t *testing.T) {
		pending, err := draft.SubmitForReview()
		require.NoError(t, err)
		_, err = pending.SubmitForReview()
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}

func TestMarkCompletedIfSettled(t *testing.T) {
	account := activeAccount(2)
	locked := []InstallmentRecord{
		{SequenceNumber: 1, Settled: true, Locked: true},
		{SequenceNumber: 2, Settled: true, Locked: true},
	}

	t.Run("completes when every installment is locked", func(t *testing.T) {
		next, completed := account.MarkCompletedIfSettled(locked)
		assert.True(t, completed)
		assert.True(t, next.Status.Equal(valueobject.LoanStatusCompleted))
	})

	t.Run("tentative marks do not complete", func(t *testing.T) {
		partial := CloneSchedule(locked)
		partial[1].Locked = false
		next, completed := account.MarkCompletedIfSettled(partial)
		assert.False(t, completed)
		assert.True(t, next.Status.Equal(valueobject.LoanStatusActive))
	})

	t.Run("empty schedule never completes", func(t *testing.T) {
		_, completed := account.MarkCompletedIfSettled(nil)
		assert.False(t, completed)
	})

	t.Run("already completed reports no transition", func(t *testing.T) {
		done := account
		done.Status = valueobject.LoanStatusCompleted
		_, completed := done.MarkCompletedIfSettled(locked)
		assert.False(t, completed)
	})
}
