package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoanLifecycle walks one loan from quote to completion through the
// public surface, backed by the default in-memory store.
func TestLoanLifecycle(t *testing.T) {
	eng, err := New(Options{})
	require.NoError(t, err)
	ctx := context.Background()

	// Quote: 1200 over 3 months lands in the cheapest tier.
	quote, err := eng.Quote(ctx, QuoteRequest{
		Principal:      decimal.NewFromInt(1200),
		DurationMonths: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "1.5", quote.RatePercent.String())
	assert.Equal(t, "Up to 6 months", quote.RateLabel)

	// Commit.
	account, err := eng.Commit(ctx, CommitLoanRequest{
		SubjectID:      "subject-1",
		Principal:      decimal.NewFromInt(1200),
		DurationMonths: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING_DOCUMENTS", account.Status)
	assert.True(t, account.MonthlyPayment.Equal(quote.MonthlyPayment))

	// A second commit is blocked while the loan is outstanding.
	_, err = eng.Commit(ctx, CommitLoanRequest{
		SubjectID:      "subject-1",
		Principal:      decimal.NewFromInt(500),
		DurationMonths: 6,
	})
	require.ErrorIs(t, err, ErrActiveLoanConflict)

	// First schedule access generates and activates; repeats are stable.
	schedule, err := eng.EnsureSchedule(ctx, EnsureScheduleRequest{SubjectID: "subject-1"})
	require.NoError(t, err)
	require.Len(t, schedule.Installments, 3)
	again, err := eng.EnsureSchedule(ctx, EnsureScheduleRequest{SubjectID: "subject-1"})
	require.NoError(t, err)
	assert.Equal(t, schedule, again)

	// Settle installments one at a time: toggle a tentative mark, save it.
	held := schedule.Installments
	for i := 0; i < 3; i++ {
		toggled, err := eng.ToggleInstallment(ctx, ToggleInstallmentRequest{
			Installments: held,
			Index:        i,
		})
		require.NoError(t, err)

		saved, err := eng.SaveProgress(ctx, SaveProgressRequest{
			SubjectID:    "subject-1",
			Installments: toggled.Installments,
		})
		require.NoError(t, err)
		require.True(t, saved.Schedule.Installments[i].Locked)
		held = saved.Schedule.Installments
	}

	// Locking the last installment completes the loan.
	final, err := eng.SaveProgress(ctx, SaveProgressRequest{
		SubjectID:    "subject-1",
		Installments: held,
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", final.Account.Status)
	assert.True(t, final.Schedule.RemainingBalance.IsZero())

	// The feed carries one entry for the whole loan, now COMPLETED.
	groups, err := eng.History(ctx, GetHistoryRequest{SubjectID: "subject-1"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "TODAY", groups[0].Label)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "COMPLETED", groups[0].Items[0].Status)

	// Completion frees the slot for the next loan.
	time.Sleep(2 * time.Millisecond) // distinct commit instant for the feed
	next, err := eng.Commit(ctx, CommitLoanRequest{
		SubjectID:      "subject-1",
		Principal:      decimal.NewFromInt(500),
		DurationMonths: 6,
	})
	require.NoError(t, err)
	assert.NotEqual(t, account.ID, next.ID)
}

func TestToggleIsSessionLocal(t *testing.T) {
	eng, err := New(Options{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Commit(ctx, CommitLoanRequest{
		SubjectID:      "subject-1",
		Principal:      decimal.NewFromInt(1200),
		DurationMonths: 3,
	})
	require.NoError(t, err)
	schedule, err := eng.EnsureSchedule(ctx, EnsureScheduleRequest{SubjectID: "subject-1"})
	require.NoError(t, err)

	_, err = eng.ToggleInstallment(ctx, ToggleInstallmentRequest{
		Installments: schedule.Installments,
		Index:        0,
	})
	require.NoError(t, err)

	// An unsaved toggle never reaches the store.
	reloaded, err := eng.EnsureSchedule(ctx, EnsureScheduleRequest{SubjectID: "subject-1"})
	require.NoError(t, err)
	assert.False(t, reloaded.Installments[0].Settled)
}

func TestEngineRejectsBadTierTable(t *testing.T) {
	_, err := New(Options{
		RateTiers: []RateTier{{MaxMonths: 6}},
	})
	assert.Error(t, err)
}

func TestEngineReady(t *testing.T) {
	eng, err := New(Options{})
	require.NoError(t, err)
	assert.NoError(t, eng.Ready(context.Background()))
}
