package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingcash/lending-engine/internal/application/dto"
	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// heldSchedule returns the caller-side view of the seeded schedule with the
// given installments tentatively marked.
func heldSchedule(t *testing.T, repo *mockDocumentRepository, subjectID string, marked ...int) []dto.Installment {
	t.Helper()
	doc, err := repo.Get(context.Background(), subjectID)
	require.NoError(t, err)
	held := dto.InstallmentsFromDomain(doc.Schedule)
	for _, i := range marked {
		held[i].Settled = true
	}
	return held
}

func TestSaveProgressUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("locks a tentative mark", func(t *testing.T) {
		repo := newMockDocumentRepository()
		pub := newMockEventPublisher()
		seededActiveLoan(t, repo, "subject-1")
		uc := NewSaveProgressUseCase(repo, pub)

		resp, err := uc.Execute(ctx, dto.SaveProgressRequest{
			SubjectID:    "subject-1",
			Installments: heldSchedule(t, repo, "subject-1", 0),
		})
		require.NoError(t, err)

		assert.True(t, resp.Schedule.Installments[0].Locked)
		assert.False(t, resp.Schedule.Installments[1].Settled)
		assert.Equal(t, "ACTIVE", resp.Account.Status)
		assert.False(t, resp.HistoryEntryAppended, "the commit entry is refreshed, not duplicated")
		assert.InDelta(t, 1.0/12, resp.Schedule.ProgressValue, 1e-9)

		assert.Equal(t, []string{"lending.installments.locked"}, pub.eventTypes())
		saved := repo.lastPut()
		assert.True(t, saved.Schedule[0].Locked)
		require.Len(t, saved.History, 1)
	})

	t.Run("saving without changes locks nothing and publishes nothing", func(t *testing.T) {
		repo := newMockDocumentRepository()
		pub := newMockEventPublisher()
		seededActiveLoan(t, repo, "subject-1")
		uc := NewSaveProgressUseCase(repo, pub)

		resp, err := uc.Execute(ctx, dto.SaveProgressRequest{
			SubjectID:    "subject-1",
			Installments: heldSchedule(t, repo, "subject-1"),
		})
		require.NoError(t, err)

		assert.Zero(t, resp.Schedule.ProgressValue)
		assert.Empty(t, pub.published())
	})

	t.Run("locking the last installment completes the loan", func(t *testing.T) {
		repo := newMockDocumentRepository()
		pub := newMockEventPublisher()
		seededActiveLoan(t, repo, "subject-1")
		uc := NewSaveProgressUseCase(repo, pub)

		// Settle installments one save at a time, as the state machine requires.
		var resp dto.SaveProgressResponse
		doc, err := repo.Get(ctx, "subject-1")
		require.NoError(t, err)
		for i := range doc.Schedule {
			resp, err = uc.Execute(ctx, dto.SaveProgressRequest{
				SubjectID:    "subject-1",
				Installments: heldSchedule(t, repo, "subject-1", i),
			})
			require.NoError(t, err)
		}

		assert.Equal(t, "COMPLETED", resp.Account.Status)
		assert.InDelta(t, 1.0, resp.Schedule.ProgressValue, 1e-9)
		assert.True(t, resp.Schedule.RemainingBalance.IsZero(), "remaining %s", resp.Schedule.RemainingBalance)

		types := pub.eventTypes()
		assert.Equal(t, "lending.loan.completed", types[len(types)-1])

		saved := repo.lastPut()
		require.Len(t, saved.History, 1)
		assert.True(t, saved.History[0].Status.Equal(valueobject.LoanStatusCompleted))
		assert.False(t, saved.HasOutstandingLoan(), "completion frees the single-active-loan slot")
	})

	t.Run("out-of-order mark fails at save time", func(t *testing.T) {
		repo := newMockDocumentRepository()
		seededActiveLoan(t, repo, "subject-1")
		uc := NewSaveProgressUseCase(repo, newMockEventPublisher())

		_, err := uc.Execute(ctx, dto.SaveProgressRequest{
			SubjectID:    "subject-1",
			Installments: heldSchedule(t, repo, "subject-1", 1),
		})
		assert.ErrorIs(t, err, valueobject.ErrOutOfOrderSettlement)
		assert.Zero(t, repo.putCount())
	})

	t.Run("two tentative marks fail at save time", func(t *testing.T) {
		repo := newMockDocumentRepository()
		seededActiveLoan(t, repo, "subject-1")
		uc := NewSaveProgressUseCase(repo, newMockEventPublisher())

		_, err := uc.Execute(ctx, dto.SaveProgressRequest{
			SubjectID:    "subject-1",
			Installments: heldSchedule(t, repo, "subject-1", 0, 1),
		})
		assert.Error(t, err)
		assert.Zero(t, repo.putCount())
	})

	t.Run("length mismatch", func(t *testing.T) {
		repo := newMockDocumentRepository()
		seededActiveLoan(t, repo, "subject-1")
		uc := NewSaveProgressUseCase(repo, newMockEventPublisher())

		held := heldSchedule(t, repo, "subject-1")
		_, err := uc.Execute(ctx, dto.SaveProgressRequest{
			SubjectID:    "subject-1",
			Installments: held[:len(held)-1],
		})
		assert.ErrorIs(t, err, valueobject.ErrInvalidInput)
	})

	t.Run("subject without a schedule", func(t *testing.T) {
		repo := newMockDocumentRepository()
		repo.seed(model.NewAccountDocument("subject-1"))
		uc := NewSaveProgressUseCase(repo, newMockEventPublisher())

		_, err := uc.Execute(ctx, dto.SaveProgressRequest{SubjectID: "subject-1"})
		assert.ErrorIs(t, err, valueobject.ErrNotFound)
	})
}
