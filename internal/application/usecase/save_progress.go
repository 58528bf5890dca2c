package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/wingcash/lending-engine/internal/application/dto"
	"github.com/wingcash/lending-engine/internal/domain/event"
	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/port"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// SaveProgressUseCase locks in the caller's tentative settlement marks: every
// Settling installment becomes Locked atomically, the account transitions to
// COMPLETED when the last installment locks, and the history feed is updated.
type SaveProgressUseCase struct {
	repo      port.AccountDocumentRepository
	publisher port.EventPublisher
}

// NewSaveProgressUseCase wires dependencies.
func NewSaveProgressUseCase(
	repo port.AccountDocumentRepository,
	publisher port.EventPublisher,
) *SaveProgressUseCase {
	return &SaveProgressUseCase{repo: repo, publisher: publisher}
}

// Execute merges the caller-held schedule into the persisted document and
// locks the tentative marks. The persisted schedule stays authoritative for
// locked installments; the caller's marks are replayed through the state
// machine, so an out-of-order or concurrent mark fails here exactly as it
// would have failed at toggle time.
func (uc *SaveProgressUseCase) Execute(
	ctx context.Context,
	req dto.SaveProgressRequest,
) (dto.SaveProgressResponse, error) {
	now := time.Now().UTC()

	// 1. Load the document.
	doc, err := uc.repo.Get(ctx, req.SubjectID)
	if err != nil {
		return dto.SaveProgressResponse{}, fmt.Errorf("load document: %w", err)
	}
	if doc.Account == nil || len(doc.Schedule) == 0 {
		return dto.SaveProgressResponse{}, fmt.Errorf("%w: subject has no repayment schedule", valueobject.ErrNotFound)
	}
	account := *doc.Account

	incoming := dto.InstallmentsToDomain(req.Installments)
	if len(incoming) != len(doc.Schedule) {
		return dto.SaveProgressResponse{}, fmt.Errorf(
			"%w: schedule has %d installments, got %d",
			valueobject.ErrInvalidInput, len(doc.Schedule), len(incoming),
		)
	}

	// 2. Replay the caller's marks against the stored schedule.
	merged := model.CloneSchedule(doc.Schedule)
	for i := range merged {
		if merged[i].Locked || incoming[i].Settled == merged[i].Settled {
			continue
		}
		merged, err = model.ToggleInstallment(merged, i)
		if err != nil {
			return dto.SaveProgressResponse{}, fmt.Errorf("apply settlement mark: %w", err)
		}
	}

	// 3. Lock in every tentative mark atomically.
	merged, lockedNow := model.LockSettled(merged)

	// 4. Completion frees the single-active-loan slot.
	account, completed := account.MarkCompletedIfSettled(merged)

	// 5. Update the history feed, deduplicated by the commit timestamp.
	entry := model.NewHistoryEntry(account)
	if account.Status.Equal(valueobject.LoanStatusCompleted) {
		entry.Status = valueobject.LoanStatusCompleted
	}
	history, appended := model.UpsertHistoryEntry(doc.History, entry)

	// 6. Persist the document as one unit.
	doc.Account = &account
	doc.Schedule = merged
	doc.History = history
	doc = doc.Touch(now)
	if err := uc.repo.Put(ctx, doc); err != nil {
		return dto.SaveProgressResponse{}, fmt.Errorf("save document: %w", err)
	}

	// 7. Publish.
	var events []event.DomainEvent
	if lockedNow > 0 {
		m := model.ComputeScheduleMetrics(account, merged)
		events = append(events, event.NewInstallmentsLocked(
			account.ID, req.SubjectID,
			lockedNow, model.LockedCount(merged), m.RemainingBalance,
		))
	}
	if completed {
		events = append(events, event.NewLoanCompleted(account.ID, req.SubjectID))
	}
	if len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			return dto.SaveProgressResponse{}, fmt.Errorf("publish events: %w", err)
		}
	}

	return dto.SaveProgressResponse{
		Account:              dto.NewLoanAccountResponse(account),
		Schedule:             dto.NewScheduleResponse(account, merged),
		HistoryEntryAppended: appended,
	}, nil
}
