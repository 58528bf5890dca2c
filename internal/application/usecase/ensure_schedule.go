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

// EnsureScheduleUseCase returns the subject's installment schedule,
// generating it once on first access. An existing schedule is returned
// untouched — regenerating would erase settlement progress.
type EnsureScheduleUseCase struct {
	repo      port.AccountDocumentRepository
	publisher port.EventPublisher
}

// NewEnsureScheduleUseCase wires dependencies.
func NewEnsureScheduleUseCase(
	repo port.AccountDocumentRepository,
	publisher port.EventPublisher,
) *EnsureScheduleUseCase {
	return &EnsureScheduleUseCase{repo: repo, publisher: publisher}
}

// Execute loads the subject document and ensures a schedule exists for its
// loan account. The schedule is anchored at the commit instant, so repeated
// calls are idempotent.
func (uc *EnsureScheduleUseCase) Execute(
	ctx context.Context,
	req dto.EnsureScheduleRequest,
) (dto.ScheduleResponse, error) {
	// 1. Load the document.
	doc, err := uc.repo.Get(ctx, req.SubjectID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("load document: %w", err)
	}
	if doc.Account == nil {
		return dto.ScheduleResponse{}, fmt.Errorf("%w: subject has no loan account", valueobject.ErrNotFound)
	}
	account := *doc.Account

	// 2. An existing schedule wins unconditionally.
	if len(doc.Schedule) > 0 {
		return dto.NewScheduleResponse(account, doc.Schedule), nil
	}

	// 3. Generate anchored at commit time. A COMPLETED account gets its
	// schedule back-filled as fully settled.
	schedule, err := model.GenerateSchedule(account, account.CommittedAt)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("generate schedule: %w", err)
	}

	// 4. A schedule now exists, so a pending account becomes active.
	if account.Status.Equal(valueobject.LoanStatusPendingDocuments) {
		account, err = account.Activate()
		if err != nil {
			return dto.ScheduleResponse{}, fmt.Errorf("activate account: %w", err)
		}
	}

	// 5. Persist the document as one unit.
	doc.Account = &account
	doc.Schedule = schedule
	doc = doc.Touch(time.Now())
	if err := uc.repo.Put(ctx, doc); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("save document: %w", err)
	}

	// 6. Publish.
	evt := event.NewRepaymentScheduleGenerated(
		account.ID, req.SubjectID,
		len(schedule), schedule[0].DueDate, schedule[len(schedule)-1].DueDate,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.NewScheduleResponse(account, schedule), nil
}
