package usecase

import (
	"context"
	"fmt"

	"github.com/wingcash/lending-engine/internal/application/dto"
	"github.com/wingcash/lending-engine/internal/domain/model"
)

// ToggleInstallmentUseCase applies one step of the sequential settlement
// state machine to a caller-held schedule. The tentative mark is
// session-local: nothing is persisted until SaveProgress locks it in.
type ToggleInstallmentUseCase struct{}

// NewToggleInstallmentUseCase returns the usecase.
func NewToggleInstallmentUseCase() *ToggleInstallmentUseCase {
	return &ToggleInstallmentUseCase{}
}

// Execute toggles the installment at the requested index. Toggling a locked
// installment is a documented no-op; out-of-order or concurrent tentative
// settlements fail without changing the schedule.
func (uc *ToggleInstallmentUseCase) Execute(
	_ context.Context,
	req dto.ToggleInstallmentRequest,
) (dto.ToggleInstallmentResponse, error) {
	schedule := dto.InstallmentsToDomain(req.Installments)

	updated, err := model.ToggleInstallment(schedule, req.Index)
	if err != nil {
		return dto.ToggleInstallmentResponse{}, fmt.Errorf("toggle installment: %w", err)
	}

	return dto.ToggleInstallmentResponse{
		Installments: dto.InstallmentsFromDomain(updated),
	}, nil
}
