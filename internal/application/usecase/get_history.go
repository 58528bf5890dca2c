package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/wingcash/lending-engine/internal/application/dto"
	"github.com/wingcash/lending-engine/internal/domain/port"
	"github.com/wingcash/lending-engine/internal/domain/service"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// GetHistoryUseCase returns the subject's activity feed, filtered and grouped
// for chronological display.
type GetHistoryUseCase struct {
	repo       port.AccountDocumentRepository
	aggregator *service.HistoryAggregator
}

// NewGetHistoryUseCase wires dependencies.
func NewGetHistoryUseCase(
	repo port.AccountDocumentRepository,
	aggregator *service.HistoryAggregator,
) *GetHistoryUseCase {
	return &GetHistoryUseCase{repo: repo, aggregator: aggregator}
}

// Execute loads the subject document and delegates to the aggregator.
func (uc *GetHistoryUseCase) Execute(
	ctx context.Context,
	req dto.GetHistoryRequest,
) ([]dto.HistoryGroupResponse, error) {
	filter, err := valueobject.NewTimeFilter(req.TimeFilter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", valueobject.ErrInvalidInput, err)
	}

	doc, err := uc.repo.Get(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	groups := uc.aggregator.FilterAndGroup(doc.History, req.SearchText, filter, time.Now())
	return dto.NewHistoryGroupResponses(groups), nil
}
