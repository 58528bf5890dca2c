// Package engine is the public surface of the lending engine library. It
// bundles the quoting, commitment, schedule, settlement, and history
// operations behind one handle so an embedding application wires a store and
// a publisher once and gets the whole engine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wingcash/lending-engine/internal/application/dto"
	"github.com/wingcash/lending-engine/internal/application/usecase"
	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/port"
	"github.com/wingcash/lending-engine/internal/domain/service"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
	"github.com/wingcash/lending-engine/internal/infrastructure/messaging"
	"github.com/wingcash/lending-engine/internal/infrastructure/persistence/memory"
)

// Re-exported request/response types. The engine's callers work entirely in
// terms of these.
type (
	QuoteRequest              = dto.QuoteRequest
	QuoteResponse             = dto.QuoteResponse
	CommitLoanRequest         = dto.CommitLoanRequest
	LoanAccountResponse       = dto.LoanAccountResponse
	EnsureScheduleRequest     = dto.EnsureScheduleRequest
	ScheduleResponse          = dto.ScheduleResponse
	Installment               = dto.Installment
	ToggleInstallmentRequest  = dto.ToggleInstallmentRequest
	ToggleInstallmentResponse = dto.ToggleInstallmentResponse
	SaveProgressRequest       = dto.SaveProgressRequest
	SaveProgressResponse      = dto.SaveProgressResponse
	GetHistoryRequest         = dto.GetHistoryRequest
	HistoryGroupResponse      = dto.HistoryGroupResponse
)

// RateTier is re-exported so callers can supply a custom tier table.
type RateTier = valueobject.RateTier

// Sentinel errors surfaced to callers; match with errors.Is.
var (
	ErrInvalidInput         = valueobject.ErrInvalidInput
	ErrActiveLoanConflict   = valueobject.ErrActiveLoanConflict
	ErrOutOfOrderSettlement = valueobject.ErrOutOfOrderSettlement
	ErrConcurrentSettlement = valueobject.ErrConcurrentSettlement
	ErrNotFound             = valueobject.ErrNotFound
)

// Options configure an Engine. Zero values get sensible defaults: an
// in-memory store, a logging publisher, the standard rate tier table, and
// the standard installment fee.
type Options struct {
	Repository     port.AccountDocumentRepository
	Publisher      port.EventPublisher
	RateTiers      []valueobject.RateTier
	InstallmentFee decimal.Decimal
	Logger         *slog.Logger
}

// Engine exposes the public loan operations.
type Engine struct {
	repo    port.AccountDocumentRepository
	quote   *usecase.QuoteLoanUseCase
	commit  *usecase.CommitLoanUseCase
	ensure  *usecase.EnsureScheduleUseCase
	toggle  *usecase.ToggleInstallmentUseCase
	save    *usecase.SaveProgressUseCase
	history *usecase.GetHistoryUseCase
}

// New validates the options and wires the usecases.
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repo := opts.Repository
	if repo == nil {
		repo = memory.NewDocumentStore()
	}

	publisher := opts.Publisher
	if publisher == nil {
		publisher = messaging.NewLogEventPublisher(logger)
	}

	tiers := opts.RateTiers
	if tiers == nil {
		tiers = valueobject.DefaultRateTiers()
	}
	if err := valueobject.ValidateTiers(tiers); err != nil {
		return nil, fmt.Errorf("rate tiers: %w", err)
	}

	fee := opts.InstallmentFee
	if fee.LessThanOrEqual(decimal.Zero) {
		fee = model.DefaultInstallmentFee
	}

	return &Engine{
		repo:    repo,
		quote:   usecase.NewQuoteLoanUseCase(tiers, fee),
		commit:  usecase.NewCommitLoanUseCase(repo, publisher, tiers, fee),
		ensure:  usecase.NewEnsureScheduleUseCase(repo, publisher),
		toggle:  usecase.NewToggleInstallmentUseCase(),
		save:    usecase.NewSaveProgressUseCase(repo, publisher),
		history: usecase.NewGetHistoryUseCase(repo, service.NewHistoryAggregator()),
	}, nil
}

// Quote prices a loan request. Quotes are ephemeral and never persisted.
func (e *Engine) Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	return e.quote.Execute(ctx, req)
}

// Commit turns a quote into the subject's loan account, enforcing the
// single-active-loan invariant.
func (e *Engine) Commit(ctx context.Context, req CommitLoanRequest) (LoanAccountResponse, error) {
	return e.commit.Execute(ctx, req)
}

// EnsureSchedule returns the subject's installment schedule, generating it
// once on first access.
func (e *Engine) EnsureSchedule(ctx context.Context, req EnsureScheduleRequest) (ScheduleResponse, error) {
	return e.ensure.Execute(ctx, req)
}

// ToggleInstallment applies one settlement state-machine step to a
// caller-held schedule.
func (e *Engine) ToggleInstallment(ctx context.Context, req ToggleInstallmentRequest) (ToggleInstallmentResponse, error) {
	return e.toggle.Execute(ctx, req)
}

// SaveProgress locks in tentative settlement marks.
func (e *Engine) SaveProgress(ctx context.Context, req SaveProgressRequest) (SaveProgressResponse, error) {
	return e.save.Execute(ctx, req)
}

// History returns the subject's activity feed, filtered and grouped.
func (e *Engine) History(ctx context.Context, req GetHistoryRequest) ([]HistoryGroupResponse, error) {
	return e.history.Execute(ctx, req)
}

// Ready probes the backing store. ErrNotFound counts as healthy: the probe
// subject is not expected to exist.
func (e *Engine) Ready(ctx context.Context) error {
	_, err := e.repo.Get(ctx, "readiness-probe")
	if err != nil && !errors.Is(err, valueobject.ErrNotFound) {
		return err
	}
	return nil
}
