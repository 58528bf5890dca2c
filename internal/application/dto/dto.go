package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/service"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// QuoteRequest carries the inputs for pricing a loan.
type QuoteRequest struct {
	Principal      decimal.Decimal `json:"principal"`
	DurationMonths int             `json:"duration_months"`
	IncludeFee     bool            `json:"include_fee"`
}

// CommitLoanRequest carries the data to commit a quote into a loan account.
type CommitLoanRequest struct {
	SubjectID      string          `json:"subject_id"`
	Principal      decimal.Decimal `json:"principal"`
	DurationMonths int             `json:"duration_months"`
	IncludeFee     bool            `json:"include_fee"`
}

// EnsureScheduleRequest identifies the subject whose schedule is needed.
type EnsureScheduleRequest struct {
	SubjectID string `json:"subject_id"`
}

// ToggleInstallmentRequest carries a caller-held schedule and the index to
// toggle. The tentative mark is session-local until saved.
type ToggleInstallmentRequest struct {
	Installments []Installment `json:"installments"`
	Index        int           `json:"index"`
}

// SaveProgressRequest carries the caller-held schedule to lock in.
type SaveProgressRequest struct {
	SubjectID    string        `json:"subject_id"`
	Installments []Installment `json:"installments"`
}

// GetHistoryRequest carries the history filters.
type GetHistoryRequest struct {
	SubjectID  string `json:"subject_id"`
	SearchText string `json:"search_text"`
	TimeFilter string `json:"time_filter"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// QuoteResponse is the external representation of a priced offer. Monetary
// values are rounded to 2 decimals here, at the presentation boundary.
type QuoteResponse struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPayback   decimal.Decimal `json:"total_payback"`
	Fee            decimal.Decimal `json:"fee"`
	RatePercent    decimal.Decimal `json:"rate_percent"`
	RateLabel      string          `json:"rate_label"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q model.Quote) QuoteResponse {
	return QuoteResponse{
		MonthlyPayment: q.MonthlyPayment.Round(2),
		TotalInterest:  q.TotalInterest.Round(2),
		TotalPayback:   q.TotalPayback.Round(2),
		Fee:            q.Fee.Round(2),
		RatePercent:    q.RatePercent,
		RateLabel:      q.RateLabel,
	}
}

// LoanAccountResponse is the external representation of a loan account.
type LoanAccountResponse struct {
	ID             string          `json:"id"`
	Principal      decimal.Decimal `json:"principal"`
	RatePercent    decimal.Decimal `json:"rate_percent"`
	DurationMonths int             `json:"duration_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalPayback   decimal.Decimal `json:"total_payback"`
	Status         string          `json:"status"`
	CommittedAt    time.Time       `json:"committed_at"`
}

// NewLoanAccountResponse converts a domain account.
func NewLoanAccountResponse(a model.LoanAccount) LoanAccountResponse {
	return LoanAccountResponse{
		ID:             a.ID,
		Principal:      a.Principal.Round(2),
		RatePercent:    a.RatePercent,
		DurationMonths: a.DurationMonths,
		MonthlyPayment: a.MonthlyPayment.Round(2),
		TotalPayback:   a.TotalPayback.Round(2),
		Status:         a.Status.String(),
		CommittedAt:    a.CommittedAt,
	}
}

// Installment mirrors one installment record across the boundary.
type Installment struct {
	SequenceNumber int             `json:"sequence_number"`
	DueDate        time.Time       `json:"due_date"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	Settled        bool            `json:"settled"`
	Locked         bool            `json:"locked"`
}

// InstallmentsFromDomain converts a domain schedule.
func InstallmentsFromDomain(schedule []model.InstallmentRecord) []Installment {
	out := make([]Installment, 0, len(schedule))
	for _, r := range schedule {
		out = append(out, Installment{
			SequenceNumber: r.SequenceNumber,
			DueDate:        r.DueDate,
			AmountDue:      r.AmountDue,
			Settled:        r.Settled,
			Locked:         r.Locked,
		})
	}
	return out
}

// InstallmentsToDomain converts a caller-held schedule back to the domain.
func InstallmentsToDomain(installments []Installment) []model.InstallmentRecord {
	out := make([]model.InstallmentRecord, 0, len(installments))
	for _, r := range installments {
		out = append(out, model.InstallmentRecord{
			SequenceNumber: r.SequenceNumber,
			DueDate:        r.DueDate,
			AmountDue:      r.AmountDue,
			Settled:        r.Settled,
			Locked:         r.Locked,
		})
	}
	return out
}

// ScheduleResponse is the external representation of a schedule with its
// derived metrics.
type ScheduleResponse struct {
	LoanID           string          `json:"loan_id"`
	Installments     []Installment   `json:"installments"`
	ProgressValue    float64         `json:"progress_value"`
	TotalRepaid      decimal.Decimal `json:"total_repaid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PayoffDate       time.Time       `json:"payoff_date"`
}

// NewScheduleResponse converts a schedule plus metrics.
func NewScheduleResponse(account model.LoanAccount, schedule []model.InstallmentRecord) ScheduleResponse {
	m := model.ComputeScheduleMetrics(account, schedule)
	return ScheduleResponse{
		LoanID:           account.ID,
		Installments:     InstallmentsFromDomain(schedule),
		ProgressValue:    m.ProgressValue,
		TotalRepaid:      m.TotalRepaid.Round(2),
		RemainingBalance: m.RemainingBalance.Round(2),
		PayoffDate:       m.PayoffDate,
	}
}

// ToggleInstallmentResponse carries the updated caller-held schedule.
type ToggleInstallmentResponse struct {
	Installments []Installment `json:"installments"`
}

// SaveProgressResponse is the result of locking in settlement progress.
type SaveProgressResponse struct {
	Account              LoanAccountResponse `json:"account"`
	Schedule             ScheduleResponse    `json:"schedule"`
	HistoryEntryAppended bool                `json:"history_entry_appended"`
}

// HistoryEntryResponse is the external representation of one feed entry.
type HistoryEntryResponse struct {
	LoanID          string          `json:"loan_id"`
	Amount          decimal.Decimal `json:"amount"`
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
	RatePercent     decimal.Decimal `json:"rate_percent"`
	DurationMonths  int             `json:"duration_months"`
	TimestampMillis int64           `json:"timestamp_millis"`
	Status          string          `json:"status"`
}

// HistoryGroupResponse is one display bucket of the feed.
type HistoryGroupResponse struct {
	Label string                 `json:"label"`
	Items []HistoryEntryResponse `json:"items"`
}

// NewHistoryGroupResponses converts aggregated groups.
func NewHistoryGroupResponses(groups []service.HistoryGroup) []HistoryGroupResponse {
	out := make([]HistoryGroupResponse, 0, len(groups))
	for _, g := range groups {
		items := make([]HistoryEntryResponse, 0, len(g.Items))
		for _, e := range g.Items {
			items = append(items, HistoryEntryResponse{
				LoanID:          e.LoanID,
				Amount:          e.Principal.Round(2),
				MonthlyPayment:  e.MonthlyPayment.Round(2),
				RatePercent:     e.RatePercent,
				DurationMonths:  e.DurationMonths,
				TimestampMillis: e.TimestampMillis,
				Status:          e.Status.String(),
			})
		}
		out = append(out, HistoryGroupResponse{Label: g.Label, Items: items})
	}
	return out
}
