package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// ReportService defines the reporting behavior needed by ReportHandler.
type ReportService interface {
	BalanceAsOf(ctx context.Context, userID, accountID string, asOf time.Time) (*decimal.Decimal, error)
	MonthlySummary(ctx context.Context, input usecase.MonthlySummaryInput) (*usecase.MonthlySummary, error)
}

// ReconciliationService defines the per-user reconciliation behavior.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, userID, accountID string) (*usecase.ReconciliationResult, error)
	ReconcileUser(ctx context.Context, userID string) ([]*usecase.ReconciliationResult, error)
}

// ReportHandler serves balances, summaries and reconciliation checks.
type ReportHandler struct {
	reportUC    ReportService
	reconcileUC ReconciliationService
	now         func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService, reconcileUC ReconciliationService) *ReportHandler {
	return &ReportHandler{
		reportUC:    reportUC,
		reconcileUC: reconcileUC,
		now:         time.Now,
	}
}

// Balance returns an account's balance at the end of ?as_of= (default today).
func (h *ReportHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	asOf := domain.DateOf(h.now().UTC())
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := domain.ParseDate(raw)
		if err != nil {
			writeDomainError(w, r, "failed to get balance", err)
			return
		}
		asOf = parsed
	}

	accountID := chi.URLParam(r, "id")
	balance, err := h.reportUC.BalanceAsOf(r.Context(), userID, accountID, asOf)
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		AsOf:      asOf.Format(domain.DateLayout),
		Balance:   balance,
	})
}

// Summary returns the monthly dashboard for ?year=&month=.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.reportUC.MonthlySummary(r.Context(), usecase.MonthlySummaryInput{
		UserID: userID,
		Year:   parseIntQuery(r, "year", 0),
		Month:  parseIntQuery(r, "month", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to build summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlySummaryFromUseCase(summary))
}

// ReconcileAccount recomputes one account's balance from its history.
func (h *ReportHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.reconcileUC.ReconcileAccount(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to reconcile account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// ReconcileUser checks every account of the user.
func (h *ReportHandler) ReconcileUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	results, err := h.reconcileUC.ReconcileUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, "failed to reconcile accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconcileUserFromUseCase(results))
}
