package handler

import (
	"net/http"
	"time"

	"github.com/dkoval/fincast/internal/usecase"
)

// TrialBalanceHandler handles trial balance report requests.
type TrialBalanceHandler struct {
	trialUC *usecase.TrialBalanceUseCase
}

// NewTrialBalanceHandler creates a new TrialBalanceHandler.
func NewTrialBalanceHandler(trialUC *usecase.TrialBalanceUseCase) *TrialBalanceHandler {
	return &TrialBalanceHandler{trialUC: trialUC}
}

// Monthly returns the trial balance for one calendar month.
func (h *TrialBalanceHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year := parseIntQuery(r, "year", 0)
	month := parseIntQuery(r, "month", 0)
	if year < 1 || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "year and month parameters are required", "")
		return
	}

	currency := r.URL.Query().Get("currency")

	report, err := h.trialUC.Monthly(r.Context(), userID(r), year, time.Month(month), currency)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
