package handler

import (
	"net/http"
	"time"

	"github.com/dkoval/fincast/internal/adapter/http/dto"
	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// ForecastHandler handles forecast schedule requests.
type ForecastHandler struct {
	forecastUC *usecase.ForecastUseCase
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastUC *usecase.ForecastUseCase) *ForecastHandler {
	return &ForecastHandler{forecastUC: forecastUC}
}

// GetSchedule lists forecast rows for a date window.
func (h *ForecastHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	from, ok := parseDateQuery(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(w, r, "to")
	if !ok {
		return
	}

	rows, err := h.forecastUC.GetSchedule(r.Context(), userID(r), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load schedule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ScheduleRowsFromDomain(rows))
}

// QuickAdd adds a one-off flow onto a date and recomputes from there.
func (h *ForecastHandler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	var req dto.QuickAddRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := dto.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	row, err := h.forecastUC.QuickAdd(r.Context(), userID(r), date,
		domain.Direction(req.Direction), req.Amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ScheduleRowFromDomain(row))
}

// UpdateRow sets a row's flows outright and recomputes from its date.
func (h *ForecastHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateQuery(w, r, "date")
	if !ok {
		return
	}

	var req dto.UpdateScheduleRowRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	row, err := h.forecastUC.UpdateRowAmounts(r.Context(), userID(r), date,
		req.Inflow, req.Outflow, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ScheduleRowFromDomain(row))
}

// Recompute re-runs the prediction and actual chains from a date, or from
// the last modification when none is given.
func (h *ForecastHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := dto.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'from' parameter", err.Error())
			return
		}
		if err := h.forecastUC.RecomputeFrom(r.Context(), userID(r), from); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.forecastUC.RecomputeFromLastChange(r.Context(), userID(r), domain.Day(time.Now().UTC())); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
