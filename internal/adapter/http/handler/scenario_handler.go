package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkoval/fincast/internal/adapter/http/dto"
	"github.com/dkoval/fincast/internal/usecase"
)

// ScenarioHandler handles what-if scenario requests.
type ScenarioHandler struct {
	scenarioUC *usecase.ScenarioUseCase
}

// NewScenarioHandler creates a new ScenarioHandler.
func NewScenarioHandler(scenarioUC *usecase.ScenarioUseCase) *ScenarioHandler {
	return &ScenarioHandler{scenarioUC: scenarioUC}
}

// Create forks a live schedule window into a new scenario.
func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario", err.Error())
		return
	}

	scenario, err := h.scenarioUC.CreateFromWindow(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ScenarioFromDomain(scenario))
}

// Get returns one scenario.
func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "id")
	if scenarioID == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	scenario, err := h.scenarioUC.Get(r.Context(), userID(r), scenarioID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ScenarioFromDomain(scenario))
}

// List lists the user's scenarios.
func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.scenarioUC.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scenarios", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ScenariosFromDomain(scenarios))
}

// Rows lists a scenario's rows in date order.
func (h *ScenarioHandler) Rows(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "id")
	if scenarioID == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	rows, err := h.scenarioUC.Rows(r.Context(), userID(r), scenarioID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ScenarioRowsFromDomain(rows))
}

// UpdateRow sets a scenario row's flows and recomputes the chain.
func (h *ScenarioHandler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "id")
	if scenarioID == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	var req dto.UpdateScenarioRowRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID(r), scenarioID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row", err.Error())
		return
	}

	row, err := h.scenarioUC.UpdateRow(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ScenarioRowFromDomain(row))
}

// DeleteRow removes one scenario row and recomputes the chain.
func (h *ScenarioHandler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "id")
	if scenarioID == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	date, ok := parseDateQuery(w, r, "date")
	if !ok {
		return
	}

	if err := h.scenarioUC.DeleteRow(r.Context(), userID(r), scenarioID, date); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a scenario with all of its rows.
func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scenarioID := chi.URLParam(r, "id")
	if scenarioID == "" {
		writeError(w, http.StatusBadRequest, "missing scenario ID", "")
		return
	}

	if err := h.scenarioUC.Delete(r.Context(), userID(r), scenarioID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
