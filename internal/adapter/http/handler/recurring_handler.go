package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkoval/fincast/internal/adapter/http/dto"
	"github.com/dkoval/fincast/internal/usecase"
)

// RecurringHandler handles recurring event template requests.
type RecurringHandler struct {
	recurringUC *usecase.RecurringUseCase
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringUC *usecase.RecurringUseCase) *RecurringHandler {
	return &RecurringHandler{recurringUC: recurringUC}
}

// Create creates a recurring event template.
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecurringEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToCreateInput(userID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event", err.Error())
		return
	}

	event, err := h.recurringUC.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecurringEventFromDomain(event))
}

// Update rewrites a template. Generated rows stay until the next apply.
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	var req dto.RecurringEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUpdateInput(userID(r), eventID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event", err.Error())
		return
	}

	event, err := h.recurringUC.Update(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringEventFromDomain(event))
}

// Toggle flips a template's active flag.
func (h *RecurringHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	event, err := h.recurringUC.Toggle(r.Context(), userID(r), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringEventFromDomain(event))
}

// Get returns one template.
func (h *RecurringHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	event, err := h.recurringUC.Get(r.Context(), userID(r), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringEventFromDomain(event))
}

// List lists the user's templates.
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.recurringUC.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringEventsFromDomain(events))
}

// Delete removes a template. Generated rows are left in place.
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	if err := h.recurringUC.Delete(r.Context(), userID(r), eventID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Apply expands every active template over a date window and recomputes
// the forecast chains.
func (h *RecurringHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyEventsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	from, err := dto.ParseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'from' date", err.Error())
		return
	}
	to, err := dto.ParseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'to' date", err.Error())
		return
	}

	if err := h.recurringUC.Apply(r.Context(), userID(r), from, to); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
