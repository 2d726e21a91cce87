package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkoval/fincast/internal/adapter/http/dto"
	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// PostingHandler handles journal entry HTTP requests.
type PostingHandler struct {
	postingUC *usecase.PostingUseCase
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(postingUC *usecase.PostingUseCase) *PostingHandler {
	return &PostingHandler{postingUC: postingUC}
}

// Create posts a new journal entry. A repeated reference replays the
// original entry instead of posting again.
func (h *PostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry", err.Error())
		return
	}

	entry, err := h.postingUC.Post(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateReference) && entry != nil {
			writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get returns one journal entry with its lines.
func (h *PostingHandler) Get(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.postingUC.GetEntry(r.Context(), userID(r), entryID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List lists the user's entries, newest first.
func (h *PostingHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.postingUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		UserID: userID(r),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Delete removes a whole entry with all of its lines.
func (h *PostingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	if err := h.postingUC.DeleteEntry(r.Context(), userID(r), entryID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
