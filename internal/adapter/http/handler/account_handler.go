package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dkoval/fincast/internal/adapter/http/dto"
	"github.com/dkoval/fincast/internal/usecase"
)

// AccountHandler handles account, category and ledger setup requests.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates an account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(userID(r)))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Update updates an account's display fields and active flag.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.UpdateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), req.ToUseCaseInput(userID(r), accountID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Get returns one account.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), userID(r), accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the user's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	accounts, err := h.accountUC.ListAccounts(r.Context(), userID(r), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// CreateCategory creates a category.
func (h *AccountHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.accountUC.CreateCategory(r.Context(), req.ToUseCaseInput(userID(r)))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// ListCategories lists the user's categories.
func (h *AccountHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.accountUC.ListCategories(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// Initialize records the initialization date and opening balances.
func (h *AccountHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req dto.InitializeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid initialization", err.Error())
		return
	}

	if err := h.accountUC.Initialize(r.Context(), input); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetAssetInclude opts an account into the forecast cash baseline.
func (h *AccountHandler) SetAssetInclude(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.AssetIncludeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.accountUC.SetAssetInclude(r.Context(), userID(r), accountID, req.Override); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveAssetInclude drops an account from the forecast cash baseline.
func (h *AccountHandler) RemoveAssetInclude(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	if err := h.accountUC.RemoveAssetInclude(r.Context(), userID(r), accountID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAssetIncludes lists the forecast cash baseline membership.
func (h *AccountHandler) ListAssetIncludes(w http.ResponseWriter, r *http.Request) {
	includes, err := h.accountUC.ListAssetIncludes(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list asset includes", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetIncludesFromDomain(includes))
}
