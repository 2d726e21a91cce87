package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/infrastructure/metrics"
)

// PostingUseCase validates and commits journal entries.
type PostingUseCase struct {
	txManager   TransactionManager
	journalRepo JournalRepository
	accountRepo AccountRepository
	idGen       IDGenerator
	retrier     Retrier
	reportCache ReportCache
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	journalRepo JournalRepository,
	accountRepo AccountRepository,
	idGen IDGenerator,
	retrier Retrier,
	reportCache ReportCache,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
		retrier:     retrier,
		reportCache: reportCache,
	}
}

// PostLineInput is one candidate journal line.
type PostLineInput struct {
	AccountID      string
	Side           domain.Side
	Amount         decimal.Decimal
	OriginalAmount decimal.Decimal
	OriginalRate   decimal.Decimal
}

// PostInput is a candidate multi-line entry.
type PostInput struct {
	UserID      string
	Date        time.Time
	Description string
	// Reference is an optional idempotency key; a repeated reference makes
	// the call a no-op signalled by domain.ErrDuplicateReference.
	Reference string
	Lines     []PostLineInput
}

// Post validates the balanced-entry invariant and commits the entry with
// all of its lines in one transaction. Nothing is written on rejection.
func (uc *PostingUseCase) Post(ctx context.Context, input PostInput) (*domain.JournalEntry, error) {
	now := time.Now().UTC()

	entry := &domain.JournalEntry{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		Date:        domain.Day(input.Date),
		Description: input.Description,
		Reference:   input.Reference,
		CreatedAt:   now,
	}

	for _, l := range input.Lines {
		entry.Lines = append(entry.Lines, domain.JournalLine{
			ID:             uc.idGen.Generate(),
			EntryID:        entry.ID,
			AccountID:      l.AccountID,
			Side:           l.Side,
			Amount:         l.Amount,
			OriginalAmount: l.OriginalAmount,
			OriginalRate:   l.OriginalRate,
		})
	}

	if err := domain.ValidateLines(entry.Lines); err != nil {
		metrics.EntriesRejected.WithLabelValues("unbalanced").Inc()
		return nil, err
	}

	if err := uc.checkOwnership(ctx, input.UserID, entry.Lines); err != nil {
		metrics.EntriesRejected.WithLabelValues("scope").Inc()
		return nil, err
	}

	if input.Reference != "" {
		existing, err := uc.journalRepo.GetByReference(ctx, input.UserID, input.Reference)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			metrics.EntriesRejected.WithLabelValues("duplicate_reference").Inc()
			return existing, domain.ErrDuplicateReference
		}
	}

	start := time.Now()

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.journalRepo.CreateEntry(ctx, tx, entry); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	metrics.EntriesPosted.Inc()
	metrics.PostingDuration.Observe(time.Since(start).Seconds())

	uc.invalidateReports(ctx, input.UserID)

	return entry, nil
}

// DeleteEntry removes a whole entry and its lines. Individual lines are
// never deleted.
func (uc *PostingUseCase) DeleteEntry(ctx context.Context, userID, entryID string) error {
	if _, err := uc.journalRepo.GetByID(ctx, userID, entryID); err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.journalRepo.DeleteEntry(ctx, tx, userID, entryID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateReports(ctx, userID)

	return nil
}

// GetEntry retrieves an entry with its lines.
func (uc *PostingUseCase) GetEntry(ctx context.Context, userID, entryID string) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByID(ctx, userID, entryID)
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListEntries lists the user's entries, newest first.
func (uc *PostingUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.JournalEntry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.journalRepo.List(ctx, input.UserID, limit, offset)
}

func (uc *PostingUseCase) checkOwnership(ctx context.Context, userID string, lines []domain.JournalLine) error {
	seen := make(map[string]bool, len(lines))
	var ids []string
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}

	accounts, err := uc.accountRepo.GetByIDs(ctx, userID, ids)
	if err != nil {
		return err
	}
	if len(accounts) != len(ids) {
		return domain.ErrScopeResolution
	}

	return nil
}

func (uc *PostingUseCase) invalidateReports(ctx context.Context, userID string) {
	if uc.reportCache == nil {
		return
	}
	// Cache invalidation is best effort; reports rebuild from the ledger.
	_ = uc.reportCache.InvalidateUser(ctx, userID)
}
