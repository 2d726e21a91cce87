package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/infrastructure/metrics"
)

// ForecastUseCase maintains the day-indexed cash-flow schedule: the
// manually budgeted predicted trajectory, the actual trajectory replayed
// from the ledger, and the variance between them.
type ForecastUseCase struct {
	txManager    TransactionManager
	scheduleRepo ScheduleRepository
	dailyRepo    DailyBalanceRepository
	includeRepo  AssetIncludeRepository
	settingsRepo SettingsRepository
	journalRepo  JournalRepository
	balances     *BalanceService
	idGen        IDGenerator
	retrier      Retrier
	baseCurrency string
}

// NewForecastUseCase creates a new ForecastUseCase.
func NewForecastUseCase(
	txManager TransactionManager,
	scheduleRepo ScheduleRepository,
	dailyRepo DailyBalanceRepository,
	includeRepo AssetIncludeRepository,
	settingsRepo SettingsRepository,
	journalRepo JournalRepository,
	balances *BalanceService,
	idGen IDGenerator,
	retrier Retrier,
	baseCurrency string,
) *ForecastUseCase {
	if baseCurrency == "" {
		baseCurrency = DefaultBaseCurrency
	}
	return &ForecastUseCase{
		txManager:    txManager,
		scheduleRepo: scheduleRepo,
		dailyRepo:    dailyRepo,
		includeRepo:  includeRepo,
		settingsRepo: settingsRepo,
		journalRepo:  journalRepo,
		balances:     balances,
		idGen:        idGen,
		retrier:      retrier,
		baseCurrency: baseCurrency,
	}
}

// EnsureRow idempotently creates a zero-valued schedule row for the date.
func (uc *ForecastUseCase) EnsureRow(ctx context.Context, userID string, date time.Time) (*domain.ScheduleRow, error) {
	date = domain.Day(date)

	row, err := uc.scheduleRepo.GetByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return row, nil
	}

	now := time.Now().UTC()
	row = &domain.ScheduleRow{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.scheduleRepo.Upsert(ctx, nil, row); err != nil {
		return nil, err
	}

	return row, nil
}

// QuickAdd sets a single direction's flow on a row, creating it if missing,
// then recomputes trajectories from that date. Values are set, not
// accumulated.
func (uc *ForecastUseCase) QuickAdd(ctx context.Context, userID string, date time.Time, direction domain.Direction, amount decimal.Decimal, description string) (*domain.ScheduleRow, error) {
	if !direction.Valid() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	row, err := uc.EnsureRow(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if direction == domain.DirectionInflow {
		row.Inflow = amount
	} else {
		row.Outflow = amount
	}
	if description != "" {
		row.Description = description
	}
	row.AutoGenerated = false
	row.UpdatedAt = time.Now().UTC()

	if err := uc.scheduleRepo.Upsert(ctx, nil, row); err != nil {
		return nil, err
	}

	if err := uc.RecomputeFrom(ctx, userID, row.Date); err != nil {
		return nil, err
	}

	return uc.scheduleRepo.GetByDate(ctx, userID, row.Date)
}

// UpdateRowAmounts sets both flows on a row, creating it if missing, then
// recomputes trajectories from that date.
func (uc *ForecastUseCase) UpdateRowAmounts(ctx context.Context, userID string, date time.Time, inflow, outflow decimal.Decimal, description string) (*domain.ScheduleRow, error) {
	if inflow.IsNegative() || outflow.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	row, err := uc.EnsureRow(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	row.Inflow = inflow
	row.Outflow = outflow
	if description != "" {
		row.Description = description
	}
	row.AutoGenerated = false
	row.UpdatedAt = time.Now().UTC()

	if err := uc.scheduleRepo.Upsert(ctx, nil, row); err != nil {
		return nil, err
	}

	if err := uc.RecomputeFrom(ctx, userID, row.Date); err != nil {
		return nil, err
	}

	return uc.scheduleRepo.GetByDate(ctx, userID, row.Date)
}

// GetSchedule returns the rows within [from, to], ordered by date.
func (uc *ForecastUseCase) GetSchedule(ctx context.Context, userID string, from, to time.Time) ([]*domain.ScheduleRow, error) {
	return uc.scheduleRepo.ListRange(ctx, userID, domain.Day(from), domain.Day(to))
}

// RecomputeFromLastChange recomputes from the most recently modified row's
// date, or from fallback when the user has no rows.
func (uc *ForecastUseCase) RecomputeFromLastChange(ctx context.Context, userID string, fallback time.Time) error {
	row, err := uc.scheduleRepo.LastModified(ctx, userID)
	if err != nil {
		return err
	}

	from := domain.Day(fallback)
	if row != nil {
		from = row.Date
	}

	return uc.RecomputeFrom(ctx, userID, from)
}

// RecomputeFrom recomputes the predicted and actual trajectories for every
// row dated on or after from, leaving earlier rows untouched. Actual
// closings are materialized into daily balances, never past the latest
// existing row.
func (uc *ForecastUseCase) RecomputeFrom(ctx context.Context, userID string, from time.Time) error {
	from = domain.Day(from)

	rows, err := uc.scheduleRepo.ListFrom(ctx, userID, from)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	firstDate := rows[0].Date
	lastDate := rows[len(rows)-1].Date

	scope, err := uc.cashScope(ctx, userID)
	if err != nil {
		return err
	}

	// Anchor both trajectories on the day before the first recomputed row.
	anchor, err := uc.balances.Resolve(ctx, userID, scope, domain.PrevDay(firstDate))
	if err != nil {
		return err
	}

	predicted := anchor.Total()
	if prev, err := uc.scheduleRepo.LastBefore(ctx, userID, firstDate); err != nil {
		return err
	} else if prev != nil {
		predicted = prev.PredictedClosing
	}

	actualByDate, err := uc.actualTrajectory(ctx, userID, scope, anchor, firstDate, lastDate)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, row := range rows {
		predicted = predicted.Add(row.Inflow).Sub(row.Outflow)
		row.PredictedClosing = predicted
		row.ActualClosing = actualByDate[row.Date.Format(domain.DateLayout)]
		row.Variance = row.ActualClosing.Sub(row.PredictedClosing)
		row.UpdatedAt = now
	}

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		for _, row := range rows {
			if err := uc.scheduleRepo.Upsert(ctx, tx, row); err != nil {
				return err
			}
			if err := uc.dailyRepo.Upsert(ctx, tx, &domain.DailyBalance{
				UserID:    userID,
				Date:      row.Date,
				Balance:   row.ActualClosing,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
		}

		// Bounded-horizon invariant: no materialized balance may outlive
		// the schedule.
		if err := uc.dailyRepo.DeleteAfter(ctx, tx, userID, lastDate); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	metrics.ForecastRecomputes.Inc()
	metrics.ForecastRowsRecomputed.Add(float64(len(rows)))

	return nil
}

// actualTrajectory walks [firstDate, lastDate] day by day, accumulating
// signed ledger movements on top of the anchor balance, and returns the
// running total keyed by date. Days between rows still contribute their
// movements even though no row is written for them.
func (uc *ForecastUseCase) actualTrajectory(
	ctx context.Context,
	userID string,
	scope Scope,
	anchor *ScopedBalances,
	firstDate, lastDate time.Time,
) (map[string]decimal.Decimal, error) {
	rangeStart := firstDate
	setting, err := uc.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if setting != nil {
		if init := domain.Day(setting.InitializedOn); init.After(rangeStart) {
			rangeStart = init
		}
	}

	var dayMovs []DayMovement
	if !rangeStart.After(lastDate) {
		ids := accountIDs(anchor.Accounts)
		dayMovs, err = uc.journalRepo.SumMovementsByDay(ctx, userID, ids, &rangeStart, &lastDate)
		if err != nil {
			return nil, err
		}
	}

	movementOn := make(map[string]decimal.Decimal)
	for _, m := range dayMovs {
		key := domain.Day(m.Date).Format(domain.DateLayout)
		movementOn[key] = movementOn[key].Add(domain.SignedMovement(anchor.Natures[m.AccountID], m.Debit, m.Credit))
	}

	running := anchor.Total()
	out := make(map[string]decimal.Decimal)
	for d := firstDate; !d.After(lastDate); d = domain.NextDay(d) {
		key := d.Format(domain.DateLayout)
		running = running.Add(movementOn[key])
		out[key] = running
	}

	return out, nil
}

// cashScope resolves the forecast's cash baseline scope: the AssetInclude
// selection with any opening overrides, or every active account of the
// base currency when none is configured.
func (uc *ForecastUseCase) cashScope(ctx context.Context, userID string) (Scope, error) {
	includes, err := uc.includeRepo.List(ctx, userID)
	if err != nil {
		return Scope{}, err
	}

	if len(includes) == 0 {
		return Scope{ActiveOnly: true, Currency: uc.baseCurrency}, nil
	}

	scope := Scope{}
	for _, inc := range includes {
		scope.IncludeIDs = append(scope.IncludeIDs, inc.AccountID)
		if inc.Override != nil {
			if scope.Overrides == nil {
				scope.Overrides = make(map[string]decimal.Decimal)
			}
			scope.Overrides[inc.AccountID] = *inc.Override
		}
	}

	return scope, nil
}
