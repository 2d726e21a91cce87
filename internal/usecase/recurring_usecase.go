package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/infrastructure/metrics"
)

// RecurringUseCase manages recurring event templates and their expansion
// into schedule rows. Template CRUD never rewrites generated rows; only an
// explicit Apply pass propagates changes.
type RecurringUseCase struct {
	eventRepo    RecurringEventRepository
	scheduleRepo ScheduleRepository
	forecast     *ForecastUseCase
	idGen        IDGenerator
}

// NewRecurringUseCase creates a new RecurringUseCase.
func NewRecurringUseCase(
	eventRepo RecurringEventRepository,
	scheduleRepo ScheduleRepository,
	forecast *ForecastUseCase,
	idGen IDGenerator,
) *RecurringUseCase {
	return &RecurringUseCase{
		eventRepo:    eventRepo,
		scheduleRepo: scheduleRepo,
		forecast:     forecast,
		idGen:        idGen,
	}
}

// CreateEventInput represents a new recurring event template.
type CreateEventInput struct {
	UserID      string
	Description string
	Direction   domain.Direction
	Amount      decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	Frequency   domain.Frequency
	Interval    int
	Weekdays    []time.Weekday
	MonthDay    int
	Dates       []time.Time
}

// Create persists a new template. It does not generate any rows.
func (uc *RecurringUseCase) Create(ctx context.Context, input CreateEventInput) (*domain.RecurringEvent, error) {
	if !input.Direction.Valid() || !input.Frequency.Valid() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.RecurringEvent{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		Description: input.Description,
		Direction:   input.Direction,
		Amount:      input.Amount,
		StartDate:   domain.Day(input.StartDate),
		Frequency:   input.Frequency,
		Interval:    max(input.Interval, 1),
		Weekdays:    input.Weekdays,
		MonthDay:    input.MonthDay,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !input.EndDate.IsZero() {
		event.EndDate = domain.Day(input.EndDate)
	}
	for _, d := range input.Dates {
		event.Dates = append(event.Dates, domain.Day(d))
	}

	if err := uc.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// UpdateEventInput carries mutable template fields.
type UpdateEventInput struct {
	UserID      string
	EventID     string
	Description string
	Direction   domain.Direction
	Amount      decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	Frequency   domain.Frequency
	Interval    int
	Weekdays    []time.Weekday
	MonthDay    int
	Dates       []time.Time
}

// Update rewrites the template. Already-generated rows are left as they
// are until the next Apply pass.
func (uc *RecurringUseCase) Update(ctx context.Context, input UpdateEventInput) (*domain.RecurringEvent, error) {
	event, err := uc.eventRepo.GetByID(ctx, input.UserID, input.EventID)
	if err != nil {
		return nil, err
	}

	if !input.Direction.Valid() || !input.Frequency.Valid() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	event.Description = input.Description
	event.Direction = input.Direction
	event.Amount = input.Amount
	event.StartDate = domain.Day(input.StartDate)
	event.EndDate = time.Time{}
	if !input.EndDate.IsZero() {
		event.EndDate = domain.Day(input.EndDate)
	}
	event.Frequency = input.Frequency
	event.Interval = max(input.Interval, 1)
	event.Weekdays = input.Weekdays
	event.MonthDay = input.MonthDay
	event.Dates = nil
	for _, d := range input.Dates {
		event.Dates = append(event.Dates, domain.Day(d))
	}
	event.UpdatedAt = time.Now().UTC()

	if err := uc.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Toggle flips the template's active flag.
func (uc *RecurringUseCase) Toggle(ctx context.Context, userID, eventID string) (*domain.RecurringEvent, error) {
	event, err := uc.eventRepo.GetByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	event.Active = !event.Active
	event.UpdatedAt = time.Now().UTC()

	if err := uc.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Delete removes the template, leaving generated rows in place.
func (uc *RecurringUseCase) Delete(ctx context.Context, userID, eventID string) error {
	if _, err := uc.eventRepo.GetByID(ctx, userID, eventID); err != nil {
		return err
	}
	return uc.eventRepo.Delete(ctx, userID, eventID)
}

// Get retrieves one template.
func (uc *RecurringUseCase) Get(ctx context.Context, userID, eventID string) (*domain.RecurringEvent, error) {
	return uc.eventRepo.GetByID(ctx, userID, eventID)
}

// List lists the user's templates.
func (uc *RecurringUseCase) List(ctx context.Context, userID string) ([]*domain.RecurringEvent, error) {
	return uc.eventRepo.List(ctx, userID)
}

// Apply expands every active template over [start, end] into schedule row
// flows and recomputes trajectories once. Expansion sets values rather
// than accumulating them, so re-running over the same range with an
// unchanged template set is a no-op.
func (uc *RecurringUseCase) Apply(ctx context.Context, userID string, start, end time.Time) error {
	start, end = domain.Day(start), domain.Day(end)

	events, err := uc.eventRepo.ListActive(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	touched := false

	for _, event := range events {
		for _, date := range event.MatchDates(start, end) {
			row, err := uc.forecast.EnsureRow(ctx, userID, date)
			if err != nil {
				return err
			}

			if event.Direction == domain.DirectionInflow {
				row.Inflow = event.Amount
			} else {
				row.Outflow = event.Amount
			}
			if row.Description == "" || row.AutoGenerated {
				row.Description = event.Description
			}
			row.AutoGenerated = true
			row.UpdatedAt = now

			if err := uc.scheduleRepo.Upsert(ctx, nil, row); err != nil {
				return err
			}
			touched = true
		}
	}

	metrics.RecurringExpansions.Inc()

	if touched {
		return uc.forecast.RecomputeFrom(ctx, userID, start)
	}

	return nil
}
