package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scenario is an independent what-if fork of a schedule date window.
// Once created it shares no state with the live schedule.
type Scenario struct {
	ID        string
	UserID    string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	// Baseline is the predicted closing captured from the live schedule at
	// fork time; the scenario's chain is seeded from it ever after.
	Baseline  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScenarioRow mirrors ScheduleRow without actual-balance tracking; the
// predicted chain is recomputed independently of the live schedule.
type ScenarioRow struct {
	ID               string
	ScenarioID       string
	Date             time.Time
	Description      string
	Inflow           decimal.Decimal
	Outflow          decimal.Decimal
	PredictedClosing decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
