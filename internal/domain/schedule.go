package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleRow is a single forecast day. Rows are unique per (user, date),
// created on demand and never deleted except by range cleanup.
type ScheduleRow struct {
	ID               string
	UserID           string
	Date             time.Time
	Description      string
	Inflow           decimal.Decimal
	Outflow          decimal.Decimal
	PredictedClosing decimal.Decimal
	ActualClosing    decimal.Decimal
	Variance         decimal.Decimal
	AutoGenerated    bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DailyBalance is a materialized actual closing balance for one day,
// rebuilt by the forecast engine and bounded to the schedule horizon.
type DailyBalance struct {
	UserID    string
	Date      time.Time
	Balance   decimal.Decimal
	UpdatedAt time.Time
}
