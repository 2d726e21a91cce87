package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
)

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatOptionalDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return formatDate(t)
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	Currency   string    `json:"currency"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Code:       a.Code,
		CategoryID: a.CategoryID,
		Currency:   a.Currency,
		Active:     a.Active,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Group     string    `json:"group,omitempty"`
	Nature    string    `json:"nature,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryFromDomain converts a domain category to a response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	resp := &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Group:     string(c.Group),
		CreatedAt: c.CreatedAt,
	}
	if c.Group != "" {
		resp.Nature = c.Nature().String()
	}
	return resp
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// LineResponse represents a journal line in API responses.
type LineResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	Side           string          `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	OriginalAmount decimal.Decimal `json:"original_amount,omitempty"`
	OriginalRate   decimal.Decimal `json:"original_rate,omitempty"`
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID          string         `json:"id"`
	Date        string         `json:"date"`
	Description string         `json:"description,omitempty"`
	Reference   string         `json:"reference,omitempty"`
	Lines       []LineResponse `json:"lines"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.JournalEntry) *EntryResponse {
	lines := make([]LineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LineResponse{
			ID:             l.ID,
			AccountID:      l.AccountID,
			Side:           string(l.Side),
			Amount:         l.Amount,
			OriginalAmount: l.OriginalAmount,
			OriginalRate:   l.OriginalRate,
		}
	}

	return &EntryResponse{
		ID:          e.ID,
		Date:        formatDate(e.Date),
		Description: e.Description,
		Reference:   e.Reference,
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.JournalEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// AssetIncludeResponse represents a forecast baseline membership.
type AssetIncludeResponse struct {
	AccountID string           `json:"account_id"`
	Override  *decimal.Decimal `json:"override,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// AssetIncludesFromDomain converts domain includes to responses.
func AssetIncludesFromDomain(includes []*domain.AssetInclude) []*AssetIncludeResponse {
	result := make([]*AssetIncludeResponse, len(includes))
	for i, inc := range includes {
		result[i] = &AssetIncludeResponse{
			AccountID: inc.AccountID,
			Override:  inc.Override,
			CreatedAt: inc.CreatedAt,
		}
	}
	return result
}

// ScheduleRowResponse represents a forecast day in API responses.
type ScheduleRowResponse struct {
	Date             string          `json:"date"`
	Description      string          `json:"description,omitempty"`
	Inflow           decimal.Decimal `json:"inflow"`
	Outflow          decimal.Decimal `json:"outflow"`
	PredictedClosing decimal.Decimal `json:"predicted_closing"`
	ActualClosing    decimal.Decimal `json:"actual_closing"`
	Variance         decimal.Decimal `json:"variance"`
	AutoGenerated    bool            `json:"auto_generated"`
}

// ScheduleRowFromDomain converts a domain schedule row to a response.
func ScheduleRowFromDomain(row *domain.ScheduleRow) *ScheduleRowResponse {
	return &ScheduleRowResponse{
		Date:             formatDate(row.Date),
		Description:      row.Description,
		Inflow:           row.Inflow,
		Outflow:          row.Outflow,
		PredictedClosing: row.PredictedClosing,
		ActualClosing:    row.ActualClosing,
		Variance:         row.Variance,
		AutoGenerated:    row.AutoGenerated,
	}
}

// ScheduleRowsFromDomain converts domain schedule rows to responses.
func ScheduleRowsFromDomain(rows []*domain.ScheduleRow) []*ScheduleRowResponse {
	result := make([]*ScheduleRowResponse, len(rows))
	for i, row := range rows {
		result[i] = ScheduleRowFromDomain(row)
	}
	return result
}

// RecurringEventResponse represents a recurring template in API responses.
type RecurringEventResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description,omitempty"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date,omitempty"`
	Frequency   string          `json:"frequency"`
	Interval    int             `json:"interval"`
	Weekdays    []int           `json:"weekdays,omitempty"`
	MonthDay    int             `json:"month_day,omitempty"`
	Dates       []string        `json:"dates,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecurringEventFromDomain converts a domain event to a response.
func RecurringEventFromDomain(e *domain.RecurringEvent) *RecurringEventResponse {
	resp := &RecurringEventResponse{
		ID:          e.ID,
		Description: e.Description,
		Direction:   string(e.Direction),
		Amount:      e.Amount,
		StartDate:   formatDate(e.StartDate),
		EndDate:     formatOptionalDate(e.EndDate),
		Frequency:   string(e.Frequency),
		Interval:    e.Interval,
		MonthDay:    e.MonthDay,
		Active:      e.Active,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}

	for _, wd := range e.Weekdays {
		resp.Weekdays = append(resp.Weekdays, int(wd))
	}
	for _, d := range e.Dates {
		resp.Dates = append(resp.Dates, formatDate(d))
	}

	return resp
}

// RecurringEventsFromDomain converts domain events to responses.
func RecurringEventsFromDomain(events []*domain.RecurringEvent) []*RecurringEventResponse {
	result := make([]*RecurringEventResponse, len(events))
	for i, e := range events {
		result[i] = RecurringEventFromDomain(e)
	}
	return result
}

// ScenarioResponse represents a scenario in API responses.
type ScenarioResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Baseline  decimal.Decimal `json:"baseline"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ScenarioFromDomain converts a domain scenario to a response.
func ScenarioFromDomain(s *domain.Scenario) *ScenarioResponse {
	return &ScenarioResponse{
		ID:        s.ID,
		Name:      s.Name,
		StartDate: formatDate(s.StartDate),
		EndDate:   formatDate(s.EndDate),
		Baseline:  s.Baseline,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ScenariosFromDomain converts domain scenarios to responses.
func ScenariosFromDomain(scenarios []*domain.Scenario) []*ScenarioResponse {
	result := make([]*ScenarioResponse, len(scenarios))
	for i, s := range scenarios {
		result[i] = ScenarioFromDomain(s)
	}
	return result
}

// ScenarioRowResponse represents a scenario day in API responses.
type ScenarioRowResponse struct {
	Date             string          `json:"date"`
	Description      string          `json:"description,omitempty"`
	Inflow           decimal.Decimal `json:"inflow"`
	Outflow          decimal.Decimal `json:"outflow"`
	PredictedClosing decimal.Decimal `json:"predicted_closing"`
}

// ScenarioRowFromDomain converts a domain scenario row to a response.
func ScenarioRowFromDomain(row *domain.ScenarioRow) *ScenarioRowResponse {
	return &ScenarioRowResponse{
		Date:             formatDate(row.Date),
		Description:      row.Description,
		Inflow:           row.Inflow,
		Outflow:          row.Outflow,
		PredictedClosing: row.PredictedClosing,
	}
}

// ScenarioRowsFromDomain converts domain scenario rows to responses.
func ScenarioRowsFromDomain(rows []*domain.ScenarioRow) []*ScenarioRowResponse {
	result := make([]*ScenarioRowResponse, len(rows))
	for i, row := range rows {
		result[i] = ScenarioRowFromDomain(row)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
