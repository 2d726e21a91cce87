package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/usecase"
)

// ParseDate parses a calendar date in the ledger's wire format.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use %s)", value, domain.DateLayout)
	}
	return d, nil
}

func parseOptionalDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return ParseDate(value)
}

// PostLineRequest is a single line of a posting request.
type PostLineRequest struct {
	AccountID      string          `json:"account_id"`
	Side           string          `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	OriginalAmount decimal.Decimal `json:"original_amount,omitempty"`
	OriginalRate   decimal.Decimal `json:"original_rate,omitempty"`
}

// PostEntryRequest represents a request to post a journal entry.
type PostEntryRequest struct {
	Date        string            `json:"date"`
	Description string            `json:"description,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	Lines       []PostLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput(userID string) (usecase.PostInput, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return usecase.PostInput{}, err
	}

	lines := make([]usecase.PostLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = usecase.PostLineInput{
			AccountID:      l.AccountID,
			Side:           domain.Side(l.Side),
			Amount:         l.Amount,
			OriginalAmount: l.OriginalAmount,
			OriginalRate:   l.OriginalRate,
		}
	}

	return usecase.PostInput{
		UserID:      userID,
		Date:        date,
		Description: r.Description,
		Reference:   r.Reference,
		Lines:       lines,
	}, nil
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Currency   string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(userID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		UserID:     userID,
		Name:       r.Name,
		Code:       r.Code,
		CategoryID: r.CategoryID,
		Currency:   r.Currency,
	}
}

// UpdateAccountRequest represents a request to update an account.
type UpdateAccountRequest struct {
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Active     bool   `json:"active"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(userID, accountID string) usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		UserID:     userID,
		AccountID:  accountID,
		Name:       r.Name,
		Code:       r.Code,
		CategoryID: r.CategoryID,
		Active:     r.Active,
	}
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput(userID string) usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		UserID: userID,
		Name:   r.Name,
		Group:  domain.Group(r.Group),
	}
}

// InitializeRequest represents a request to initialize the ledger.
type InitializeRequest struct {
	InitializedOn string                     `json:"initialized_on"`
	FirstMonth    string                     `json:"first_month,omitempty"`
	Openings      map[string]decimal.Decimal `json:"openings,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *InitializeRequest) ToUseCaseInput(userID string) (usecase.InitializeInput, error) {
	initializedOn, err := ParseDate(r.InitializedOn)
	if err != nil {
		return usecase.InitializeInput{}, err
	}

	return usecase.InitializeInput{
		UserID:        userID,
		InitializedOn: initializedOn,
		FirstMonth:    r.FirstMonth,
		Openings:      r.Openings,
	}, nil
}

// AssetIncludeRequest opts an account into the forecast cash baseline.
type AssetIncludeRequest struct {
	Override *decimal.Decimal `json:"override,omitempty"`
}

// QuickAddRequest represents a one-off forecast flow on a date.
type QuickAddRequest struct {
	Date        string          `json:"date"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// UpdateScheduleRowRequest sets a forecast row's flows outright.
type UpdateScheduleRowRequest struct {
	Inflow      decimal.Decimal `json:"inflow"`
	Outflow     decimal.Decimal `json:"outflow"`
	Description string          `json:"description,omitempty"`
}

// RecurringEventRequest represents a request to create or update a
// recurring event template.
type RecurringEventRequest struct {
	Description string          `json:"description,omitempty"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date,omitempty"`
	Frequency   string          `json:"frequency"`
	Interval    int             `json:"interval,omitempty"`
	Weekdays    []int           `json:"weekdays,omitempty"`
	MonthDay    int             `json:"month_day,omitempty"`
	Dates       []string        `json:"dates,omitempty"`
}

// ToCreateInput converts to use case input.
func (r *RecurringEventRequest) ToCreateInput(userID string) (usecase.CreateEventInput, error) {
	start, end, weekdays, dates, err := r.parseRule()
	if err != nil {
		return usecase.CreateEventInput{}, err
	}

	return usecase.CreateEventInput{
		UserID:      userID,
		Description: r.Description,
		Direction:   domain.Direction(r.Direction),
		Amount:      r.Amount,
		StartDate:   start,
		EndDate:     end,
		Frequency:   domain.Frequency(r.Frequency),
		Interval:    r.Interval,
		Weekdays:    weekdays,
		MonthDay:    r.MonthDay,
		Dates:       dates,
	}, nil
}

// ToUpdateInput converts to use case input.
func (r *RecurringEventRequest) ToUpdateInput(userID, eventID string) (usecase.UpdateEventInput, error) {
	start, end, weekdays, dates, err := r.parseRule()
	if err != nil {
		return usecase.UpdateEventInput{}, err
	}

	return usecase.UpdateEventInput{
		UserID:      userID,
		EventID:     eventID,
		Description: r.Description,
		Direction:   domain.Direction(r.Direction),
		Amount:      r.Amount,
		StartDate:   start,
		EndDate:     end,
		Frequency:   domain.Frequency(r.Frequency),
		Interval:    r.Interval,
		Weekdays:    weekdays,
		MonthDay:    r.MonthDay,
		Dates:       dates,
	}, nil
}

func (r *RecurringEventRequest) parseRule() (start, end time.Time, weekdays []time.Weekday, dates []time.Time, err error) {
	start, err = ParseDate(r.StartDate)
	if err != nil {
		return
	}
	end, err = parseOptionalDate(r.EndDate)
	if err != nil {
		return
	}

	for _, wd := range r.Weekdays {
		if wd < 0 || wd > 6 {
			err = fmt.Errorf("invalid weekday %d (use 0=Sunday..6=Saturday)", wd)
			return
		}
		weekdays = append(weekdays, time.Weekday(wd))
	}

	for _, raw := range r.Dates {
		var d time.Time
		d, err = ParseDate(raw)
		if err != nil {
			return
		}
		dates = append(dates, d)
	}

	return
}

// ApplyEventsRequest expands active templates over a date window.
type ApplyEventsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CreateScenarioRequest forks a schedule window into a scenario.
type CreateScenarioRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	CloneRows bool   `json:"clone_rows"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateScenarioRequest) ToUseCaseInput(userID string) (usecase.CreateFromWindowInput, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return usecase.CreateFromWindowInput{}, err
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return usecase.CreateFromWindowInput{}, err
	}

	return usecase.CreateFromWindowInput{
		UserID:    userID,
		Name:      r.Name,
		StartDate: start,
		EndDate:   end,
		CloneRows: r.CloneRows,
	}, nil
}

// UpdateScenarioRowRequest sets a scenario row's flows.
type UpdateScenarioRowRequest struct {
	Date        string          `json:"date"`
	Inflow      decimal.Decimal `json:"inflow"`
	Outflow     decimal.Decimal `json:"outflow"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateScenarioRowRequest) ToUseCaseInput(userID, scenarioID string) (usecase.UpdateRowInput, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return usecase.UpdateRowInput{}, err
	}

	return usecase.UpdateRowInput{
		UserID:      userID,
		ScenarioID:  scenarioID,
		Date:        date,
		Inflow:      r.Inflow,
		Outflow:     r.Outflow,
		Description: r.Description,
	}, nil
}
