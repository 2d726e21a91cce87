package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
	"github.com/dkoval/fincast/internal/infrastructure/metrics"
)

// TrialBalanceAccount is one account row of the report. Amounts are rounded
// to two decimal places at output; internal accumulation keeps full
// precision.
type TrialBalanceAccount struct {
	AccountID    string          `json:"account_id"`
	Name         string          `json:"name"`
	Code         string          `json:"code,omitempty"`
	BD           decimal.Decimal `json:"bd"`
	Balance      decimal.Decimal `json:"balance"`
	PeriodDebit  decimal.Decimal `json:"period_debit"`
	PeriodCredit decimal.Decimal `json:"period_credit"`
	PeriodNet    decimal.Decimal `json:"period_net"`
}

// TrialBalanceCategory is a category subtotal with its account rows.
type TrialBalanceCategory struct {
	CategoryID   string                `json:"category_id"`
	Name         string                `json:"name"`
	Accounts     []TrialBalanceAccount `json:"accounts"`
	BD           decimal.Decimal       `json:"bd"`
	Balance      decimal.Decimal       `json:"balance"`
	PeriodDebit  decimal.Decimal       `json:"period_debit"`
	PeriodCredit decimal.Decimal       `json:"period_credit"`
	PeriodNet    decimal.Decimal       `json:"period_net"`
}

// TrialBalanceGroup is a group subtotal with its category sections.
type TrialBalanceGroup struct {
	Group        domain.Group           `json:"group"`
	Categories   []TrialBalanceCategory `json:"categories"`
	BD           decimal.Decimal        `json:"bd"`
	Balance      decimal.Decimal        `json:"balance"`
	PeriodDebit  decimal.Decimal        `json:"period_debit"`
	PeriodCredit decimal.Decimal        `json:"period_credit"`
	PeriodNet    decimal.Decimal        `json:"period_net"`
}

// TrialBalanceReport is the monthly trial balance output.
type TrialBalanceReport struct {
	UserID   string     `json:"user_id"`
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Currency string     `json:"currency,omitempty"`

	// BeforeInitialization marks a valid, all-zero report for a month that
	// ends before the ledger's initialization date.
	BeforeInitialization bool       `json:"before_initialization,omitempty"`
	InitializedOn        *time.Time `json:"initialized_on,omitempty"`

	Groups []TrialBalanceGroup `json:"groups"`

	TotalBD           decimal.Decimal `json:"total_bd"`
	TotalBalance      decimal.Decimal `json:"total_balance"`
	TotalPeriodDebit  decimal.Decimal `json:"total_period_debit"`
	TotalPeriodCredit decimal.Decimal `json:"total_period_credit"`
	TotalPeriodNet    decimal.Decimal `json:"total_period_net"`
}

// TrialBalanceUseCase aggregates monthly trial balances over the balance
// resolution primitive.
type TrialBalanceUseCase struct {
	balances     *BalanceService
	categoryRepo CategoryRepository
	settingsRepo SettingsRepository
	reportCache  ReportCache
}

// NewTrialBalanceUseCase creates a new TrialBalanceUseCase.
func NewTrialBalanceUseCase(
	balances *BalanceService,
	categoryRepo CategoryRepository,
	settingsRepo SettingsRepository,
	reportCache ReportCache,
) *TrialBalanceUseCase {
	return &TrialBalanceUseCase{
		balances:     balances,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		reportCache:  reportCache,
	}
}

// Monthly computes the trial balance for one calendar month. An optional
// currency filters accounts before scoping; grand totals cover the
// filtered set only.
func (uc *TrialBalanceUseCase) Monthly(ctx context.Context, userID string, year int, month time.Month, currency string) (*TrialBalanceReport, error) {
	key := fmt.Sprintf("tb:%s:%04d-%02d:%s", userID, year, month, currency)

	if uc.reportCache != nil {
		if cached, err := uc.reportCache.Get(ctx, key); err == nil && cached != nil {
			var report TrialBalanceReport
			if err := json.Unmarshal(cached, &report); err == nil {
				metrics.TrialBalanceReports.WithLabelValues("cache").Inc()
				return &report, nil
			}
		}
	}

	report, err := uc.compute(ctx, userID, year, month, currency)
	if err != nil {
		return nil, err
	}

	metrics.TrialBalanceReports.WithLabelValues("computed").Inc()

	if uc.reportCache != nil {
		if encoded, err := json.Marshal(report); err == nil {
			_ = uc.reportCache.Set(ctx, key, encoded, ReportCacheTTL)
		}
	}

	return report, nil
}

func (uc *TrialBalanceUseCase) compute(ctx context.Context, userID string, year int, month time.Month, currency string) (*TrialBalanceReport, error) {
	monthStart, monthEnd := domain.MonthBounds(year, month)

	report := &TrialBalanceReport{
		UserID:   userID,
		Year:     year,
		Month:    month,
		Currency: currency,
	}

	setting, err := uc.settingsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	periodStart := monthStart
	if setting != nil {
		initOn := domain.Day(setting.InitializedOn)
		report.InitializedOn = &initOn

		// A month that ends before initialization is a valid, zeroed
		// report, not an error.
		if monthEnd.Before(initOn) {
			report.BeforeInitialization = true
			uc.zeroTotals(report)
			return report, nil
		}

		if initOn.After(periodStart) {
			periodStart = initOn
		}
	}

	scope := Scope{
		Currency:        currency,
		ActiveOnly:      true,
		RequireNonEmpty: currency != "",
	}

	// Pass 1: beginning-of-period balances, cutoff at the prior month end.
	bd, err := uc.balances.Resolve(ctx, userID, scope, domain.PrevDay(monthStart))
	if err != nil {
		return nil, err
	}

	// Pass 2: ending balances, cutoff at this month's last day.
	end, err := uc.balances.Resolve(ctx, userID, scope, monthEnd)
	if err != nil {
		return nil, err
	}

	// Pass 3: movement-only debit/credit totals within the period.
	movements, err := uc.balances.MovementTotals(ctx, userID, scope, periodStart, monthEnd)
	if err != nil {
		return nil, err
	}

	movementByAccount := make(map[string]domain.MovementSum, len(movements))
	for _, m := range movements {
		movementByAccount[m.AccountID] = m
	}

	categories, err := uc.categoryRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	categoryByID := make(map[string]*domain.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	uc.rollUp(report, end.Accounts, categoryByID, end.Natures, bd.Balances, end.Balances, movementByAccount)

	return report, nil
}

// rollUp builds the nested group/category/account structure. Every subtotal
// is the arithmetic sum of its children; rounding happens once, at output.
func (uc *TrialBalanceUseCase) rollUp(
	report *TrialBalanceReport,
	accounts []*domain.Account,
	categories map[string]*domain.Category,
	natures map[string]domain.Nature,
	bdBalances, endBalances map[string]decimal.Decimal,
	movements map[string]domain.MovementSum,
) {
	type catAgg struct {
		category *domain.Category
		accounts []TrialBalanceAccount
		bd, bal, pd, pc, pn decimal.Decimal
	}

	cats := make(map[string]*catAgg)

	var totalBD, totalBal, totalPD, totalPC, totalPN decimal.Decimal

	for _, a := range accounts {
		c, ok := categories[a.CategoryID]
		if !ok || !c.Group.Valid() {
			// Accounts without a grouped category stay out of aggregation.
			continue
		}

		m := movements[a.ID]
		net := domain.SignedMovement(natures[a.ID], m.Debit, m.Credit)

		agg, ok := cats[c.ID]
		if !ok {
			agg = &catAgg{category: c}
			cats[c.ID] = agg
		}

		agg.accounts = append(agg.accounts, TrialBalanceAccount{
			AccountID:    a.ID,
			Name:         a.Name,
			Code:         a.Code,
			BD:           bdBalances[a.ID].Round(2),
			Balance:      endBalances[a.ID].Round(2),
			PeriodDebit:  m.Debit.Round(2),
			PeriodCredit: m.Credit.Round(2),
			PeriodNet:    net.Round(2),
		})

		agg.bd = agg.bd.Add(bdBalances[a.ID])
		agg.bal = agg.bal.Add(endBalances[a.ID])
		agg.pd = agg.pd.Add(m.Debit)
		agg.pc = agg.pc.Add(m.Credit)
		agg.pn = agg.pn.Add(net)

		totalBD = totalBD.Add(bdBalances[a.ID])
		totalBal = totalBal.Add(endBalances[a.ID])
		totalPD = totalPD.Add(m.Debit)
		totalPC = totalPC.Add(m.Credit)
		totalPN = totalPN.Add(net)
	}

	byGroup := make(map[domain.Group][]*catAgg)
	for _, agg := range cats {
		byGroup[agg.category.Group] = append(byGroup[agg.category.Group], agg)
	}

	for _, g := range []domain.Group{domain.GroupAsset, domain.GroupLiability, domain.GroupEquity, domain.GroupIncome, domain.GroupExpense} {
		aggs := byGroup[g]
		if len(aggs) == 0 {
			continue
		}

		sort.Slice(aggs, func(i, j int) bool {
			return aggs[i].category.Name < aggs[j].category.Name
		})

		section := TrialBalanceGroup{Group: g}
		for _, agg := range aggs {
			sort.Slice(agg.accounts, func(i, j int) bool {
				return agg.accounts[i].Name < agg.accounts[j].Name
			})

			section.Categories = append(section.Categories, TrialBalanceCategory{
				CategoryID:   agg.category.ID,
				Name:         agg.category.Name,
				Accounts:     agg.accounts,
				BD:           agg.bd.Round(2),
				Balance:      agg.bal.Round(2),
				PeriodDebit:  agg.pd.Round(2),
				PeriodCredit: agg.pc.Round(2),
				PeriodNet:    agg.pn.Round(2),
			})

			section.BD = section.BD.Add(agg.bd)
			section.Balance = section.Balance.Add(agg.bal)
			section.PeriodDebit = section.PeriodDebit.Add(agg.pd)
			section.PeriodCredit = section.PeriodCredit.Add(agg.pc)
			section.PeriodNet = section.PeriodNet.Add(agg.pn)
		}

		section.BD = section.BD.Round(2)
		section.Balance = section.Balance.Round(2)
		section.PeriodDebit = section.PeriodDebit.Round(2)
		section.PeriodCredit = section.PeriodCredit.Round(2)
		section.PeriodNet = section.PeriodNet.Round(2)

		report.Groups = append(report.Groups, section)
	}

	report.TotalBD = totalBD.Round(2)
	report.TotalBalance = totalBal.Round(2)
	report.TotalPeriodDebit = totalPD.Round(2)
	report.TotalPeriodCredit = totalPC.Round(2)
	report.TotalPeriodNet = totalPN.Round(2)
}

func (uc *TrialBalanceUseCase) zeroTotals(report *TrialBalanceReport) {
	zero := decimal.Zero.Round(2)
	report.TotalBD = zero
	report.TotalBalance = zero
	report.TotalPeriodDebit = zero
	report.TotalPeriodCredit = zero
	report.TotalPeriodNet = zero
}
