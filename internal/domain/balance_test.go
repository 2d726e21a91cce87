package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkoval/fincast/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSignedMovement(t *testing.T) {
	tests := []struct {
		name   string
		nature domain.Nature
		debit  string
		credit string
		want   string
	}{
		{"debit-increasing net debit", domain.DebitIncreasing, "100", "30", "70"},
		{"debit-increasing net credit", domain.DebitIncreasing, "30", "100", "-70"},
		{"credit-increasing net credit", domain.CreditIncreasing, "30", "100", "70"},
		{"credit-increasing net debit", domain.CreditIncreasing, "100", "30", "-70"},
		{"zero", domain.DebitIncreasing, "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.SignedMovement(tt.nature, d(tt.debit), d(tt.credit))
			if !got.Equal(d(tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNatureOf(t *testing.T) {
	tests := []struct {
		group domain.Group
		want  domain.Nature
	}{
		{domain.GroupAsset, domain.DebitIncreasing},
		{domain.GroupExpense, domain.DebitIncreasing},
		{domain.GroupLiability, domain.CreditIncreasing},
		{domain.GroupEquity, domain.CreditIncreasing},
		{domain.GroupIncome, domain.CreditIncreasing},
	}

	for _, tt := range tests {
		if got := domain.NatureOf(tt.group); got != tt.want {
			t.Errorf("NatureOf(%s) = %s, want %s", tt.group, got, tt.want)
		}
	}
}

func TestResolveBalances(t *testing.T) {
	accountIDs := []string{"cash", "loan", "salary"}
	natures := map[string]domain.Nature{
		"cash":   domain.DebitIncreasing,
		"loan":   domain.CreditIncreasing,
		"salary": domain.CreditIncreasing,
	}
	openings := map[string]decimal.Decimal{
		"cash": d("1000"),
		"loan": d("500"),
	}
	movements := []domain.MovementSum{
		{AccountID: "cash", Debit: d("300"), Credit: d("120")},
		{AccountID: "loan", Debit: d("50"), Credit: d("0")},
		{AccountID: "salary", Debit: d("0"), Credit: d("300")},
		{AccountID: "ignored", Debit: d("999"), Credit: d("0")},
	}

	got := domain.ResolveBalances(accountIDs, natures, openings, movements)

	want := map[string]string{
		"cash":   "1180", // 1000 + 300 - 120
		"loan":   "450",  // 500 + 0 - 50
		"salary": "300",  // 0 + 300 - 0
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d balances, got %d", len(want), len(got))
	}

	for id, w := range want {
		if !got[id].Equal(d(w)) {
			t.Errorf("balance[%s] = %s, want %s", id, got[id], w)
		}
	}

	if _, ok := got["ignored"]; ok {
		t.Error("out-of-scope movement must not create a balance")
	}
}

// TestResolveBalances_MatchesNaiveReplay checks the primitive against a
// line-by-line replay of a synthetic ledger.
func TestResolveBalances_MatchesNaiveReplay(t *testing.T) {
	type line struct {
		account string
		side    domain.Side
		amount  string
		date    time.Time
	}

	day := func(n int) time.Time {
		return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	}

	lines := []line{
		{"cash", domain.SideDebit, "200.50", day(0)},
		{"income", domain.SideCredit, "200.50", day(0)},
		{"rent", domain.SideDebit, "75.25", day(1)},
		{"cash", domain.SideCredit, "75.25", day(1)},
		{"cash", domain.SideDebit, "10.10", day(2)},
		{"income", domain.SideCredit, "10.10", day(2)},
		{"cash", domain.SideCredit, "44.44", day(5)}, // after cutoff
		{"rent", domain.SideDebit, "44.44", day(5)},
	}

	natures := map[string]domain.Nature{
		"cash":   domain.DebitIncreasing,
		"rent":   domain.DebitIncreasing,
		"income": domain.CreditIncreasing,
	}
	openings := map[string]decimal.Decimal{"cash": d("100")}
	cutoff := day(3)

	// Naive replay: signed movement per line, date <= cutoff.
	naive := map[string]decimal.Decimal{}
	for id := range natures {
		naive[id] = openings[id]
	}
	for _, l := range lines {
		if l.date.After(cutoff) {
			continue
		}
		debit, credit := decimal.Zero, decimal.Zero
		if l.side == domain.SideDebit {
			debit = d(l.amount)
		} else {
			credit = d(l.amount)
		}
		naive[l.account] = naive[l.account].Add(domain.SignedMovement(natures[l.account], debit, credit))
	}

	// Primitive input: aggregated sums per account, date <= cutoff.
	sums := map[string]*domain.MovementSum{}
	for _, l := range lines {
		if l.date.After(cutoff) {
			continue
		}
		s, ok := sums[l.account]
		if !ok {
			s = &domain.MovementSum{AccountID: l.account}
			sums[l.account] = s
		}
		if l.side == domain.SideDebit {
			s.Debit = s.Debit.Add(d(l.amount))
		} else {
			s.Credit = s.Credit.Add(d(l.amount))
		}
	}

	var movements []domain.MovementSum
	for _, s := range sums {
		movements = append(movements, *s)
	}

	got := domain.ResolveBalances([]string{"cash", "rent", "income"}, natures, openings, movements)

	for id, want := range naive {
		if !got[id].Equal(want) {
			t.Errorf("balance[%s] = %s, naive replay says %s", id, got[id], want)
		}
	}
}

func TestResolveBalances_Deterministic(t *testing.T) {
	ids := []string{"a", "b"}
	natures := map[string]domain.Nature{"a": domain.DebitIncreasing, "b": domain.CreditIncreasing}
	openings := map[string]decimal.Decimal{"a": d("10")}
	movements := []domain.MovementSum{
		{AccountID: "a", Debit: d("5"), Credit: d("1")},
		{AccountID: "b", Debit: d("2"), Credit: d("9")},
	}

	first := domain.ResolveBalances(ids, natures, openings, movements)
	second := domain.ResolveBalances(ids, natures, openings, movements)

	for id := range first {
		if !first[id].Equal(second[id]) {
			t.Errorf("non-deterministic result for %s: %s vs %s", id, first[id], second[id])
		}
	}
}
