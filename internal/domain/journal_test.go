package domain_test

import (
	"errors"
	"testing"

	"github.com/dkoval/fincast/internal/domain"
)

func line(side domain.Side, amount string) domain.JournalLine {
	return domain.JournalLine{AccountID: "acc", Side: side, Amount: d(amount)}
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.JournalLine
		wantErr error
	}{
		{
			name:    "empty lines",
			lines:   nil,
			wantErr: domain.ErrEmptyEntry,
		},
		{
			name: "balanced entry",
			lines: []domain.JournalLine{
				line(domain.SideDebit, "100.00"),
				line(domain.SideCredit, "100.00"),
			},
		},
		{
			name: "balanced multi-line entry",
			lines: []domain.JournalLine{
				line(domain.SideDebit, "60.00"),
				line(domain.SideDebit, "40.00"),
				line(domain.SideCredit, "100.00"),
			},
		},
		{
			name: "within tolerance",
			lines: []domain.JournalLine{
				line(domain.SideDebit, "100.004"),
				line(domain.SideCredit, "100.00"),
			},
		},
		{
			name: "just past tolerance",
			lines: []domain.JournalLine{
				line(domain.SideDebit, "100.006"),
				line(domain.SideCredit, "100.00"),
			},
			wantErr: domain.ErrUnbalancedEntry,
		},
		{
			name: "unbalanced",
			lines: []domain.JournalLine{
				line(domain.SideDebit, "100.00"),
				line(domain.SideCredit, "90.00"),
			},
			wantErr: domain.ErrUnbalancedEntry,
		},
		{
			name: "debit side only",
			lines: []domain.JournalLine{
				line(domain.SideDebit, "100.00"),
			},
			wantErr: domain.ErrUnbalancedEntry,
		},
		{
			name: "credit side only",
			lines: []domain.JournalLine{
				line(domain.SideCredit, "100.00"),
			},
			wantErr: domain.ErrUnbalancedEntry,
		},
		{
			name: "zero amount line",
			lines: []domain.JournalLine{
				line(domain.SideDebit, "0"),
				line(domain.SideCredit, "0"),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount line",
			lines: []domain.JournalLine{
				line(domain.SideDebit, "-5"),
				line(domain.SideCredit, "-5"),
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateLines(tt.lines)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLineTotals(t *testing.T) {
	debits, credits := domain.LineTotals([]domain.JournalLine{
		line(domain.SideDebit, "10.50"),
		line(domain.SideDebit, "4.50"),
		line(domain.SideCredit, "15.00"),
	})

	if !debits.Equal(d("15.00")) {
		t.Errorf("debits = %s, want 15.00", debits)
	}
	if !credits.Equal(d("15.00")) {
		t.Errorf("credits = %s, want 15.00", credits)
	}
}
