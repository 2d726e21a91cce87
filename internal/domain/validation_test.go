package domain_test

import (
	"strings"
	"testing"

	"github.com/dkoval/fincast/internal/domain"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name        string
		accountName string
		expectError bool
	}{
		{"valid name", "Checking Account", false},
		{"empty name", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 256), true},
		{"max length", strings.Repeat("a", 255), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateAccountName(tt.accountName)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := domain.ValidateCurrency("EUR"); err != nil {
		t.Errorf("unexpected error for EUR: %v", err)
	}
	if err := domain.ValidateCurrency("eur"); err != nil {
		t.Errorf("currency check should be case-insensitive: %v", err)
	}
	if err := domain.ValidateCurrency("XXX"); err == nil {
		t.Error("expected error for unknown currency")
	}
}

func TestValidateAmount(t *testing.T) {
	if err := domain.ValidateAmount(d("10.50")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := domain.ValidateAmount(d("0")); err == nil {
		t.Error("expected error for zero amount")
	}
	if err := domain.ValidateAmount(d("-1")); err == nil {
		t.Error("expected error for negative amount")
	}
	if err := domain.ValidateAmount(d("1000000000001")); err == nil {
		t.Error("expected error for amount above maximum")
	}
}

func TestNormalizeAccountName(t *testing.T) {
	if got := domain.NormalizeAccountName("  Cash Wallet "); got != "cash wallet" {
		t.Errorf("got %q", got)
	}
}
