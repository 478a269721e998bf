package money

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		currency  string
		wantUnits int64
		wantErr   error
	}{
		{name: "whole amount", input: "100", currency: "USD", wantUnits: 10000},
		{name: "two decimals", input: "33.34", currency: "USD", wantUnits: 3334},
		{name: "one decimal", input: "0.5", currency: "EUR", wantUnits: 50},
		{name: "zero", input: "0.00", currency: "USD", wantUnits: 0},
		{name: "negative", input: "-12.50", currency: "USD", wantUnits: -1250},
		{name: "sub-cent precision rejected", input: "0.001", currency: "USD", wantErr: ErrPrecision},
		{name: "three decimals rejected", input: "10.005", currency: "USD", wantErr: ErrPrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.input, tt.currency)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if a.MinorUnits() != tt.wantUnits {
				t.Errorf("Parse(%q) units = %d, want %d", tt.input, a.MinorUnits(), tt.wantUnits)
			}
			if a.Currency() != tt.currency {
				t.Errorf("Parse(%q) currency = %q, want %q", tt.input, a.Currency(), tt.currency)
			}
		})
	}

	if _, err := Parse("not a number", "USD"); err == nil {
		t.Error("Parse of garbage input should fail")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		units int64
		want  string
	}{
		{units: 3334, want: "33.34"},
		{units: 0, want: "0.00"},
		{units: -1250, want: "-12.50"},
		{units: 5, want: "0.05"},
		{units: 10000, want: "100.00"},
	}

	for _, tt := range tests {
		got := FromMinorUnits(tt.units, "USD").String()
		if got != tt.want {
			t.Errorf("FromMinorUnits(%d).String() = %q, want %q", tt.units, got, tt.want)
		}
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "0.01", "33.34", "100.00", "99999999.99"} {
		a, err := Parse(s, "USD")
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if a.String() != s {
			t.Errorf("round trip of %q yielded %q", s, a.String())
		}
	}
}

func TestAdd(t *testing.T) {
	a := FromMinorUnits(1000, "USD")
	b := FromMinorUnits(234, "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if sum.MinorUnits() != 1234 {
		t.Errorf("sum = %d, want 1234", sum.MinorUnits())
	}

	// Zero-value accumulator adopts the operand's currency.
	var acc Amount
	acc, err = acc.Add(b)
	if err != nil {
		t.Fatalf("accumulator Add failed: %v", err)
	}
	if acc.Currency() != "USD" {
		t.Errorf("accumulator currency = %q, want USD", acc.Currency())
	}

	if _, err := a.Add(FromMinorUnits(1, "EUR")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("cross-currency Add error = %v, want ErrCurrencyMismatch", err)
	}
}

func TestSum(t *testing.T) {
	amounts := []Amount{
		FromMinorUnits(2000, "USD"),
		FromMinorUnits(2000, "USD"),
		FromMinorUnits(999, "USD"),
	}
	total, err := Sum(amounts)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if total.MinorUnits() != 4999 {
		t.Errorf("Sum = %d, want 4999", total.MinorUnits())
	}

	amounts = append(amounts, FromMinorUnits(1, "EUR"))
	if _, err := Sum(amounts); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("mixed-currency Sum error = %v, want ErrCurrencyMismatch", err)
	}
}
