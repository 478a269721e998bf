package calculator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
)

func usd(units int64) money.Amount {
	return money.FromMinorUnits(units, "USD")
}

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name         string
		total        money.Amount
		strategy     models.SplitStrategy
		participants []string
		custom       map[string]money.Amount
		wantErr      error
		validateFunc func(t *testing.T, shares map[string]money.Amount)
	}{
		{
			name:         "equal split without remainder",
			total:        usd(9000),
			strategy:     models.StrategyEqual,
			participants: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, shares map[string]money.Amount) {
				for _, p := range []string{"alice", "bob", "carol"} {
					if shares[p].MinorUnits() != 3000 {
						t.Errorf("%s share = %d, want 3000", p, shares[p].MinorUnits())
					}
				}
			},
		},
		{
			name:         "100.00 split three ways gives remainder to lowest id",
			total:        usd(10000),
			strategy:     models.StrategyEqual,
			participants: []string{"carol", "alice", "bob"},
			validateFunc: func(t *testing.T, shares map[string]money.Amount) {
				want := map[string]int64{"alice": 3334, "bob": 3333, "carol": 3333}
				for p, units := range want {
					if shares[p].MinorUnits() != units {
						t.Errorf("%s share = %d, want %d", p, shares[p].MinorUnits(), units)
					}
				}
			},
		},
		{
			name:         "two-unit remainder spread over first two ids",
			total:        usd(1001),
			strategy:     models.StrategyEqual,
			participants: []string{"d", "c", "b"},
			validateFunc: func(t *testing.T, shares map[string]money.Amount) {
				want := map[string]int64{"b": 334, "c": 334, "d": 333}
				for p, units := range want {
					if shares[p].MinorUnits() != units {
						t.Errorf("%s share = %d, want %d", p, shares[p].MinorUnits(), units)
					}
				}
			},
		},
		{
			name:         "single participant takes all",
			total:        usd(1234),
			strategy:     models.StrategyEqual,
			participants: []string{"alice"},
			validateFunc: func(t *testing.T, shares map[string]money.Amount) {
				if shares["alice"].MinorUnits() != 1234 {
					t.Errorf("alice share = %d, want 1234", shares["alice"].MinorUnits())
				}
			},
		},
		{
			name:         "custom passes values through untouched",
			total:        usd(5000),
			strategy:     models.StrategyCustom,
			participants: []string{"alice", "bob"},
			custom: map[string]money.Amount{
				"alice": usd(1250),
				"bob":   usd(3750),
			},
			validateFunc: func(t *testing.T, shares map[string]money.Amount) {
				if shares["alice"].MinorUnits() != 1250 || shares["bob"].MinorUnits() != 3750 {
					t.Errorf("custom shares = %v, want passthrough", shares)
				}
			},
		},
		{
			name:         "custom omits participants without a value",
			total:        usd(5000),
			strategy:     models.StrategyCustom,
			participants: []string{"alice", "bob"},
			custom:       map[string]money.Amount{"alice": usd(5000)},
			validateFunc: func(t *testing.T, shares map[string]money.Amount) {
				if _, ok := shares["bob"]; ok {
					t.Error("bob should have no share without a supplied value")
				}
			},
		},
		{
			name:         "empty participants",
			total:        usd(100),
			strategy:     models.StrategyEqual,
			participants: nil,
			wantErr:      ErrEmptyParticipants,
		},
		{
			name:         "unknown strategy",
			total:        usd(100),
			strategy:     models.SplitStrategy("percent"),
			participants: []string{"alice"},
			wantErr:      ErrInvalidStrategy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeShares(tt.total, tt.strategy, tt.participants, tt.custom)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeShares() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeShares() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

// Equal splits must sum to the total exactly for every total and roster
// size, and no two shares may differ by more than one minor unit.
func TestEqualSplitExactness(t *testing.T) {
	totals := []int64{0, 1, 99, 100, 10000, 10001, 33333, 99999999}
	for _, totalUnits := range totals {
		for n := 1; n <= 12; n++ {
			t.Run(fmt.Sprintf("total=%d n=%d", totalUnits, n), func(t *testing.T) {
				participants := make([]string, n)
				for i := range participants {
					participants[i] = fmt.Sprintf("m%02d", i)
				}

				shares, err := ComputeShares(usd(totalUnits), models.StrategyEqual, participants, nil)
				if err != nil {
					t.Fatalf("ComputeShares failed: %v", err)
				}
				if len(shares) != n {
					t.Fatalf("got %d shares, want %d", len(shares), n)
				}

				var sum, min, max int64
				min, max = shares[participants[0]].MinorUnits(), shares[participants[0]].MinorUnits()
				for _, p := range participants {
					u := shares[p].MinorUnits()
					sum += u
					if u < min {
						min = u
					}
					if u > max {
						max = u
					}
				}
				if sum != totalUnits {
					t.Errorf("shares sum to %d, want %d", sum, totalUnits)
				}
				if max-min > 1 {
					t.Errorf("share spread = %d minor units, want at most 1", max-min)
				}
			})
		}
	}
}
