package calculator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
)

// entry builds a posted entry with explicit shares.
func entry(payer string, totalUnits int64, shares map[string]int64) models.LedgerEntry {
	bill := models.Bill{
		TripID:   "trip-1",
		PayerID:  payer,
		Total:    usd(totalUnits),
		Strategy: models.StrategyCustom,
	}
	for _, id := range []string{"alice", "bob", "carol", "dave"} {
		if units, ok := shares[id]; ok {
			bill.Shares = append(bill.Shares, models.Share{MemberID: id, Amount: usd(units)})
		}
	}
	return models.LedgerEntry{Bill: bill}
}

func TestAggregate(t *testing.T) {
	// Alice pays 100.00 split three ways; Bob pays 30.00 split evenly
	// between Bob and Carol.
	entries := []models.LedgerEntry{
		entry("alice", 10000, map[string]int64{"alice": 3334, "bob": 3333, "carol": 3333}),
		entry("bob", 3000, map[string]int64{"bob": 1500, "carol": 1500}),
	}

	balances, err := Aggregate(entries)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	want := map[string]int64{
		"alice": 10000 - 3334,        // paid all, owes own share
		"bob":   -3333 + 3000 - 1500, // owes first share, paid second bill
		"carol": -3333 - 1500,
	}
	for id, units := range want {
		b, ok := balances[id]
		if !ok {
			t.Fatalf("missing balance for %s", id)
		}
		if b.Amount.MinorUnits() != units {
			t.Errorf("%s balance = %d, want %d", id, b.Amount.MinorUnits(), units)
		}
	}
}

// The ledger is a closed system: balances must sum to exactly zero for
// any entry sequence.
func TestAggregateClosure(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	members := []string{"alice", "bob", "carol", "dave"}

	var entries []models.LedgerEntry
	for i := 0; i < 50; i++ {
		total := rng.Int63n(100000)
		shares, err := ComputeShares(usd(total), models.StrategyEqual, members, nil)
		if err != nil {
			t.Fatalf("ComputeShares failed: %v", err)
		}
		units := make(map[string]int64, len(shares))
		for id, a := range shares {
			units[id] = a.MinorUnits()
		}
		entries = append(entries, entry(members[rng.Intn(len(members))], total, units))
	}

	balances, err := Aggregate(entries)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	var sum int64
	for _, b := range balances {
		sum += b.Amount.MinorUnits()
	}
	if sum != 0 {
		t.Errorf("balances sum to %d minor units, want 0", sum)
	}
}

// Aggregation is commutative over entries: shuffling the sequence must
// not change any balance.
func TestAggregateOrderIndependence(t *testing.T) {
	entries := []models.LedgerEntry{
		entry("alice", 10000, map[string]int64{"alice": 3334, "bob": 3333, "carol": 3333}),
		entry("bob", 3000, map[string]int64{"bob": 1500, "carol": 1500}),
		entry("carol", 4500, map[string]int64{"alice": 1500, "bob": 1500, "carol": 1500}),
	}

	want, err := Aggregate(entries)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]models.LedgerEntry(nil), entries...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := Aggregate(shuffled)
		if err != nil {
			t.Fatalf("Aggregate of shuffled entries failed: %v", err)
		}
		for id, b := range want {
			if got[id].Amount.MinorUnits() != b.Amount.MinorUnits() {
				t.Fatalf("shuffle %d: %s balance = %d, want %d",
					i, id, got[id].Amount.MinorUnits(), b.Amount.MinorUnits())
			}
		}
	}
}

func TestAggregateMixedCurrencies(t *testing.T) {
	eur := models.LedgerEntry{Bill: models.Bill{
		PayerID: "alice",
		Total:   money.FromMinorUnits(1000, "EUR"),
		Shares:  []models.Share{{MemberID: "alice", Amount: money.FromMinorUnits(1000, "EUR")}},
	}}
	entries := []models.LedgerEntry{
		entry("alice", 1000, map[string]int64{"alice": 1000}),
		eur,
	}

	if _, err := Aggregate(entries); !errors.Is(err, ErrMixedCurrencies) {
		t.Errorf("Aggregate error = %v, want ErrMixedCurrencies", err)
	}
}

// A payer-only bill (the payer is the sole participant) nets to zero for
// everyone.
func TestAggregateSelfBill(t *testing.T) {
	entries := []models.LedgerEntry{
		entry("alice", 2500, map[string]int64{"alice": 2500}),
	}

	balances, err := Aggregate(entries)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if !balances["alice"].Amount.IsZero() {
		t.Errorf("alice balance = %s, want 0.00", balances["alice"].Amount)
	}
}

func TestAggregateEmpty(t *testing.T) {
	balances, err := Aggregate(nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(balances) != 0 {
		t.Errorf("got %d balances for empty ledger, want 0", len(balances))
	}
}
