package calculator

import (
	"errors"
	"fmt"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
)

var (
	// ErrMixedCurrencies means the entry sequence spans more than one
	// currency. Aggregation is scoped to a single currency per call.
	ErrMixedCurrencies = errors.New("calculator: mixed currencies in ledger entries")

	// ErrUnbalancedLedger means the aggregated balances do not sum to
	// zero. The ledger is a closed system, so this is an internal
	// consistency bug, not a user input problem.
	ErrUnbalancedLedger = errors.New("calculator: net balances do not sum to zero")
)

// Aggregate folds ledger entries into one net balance per member.
//
// For each entry the payer is credited the bill total and every
// participant (payer included) is debited their share, so the payer nets
// total minus their own share and everyone else nets minus their share.
// Addition commutes, so the result is independent of entry order.
//
// The zero-sum invariant is checked as a post-condition; a violation
// aborts the aggregation rather than returning a partially wrong view.
func Aggregate(entries []models.LedgerEntry) (map[string]models.NetBalance, error) {
	units := make(map[string]int64)
	currency := ""

	for _, e := range entries {
		c := e.Bill.Total.Currency()
		if currency == "" {
			currency = c
		} else if c != currency {
			return nil, fmt.Errorf("%w: %s vs %s", ErrMixedCurrencies, currency, c)
		}

		units[e.Bill.PayerID] += e.Bill.Total.MinorUnits()
		for _, s := range e.Bill.Shares {
			if s.Amount.Currency() != currency {
				return nil, fmt.Errorf("%w: %s vs %s", ErrMixedCurrencies, currency, s.Amount.Currency())
			}
			units[s.MemberID] -= s.Amount.MinorUnits()
		}
	}

	var sum int64
	balances := make(map[string]models.NetBalance, len(units))
	for id, u := range units {
		sum += u
		balances[id] = models.NetBalance{
			MemberID: id,
			Amount:   money.FromMinorUnits(u, currency),
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: residue %d minor units", ErrUnbalancedLedger, sum)
	}

	return balances, nil
}
