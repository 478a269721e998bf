package calculator

import (
	"fmt"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
)

// party is one side of the debt-simplification loop: a member and the
// positive magnitude of what they owe or are owed, in minor units.
type party struct {
	id    string
	units int64
}

// Plan converts net balances into an ordered, minimal list of transfers
// that zeroes every balance (greedy debt simplification).
//
// Each round matches the debtor with the largest outstanding debt against
// the creditor with the largest outstanding credit and transfers
// min(debt, credit). Ties on magnitude break toward the ascending member
// ID, so the plan is deterministic: the same balances always produce the
// identical transfer sequence. A party is dropped the moment its balance
// reaches exactly zero, so n non-zero balances yield at most n-1
// transfers and no transfer is ever zero or negative.
//
// All-zero balances produce an empty plan. Balances that do not sum to
// zero are rejected with ErrUnbalancedLedger.
func Plan(balances map[string]models.NetBalance) ([]models.SettlementTransfer, error) {
	var debtors, creditors []party
	var sum int64
	currency := ""

	for id, b := range balances {
		u := b.Amount.MinorUnits()
		sum += u
		if currency == "" && b.Amount.Currency() != "" {
			currency = b.Amount.Currency()
		}
		switch {
		case u < 0:
			debtors = append(debtors, party{id: id, units: -u})
		case u > 0:
			creditors = append(creditors, party{id: id, units: u})
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: residue %d minor units", ErrUnbalancedLedger, sum)
	}

	var transfers []models.SettlementTransfer
	for len(debtors) > 0 && len(creditors) > 0 {
		di := largest(debtors)
		ci := largest(creditors)

		amount := debtors[di].units
		if creditors[ci].units < amount {
			amount = creditors[ci].units
		}

		transfers = append(transfers, models.SettlementTransfer{
			FromID: debtors[di].id,
			ToID:   creditors[ci].id,
			Amount: money.FromMinorUnits(amount, currency),
		})

		debtors[di].units -= amount
		creditors[ci].units -= amount
		if debtors[di].units == 0 {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
		if creditors[ci].units == 0 {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
	}

	return transfers, nil
}

// largest returns the index of the party with the greatest outstanding
// units, breaking ties toward the smallest member ID.
func largest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		if parties[i].units > parties[best].units ||
			(parties[i].units == parties[best].units && parties[i].id < parties[best].id) {
			best = i
		}
	}
	return best
}
