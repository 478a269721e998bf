// Package calculator implements the bill-splitting engine: exact share
// computation, bill validation, balance aggregation, and settlement
// planning. Everything here is a pure function over immutable inputs;
// rosters and entries are always passed in, never fetched.
package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
)

var (
	// ErrInvalidStrategy means the split strategy is neither equal nor
	// custom_values.
	ErrInvalidStrategy = errors.New("calculator: invalid split strategy")

	// ErrEmptyParticipants means the bill has no participants to split
	// among.
	ErrEmptyParticipants = errors.New("calculator: empty participant set")
)

// ComputeShares divides total among participants according to strategy
// and returns one amount per participant.
//
// Equal strategy: integer minor-unit division. The quotient goes to every
// participant and the remainder (0 <= r < len(participants) minor units)
// is handed out one unit at a time in ascending member-ID order, so the
// shares sum to total exactly and no two shares differ by more than one
// minor unit.
//
// Custom strategy: the supplied values are passed through untouched, one
// per participant that has one. Completeness and sum equality are the
// validator's job, not redistribution.
func ComputeShares(total money.Amount, strategy models.SplitStrategy, participants []string, customValues map[string]money.Amount) (map[string]money.Amount, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyParticipants
	}

	switch strategy {
	case models.StrategyEqual:
		return equalShares(total, participants), nil
	case models.StrategyCustom:
		shares := make(map[string]money.Amount, len(participants))
		for _, p := range participants {
			if v, ok := customValues[p]; ok {
				shares[p] = v
			}
		}
		return shares, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
}

// equalShares splits total evenly in minor units, distributing the
// remainder in ascending member-ID order.
func equalShares(total money.Amount, participants []string) map[string]money.Amount {
	ordered := make([]string, len(participants))
	copy(ordered, participants)
	sort.Strings(ordered)

	n := int64(len(ordered))
	quotient := total.MinorUnits() / n
	remainder := total.MinorUnits() % n

	shares := make(map[string]money.Amount, len(ordered))
	for i, p := range ordered {
		units := quotient
		if int64(i) < remainder {
			units++
		}
		shares[p] = money.FromMinorUnits(units, total.Currency())
	}
	return shares
}
