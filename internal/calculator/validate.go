package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
)

var (
	// ErrNegativeAmount means the total or a custom share is below zero.
	ErrNegativeAmount = errors.New("calculator: negative amount")

	// ErrPayerNotMember means the payer is not on the trip roster.
	ErrPayerNotMember = errors.New("calculator: payer is not a trip member")

	// ErrMissingParticipantValue means a custom split left a roster
	// member without a value.
	ErrMissingParticipantValue = errors.New("calculator: missing participant value")
)

// ShareSumMismatchError reports custom shares that do not add up to the
// bill total. Amounts are exact, so the comparison has zero tolerance.
type ShareSumMismatchError struct {
	Expected money.Amount
	Actual   money.Amount
}

func (e *ShareSumMismatchError) Error() string {
	return fmt.Sprintf("calculator: share sum mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// Validate checks a bill draft against the trip roster and, on success,
// returns the assembled Bill with its shares. Validation is pure: no
// storage access, no side effects. Rules run in a fixed order and the
// first violation wins, matching form-validation semantics:
//
//  1. total is non-negative (precision is enforced at parse time by
//     money.Parse)
//  2. the payer is on the roster
//  3. for custom splits, every roster member has a non-negative value
//  4. the shares sum to the total exactly
func Validate(draft models.BillDraft, trip *models.Trip) (*models.Bill, error) {
	if draft.Total.IsNegative() {
		return nil, fmt.Errorf("%w: total %s", ErrNegativeAmount, draft.Total)
	}
	if !trip.HasMember(draft.PayerID) {
		return nil, fmt.Errorf("%w: %q", ErrPayerNotMember, draft.PayerID)
	}

	roster := trip.Roster()
	shares, err := ComputeShares(draft.Total, draft.Strategy, roster, draft.CustomValues)
	if err != nil {
		return nil, err
	}

	if draft.Strategy == models.StrategyCustom {
		for _, id := range roster {
			v, ok := shares[id]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrMissingParticipantValue, id)
			}
			if v.IsNegative() {
				return nil, fmt.Errorf("%w: share for %q is %s", ErrNegativeAmount, id, v)
			}
		}
	}

	var sum money.Amount
	for _, v := range shares {
		if sum, err = sum.Add(v); err != nil {
			return nil, err
		}
	}
	if sum.MinorUnits() != draft.Total.MinorUnits() {
		return nil, &ShareSumMismatchError{Expected: draft.Total, Actual: sum}
	}

	bill := &models.Bill{
		TripID:   draft.TripID,
		PayerID:  draft.PayerID,
		Total:    draft.Total,
		Strategy: draft.Strategy,
		Comment:  draft.Comment,
		Shares:   sortedShares(shares),
	}
	return bill, nil
}

// sortedShares flattens a share map into a slice ordered by member ID,
// so bills carry a deterministic share order.
func sortedShares(shares map[string]money.Amount) []models.Share {
	ids := make([]string, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.Share, len(ids))
	for i, id := range ids {
		out[i] = models.Share{MemberID: id, Amount: shares[id]}
	}
	return out
}
