package models

import "github.com/tripshare/ledger/internal/money"

// SplitStrategy selects how a bill's total is divided among participants.
type SplitStrategy string

const (
	// StrategyEqual divides the total evenly, distributing any
	// minor-unit remainder deterministically.
	StrategyEqual SplitStrategy = "equal"

	// StrategyCustom uses caller-supplied per-member values, which must
	// sum to the total exactly.
	StrategyCustom SplitStrategy = "custom_values"
)

// BillDraft is an unvalidated bill submission. It is what the form layer
// hands the engine; nothing in it is trusted until it passes validation.
type BillDraft struct {
	// TripID is the trip the bill belongs to.
	TripID string

	// PayerID is the member who paid the bill.
	PayerID string

	// Total is the full bill amount, currency included.
	Total money.Amount

	// Strategy is the split rule: equal or custom_values.
	Strategy SplitStrategy

	// CustomValues maps member ID to that member's share.
	// Required for StrategyCustom, ignored for StrategyEqual.
	CustomValues map[string]money.Amount

	// Comment is an optional free-text description.
	Comment string
}

// Share is one member's portion of a bill. Shares are owned exclusively
// by their Bill and always sum to the bill total exactly.
type Share struct {
	// MemberID is the member who owes this portion.
	MemberID string

	// Amount is the exact portion owed, never negative.
	Amount money.Amount
}

// Bill is a validated expense: a total, a payer, and one share per
// participant summing to the total bit-for-bit. Bills are immutable once
// posted to the ledger.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// TripID is the trip the bill belongs to.
	TripID string

	// PayerID is the member who paid.
	PayerID string

	// Total is the full bill amount.
	Total money.Amount

	// Strategy is the split rule the shares were computed with.
	Strategy SplitStrategy

	// Shares holds exactly one entry per participant, sorted by member
	// ID ascending.
	Shares []Share

	// Comment is an optional free-text description.
	Comment string
}

// Participants returns the bill's participant IDs in share order.
func (b *Bill) Participants() []string {
	ids := make([]string, len(b.Shares))
	for i, s := range b.Shares {
		ids[i] = s.MemberID
	}
	return ids
}
