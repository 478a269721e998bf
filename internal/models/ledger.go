package models

import "github.com/tripshare/ledger/internal/money"

// LedgerEntry is a posted bill. Once created it never changes value;
// corrections are posted as a new entry referencing the one it reverses.
type LedgerEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// Bill is an immutable snapshot of the posted bill, shares included.
	Bill Bill

	// PostedAt is the Unix timestamp (nanoseconds) assigned at posting.
	// Entries for a trip are ordered by it.
	PostedAt int64

	// Reverses optionally holds the ID of an earlier entry this one
	// cancels out. Extension point for audit-preserving corrections;
	// the engine records the link but attaches no semantics yet.
	Reverses string
}

// NetBalance is one member's cumulative position for a trip+currency.
// Positive means the member is owed money, negative means they owe.
// Balances are derived on demand and never persisted.
type NetBalance struct {
	// MemberID is the member this balance belongs to.
	MemberID string

	// Amount is the signed net position.
	Amount money.Amount
}

// SettlementTransfer is one suggested payment that moves balances toward
// zero. Transfers are derived on demand and never persisted.
type SettlementTransfer struct {
	// FromID is the debtor making the payment.
	FromID string

	// ToID is the creditor receiving it.
	ToID string

	// Amount is the payment amount, always strictly positive.
	Amount money.Amount
}
