// Package models defines the core domain models for the trip ledger.
//
// # Models
//
//   - Member / Trip: a participant roster, supplied by the surrounding
//     application (membership management itself lives outside the engine)
//   - BillDraft: an unvalidated bill submission as it arrives from a form
//   - Bill / Share: a validated expense with exact per-member shares
//   - LedgerEntry: an immutable posted bill, the unit the aggregator folds
//   - NetBalance / SettlementTransfer: derived views, never persisted
//
// # Design Principles
//
//  1. **Exact arithmetic**: every amount is a money.Amount (minor-unit
//     int64); no float64 appears in any model.
//  2. **Immutability after posting**: a LedgerEntry snapshots its Bill by
//     value. Edits are modeled as a reversing entry plus a new bill,
//     never as mutation.
//  3. **Explicit rosters**: models reference members by ID string; the
//     roster is always passed in, never looked up from storage inside
//     the engine.
package models
