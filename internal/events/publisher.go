// Package events defines the outbound event contract for posted ledger
// entries. Publishing is best-effort: a failed publish never unwinds a
// post that already committed.
package events

import "context"

// Publisher delivers domain events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// EntryPosted is emitted after a ledger entry commits.
type EntryPosted struct {
	EntryID  string `json:"entry_id"`
	TripID   string `json:"trip_id"`
	BillID   string `json:"bill_id"`
	PayerID  string `json:"payer_id"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
	PostedAt int64  `json:"posted_at"`
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher by doing nothing.
func (NopPublisher) Publish(ctx context.Context, event any) error { return nil }
