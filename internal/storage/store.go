// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tripshare/ledger/internal/models"
)

// ErrNotFound is returned when a requested trip or entry does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store defines the storage operations the services need. The ledger
// side is append-only: entries are posted once and never updated or
// deleted. Implementations serialize posts per trip (a transaction or a
// mutex), so concurrent submissions cannot interleave; reads always see
// a consistent snapshot.
//
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// in-memory) without changing the service layer.
type Store interface {
	// CreateTrip persists a new trip and its roster.
	// The trip.ID and trip.CreatedAt fields are populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip with its full roster.
	// Returns ErrNotFound if the trip does not exist.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// AddMembers appends members to a trip's roster, skipping IDs that
	// are already on it.
	AddMembers(ctx context.Context, tripID string, members []models.Member) error

	// PostEntry appends a validated bill to the ledger. The entry.ID,
	// entry.Bill.ID and entry.PostedAt fields are populated by the
	// store. Once posted, the entry never changes value.
	PostEntry(ctx context.Context, entry *models.LedgerEntry) error

	// EntriesFor returns all entries for a trip in one currency,
	// ordered by posting time. The result is a finite, restartable
	// snapshot the aggregator can fold.
	EntriesFor(ctx context.Context, tripID, currency string) ([]models.LedgerEntry, error)

	// Close releases any resources held by the store.
	Close() error
}
