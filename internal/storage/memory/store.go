// Package memory provides a mutex-guarded in-memory implementation of
// storage.Store, used by tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with in-process maps and slices.
// A single mutex serializes posts, which also gives the per-trip
// serialization the ledger requires.
type MemoryStore struct {
	mu      sync.Mutex
	trips   map[string]*models.Trip
	entries []models.LedgerEntry
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		trips: make(map[string]*models.Trip),
	}
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// CreateTrip stores a new trip, assigning its ID and creation time.
func (m *MemoryStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}

	stored := *trip
	stored.Members = append([]models.Member(nil), trip.Members...)
	m.trips[trip.ID] = &stored
	return nil
}

// GetTrip returns a copy of the stored trip.
func (m *MemoryStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.trips[tripID]
	if !ok {
		return nil, fmt.Errorf("%w: trip %s", storage.ErrNotFound, tripID)
	}
	trip := *stored
	trip.Members = append([]models.Member(nil), stored.Members...)
	return &trip, nil
}

// AddMembers appends new members to a trip's roster.
func (m *MemoryStore) AddMembers(ctx context.Context, tripID string, members []models.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	trip, ok := m.trips[tripID]
	if !ok {
		return fmt.Errorf("%w: trip %s", storage.ErrNotFound, tripID)
	}

	existing := make(map[string]bool, len(trip.Members))
	for _, mem := range trip.Members {
		existing[mem.ID] = true
	}
	for _, mem := range members {
		if !existing[mem.ID] {
			trip.Members = append(trip.Members, mem)
			existing[mem.ID] = true
		}
	}
	return nil
}

// PostEntry appends an entry to the ledger, assigning IDs and the
// posting timestamp.
func (m *MemoryStore) PostEntry(ctx context.Context, entry *models.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Bill.ID == "" {
		entry.Bill.ID = uuid.New().String()
	}
	if entry.PostedAt == 0 {
		entry.PostedAt = time.Now().UnixNano()
	}

	stored := *entry
	stored.Bill.Shares = append([]models.Share(nil), entry.Bill.Shares...)
	m.entries = append(m.entries, stored)
	return nil
}

// EntriesFor returns a copied snapshot of one trip's entries in a single
// currency, in posting order.
func (m *MemoryStore) EntriesFor(ctx context.Context, tripID, currency string) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.LedgerEntry
	for _, e := range m.entries {
		if e.Bill.TripID != tripID || e.Bill.Total.Currency() != currency {
			continue
		}
		copied := e
		copied.Bill.Shares = append([]models.Share(nil), e.Bill.Shares...)
		result = append(result, copied)
	}
	return result, nil
}
