package sqlite

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
	"github.com/tripshare/ledger/internal/storage"
)

// setupTestStore creates a store backed by a temp-file database.
func setupTestStore(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "ledger-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return store, cleanup
}

func createTestTrip(t *testing.T, store *SQLiteStore) *models.Trip {
	t.Helper()
	trip := &models.Trip{
		Name: "Lisbon",
		Members: []models.Member{
			{ID: "alice", Name: "Alice"},
			{ID: "bob", Name: "Bob"},
			{ID: "carol", Name: "Carol"},
		},
	}
	if err := store.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return trip
}

func TestTripRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	trip := createTestTrip(t, store)

	got, err := store.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if got.Name != "Lisbon" {
		t.Errorf("name = %q, want Lisbon", got.Name)
	}
	if len(got.Members) != 3 {
		t.Fatalf("roster size = %d, want 3", len(got.Members))
	}
	// Members come back ordered by ID.
	if got.Members[0].ID != "alice" || got.Members[2].ID != "carol" {
		t.Errorf("roster order = %v, want alice..carol", got.Members)
	}

	if _, err := store.GetTrip(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTrip(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAddMembersIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	trip := createTestTrip(t, store)

	err := store.AddMembers(ctx, trip.ID, []models.Member{
		{ID: "alice", Name: "Alice"}, // already present
		{ID: "dave", Name: "Dave"},
	})
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}

	got, err := store.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if len(got.Members) != 4 {
		t.Errorf("roster size = %d, want 4", len(got.Members))
	}

	if err := store.AddMembers(ctx, "missing", nil); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("AddMembers(missing) error = %v, want ErrNotFound", err)
	}
}

// Amounts must survive the round trip bit-for-bit: stored as integer
// minor units, never as floats.
func TestPostEntryRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	trip := createTestTrip(t, store)

	entry := &models.LedgerEntry{
		Bill: models.Bill{
			TripID:   trip.ID,
			PayerID:  "alice",
			Total:    money.FromMinorUnits(10000, "USD"),
			Strategy: models.StrategyEqual,
			Comment:  "dinner at the harbor",
			Shares: []models.Share{
				{MemberID: "alice", Amount: money.FromMinorUnits(3334, "USD")},
				{MemberID: "bob", Amount: money.FromMinorUnits(3333, "USD")},
				{MemberID: "carol", Amount: money.FromMinorUnits(3333, "USD")},
			},
		},
	}
	if err := store.PostEntry(ctx, entry); err != nil {
		t.Fatalf("PostEntry failed: %v", err)
	}
	if entry.ID == "" || entry.Bill.ID == "" || entry.PostedAt == 0 {
		t.Fatal("PostEntry should assign IDs and PostedAt")
	}

	entries, err := store.EntriesFor(ctx, trip.ID, "USD")
	if err != nil {
		t.Fatalf("EntriesFor failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	got := entries[0]
	if !got.Bill.Total.Equal(money.FromMinorUnits(10000, "USD")) {
		t.Errorf("total = %s, want 100.00", got.Bill.Total)
	}
	if got.Bill.Comment != "dinner at the harbor" {
		t.Errorf("comment = %q", got.Bill.Comment)
	}
	if got.Bill.Strategy != models.StrategyEqual {
		t.Errorf("strategy = %q, want equal", got.Bill.Strategy)
	}

	var sum int64
	for _, s := range got.Bill.Shares {
		sum += s.Amount.MinorUnits()
	}
	if sum != 10000 {
		t.Errorf("shares sum to %d, want 10000", sum)
	}
	if got.Bill.Shares[0].MemberID != "alice" || got.Bill.Shares[0].Amount.MinorUnits() != 3334 {
		t.Errorf("first share = %+v, want alice 33.34", got.Bill.Shares[0])
	}
}

func TestEntriesForFiltersAndOrders(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	trip := createTestTrip(t, store)

	post := func(units int64, currency string, postedAt int64) {
		t.Helper()
		err := store.PostEntry(ctx, &models.LedgerEntry{
			PostedAt: postedAt,
			Bill: models.Bill{
				TripID:   trip.ID,
				PayerID:  "bob",
				Total:    money.FromMinorUnits(units, currency),
				Strategy: models.StrategyEqual,
				Shares: []models.Share{
					{MemberID: "bob", Amount: money.FromMinorUnits(units, currency)},
				},
			},
		})
		if err != nil {
			t.Fatalf("PostEntry failed: %v", err)
		}
	}

	post(2000, "USD", 200)
	post(1000, "USD", 100)
	post(3000, "EUR", 150)

	entries, err := store.EntriesFor(ctx, trip.ID, "USD")
	if err != nil {
		t.Fatalf("EntriesFor failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d USD entries, want 2", len(entries))
	}
	if entries[0].Bill.Total.MinorUnits() != 1000 || entries[1].Bill.Total.MinorUnits() != 2000 {
		t.Error("entries not ordered by posting time")
	}

	none, err := store.EntriesFor(ctx, trip.ID, "GBP")
	if err != nil {
		t.Fatalf("EntriesFor failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d GBP entries, want 0", len(none))
	}
}
