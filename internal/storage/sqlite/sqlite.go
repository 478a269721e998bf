// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
	"github.com/tripshare/ledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite. Posting runs inside
// a transaction, which serializes concurrent submissions for a trip.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTrip persists a new trip and its roster.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, name, created_at) VALUES (?, ?, ?)",
		trip.ID, trip.Name, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for _, m := range trip.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO trip_members (trip_id, member_id, name) VALUES (?, ?, ?)",
			trip.ID, m.ID, m.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID, including its full roster.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: trip %s", storage.ErrNotFound, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, name FROM trip_members WHERE trip_id = ? ORDER BY member_id",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		trip.Members = append(trip.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return trip, nil
}

// AddMembers appends members to a trip's roster, ignoring IDs already on it.
func (s *SQLiteStore) AddMembers(ctx context.Context, tripID string, members []models.Member) error {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO trip_members (trip_id, member_id, name) VALUES (?, ?, ?)",
			tripID, m.ID, m.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// PostEntry appends a validated bill to the ledger inside a transaction.
func (s *SQLiteStore) PostEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Bill.ID == "" {
		entry.Bill.ID = uuid.New().String()
	}
	if entry.PostedAt == 0 {
		entry.PostedAt = time.Now().UnixNano()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var reverses interface{}
	if entry.Reverses != "" {
		reverses = entry.Reverses
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, trip_id, bill_id, payer_id, total_units, currency, strategy, comment, posted_at, reverses)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Bill.TripID, entry.Bill.ID, entry.Bill.PayerID,
		entry.Bill.Total.MinorUnits(), entry.Bill.Total.Currency(),
		string(entry.Bill.Strategy), entry.Bill.Comment, entry.PostedAt, reverses,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	for _, share := range entry.Bill.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO shares (entry_id, member_id, units) VALUES (?, ?, ?)",
			entry.ID, share.MemberID, share.Amount.MinorUnits(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// EntriesFor returns all entries for a trip in one currency, ordered by
// posting time.
func (s *SQLiteStore) EntriesFor(ctx context.Context, tripID, currency string) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, bill_id, payer_id, total_units, currency, strategy, comment, posted_at, reverses
		 FROM ledger_entries WHERE trip_id = ? AND currency = ? ORDER BY posted_at`,
		tripID, currency,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var totalUnits int64
		var cur, strategy string
		var comment, reverses sql.NullString
		if err := rows.Scan(&e.ID, &e.Bill.TripID, &e.Bill.ID, &e.Bill.PayerID,
			&totalUnits, &cur, &strategy, &comment, &e.PostedAt, &reverses); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Bill.Total = money.FromMinorUnits(totalUnits, cur)
		e.Bill.Strategy = models.SplitStrategy(strategy)
		if comment.Valid {
			e.Bill.Comment = comment.String
		}
		if reverses.Valid {
			e.Reverses = reverses.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	for i := range entries {
		shares, err := s.sharesFor(ctx, entries[i].ID, entries[i].Bill.Total.Currency())
		if err != nil {
			return nil, err
		}
		entries[i].Bill.Shares = shares
	}

	return entries, nil
}

// sharesFor loads one entry's shares in member-ID order.
func (s *SQLiteStore) sharesFor(ctx context.Context, entryID, currency string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, units FROM shares WHERE entry_id = ? ORDER BY member_id",
		entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var memberID string
		var units int64
		if err := rows.Scan(&memberID, &units); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, models.Share{
			MemberID: memberID,
			Amount:   money.FromMinorUnits(units, currency),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}
