// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface, for deployments that outgrow SQLite.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
	"github.com/tripshare/ledger/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS trip_members (
    trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (trip_id, member_id)
);

CREATE TABLE IF NOT EXISTS ledger_entries (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
    bill_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    total_units BIGINT NOT NULL,
    currency TEXT NOT NULL,
    strategy TEXT NOT NULL,
    comment TEXT,
    posted_at BIGINT NOT NULL,
    reverses TEXT
);

CREATE TABLE IF NOT EXISTS shares (
    entry_id TEXT NOT NULL REFERENCES ledger_entries(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL,
    units BIGINT NOT NULL,
    PRIMARY KEY (entry_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_entries_trip_currency ON ledger_entries(trip_id, currency, posted_at);
`

// PostgresStore implements storage.Store using PostgreSQL via lib/pq.
// Amounts are stored as BIGINT minor units, matching the SQLite backend.
type PostgresStore struct {
	db *sql.DB
}

// New opens a PostgreSQL connection with the given DSN and ensures the
// schema exists.
func New(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// CreateTrip persists a new trip and its roster.
func (s *PostgresStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
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
		"INSERT INTO trips (id, name, created_at) VALUES ($1, $2, $3)",
		trip.ID, trip.Name, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for _, m := range trip.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO trip_members (trip_id, member_id, name) VALUES ($1, $2, $3)",
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
func (s *PostgresStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM trips WHERE id = $1",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: trip %s", storage.ErrNotFound, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, name FROM trip_members WHERE trip_id = $1 ORDER BY member_id",
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
func (s *PostgresStore) AddMembers(ctx context.Context, tripID string, members []models.Member) error {
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
			`INSERT INTO trip_members (trip_id, member_id, name) VALUES ($1, $2, $3)
			 ON CONFLICT (trip_id, member_id) DO NOTHING`,
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
func (s *PostgresStore) PostEntry(ctx context.Context, entry *models.LedgerEntry) error {
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
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.Bill.TripID, entry.Bill.ID, entry.Bill.PayerID,
		entry.Bill.Total.MinorUnits(), entry.Bill.Total.Currency(),
		string(entry.Bill.Strategy), entry.Bill.Comment, entry.PostedAt, reverses,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	for _, share := range entry.Bill.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO shares (entry_id, member_id, units) VALUES ($1, $2, $3)",
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
func (s *PostgresStore) EntriesFor(ctx context.Context, tripID, currency string) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, bill_id, payer_id, total_units, currency, strategy, comment, posted_at, reverses
		 FROM ledger_entries WHERE trip_id = $1 AND currency = $2 ORDER BY posted_at`,
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
		shareRows, err := s.db.QueryContext(ctx,
			"SELECT member_id, units FROM shares WHERE entry_id = $1 ORDER BY member_id",
			entries[i].ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get shares: %w", err)
		}
		for shareRows.Next() {
			var memberID string
			var units int64
			if err := shareRows.Scan(&memberID, &units); err != nil {
				shareRows.Close()
				return nil, fmt.Errorf("failed to scan share: %w", err)
			}
			entries[i].Bill.Shares = append(entries[i].Bill.Shares, models.Share{
				MemberID: memberID,
				Amount:   money.FromMinorUnits(units, entries[i].Bill.Total.Currency()),
			})
		}
		shareRows.Close()
		if err := shareRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate shares: %w", err)
		}
	}

	return entries, nil
}
