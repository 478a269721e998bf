package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as INTEGER minor units, never REAL, so sums stay
// exact across the round-trip.
const schema = `
CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trip_members (
    trip_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (trip_id, member_id),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS ledger_entries (
    id TEXT PRIMARY KEY,
    trip_id TEXT NOT NULL,
    bill_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    total_units INTEGER NOT NULL,
    currency TEXT NOT NULL,
    strategy TEXT NOT NULL,
    comment TEXT,
    posted_at INTEGER NOT NULL,
    reverses TEXT,
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS shares (
    entry_id TEXT NOT NULL,
    member_id TEXT NOT NULL,
    units INTEGER NOT NULL,
    PRIMARY KEY (entry_id, member_id),
    FOREIGN KEY (entry_id) REFERENCES ledger_entries(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_trip_members_trip_id ON trip_members(trip_id);
CREATE INDEX IF NOT EXISTS idx_entries_trip_currency ON ledger_entries(trip_id, currency, posted_at);
CREATE INDEX IF NOT EXISTS idx_shares_entry_id ON shares(entry_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
