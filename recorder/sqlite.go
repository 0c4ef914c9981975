package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/tokflow/runtime"
)

// SQLiteSink appends one row per firing to a SQLite database, schema
// created on first use. Grounded on the catacombs example's Store:
// open-then-migrate constructor, CREATE TABLE IF NOT EXISTS schema, plain
// Exec inserts with positional placeholders — adapted from the cgo
// mattn/go-sqlite3 driver to the pure-Go modernc.org/sqlite driver, whose
// registered database/sql driver name is "sqlite" rather than "sqlite3".
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (creating if necessary) a SQLite database at dbPath
// and ensures its schema exists.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("recorder: open sqlite database: %w", err)
	}

	sink := &SQLiteSink{db: db}
	if err := sink.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: migrate: %w", err)
	}
	return sink, nil
}

func (s *SQLiteSink) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS firings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		firing_id TEXT NOT NULL,
		sequence INTEGER NOT NULL,
		transition TEXT NOT NULL,
		fired_at DATETIME NOT NULL,
		input_places TEXT NOT NULL,
		output_places TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_firings_run ON firings(run_id);
	CREATE INDEX IF NOT EXISTS idx_firings_run_sequence ON firings(run_id, sequence);
	CREATE INDEX IF NOT EXISTS idx_firings_transition ON firings(transition);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordFiring implements runtime.Recorder.
func (s *SQLiteSink) RecordFiring(event runtime.FiringEvent) error {
	rec := toRecord(event)
	inputJSON, err := json.Marshal(rec.InputPlaces)
	if err != nil {
		return fmt.Errorf("recorder: marshal input places: %w", err)
	}
	outputJSON, err := json.Marshal(rec.OutputPlaces)
	if err != nil {
		return fmt.Errorf("recorder: marshal output places: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO firings (run_id, firing_id, sequence, transition, fired_at, input_places, output_places)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID.String(), rec.FiringID.String(), rec.Sequence, rec.Transition,
		rec.FiredAt.UTC().Format(time.RFC3339Nano), string(inputJSON), string(outputJSON),
	)
	if err != nil {
		return fmt.Errorf("recorder: insert firing row: %w", err)
	}
	return nil
}

// CountForRun returns how many firings have been recorded for runID, a
// convenience query mirroring the catacombs example's GetSessionsBySeed
// lookups.
func (s *SQLiteSink) CountForRun(runID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM firings WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("recorder: count firings: %w", err)
	}
	return count, nil
}

// Close releases the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// DB returns the underlying connection for custom queries.
func (s *SQLiteSink) DB() *sql.DB {
	return s.db
}

var _ runtime.Recorder = (*SQLiteSink)(nil)
