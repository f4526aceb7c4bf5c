package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/ttpr0/go-accessibility/batched/buffered"
	. "github.com/ttpr0/go-accessibility/util"
)

// Checkpoint persists processed queries and their distances.
//
// Writes are buffered and committed in one transaction every `every` queries.
type Checkpoint struct {
	db      *sql.DB
	every   int
	pending List[buffered.QueryResult]
}

// NewCheckpoint opens or creates the checkpoint database.
func NewCheckpoint(db_path string, every int) (*Checkpoint, error) {
	db, err := sql.Open("sqlite3", db_path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to checkpoint: %w", err)
	}
	if every <= 0 {
		every = 1
	}
	checkpoint := &Checkpoint{
		db:      db,
		every:   every,
		pending: NewList[buffered.QueryResult](every),
	}
	if err := checkpoint._InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize checkpoint schema: %w", err)
	}
	return checkpoint, nil
}

func (self *Checkpoint) _InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS queries (
		query_id INTEGER PRIMARY KEY,
		outcome TEXT NOT NULL,
		radius REAL NOT NULL,
		attempts INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS distances (
		vertex INTEGER PRIMARY KEY,
		distance REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := self.db.Exec(schema)
	return err
}

// Write buffers a query result, implements buffered.IResultSink.
func (self *Checkpoint) Write(result buffered.QueryResult) error {
	self.pending.Add(result)
	if self.pending.Length() >= self.every {
		return self.Flush()
	}
	return nil
}

// Flush commits all buffered results.
func (self *Checkpoint) Flush() error {
	if self.pending.Length() == 0 {
		return nil
	}
	tx, err := self.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query_stmt, err := tx.Prepare(`
		INSERT INTO queries (query_id, outcome, radius, attempts)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(query_id) DO UPDATE SET
			outcome = EXCLUDED.outcome,
			radius = EXCLUDED.radius,
			attempts = EXCLUDED.attempts
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare query insert: %w", err)
	}
	defer query_stmt.Close()

	dist_stmt, err := tx.Prepare(`
		INSERT INTO distances (vertex, distance)
		VALUES (?, ?)
		ON CONFLICT(vertex) DO UPDATE SET
			distance = MIN(distances.distance, EXCLUDED.distance)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare distance insert: %w", err)
	}
	defer dist_stmt.Close()

	for _, result := range self.pending {
		// abandoned queries are retried on resume
		if result.Outcome == buffered.ABANDONED {
			continue
		}
		if _, err := query_stmt.Exec(result.ID, result.Outcome.String(), result.Radius, result.Attempts); err != nil {
			return fmt.Errorf("failed to store query %v: %w", result.ID, err)
		}
		for _, rec := range result.Records {
			if _, err := dist_stmt.Exec(rec.Vertex, rec.Distance); err != nil {
				return fmt.Errorf("failed to store distance of vertex %v: %w", rec.Vertex, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkpoint: %w", err)
	}
	self.pending.Clear()
	return nil
}

// CompletedQueries returns the ids of all stored queries.
func (self *Checkpoint) CompletedQueries() (Dict[int64, bool], error) {
	rows, err := self.db.Query(`SELECT query_id FROM queries`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed queries: %w", err)
	}
	defer rows.Close()

	completed := NewDict[int64, bool](1000)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan query id: %w", err)
		}
		completed[id] = true
	}
	return completed, rows.Err()
}

// Distances returns all stored distance records.
func (self *Checkpoint) Distances() (List[buffered.DistanceRecord], error) {
	rows, err := self.db.Query(`SELECT vertex, distance FROM distances`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distances: %w", err)
	}
	defer rows.Close()

	records := NewList[buffered.DistanceRecord](1000)
	for rows.Next() {
		var rec buffered.DistanceRecord
		if err := rows.Scan(&rec.Vertex, &rec.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan distance: %w", err)
		}
		records.Add(rec)
	}
	return records, rows.Err()
}

// Resume seeds the table with the stored distances and returns the skip predicate
// for the stored queries.
func (self *Checkpoint) Resume(table *buffered.DistanceTable) (func(id int64) bool, error) {
	records, err := self.Distances()
	if err != nil {
		return nil, err
	}
	table.Merge(records)
	completed, err := self.CompletedQueries()
	if err != nil {
		return nil, err
	}
	return func(id int64) bool {
		return completed.ContainsKey(id)
	}, nil
}

// SetRunKey stores the key of the run configuration.
//
// Returns an error if the checkpoint belongs to a run with another key.
func (self *Checkpoint) SetRunKey(key string) error {
	var stored string
	err := self.db.QueryRow(`SELECT value FROM runs WHERE key = 'config'`).Scan(&stored)
	if err == sql.ErrNoRows {
		_, err = self.db.Exec(`INSERT INTO runs (key, value) VALUES ('config', ?)`, key)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to read run key: %w", err)
	}
	if stored != key {
		return fmt.Errorf("checkpoint belongs to another run configuration")
	}
	return nil
}

// Close flushes pending results and closes the database.
func (self *Checkpoint) Close() error {
	err := self.Flush()
	if cerr := self.db.Close(); err == nil {
		err = cerr
	}
	return err
}
