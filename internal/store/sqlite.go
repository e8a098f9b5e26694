// Package store provides SQLite-backed access to the sequence dataset.
// Records and zones are read once at startup and treated as immutable; saved
// searches and query history are the only rows written after load.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/deepsea-edna/blueprint/internal/models"
)

// Store wraps the dataset database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates a SQLite database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS zones (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		habitat_type TEXT,
		depth_meters REAL,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		predicted_taxon TEXT,
		confidence REAL NOT NULL,
		novel INTEGER NOT NULL DEFAULT 0,
		length INTEGER NOT NULL,
		quality_score REAL,
		zone_id TEXT,
		functional_annotation TEXT,
		sequence_data TEXT,
		sample_id TEXT,
		collection_date TIMESTAMP,
		habitat_type TEXT,
		depth_meters REAL,
		pipeline TEXT,
		database_source TEXT,
		read_count INTEGER,
		identity_percent REAL,
		FOREIGN KEY (zone_id) REFERENCES zones(id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_zone_id ON records(zone_id);
	CREATE INDEX IF NOT EXISTS idx_records_confidence ON records(confidence);

	CREATE TABLE IF NOT EXISTS saved_searches (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		query TEXT,
		filters TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS query_history (
		id TEXT PRIMARY KEY,
		query TEXT,
		filters TEXT,
		result_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRecord inserts a record. Used by seeding and ingestion tooling.
func (s *Store) InsertRecord(ctx context.Context, r models.SequenceRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (
			id, predicted_taxon, confidence, novel, length, quality_score,
			zone_id, functional_annotation, sequence_data,
			sample_id, collection_date, habitat_type, depth_meters,
			pipeline, database_source, read_count, identity_percent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PredictedTaxon, r.Confidence, r.Novel, r.Length, r.QualityScore,
		r.ZoneID, r.FunctionalAnnotation, r.SequenceData,
		r.Sample.SampleID, r.Sample.CollectionDate, r.Sample.HabitatType, r.Sample.DepthMeters,
		r.Analysis.Pipeline, r.Analysis.DatabaseSource, r.Analysis.ReadCount, r.Analysis.IdentityPercent,
	)
	return err
}

// InsertZone inserts a zone.
func (s *Store) InsertZone(ctx context.Context, z models.Zone) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO zones (id, name, habitat_type, depth_meters, description)
		 VALUES (?, ?, ?, ?, ?)`,
		z.ID, z.Name, z.HabitatType, z.DepthMeters, z.Description,
	)
	return err
}

// LoadRecords reads the full record collection.
func (s *Store) LoadRecords(ctx context.Context) ([]models.SequenceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, predicted_taxon, confidence, novel, length, quality_score,
			zone_id, functional_annotation, sequence_data,
			sample_id, collection_date, habitat_type, depth_meters,
			pipeline, database_source, read_count, identity_percent
		 FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.SequenceRecord
	for rows.Next() {
		var r models.SequenceRecord
		if err := rows.Scan(
			&r.ID, &r.PredictedTaxon, &r.Confidence, &r.Novel, &r.Length, &r.QualityScore,
			&r.ZoneID, &r.FunctionalAnnotation, &r.SequenceData,
			&r.Sample.SampleID, &r.Sample.CollectionDate, &r.Sample.HabitatType, &r.Sample.DepthMeters,
			&r.Analysis.Pipeline, &r.Analysis.DatabaseSource, &r.Analysis.ReadCount, &r.Analysis.IdentityPercent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LoadZones reads the full zone collection.
func (s *Store) LoadZones(ctx context.Context) ([]models.Zone, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, habitat_type, depth_meters, description FROM zones ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	var zones []models.Zone
	for rows.Next() {
		var z models.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.HabitatType, &z.DepthMeters, &z.Description); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// CountRecords returns the number of records in the dataset.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count)
	return count, err
}

// PutSavedSearch upserts a saved search. Filters are stored as JSON.
func (s *Store) PutSavedSearch(saved models.SavedSearch) error {
	filtersJSON, err := json.Marshal(saved.Filters)
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO saved_searches (id, name, query, filters, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		saved.ID, saved.Name, saved.Query, string(filtersJSON), saved.CreatedAt,
	)
	return err
}

// DeleteSavedSearch removes a saved search; missing ids are a no-op.
func (s *Store) DeleteSavedSearch(id string) error {
	_, err := s.db.Exec(`DELETE FROM saved_searches WHERE id = ?`, id)
	return err
}

// PutHistoryEntry appends a history entry. Filters are stored as JSON.
func (s *Store) PutHistoryEntry(entry models.HistoryEntry) error {
	filtersJSON, err := json.Marshal(entry.Filters)
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO query_history (id, query, filters, result_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Query, string(filtersJSON), entry.ResultCount, entry.Timestamp,
	)
	return err
}

// ListHistoryEntries returns up to limit entries, most recent first. The
// rowid breaks ties between entries logged within the timestamp resolution.
func (s *Store) ListHistoryEntries(limit int) ([]models.HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, query, filters, result_count, created_at FROM query_history
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var (
			e           models.HistoryEntry
			filtersJSON string
		)
		if err := rows.Scan(&e.ID, &e.Query, &filtersJSON, &e.ResultCount, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if filtersJSON != "" {
			if err := json.Unmarshal([]byte(filtersJSON), &e.Filters); err != nil {
				return nil, fmt.Errorf("failed to unmarshal filters: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TrimHistory deletes everything but the n most recent entries.
func (s *Store) TrimHistory(n int) error {
	_, err := s.db.Exec(
		`DELETE FROM query_history WHERE id NOT IN (
			SELECT id FROM query_history ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, n)
	return err
}

// ListSavedSearches returns saved searches in creation order.
func (s *Store) ListSavedSearches() ([]models.SavedSearch, error) {
	rows, err := s.db.Query(
		`SELECT id, name, query, filters, created_at FROM saved_searches ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved searches: %w", err)
	}
	defer rows.Close()

	var saved []models.SavedSearch
	for rows.Next() {
		var (
			sv          models.SavedSearch
			filtersJSON string
		)
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.Query, &filtersJSON, &sv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved search: %w", err)
		}
		if filtersJSON != "" {
			if err := json.Unmarshal([]byte(filtersJSON), &sv.Filters); err != nil {
				return nil, fmt.Errorf("failed to unmarshal filters: %w", err)
			}
		}
		saved = append(saved, sv)
	}
	return saved, rows.Err()
}
