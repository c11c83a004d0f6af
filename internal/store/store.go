// Package store persists uploaded session bundles: the raw JSON payload and
// the optional screen-recording blob, keyed by an opaque id.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // CGO-free SQLite
)

// ErrNotFound is returned when no bundle exists under the given id.
var ErrNotFound = errors.New("bundle not found")

type Store struct {
	db *sql.DB
}

// BundleInfo is the listing row for one stored bundle.
type BundleInfo struct {
	ID         string `json:"id"`
	CreatedUTC int64  `json:"createdUtc"`
	SourceURL  string `json:"sourceUrl,omitempty"`
	HasVideo   bool   `json:"hasVideo"`
}

func NewStore(databasePath string) (*Store, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", databasePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS bundles(
	  id           TEXT    PRIMARY KEY,
	  created_utc  INTEGER NOT NULL,
	  source_url   TEXT    NOT NULL DEFAULT '',
	  payload_json TEXT    NOT NULL CHECK (json_valid(payload_json)),
	  video        BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_bundles_created ON bundles(created_utc);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a bundle payload with an optional video blob and returns the
// generated id. The payload must be valid JSON; nothing else is validated
// here — normalization happens at read time.
func (s *Store) Put(payload []byte, video []byte) (string, error) {
	if !json.Valid(payload) {
		return "", fmt.Errorf("bundle payload is not valid JSON")
	}
	id := uuid.NewString()
	sourceURL := extractSourceURL(payload)
	_, err := s.db.Exec(
		`INSERT INTO bundles(id, created_utc, source_url, payload_json, video) VALUES(?,?,?,?,?)`,
		id, time.Now().UnixMilli(), sourceURL, string(payload), video,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert bundle: %w", err)
	}
	return id, nil
}

// Get returns the raw bundle payload, or ErrNotFound.
func (s *Store) Get(id string) ([]byte, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload_json FROM bundles WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return []byte(payload), nil
}

// GetVideoBlob returns the stored recording bytes. ErrNotFound covers both a
// missing bundle and a bundle uploaded without a recording.
func (s *Store) GetVideoBlob(id string) ([]byte, error) {
	var video []byte
	err := s.db.QueryRow(`SELECT video FROM bundles WHERE id = ?`, id).Scan(&video)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read video blob: %w", err)
	}
	if len(video) == 0 {
		return nil, ErrNotFound
	}
	return video, nil
}

// Delete removes a bundle. Deleting an unknown id is not an error.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM bundles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	return nil
}

// List returns stored bundles, newest first.
func (s *Store) List() ([]BundleInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, created_utc, source_url, video IS NOT NULL AND length(video) > 0
		 FROM bundles ORDER BY created_utc DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	defer rows.Close()

	var infos []BundleInfo
	for rows.Next() {
		var info BundleInfo
		if err := rows.Scan(&info.ID, &info.CreatedUTC, &info.SourceURL, &info.HasVideo); err != nil {
			return nil, fmt.Errorf("failed to scan bundle row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// extractSourceURL pulls sessionMeta.url out of the payload for listings.
// Best effort; a payload without it lists with an empty source.
func extractSourceURL(payload []byte) string {
	var probe struct {
		SessionMeta struct {
			URL string `json:"url"`
		} `json:"sessionMeta"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.SessionMeta.URL
}
