// SQLite snapshot sink: dumps the active ResultSet to a standalone
// database file so downstream tools can query a day's rankings without
// talking to the service.
package export

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	_ "modernc.org/sqlite"

	"github.com/rankdeck/rankdeck/pkg/heat"
	"github.com/rankdeck/rankdeck/pkg/model"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS books (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    author      TEXT NOT NULL DEFAULT '',
    source      TEXT NOT NULL DEFAULT '',
    source_name TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL DEFAULT '',
    gender      TEXT NOT NULL DEFAULT '',
    period      TEXT NOT NULL DEFAULT '',
    rank        INTEGER NOT NULL,
    heat        TEXT NOT NULL DEFAULT '',
    heat_value  REAL NOT NULL DEFAULT 0,
    word_count  TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT '',
    book_url    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_books_source_category ON books(source_name, category);
CREATE INDEX IF NOT EXISTS idx_books_heat ON books(heat_value DESC);

CREATE TABLE IF NOT EXISTS snapshot_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SnapshotExporter writes one ResultSet to a SQLite file.
type SnapshotExporter struct {
	Set  model.ResultSet
	Path string
}

// NewSnapshotExporter creates an exporter for the given result set.
func NewSnapshotExporter(set model.ResultSet, path string) *SnapshotExporter {
	return &SnapshotExporter{Set: set, Path: path}
}

// Export writes the snapshot, replacing any existing file at Path.
func (e *SnapshotExporter) Export() error {
	if len(e.Set.Items) == 0 {
		return fmt.Errorf("no items to export")
	}
	if e.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(e.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	// Replace rather than append; a snapshot is a whole day's state.
	if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale snapshot: %w", err)
	}

	db, err := sql.Open("sqlite", e.Path)
	if err != nil {
		return fmt.Errorf("open snapshot db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(snapshotSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO books
		(title, author, source, source_name, category, gender, period, rank,
		 heat, heat_value, word_count, status, book_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range e.Set.Items {
		if _, err := stmt.Exec(
			it.Title, it.Author, it.SourceID, it.SourceName, it.Category,
			string(it.Gender), string(it.Period), it.Rank,
			it.HeatText, heat.Parse(it.HeatText), it.WordCount, it.Status, it.URL,
		); err != nil {
			return fmt.Errorf("insert %q: %w", it.Title, err)
		}
	}

	meta := map[string]string{
		"date":      e.Set.Date,
		"source":    e.Set.SourceID,
		"count":     fmt.Sprintf("%d", len(e.Set.Items)),
		"data_hash": e.dataHash(),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO snapshot_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("write meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// dataHash fingerprints the exported items for provenance.
func (e *SnapshotExporter) dataHash() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, it := range e.Set.Items {
		_ = enc.Encode(it)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
