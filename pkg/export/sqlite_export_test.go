package export

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rankdeck/rankdeck/pkg/model"
)

func sampleSet() model.ResultSet {
	return model.ResultSet{
		Date:     "2026-08-29",
		SourceID: "fanqie",
		Scope:    model.ScopeSingle,
		Items: []model.RankedItem{
			{Title: "a", Author: "x", SourceID: "fanqie", SourceName: "番茄", Category: "都市", Gender: model.GenderMale, Rank: 1, HeatText: "3.2万"},
			{Title: "b", Author: "y", SourceID: "fanqie", SourceName: "番茄", Category: "玄幻", Gender: model.GenderMale, Rank: 2, HeatText: "6388"},
		},
	}
}

func TestSnapshotExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	if err := NewSnapshotExporter(sampleSet(), path).Export(); err != nil {
		t.Fatalf("export: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("book count = %d, want 2", count)
	}

	var hv float64
	if err := db.QueryRow(`SELECT heat_value FROM books WHERE title = 'a'`).Scan(&hv); err != nil {
		t.Fatal(err)
	}
	if hv != 32000 {
		t.Errorf("heat_value = %v, want 32000 (parsed from 3.2万)", hv)
	}

	var date string
	if err := db.QueryRow(`SELECT value FROM snapshot_meta WHERE key = 'date'`).Scan(&date); err != nil {
		t.Fatal(err)
	}
	if date != "2026-08-29" {
		t.Errorf("meta date = %q", date)
	}
}

func TestSnapshotExportReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	if err := NewSnapshotExporter(sampleSet(), path).Export(); err != nil {
		t.Fatal(err)
	}
	small := sampleSet()
	small.Items = small.Items[:1]
	if err := NewSnapshotExporter(small, path).Export(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("stale rows survived re-export: count = %d", count)
	}
}

func TestSnapshotExportRejectsEmpty(t *testing.T) {
	err := NewSnapshotExporter(model.ResultSet{}, filepath.Join(t.TempDir(), "x.db")).Export()
	if err == nil {
		t.Fatal("expected error for empty result set")
	}
}
