package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"vaultdedup/internal/models"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecords() []*models.FileRecord {
	added := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	return []*models.FileRecord{
		{
			ID: "/vault/a.txt", Name: "a.txt", Path: "/vault/a.txt",
			Type: models.FileTypeDocument, SizeBytes: 1000,
			DateAdded: added, DateModified: added,
		},
		{
			ID: "/vault/pic.jpg", Name: "pic.jpg", Path: "/vault/pic.jpg",
			Type: models.FileTypeImage, SizeBytes: 2048, HasExif: true,
			DateAdded: added.Add(time.Hour), DateModified: added.Add(2 * time.Hour),
		},
	}
}

func TestStorage_SaveAndLoadFiles(t *testing.T) {
	s := testStorage(t)
	records := testRecords()

	if err := s.SaveFiles(records, []string{"hash-a", "hash-b"}); err != nil {
		t.Fatalf("SaveFiles: %v", err)
	}

	loaded, err := s.GetAllFiles()
	if err != nil {
		t.Fatalf("GetAllFiles: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 files, got %d", len(loaded))
	}

	// Ordered by ID.
	if loaded[0].ID != "/vault/a.txt" || loaded[1].ID != "/vault/pic.jpg" {
		t.Errorf("unexpected order: %s, %s", loaded[0].ID, loaded[1].ID)
	}
	got := loaded[1]
	want := records[1]
	if got.Name != want.Name || got.Type != want.Type || got.SizeBytes != want.SizeBytes {
		t.Errorf("metadata mismatch: got %+v, want %+v", got, want)
	}
	if !got.HasExif {
		t.Error("has_exif flag lost in round trip")
	}
	if !got.DateAdded.Equal(want.DateAdded) || !got.DateModified.Equal(want.DateModified) {
		t.Errorf("dates mismatch: got %v/%v, want %v/%v",
			got.DateAdded, got.DateModified, want.DateAdded, want.DateModified)
	}
}

func TestStorage_SaveFilesIsUpsert(t *testing.T) {
	s := testStorage(t)
	records := testRecords()

	if err := s.SaveFiles(records, nil); err != nil {
		t.Fatal(err)
	}
	records[0].SizeBytes = 4321
	if err := s.SaveFiles(records, nil); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.GetAllFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("upsert duplicated rows: got %d files", len(loaded))
	}
	if loaded[0].SizeBytes != 4321 {
		t.Errorf("size not updated: %d", loaded[0].SizeBytes)
	}
}

func TestStorage_DeleteFile(t *testing.T) {
	s := testStorage(t)
	if err := s.SaveFiles(testRecords(), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteFile("/vault/a.txt"); err != nil {
		t.Fatal(err)
	}
	loaded, err := s.GetAllFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ID != "/vault/pic.jpg" {
		t.Errorf("unexpected files after delete: %+v", loaded)
	}
}

func TestStorage_SaveAndLoadAnalysis(t *testing.T) {
	s := testStorage(t)

	analysis := &models.DuplicateAnalysis{
		TotalDuplicateFiles:   2,
		PotentialSavingsBytes: 3000,
		GeneratedAt:           time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
		Groups: []*models.DuplicateGroup{
			{
				ID: "exact-1", Category: models.CategoryExact,
				Members:         []string{"a", "b", "c"},
				SimilarityScore: 1.0, TotalSizeBytes: 3000, PotentialSavingsBytes: 2000,
			},
			{
				ID: "name-1", Category: models.CategoryNameSimilar,
				Members:         []string{"x", "y"},
				SimilarityScore: 0.9, TotalSizeBytes: 500,
			},
		},
	}

	runID, err := s.SaveAnalysis("/vault", 10, analysis)
	if err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	loaded, err := s.LatestAnalysis()
	if err != nil {
		t.Fatalf("LatestAnalysis: %v", err)
	}
	if loaded.TotalDuplicateFiles != 2 || loaded.PotentialSavingsBytes != 3000 {
		t.Errorf("totals mismatch: %+v", loaded)
	}
	if !loaded.GeneratedAt.Equal(analysis.GeneratedAt) {
		t.Errorf("generated_at = %v, want %v", loaded.GeneratedAt, analysis.GeneratedAt)
	}
	if len(loaded.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(loaded.Groups))
	}
	if !reflect.DeepEqual(loaded.Groups[0], analysis.Groups[0]) {
		t.Errorf("group round trip mismatch:\ngot  %+v\nwant %+v", loaded.Groups[0], analysis.Groups[0])
	}
	if !reflect.DeepEqual(loaded.Groups[1].Members, []string{"x", "y"}) {
		t.Errorf("member order lost: %v", loaded.Groups[1].Members)
	}
}

func TestStorage_LatestAnalysisPicksNewest(t *testing.T) {
	s := testStorage(t)
	base := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	for i, savings := range []int64{100, 200} {
		a := &models.DuplicateAnalysis{
			PotentialSavingsBytes: savings,
			GeneratedAt:           base.Add(time.Duration(i) * time.Hour),
			Groups:                []*models.DuplicateGroup{},
		}
		if _, err := s.SaveAnalysis("/vault", 1, a); err != nil {
			t.Fatal(err)
		}
	}

	loaded, err := s.LatestAnalysis()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.PotentialSavingsBytes != 200 {
		t.Errorf("loaded savings = %d, want the newer run (200)", loaded.PotentialSavingsBytes)
	}
}

func TestStorage_LatestAnalysisEmpty(t *testing.T) {
	s := testStorage(t)
	_, err := s.LatestAnalysis()
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestStorage_SchemaVersion(t *testing.T) {
	s := testStorage(t)
	if v := s.getSchemaVersion(); v != schemaVersion {
		t.Errorf("schema version = %d, want %d", v, schemaVersion)
	}
}
