package search

import (
	"path/filepath"
	"testing"

	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/record"
	"github.com/julienpequegnot/imagepick/internal/selection"
)

func setupTestDB(t *testing.T) *database.DB {
	tmpDir := t.TempDir()
	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	recRepo := record.NewRepository(db)
	recRepo.Upsert(nil, content.Record{SourceURL: "https://test.com/r1", Title: "Mars rover lands", Keywords: content.Keywords{"space", "nasa"}}, nil)
	recRepo.Upsert(nil, content.Record{SourceURL: "https://test.com/r2", Title: "Ocean currents shift", Keywords: content.Keywords{"climate"}}, nil)
	recRepo.Upsert(nil, content.Record{SourceURL: "https://test.com/r3", Title: "New phone released", Keywords: content.Keywords{"gadgets"}}, nil)

	return db
}

func TestSearchByTitle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	results, err := repo.Search("rover", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected one result for 'rover', got %d", len(results))
	}
	if results[0].SourceURL != "https://test.com/r1" {
		t.Errorf("unexpected result %+v", results[0])
	}
	if results[0].Snippet == "" {
		t.Error("expected snippet to be populated")
	}
}

func TestSearchByKeyword(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	results, err := repo.Search("climate", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Ocean currents shift" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestSearchNoResults(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	results, err := repo.Search("kubernetes", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("expected no results for 'kubernetes', got %d", len(results))
	}
}

func TestSearchIncludesSelection(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	selection.NewRepository(db).Put("https://test.com/r1", content.SelectionResult{
		ImageURL: "https://cdn.test.com/rover.jpg",
		Reason:   content.ReasonScoredMatch,
	})

	results, err := NewRepository(db).Search("mars", 10)
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(results) != 1 || results[0].ImageURL != "https://cdn.test.com/rover.jpg" {
		t.Errorf("expected selected image, got %+v", results)
	}
}

func TestRebuildIndex(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	if _, err := db.Exec("DELETE FROM records_fts"); err != nil {
		t.Fatal(err)
	}

	results, _ := repo.Search("rover", 10)
	if len(results) != 0 {
		t.Fatalf("expected empty index, got %d", len(results))
	}

	if err := repo.RebuildIndex(); err != nil {
		t.Fatalf("failed to rebuild index: %v", err)
	}

	results, _ = repo.Search("rover", 10)
	if len(results) != 1 {
		t.Errorf("expected 1 result after rebuild, got %d", len(results))
	}
}
