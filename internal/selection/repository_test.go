package selection

import (
	"path/filepath"
	"testing"

	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/scorer"
	"github.com/julienpequegnot/imagepick/internal/selector"
)

func setupTestDB(t *testing.T) *database.DB {
	tmpDir := t.TempDir()
	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db
}

func TestPutAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	want := content.SelectionResult{
		ImageURL:   "https://cdn.example.com/mars.jpg",
		Reason:     content.ReasonScoredMatch,
		Score:      0.72,
		Provenance: content.PrimarySource,
	}
	if err := repo.Put("https://news.example.com/mars", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := repo.Get("https://news.example.com/mars")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	_, ok, err = repo.Get("missing")
	if err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestPutOverwrites(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	repo.Put("k", content.SelectionResult{ImageURL: "a", Reason: content.ReasonScoredMatch})
	repo.Put("k", content.SelectionResult{ImageURL: "b", Reason: content.ReasonFallbackPlaceholder, Message: "no image found"})

	s, err := repo.Find("k")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if s.Result.ImageURL != "b" || s.Result.Message != "no image found" {
		t.Errorf("unexpected selection %+v", s.Result)
	}

	count, _ := repo.Count()
	if count != 1 {
		t.Errorf("expected 1 selection, got %d", count)
	}
}

func TestClearAndCountByReason(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	repo.Put("a", content.SelectionResult{ImageURL: "x", Reason: content.ReasonScoredMatch})
	repo.Put("b", content.SelectionResult{ImageURL: "y", Reason: content.ReasonScoredMatch})
	repo.Put("c", content.SelectionResult{ImageURL: "z", Reason: content.ReasonFallbackOgImage})

	counts, err := repo.CountByReason()
	if err != nil {
		t.Fatalf("count by reason: %v", err)
	}
	if counts[content.ReasonScoredMatch] != 2 || counts[content.ReasonFallbackOgImage] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	keys, err := repo.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Errorf("unexpected keys %v", keys)
	}

	if err := repo.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	count, _ := repo.Count()
	if count != 0 {
		t.Errorf("expected empty table, got %d", count)
	}
}

func TestSelectorUsesRepositoryAsMirror(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	rec := content.Record{
		SourceURL: "https://news.example.com/mars",
		Title:     "Mars rover",
		ImageCandidates: []content.ImageCandidate{
			{URL: "https://cdn.example.com/mars-rover.jpg", AltText: "mars rover"},
		},
	}

	first := selector.New(scorer.NewRelevanceScorer(scorer.DefaultWeights()), selector.NewCache(repo))
	want := first.Select(&rec, nil)

	// A fresh selector with an empty in-process cache reads the persisted entry.
	second := selector.New(scorer.NewRelevanceScorer(scorer.DefaultWeights()), selector.NewCache(repo))
	rec.ImageCandidates = nil
	got := second.Select(&rec, nil)

	if got != want {
		t.Errorf("expected persisted %+v, got %+v", want, got)
	}
	if second.CacheStats().Size != 1 {
		t.Errorf("expected promoted entry, got %d", second.CacheStats().Size)
	}
}
