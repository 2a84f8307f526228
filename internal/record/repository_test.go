package record

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
	"github.com/julienpequegnot/imagepick/internal/source"
)

func setupTestDB(t *testing.T) *database.DB {
	tmpDir := t.TempDir()
	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db
}

func sampleRecord(url string) content.Record {
	return content.Record{
		SourceURL: url,
		Title:     "Mars rover lands safely",
		Keywords:  content.Keywords{"mars", "rover"},
		Category:  "news",
		ImageCandidates: []content.ImageCandidate{
			{URL: "https://cdn.example.com/mars-rover.jpg", AltText: "rover on mars", Width: 800, Height: 600},
			{URL: "https://cdn.example.com/logo.png", ExplicitKeywords: content.Keywords{"brand"}},
		},
		FallbackImages:  content.FallbackImages{Primary: "https://cdn.example.com/og.jpg"},
		LegacyThumbnail: "https://cdn.example.com/thumb.jpg",
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	srcRepo := source.NewRepository(db)
	src, err := srcRepo.Add("https://news.example.com", "Example News", "", "news")
	if err != nil {
		t.Fatalf("failed to add source: %v", err)
	}

	repo := NewRepository(db)
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := repo.Upsert(&src.ID, sampleRecord("https://news.example.com/mars"), &published)
	if err != nil {
		t.Fatalf("failed to upsert record: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero ID")
	}

	got, err := repo.Get(id)
	if err != nil {
		t.Fatalf("failed to get record: %v", err)
	}

	if got.SourceName != "Example News" {
		t.Errorf("expected source name, got %q", got.SourceName)
	}
	if got.Content.Title != "Mars rover lands safely" {
		t.Errorf("unexpected title %q", got.Content.Title)
	}
	if len(got.Content.Keywords) != 2 || got.Content.Keywords[0] != "mars" {
		t.Errorf("unexpected keywords %v", got.Content.Keywords)
	}
	if len(got.Content.ImageCandidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got.Content.ImageCandidates))
	}
	if got.Content.ImageCandidates[0].Width != 800 || got.Content.ImageCandidates[0].AltText != "rover on mars" {
		t.Errorf("unexpected first candidate %+v", got.Content.ImageCandidates[0])
	}
	if got.Content.ImageCandidates[1].ExplicitKeywords[0] != "brand" {
		t.Errorf("expected candidate keywords to round trip, got %v", got.Content.ImageCandidates[1].ExplicitKeywords)
	}
	if got.Content.FallbackImages.Primary != "https://cdn.example.com/og.jpg" {
		t.Errorf("unexpected fallback %q", got.Content.FallbackImages.Primary)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(published) {
		t.Errorf("expected published at %v, got %v", published, got.PublishedAt)
	}
	if got.Selection != nil {
		t.Error("expected no selection")
	}
}

func TestUpsertReplacesCandidates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	rec := sampleRecord("https://news.example.com/mars")

	first, err := repo.Upsert(nil, rec, nil)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	rec.Title = "Updated title"
	rec.ImageCandidates = rec.ImageCandidates[:1]
	second, err := repo.Upsert(nil, rec, nil)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first != second {
		t.Errorf("expected same id, got %d and %d", first, second)
	}

	got, err := repo.GetByURL("https://news.example.com/mars")
	if err != nil {
		t.Fatalf("failed to get record: %v", err)
	}
	if got.Content.Title != "Updated title" {
		t.Errorf("expected updated title, got %q", got.Content.Title)
	}
	if len(got.Content.ImageCandidates) != 1 {
		t.Errorf("expected 1 candidate, got %d", len(got.Content.ImageCandidates))
	}

	count, _ := repo.Count()
	if count != 1 {
		t.Errorf("expected 1 record, got %d", count)
	}
}

func TestUpsertRequiresSourceURL(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	_, err := repo.Upsert(nil, content.Record{Title: "no url"}, nil)
	if !errors.Is(err, ErrMissingSourceURL) {
		t.Errorf("expected ErrMissingSourceURL, got %v", err)
	}
}

func TestExists(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	repo.Upsert(nil, sampleRecord("https://news.example.com/mars"), nil)

	exists, err := repo.Exists("https://news.example.com/mars")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("expected record to exist")
	}

	exists, _ = repo.Exists("https://news.example.com/other")
	if exists {
		t.Error("expected record to not exist")
	}
}

func TestListFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	news := sampleRecord("https://news.example.com/mars")
	video := sampleRecord("https://videos.example.com/launch")
	video.Category = "videos"
	repo.Upsert(nil, news, nil)
	repo.Upsert(nil, video, nil)

	_, err := db.Exec(
		`INSERT INTO selections (cache_key, image_url, reason, score, provenance) VALUES (?, ?, ?, ?, ?)`,
		"https://news.example.com/mars", "https://cdn.example.com/mars-rover.jpg", "scored_match", 0.9, "primary_source",
	)
	if err != nil {
		t.Fatalf("failed to insert selection: %v", err)
	}

	all, err := repo.List(ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}

	videos, _ := repo.List(ListFilter{Category: "videos"})
	if len(videos) != 1 || videos[0].Content.SourceURL != "https://videos.example.com/launch" {
		t.Errorf("unexpected category filter result %+v", videos)
	}

	unselected, _ := repo.List(ListFilter{Unselected: true})
	if len(unselected) != 1 || unselected[0].Content.Category != "videos" {
		t.Errorf("unexpected unselected result %+v", unselected)
	}

	selected, _ := repo.GetByURL("https://news.example.com/mars")
	if selected.Selection == nil || selected.Selection.Reason != content.ReasonScoredMatch {
		t.Errorf("expected joined selection, got %+v", selected.Selection)
	}

	limited, _ := repo.List(ListFilter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1 record with limit, got %d", len(limited))
	}
	if len(limited[0].Content.ImageCandidates) != 2 {
		t.Errorf("expected candidates loaded in list, got %d", len(limited[0].Content.ImageCandidates))
	}
}

func TestDeleteCascadesCandidates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	id, _ := repo.Upsert(nil, sampleRecord("https://news.example.com/mars"), nil)

	if err := repo.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM candidates`).Scan(&n)
	if n != 0 {
		t.Errorf("expected candidates removed, got %d", n)
	}
}
