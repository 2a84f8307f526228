package search

import (
	"github.com/julienpequegnot/imagepick/internal/database"
)

type SearchResult struct {
	RecordID  int64
	SourceURL string
	Title     string
	Category  string
	Snippet   string
	Rank      float64
	ImageURL  string
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Search matches query against record titles and keywords. ImageURL is the
// cached selection, empty when the record has not been selected yet.
func (r *Repository) Search(query string, limit int) ([]SearchResult, error) {
	rows, err := r.db.Query(`
		SELECT
			r.id,
			r.source_url,
			r.title,
			r.category,
			snippet(records_fts, -1, '<b>', '</b>', '...', 16) as snippet,
			bm25(records_fts) as rank,
			COALESCE(sel.image_url, '') as image_url
		FROM records_fts
		JOIN records r ON records_fts.rowid = r.id
		LEFT JOIN selections sel ON sel.cache_key = r.source_url
		WHERE records_fts MATCH ?
		ORDER BY bm25(records_fts)
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var sr SearchResult
		if err := rows.Scan(&sr.RecordID, &sr.SourceURL, &sr.Title, &sr.Category, &sr.Snippet, &sr.Rank, &sr.ImageURL); err != nil {
			return nil, err
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

func (r *Repository) RebuildIndex() error {
	_, err := r.db.Exec("DELETE FROM records_fts")
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO records_fts(rowid, title, keywords)
		SELECT id, title, keywords FROM records
	`)
	return err
}
