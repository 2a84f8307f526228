package source

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julienpequegnot/imagepick/internal/database"
)

// Source is a feed whose items become content records.
type Source struct {
	ID          int64
	URL         string
	Name        string
	FeedURL     string
	Category    string
	LastFetched *time.Time
	Active      bool
	CreatedAt   time.Time
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Add(url, name, feedURL, category string) (*Source, error) {
	result, err := r.db.Exec(
		`INSERT INTO sources (url, name, feed_url, category, active) VALUES (?, ?, ?, ?, TRUE)`,
		url, name, feedURL, category,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert source: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Source{
		ID:       id,
		URL:      url,
		Name:     name,
		FeedURL:  feedURL,
		Category: category,
		Active:   true,
	}, nil
}

func (r *Repository) List() ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT id, url, name, COALESCE(feed_url, ''), COALESCE(category, ''), last_fetched, active, created_at
		FROM sources WHERE active = TRUE ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		var lastFetched sql.NullTime
		if err := rows.Scan(&s.ID, &s.URL, &s.Name, &s.FeedURL, &s.Category, &lastFetched, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		if lastFetched.Valid {
			s.LastFetched = &lastFetched.Time
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *Repository) UpdateLastFetched(id int64) error {
	_, err := r.db.Exec(`UPDATE sources SET last_fetched = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

func (r *Repository) Deactivate(id int64) error {
	res, err := r.db.Exec(`UPDATE sources SET active = FALSE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("source %d not found", id)
	}
	return nil
}
