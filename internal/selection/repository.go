package selection

import (
	"database/sql"
	"errors"
	"time"

	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
)

// Selection is a persisted selection result keyed by cache key.
type Selection struct {
	CacheKey   string
	Result     content.SelectionResult
	SelectedAt time.Time
}

// Repository stores selection results. It satisfies selector.Mirror.
type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Put(key string, result content.SelectionResult) error {
	_, err := r.db.Exec(`
		INSERT INTO selections (cache_key, image_url, reason, score, provenance, message, selected_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(cache_key) DO UPDATE SET
			image_url = excluded.image_url,
			reason = excluded.reason,
			score = excluded.score,
			provenance = excluded.provenance,
			message = excluded.message,
			selected_at = CURRENT_TIMESTAMP
	`, key, result.ImageURL, string(result.Reason), result.Score, string(result.Provenance), result.Message)
	return err
}

func (r *Repository) Get(key string) (content.SelectionResult, bool, error) {
	s, err := r.Find(key)
	if errors.Is(err, sql.ErrNoRows) {
		return content.SelectionResult{}, false, nil
	}
	if err != nil {
		return content.SelectionResult{}, false, err
	}
	return s.Result, true, nil
}

func (r *Repository) Find(key string) (*Selection, error) {
	var s Selection
	var reason, provenance string
	err := r.db.QueryRow(`
		SELECT cache_key, image_url, reason, score, provenance, message, selected_at
		FROM selections WHERE cache_key = ?
	`, key).Scan(&s.CacheKey, &s.Result.ImageURL, &reason, &s.Result.Score, &provenance, &s.Result.Message, &s.SelectedAt)
	if err != nil {
		return nil, err
	}
	s.Result.Reason = content.Reason(reason)
	s.Result.Provenance = content.Provenance(provenance)
	return &s, nil
}

func (r *Repository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM selections`)
	return err
}

func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM selections`).Scan(&count)
	return count, err
}

// CountByReason groups persisted selections by reason.
func (r *Repository) CountByReason() (map[content.Reason]int, error) {
	rows, err := r.db.Query(`SELECT reason, COUNT(*) FROM selections GROUP BY reason`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[content.Reason]int)
	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, err
		}
		counts[content.Reason(reason)] = n
	}
	return counts, rows.Err()
}

// Keys returns every cache key in ascending order.
func (r *Repository) Keys() ([]string, error) {
	rows, err := r.db.Query(`SELECT cache_key FROM selections ORDER BY cache_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
