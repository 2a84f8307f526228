package record

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"

	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/database"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMissingSourceURL is returned when storing a record without a source URL.
var ErrMissingSourceURL = errors.New("record has no source url")

// Record is a stored content record and, when one exists, its cached
// selection.
type Record struct {
	ID          int64
	SourceID    *int64
	SourceName  string
	Content     content.Record
	PublishedAt *time.Time
	FetchedAt   time.Time
	Selection   *content.SelectionResult
}

// ListFilter narrows List. Zero values mean no restriction.
type ListFilter struct {
	Category   string
	Unselected bool
	Limit      int
	Offset     int
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Upsert stores rec keyed by its source URL, replacing its candidates.
func (r *Repository) Upsert(sourceID *int64, rec content.Record, publishedAt *time.Time) (int64, error) {
	sourceURL := strings.TrimSpace(rec.SourceURL)
	if sourceURL == "" {
		return 0, ErrMissingSourceURL
	}

	keywords, err := json.Marshal(rec.Keywords)
	if err != nil {
		return 0, fmt.Errorf("failed to encode keywords: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO records (source_id, source_url, title, keywords, category, fallback_primary, fallback_secondary, legacy_thumbnail, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			source_id = COALESCE(excluded.source_id, records.source_id),
			title = excluded.title,
			keywords = excluded.keywords,
			category = excluded.category,
			fallback_primary = excluded.fallback_primary,
			fallback_secondary = excluded.fallback_secondary,
			legacy_thumbnail = excluded.legacy_thumbnail,
			published_at = COALESCE(excluded.published_at, records.published_at),
			fetched_at = CURRENT_TIMESTAMP
	`, sourceID, sourceURL, rec.Title, string(keywords), rec.Category,
		rec.FallbackImages.Primary, rec.FallbackImages.Secondary, rec.LegacyThumbnail, publishedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert record: %w", err)
	}

	var id int64
	if err := tx.QueryRow(`SELECT id FROM records WHERE source_url = ?`, sourceURL).Scan(&id); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(`DELETE FROM candidates WHERE record_id = ?`, id); err != nil {
		return 0, fmt.Errorf("failed to clear candidates: %w", err)
	}

	for i, c := range rec.ImageCandidates {
		if strings.TrimSpace(c.URL) == "" {
			continue
		}
		kw, err := json.Marshal(c.ExplicitKeywords)
		if err != nil {
			return 0, fmt.Errorf("failed to encode candidate keywords: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO candidates (record_id, position, url, alt_text, caption, keywords, width, height) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, c.URL, c.AltText, c.Caption, string(kw), c.Width, c.Height,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert candidate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) Exists(sourceURL string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM records WHERE source_url = ?`, sourceURL).Scan(&count)
	return count > 0, err
}

func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&count)
	return count, err
}

func (r *Repository) Get(id int64) (*Record, error) {
	return r.getWhere(sq.Eq{"r.id": id})
}

func (r *Repository) GetByURL(sourceURL string) (*Record, error) {
	return r.getWhere(sq.Eq{"r.source_url": sourceURL})
}

func (r *Repository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM records WHERE id = ?`, id)
	return err
}

func (r *Repository) List(f ListFilter) ([]Record, error) {
	q := selectRecords()
	if f.Category != "" {
		q = q.Where(sq.Eq{"r.category": f.Category})
	}
	if f.Unselected {
		q = q.Where(sq.Expr("sel.cache_key IS NULL"))
	}
	q = q.OrderBy("r.published_at DESC", "r.id DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
		if f.Offset > 0 {
			q = q.Offset(uint64(f.Offset))
		}
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range records {
		candidates, err := r.candidates(records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Content.ImageCandidates = candidates
	}
	return records, nil
}

func (r *Repository) getWhere(pred sq.Sqlizer) (*Record, error) {
	query, args, err := selectRecords().Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rec, err := scanRecord(r.db.QueryRow(query, args...))
	if err != nil {
		return nil, err
	}

	rec.Content.ImageCandidates, err = r.candidates(rec.ID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Repository) candidates(recordID int64) ([]content.ImageCandidate, error) {
	rows, err := r.db.Query(`
		SELECT url, alt_text, caption, keywords, width, height
		FROM candidates WHERE record_id = ? ORDER BY position
	`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []content.ImageCandidate
	for rows.Next() {
		var c content.ImageCandidate
		var kw string
		if err := rows.Scan(&c.URL, &c.AltText, &c.Caption, &kw, &c.Width, &c.Height); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(kw), &c.ExplicitKeywords); err != nil {
			return nil, fmt.Errorf("failed to decode candidate keywords: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func selectRecords() sq.SelectBuilder {
	return sq.Select(
		"r.id", "r.source_id", "COALESCE(s.name, '')", "r.source_url", "r.title", "r.keywords",
		"r.category", "r.fallback_primary", "r.fallback_secondary", "r.legacy_thumbnail",
		"r.published_at", "r.fetched_at",
		"sel.image_url", "sel.reason", "sel.score", "sel.provenance", "sel.message",
	).
		From("records r").
		LeftJoin("sources s ON r.source_id = s.id").
		LeftJoin("selections sel ON sel.cache_key = r.source_url")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec         Record
		sourceID    sql.NullInt64
		keywords    string
		publishedAt sql.NullTime
		imageURL    sql.NullString
		reason      sql.NullString
		score       sql.NullFloat64
		provenance  sql.NullString
		message     sql.NullString
	)

	err := row.Scan(
		&rec.ID, &sourceID, &rec.SourceName, &rec.Content.SourceURL, &rec.Content.Title, &keywords,
		&rec.Content.Category, &rec.Content.FallbackImages.Primary, &rec.Content.FallbackImages.Secondary,
		&rec.Content.LegacyThumbnail, &publishedAt, &rec.FetchedAt,
		&imageURL, &reason, &score, &provenance, &message,
	)
	if err != nil {
		return nil, err
	}

	if sourceID.Valid {
		rec.SourceID = &sourceID.Int64
	}
	if publishedAt.Valid {
		rec.PublishedAt = &publishedAt.Time
	}
	if err := json.Unmarshal([]byte(keywords), &rec.Content.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	if imageURL.Valid {
		rec.Selection = &content.SelectionResult{
			ImageURL:   imageURL.String,
			Reason:     content.Reason(reason.String),
			Score:      score.Float64,
			Provenance: content.Provenance(provenance.String),
			Message:    message.String,
		}
	}
	return &rec, nil
}
