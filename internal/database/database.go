package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn *sql.DB
	path string
}

func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_fts5=true")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Path() string {
	return db.path
}

func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		name TEXT,
		feed_url TEXT,
		category TEXT,
		last_fetched DATETIME,
		active BOOLEAN DEFAULT TRUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY,
		source_id INTEGER REFERENCES sources(id),
		source_url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT '[]',
		category TEXT NOT NULL DEFAULT '',
		fallback_primary TEXT NOT NULL DEFAULT '',
		fallback_secondary TEXT NOT NULL DEFAULT '',
		legacy_thumbnail TEXT NOT NULL DEFAULT '',
		published_at DATETIME,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS candidates (
		id INTEGER PRIMARY KEY,
		record_id INTEGER NOT NULL REFERENCES records(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		alt_text TEXT NOT NULL DEFAULT '',
		caption TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT '[]',
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS selections (
		cache_key TEXT PRIMARY KEY,
		image_url TEXT NOT NULL,
		reason TEXT NOT NULL,
		score REAL NOT NULL DEFAULT 0,
		provenance TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		selected_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_records_source ON records(source_id);
	CREATE INDEX IF NOT EXISTS idx_records_category ON records(category);
	CREATE INDEX IF NOT EXISTS idx_records_published ON records(published_at);
	CREATE INDEX IF NOT EXISTS idx_candidates_record ON candidates(record_id, position);

	CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
		title,
		keywords
	);

	CREATE TRIGGER IF NOT EXISTS records_ai AFTER INSERT ON records BEGIN
		INSERT INTO records_fts(rowid, title, keywords) VALUES (new.id, new.title, new.keywords);
	END;

	CREATE TRIGGER IF NOT EXISTS records_ad AFTER DELETE ON records BEGIN
		DELETE FROM records_fts WHERE rowid = old.id;
	END;

	CREATE TRIGGER IF NOT EXISTS records_au AFTER UPDATE ON records BEGIN
		DELETE FROM records_fts WHERE rowid = old.id;
		INSERT INTO records_fts(rowid, title, keywords) VALUES (new.id, new.title, new.keywords);
	END;
	`

	_, err := db.conn.Exec(schema)
	return err
}
