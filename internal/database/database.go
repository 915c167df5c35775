package database

import (
	"database/sql"
	_ "github.com/mattn/go-sqlite3"
)

func New(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`
-- BRAMBLE Database Schema

-- Pages are the wiki documents, one row per unique title. html and text are
-- derived from content by the renderer on every write. lock_token/lock_expiry
-- form the optimistic edit lock; both NULL means unlocked.
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT UNIQUE NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    html TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL DEFAULT '',
    lock_token TEXT,
    lock_expiry TIMESTAMP,
    refresh TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Revisions are the append-only edit history of a page, one patch pair per
-- edit. event runs 1..N per page with no gaps and is never rewritten.
CREATE TABLE IF NOT EXISTS revisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    event INTEGER NOT NULL DEFAULT 1,
    summary TEXT NOT NULL DEFAULT '',
    title_patch TEXT NOT NULL DEFAULT '',
    content_patch TEXT NOT NULL DEFAULT '',
    written_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(page_id) REFERENCES pages(id),
    UNIQUE (page_id, event)
);
`)
	return err
}
