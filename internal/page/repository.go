package page

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bramble/internal/models"
)

const pageColumns = "id, title, content, html, text, lock_token, lock_expiry, refresh"

// Repository provides access to the page storage. Lookups return (nil, nil)
// for absent pages; a page that does not exist yet is a normal wiki state,
// not an error.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new page repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

func scanPage(row *sql.Row) (*models.Page, error) {
	var page models.Page
	err := row.Scan(&page.ID, &page.Title, &page.Content, &page.HTML, &page.Text,
		&page.LockToken, &page.LockExpiry, &page.Refresh)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// FindByTitle finds a page by its unique title.
func (r *Repository) FindByTitle(title string) (*models.Page, error) {
	row := r.DB.QueryRow("SELECT "+pageColumns+" FROM pages WHERE title = ?", title)
	return scanPage(row)
}

// FindByID finds a page by its id.
func (r *Repository) FindByID(id int64) (*models.Page, error) {
	row := r.DB.QueryRow("SELECT "+pageColumns+" FROM pages WHERE id = ?", id)
	return scanPage(row)
}

// Create inserts a new page and fills in its assigned id. The unique index
// on title rejects a concurrent creation of the same title.
func (r *Repository) Create(ctx context.Context, page *models.Page) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO pages (title, content, html, text) VALUES (?, ?, ?, ?)",
		page.Title, page.Content, page.HTML, page.Text)
	if err != nil {
		return fmt.Errorf("error creating page: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading page id: %w", err)
	}
	page.ID = id
	return nil
}

// Update persists the full mutable state of a page unconditionally.
func (r *Repository) Update(ctx context.Context, page *models.Page) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE pages SET title = ?, content = ?, html = ?, text = ?, lock_token = ?, lock_expiry = ?, refresh = ? WHERE id = ?",
		page.Title, page.Content, page.HTML, page.Text, page.LockToken, page.LockExpiry, page.Refresh, page.ID)
	if err != nil {
		return fmt.Errorf("error updating page: %w", err)
	}
	return nil
}

// TryLock is the compare-and-swap behind the edit lock: it writes the token
// and expiry only if no token is currently set. Whether the swap won is
// determined by the confirming FindLocked read, not by this call.
func (r *Repository) TryLock(ctx context.Context, id int64, token string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE pages SET lock_token = ?, lock_expiry = ? WHERE id = ? AND lock_token IS NULL",
		token, expiry, id)
	if err != nil {
		return fmt.Errorf("error locking page: %w", err)
	}
	return nil
}

// FindLocked re-reads a page filtered on the lock values a writer just tried
// to set. A nil result means another writer won the race.
func (r *Repository) FindLocked(title, token string, expiry time.Time) (*models.Page, error) {
	row := r.DB.QueryRow(
		"SELECT "+pageColumns+" FROM pages WHERE title = ? AND lock_token = ? AND lock_expiry = ?",
		title, token, expiry)
	return scanPage(row)
}

// Unlock clears the lock fields unconditionally.
func (r *Repository) Unlock(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE pages SET lock_token = NULL, lock_expiry = NULL WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("error unlocking page: %w", err)
	}
	return nil
}

// Count returns the number of pages.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// FindByOffset returns the page at the given offset in id order. Used for
// random-page selection.
func (r *Repository) FindByOffset(offset int) (*models.Page, error) {
	row := r.DB.QueryRow("SELECT "+pageColumns+" FROM pages ORDER BY id LIMIT 1 OFFSET ?", offset)
	return scanPage(row)
}

// Search returns pages whose title or plain text contains the query string.
func (r *Repository) Search(query string) ([]models.Page, error) {
	like := "%" + query + "%"
	rows, err := r.DB.Query(
		"SELECT "+pageColumns+" FROM pages WHERE title LIKE ? OR text LIKE ? ORDER BY title", like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		var page models.Page
		if err := rows.Scan(&page.ID, &page.Title, &page.Content, &page.HTML, &page.Text,
			&page.LockToken, &page.LockExpiry, &page.Refresh); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
