package revision

import (
	"context"
	"database/sql"
	"fmt"

	"bramble/internal/models"
)

// Repository provides access to the append-only revision log. Revisions are
// never updated, renumbered or deleted once written.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new revision repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// Append writes a new revision for a page, assigning the next event number
// in the same transaction so the 1..N sequence stays gap-free.
func (r *Repository) Append(ctx context.Context, pageID int64, titlePatch, contentPatch, summary string) (*models.Revision, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var event int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(event), 0) + 1 FROM revisions WHERE page_id = ?", pageID).Scan(&event)
	if err != nil {
		return nil, fmt.Errorf("error assigning event number: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO revisions (page_id, event, summary, title_patch, content_patch) VALUES (?, ?, ?, ?, ?)",
		pageID, event, summary, titlePatch, contentPatch)
	if err != nil {
		return nil, fmt.Errorf("error creating revision: %w", err)
	}
	id, _ := res.LastInsertId()

	rev := &models.Revision{
		ID:           id,
		PageID:       pageID,
		Event:        event,
		Summary:      summary,
		TitlePatch:   titlePatch,
		ContentPatch: contentPatch,
	}
	err = tx.QueryRowContext(ctx,
		"SELECT written_at FROM revisions WHERE id = ?", id).Scan(&rev.WrittenAt)
	if err != nil {
		return nil, fmt.Errorf("error reading revision timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}
	return rev, nil
}

// ListByPage returns all revisions of a page ordered by event, ascending by
// default or descending when desc is set.
func (r *Repository) ListByPage(pageID int64, desc bool) ([]models.Revision, error) {
	order := "ASC"
	if desc {
		order = "DESC"
	}
	rows, err := r.DB.Query(
		"SELECT id, page_id, event, summary, title_patch, content_patch, written_at FROM revisions WHERE page_id = ? ORDER BY event "+order,
		pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		var rev models.Revision
		if err := rows.Scan(&rev.ID, &rev.PageID, &rev.Event, &rev.Summary,
			&rev.TitlePatch, &rev.ContentPatch, &rev.WrittenAt); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}

// FindByPageAndEvent returns the revision of a page at a given event number,
// or (nil, nil) when no such revision exists.
func (r *Repository) FindByPageAndEvent(pageID int64, event int) (*models.Revision, error) {
	var rev models.Revision
	err := r.DB.QueryRow(
		"SELECT id, page_id, event, summary, title_patch, content_patch, written_at FROM revisions WHERE page_id = ? AND event = ?",
		pageID, event).Scan(&rev.ID, &rev.PageID, &rev.Event, &rev.Summary,
		&rev.TitlePatch, &rev.ContentPatch, &rev.WrittenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}
