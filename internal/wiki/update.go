package wiki

import (
	"context"
	"time"

	"bramble/internal/models"
	"bramble/internal/patch"
	"bramble/internal/render"
)

// update is the single edit operation: every successful call appends exactly
// one revision and persists exactly one page mutation; a failed call does
// neither. It returns ErrTitleDuplicate or ErrPageLocked for the two
// expected conflict outcomes.
func (s *Service) update(ctx context.Context, title, newTitle, summary, content string) (*models.Page, error) {
	pg, err := s.pages.FindByTitle(title)
	if err != nil {
		return nil, err
	}

	if title != newTitle {
		// Best-effort collision check; the unique index on title is the
		// final arbiter for the window between this read and the write.
		existing, err := s.pages.FindByTitle(newTitle)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrTitleDuplicate
		}
	}

	if pg == nil {
		return s.create(ctx, newTitle, summary, content)
	}

	// A title that exists can have concurrent writers, so the edit runs
	// under the page lock.
	locked, err := s.locks.Acquire(ctx, pg)
	if err != nil {
		return nil, err
	}

	rendered, err := render.Render(content)
	if err != nil {
		return nil, err
	}

	titlePatch := patch.Compute(locked.Title, newTitle)
	contentPatch := patch.Compute(locked.Content, content)
	if summary == "" {
		summary = "edit"
	}
	if _, err := s.revisions.Append(ctx, locked.ID, titlePatch, contentPatch, summary); err != nil {
		return nil, err
	}

	locked.Title = newTitle
	locked.Content = content
	locked.HTML = rendered.HTML
	locked.Text = rendered.Text
	locked.LockToken = nil
	locked.LockExpiry = nil
	locked.Refresh = time.Now()
	if err := s.pages.Update(ctx, locked); err != nil {
		return nil, err
	}
	return locked, nil
}

// create handles the first edit of a previously unknown title. No lock is
// taken: there is no page record to lock yet, and the unique title index
// resolves the creation race.
func (s *Service) create(ctx context.Context, title, summary, content string) (*models.Page, error) {
	rendered, err := render.Render(content)
	if err != nil {
		return nil, err
	}

	pg := &models.Page{
		Title:   title,
		Content: content,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
		Refresh: time.Now(),
	}
	if err := s.pages.Create(ctx, pg); err != nil {
		return nil, err
	}

	titlePatch := patch.Compute("", title)
	contentPatch := patch.Compute("", content)
	if summary == "" {
		summary = "create"
	}
	if _, err := s.revisions.Append(ctx, pg.ID, titlePatch, contentPatch, summary); err != nil {
		return nil, err
	}
	return pg, nil
}
