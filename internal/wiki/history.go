package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"bramble/internal/models"
	"bramble/internal/patch"
)

// make reconstructs the transient state of a page as of a given event by
// replaying every revision up to and including it, starting from empty
// strings. It returns nil when the page or the event does not exist. Replay
// cost is linear in the event number; histories here are short enough that
// no snapshotting is done.
func (s *Service) make(title string, event int) (*models.Page, error) {
	pg, err := s.pages.FindByTitle(title)
	if err != nil {
		return nil, err
	}
	if pg == nil {
		return nil, nil
	}

	target, err := s.revisions.FindByPageAndEvent(pg.ID, event)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, nil
	}

	revisions, err := s.revisions.ListByPage(pg.ID, false)
	if err != nil {
		return nil, err
	}

	backTitle := ""
	backContent := ""
	for _, rev := range revisions {
		if rev.Event > event {
			break
		}
		if backTitle, err = patch.Apply(backTitle, rev.TitlePatch); err != nil {
			return nil, err
		}
		if backContent, err = patch.Apply(backContent, rev.ContentPatch); err != nil {
			return nil, err
		}
	}

	return &models.Page{Title: backTitle, Content: backContent}, nil
}

// Back shows the reconstructed snapshot of a page at a past event.
func (s *Service) Back(title string, event int) (Result, error) {
	snapshot, err := s.make(title, event)
	if err != nil {
		return Result{}, err
	}

	if snapshot == nil {
		if illFormed(title) {
			return notFound(), nil
		}
		return redirect("/history/" + url.PathEscape(title)), nil
	}

	return view("back", BackView{Page: snapshot, Event: event, Origin: title}), nil
}

// Diff exposes the stored patch text of the revision at a given event. It
// reads the single stored revision; no reconstruction is involved.
func (s *Service) Diff(title string, event int) (Result, error) {
	pg, err := s.pages.FindByTitle(title)
	if err != nil {
		return Result{}, err
	}
	if pg == nil {
		if illFormed(title) {
			return notFound(), nil
		}
		return redirect("/wiki/" + url.PathEscape(title)), nil
	}

	rev, err := s.revisions.FindByPageAndEvent(pg.ID, event)
	if err != nil {
		return Result{}, err
	}
	if rev == nil {
		return redirect("/history/" + url.PathEscape(title)), nil
	}

	return view("diff", DiffView{Page: pg, Revision: rev}), nil
}

// Rehash re-commits the reconstructed state at a past event as a brand-new
// edit, so a rollback extends the history instead of truncating it. Lock or
// duplicate-title conflicts bounce back to the snapshot view.
func (s *Service) Rehash(ctx context.Context, title string, event int) (Result, error) {
	snapshot, err := s.make(title, event)
	if err != nil {
		return Result{}, err
	}

	if snapshot == nil {
		if illFormed(title) {
			return notFound(), nil
		}
		return redirect("/wiki/" + url.PathEscape(title)), nil
	}

	summary := fmt.Sprintf("rehash(%d)", event)
	updated, err := s.update(ctx, title, snapshot.Title, summary, snapshot.Content)
	if err != nil {
		if errors.Is(err, ErrTitleDuplicate) || errors.Is(err, ErrPageLocked) {
			return redirect(fmt.Sprintf("/back/%s/%d", url.PathEscape(title), event)), nil
		}
		return Result{}, err
	}

	return redirect("/wiki/" + url.PathEscape(updated.Title)), nil
}
