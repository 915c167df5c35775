// Package wiki implements the revision and concurrency engine behind the
// wiki: optimistic page locking, patch-based edit history, reconstruction of
// past revisions, and the view-level operations the web layer exposes.
package wiki

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/url"
	"regexp"
	"strings"
	"time"

	"bramble/internal/models"
	"bramble/internal/page"
	"bramble/internal/revision"
)

// DefaultPage is where an empty wiki redirects to.
const DefaultPage = "bramble"

// perPage is the history and search pagination size.
const perPage = 10

// titleRegex matches characters forbidden in page titles because the wiki
// link syntax reserves them.
var titleRegex = regexp.MustCompile("[()\\[\\]\n\r*_`/\\\\]")

func illFormed(title string) bool {
	return titleRegex.MatchString(title)
}

// Service ties the page store, the revision log and the lock manager into
// the wiki's operations. Each operation returns a Result (view, redirect or
// not-found); an error return is an unexpected store or codec failure.
type Service struct {
	pages     *page.Repository
	revisions *revision.Repository
	locks     *LockManager
}

// NewService creates a wiki service. lockTTL <= 0 selects DefaultLockTTL.
func NewService(pages *page.Repository, revisions *revision.Repository, lockTTL time.Duration) *Service {
	return &Service{
		pages:     pages,
		revisions: revisions,
		locks:     NewLockManager(pages, lockTTL),
	}
}

// Index returns the landing view.
func (s *Service) Index() Result {
	return view("index", nil)
}

// Random redirects to a uniformly chosen page, or to the default page when
// the wiki is empty.
func (s *Service) Random() (Result, error) {
	count, err := s.pages.Count()
	if err != nil {
		return Result{}, err
	}
	if count == 0 {
		return redirect("/wiki/" + DefaultPage), nil
	}

	pg, err := s.pages.FindByOffset(rand.IntN(count))
	if err != nil {
		return Result{}, err
	}
	if pg == nil {
		// A page was deleted between count and sampling; treat as empty.
		return redirect("/wiki/" + DefaultPage), nil
	}
	return redirect("/wiki/" + url.PathEscape(pg.Title)), nil
}

// Search returns one page of pages matching the query by title or text.
func (s *Service) Search(query string, current int) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return view("search", SearchView{}), nil
	}

	if current < 1 {
		current = 1
	}

	pages, err := s.pages.Search(query)
	if err != nil {
		return Result{}, err
	}

	last := (len(pages) + perPage - 1) / perPage
	lo := (current - 1) * perPage
	hi := min(current*perPage, len(pages))
	var show []models.Page
	if lo < hi {
		show = pages[lo:hi]
	}

	return view("search", SearchView{Query: query, Pages: show, Current: current, Last: last}), nil
}

// View shows a page, or the not-exist view inviting creation when the title
// is unknown but well formed.
func (s *Service) View(title string) (Result, error) {
	pg, err := s.pages.FindByTitle(title)
	if err != nil {
		return Result{}, err
	}

	if pg == nil {
		if illFormed(title) {
			return notFound(), nil
		}
		return view("not-exist", PageView{Page: &models.Page{Title: title}}), nil
	}

	return view("view", PageView{Page: pg}), nil
}

// EditView shows the edit form, pre-building an empty page for unknown
// titles so the form can create them.
func (s *Service) EditView(title string) (Result, error) {
	pg, err := s.pages.FindByTitle(title)
	if err != nil {
		return Result{}, err
	}

	if pg == nil {
		if illFormed(title) {
			return notFound(), nil
		}
		pg = &models.Page{Title: title}
	}

	return view("edit", EditView{Page: pg, NewTitle: title}), nil
}

// EditEdit submits an edit. Conflicts (duplicate title, lock contention)
// re-show the edit form with the attempted title, summary and content
// preserved; success redirects to the updated page.
func (s *Service) EditEdit(ctx context.Context, title, newTitle, summary, content string) (Result, error) {
	if illFormed(newTitle) {
		stripped := titleRegex.ReplaceAllString(newTitle, "")
		pg := &models.Page{Title: title, Content: content}
		return view("edit", EditView{Page: pg, NewTitle: stripped, Summary: summary}), nil
	}
	if newTitle == "" {
		// Titles are non-empty; bounce back to the form.
		pg := &models.Page{Title: title, Content: content}
		return view("edit", EditView{Page: pg, NewTitle: title, Summary: summary}), nil
	}

	updated, err := s.update(ctx, title, newTitle, summary, content)
	if err != nil {
		if errors.Is(err, ErrTitleDuplicate) || errors.Is(err, ErrPageLocked) {
			pg := &models.Page{Title: title, Content: content}
			return view("edit", EditView{Page: pg, NewTitle: newTitle, Summary: summary}), nil
		}
		return Result{}, err
	}

	return redirect("/wiki/" + url.PathEscape(updated.Title)), nil
}

// History returns one page of a page's revision log, newest first.
func (s *Service) History(title string, current int) (Result, error) {
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

	revisions, err := s.revisions.ListByPage(pg.ID, true)
	if err != nil {
		return Result{}, err
	}

	last := (len(revisions) + perPage - 1) / perPage
	if current > last {
		current = last
	}
	if current < 1 {
		current = 1
	}
	lo := (current - 1) * perPage
	hi := min(current*perPage, len(revisions))
	var show []models.Revision
	if lo < hi {
		show = revisions[lo:hi]
	}

	return view("history", HistoryView{Page: pg, Revisions: show, Current: current, Last: last}), nil
}
