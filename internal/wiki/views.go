package wiki

import "bramble/internal/models"

// Result is the outcome of a wiki operation: a named view with its payload,
// a redirect target, or not-found. Exactly one of the three applies.
type Result struct {
	Name     string
	Data     any
	Redirect string
	NotFound bool
}

func view(name string, data any) Result {
	return Result{Name: name, Data: data}
}

func redirect(target string) Result {
	return Result{Redirect: target}
}

func notFound() Result {
	return Result{NotFound: true}
}

// PageView is the payload for the view and not-exist views.
type PageView struct {
	Page *models.Page
}

// EditView is the payload for the edit form. NewTitle and Summary carry the
// values the form should show, which on a failed edit are the user's
// attempted values rather than the stored ones.
type EditView struct {
	Page     *models.Page
	NewTitle string
	Summary  string
}

// HistoryView is the payload for one page of a page's revision history,
// newest first.
type HistoryView struct {
	Page      *models.Page
	Revisions []models.Revision
	Current   int
	Last      int
}

// BackView is the payload for a reconstructed historical snapshot. Page is
// transient and never persisted; Origin is the current title of the page the
// snapshot was reconstructed from.
type BackView struct {
	Page   *models.Page
	Event  int
	Origin string
}

// DiffView exposes the stored patch text of a single revision.
type DiffView struct {
	Page     *models.Page
	Revision *models.Revision
}

// SearchView is the payload for one page of search results.
type SearchView struct {
	Query   string
	Pages   []models.Page
	Current int
	Last    int
}
