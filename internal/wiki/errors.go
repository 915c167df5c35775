package wiki

import "errors"

// Expected, recoverable edit failures. Callers branch on these with
// errors.Is; anything else coming out of the wiki service is a store or
// codec failure and propagates unchanged.
var (
	// ErrTitleDuplicate is returned when an edit renames a page onto a
	// title that already belongs to another page.
	ErrTitleDuplicate = errors.New("page with new title already exists")

	// ErrPageLocked is returned when another writer holds the edit lock,
	// or won the race for it.
	ErrPageLocked = errors.New("page is locked")
)
