package models

import "time"

// Page represents a single wiki page, identified by its unique title.
// LockToken and LockExpiry are either both set (a writer holds the edit
// lock) or both nil.
type Page struct {
	ID         int64
	Title      string
	Content    string
	HTML       string
	Text       string
	LockToken  *string
	LockExpiry *time.Time
	Refresh    time.Time
}

// Locked reports whether the page carries an unexpired edit lock.
func (p *Page) Locked(now time.Time) bool {
	return p.LockToken != nil && p.LockExpiry != nil && now.Before(*p.LockExpiry)
}
