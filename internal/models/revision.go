package models

import "time"

// Revision is one immutable entry in a page's edit history. TitlePatch and
// ContentPatch are opaque patch encodings; applying every revision of a page
// in event order, starting from empty strings, reproduces the page's current
// title and content.
type Revision struct {
	ID           int64
	PageID       int64
	Event        int
	Summary      string
	TitlePatch   string
	ContentPatch string
	WrittenAt    time.Time
}
