package gazette

import (
	"fmt"
	"time"
)

// Identifier addresses one published part ("caderno") of the official
// gazette for a calendar date. Parts are numbered sequentially from 1;
// how many exist on a given date is only discoverable by probing.
type Identifier struct {
	Date time.Time
	Part int
}

// DateKey formats a date the way the file server keys its directories
func DateKey(date time.Time) string {
	return date.Format("20060102")
}

// FileName returns the published file name, e.g. do20240102p01.pdf
func (id Identifier) FileName() string {
	return fmt.Sprintf("do%sp%02d.pdf", DateKey(id.Date), id.Part)
}

// URL resolves the identifier against the remote base location
func (id Identifier) URL(baseURL string) string {
	return fmt.Sprintf("%s/PDF/%s/%s", baseURL, DateKey(id.Date), id.FileName())
}

// PageLink returns a deep link to a page of the published document
func (id Identifier) PageLink(baseURL string, page int) string {
	return fmt.Sprintf("%s#page=%d", id.URL(baseURL), page)
}

// String returns a human-readable form, e.g. "02/01/2024 caderno 01"
func (id Identifier) String() string {
	return fmt.Sprintf("%s caderno %02d", id.Date.Format("02/01/2006"), id.Part)
}
