// Package pagination computes the page-number window shown under list pages
// and renders it as a navigation bar.
package pagination

import (
	"net/url"
	"strconv"
)

// DefaultDelta is the number of page links shown on each side of the
// current page before the rest collapse into an ellipsis.
const DefaultDelta = 2

// Marker is one entry of the visible page sequence: a page number or Ellipsis.
type Marker int

// Ellipsis marks a collapsed run of pages.
const Ellipsis Marker = -1

// IsEllipsis reports whether m is the ellipsis placeholder.
func (m Marker) IsEllipsis() bool { return m == Ellipsis }

// Page returns the page number m stands for. Zero for Ellipsis.
func (m Marker) Page() int {
	if m.IsEllipsis() {
		return 0
	}
	return int(m)
}

// Window is the navigation state for one list page.
type Window struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Pages      []Marker
}

// Visible reports whether the navigation bar should be rendered at all.
func (w Window) Visible() bool { return w.TotalPages > 1 }

// PrevPage is the page before the current one.
func (w Window) PrevPage() int { return w.Page - 1 }

// NextPage is the page after the current one.
func (w Window) NextPage() int { return w.Page + 1 }

// Compute builds the window for page given count records split into pages of
// itemsPerPage. page is not clamped to [1, TotalPages]. itemsPerPage must be
// at least 1 and count and delta must not be negative.
func Compute(page, count, itemsPerPage, delta int) Window {
	totalPages := (count + itemsPerPage - 1) / itemsPerPage

	w := Window{
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    (page-1)*itemsPerPage > 0,
		HasNext:    (page-1)*itemsPerPage+itemsPerPage < count,
	}

	start := max(2, page-delta)
	end := min(totalPages-1, page+delta)

	pages := []Marker{1}
	if page-delta > 2 {
		pages = append(pages, Ellipsis)
	}
	for i := start; i <= end; i++ {
		pages = append(pages, Marker(i))
	}
	if page+delta < totalPages-1 {
		pages = append(pages, Ellipsis, Marker(totalPages))
	} else if totalPages > 1 {
		pages = append(pages, Marker(totalPages))
	}
	w.Pages = pages

	return w
}

// ParsePage reads the 1-indexed "page" query parameter. Missing or
// non-numeric values yield 1. Other integers pass through unchanged.
func ParsePage(query url.Values) int {
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		return 1
	}
	return page
}
