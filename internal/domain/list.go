package domain

import "math"

// ListParams are the common inputs of every paginated list query.
//
// Page is 1-indexed and is not clamped: a page past the end simply returns
// no items. PerPage comes from configuration (ITEMS_PER_PAGE).
type ListParams struct {
	Page    int
	PerPage int
	Search  string

	// Optional filters; zero values mean "no filter".
	ClassID      int
	TeacherID    string
	StudentID    string
	SupervisorID string

	// Role visibility
	Scope Scope
}

// Offset is the number of rows to skip for Page. It saturates at
// math.MaxInt32 so a page far past the end still maps to a valid OFFSET.
func (p ListParams) Offset() int {
	if p.Page < 1 || p.PerPage < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt32/p.PerPage {
		return math.MaxInt32
	}
	return (p.Page - 1) * p.PerPage
}

// Limit is the number of rows per page.
func (p ListParams) Limit() int {
	return p.PerPage
}

// ListResult is one page of T plus the total count across all pages.
type ListResult[T any] struct {
	Items   []T
	Total   int
	Page    int
	PerPage int
}

// NewListResult builds a ListResult and never returns a nil Items slice.
func NewListResult[T any](items []T, total int, p ListParams) *ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{
		Items:   items,
		Total:   total,
		Page:    p.Page,
		PerPage: p.PerPage,
	}
}
