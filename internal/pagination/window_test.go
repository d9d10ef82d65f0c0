package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

const E = Ellipsis

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		count       int
		perPage     int
		delta       int
		wantTotal   int
		wantPrev    bool
		wantNext    bool
		wantMarkers []Marker
	}{
		{
			name: "three pages from the first", page: 1, count: 25, perPage: 10, delta: 2,
			wantTotal: 3, wantPrev: false, wantNext: true,
			wantMarkers: []Marker{1, 2, 3},
		},
		{
			name: "middle of twenty pages", page: 10, count: 200, perPage: 10, delta: 2,
			wantTotal: 20, wantPrev: true, wantNext: true,
			wantMarkers: []Marker{1, E, 8, 9, 10, 11, 12, E, 20},
		},
		{
			name: "single page", page: 1, count: 5, perPage: 10, delta: 2,
			wantTotal: 1, wantPrev: false, wantNext: false,
			wantMarkers: []Marker{1},
		},
		{
			name: "last of three pages", page: 3, count: 30, perPage: 10, delta: 2,
			wantTotal: 3, wantPrev: true, wantNext: false,
			wantMarkers: []Marker{1, 2, 3},
		},
		{
			name: "no records", page: 1, count: 0, perPage: 10, delta: 2,
			wantTotal: 0, wantPrev: false, wantNext: false,
			wantMarkers: []Marker{1},
		},
		{
			name: "near the start", page: 3, count: 200, perPage: 10, delta: 2,
			wantTotal: 20, wantPrev: true, wantNext: true,
			wantMarkers: []Marker{1, 2, 3, 4, 5, E, 20},
		},
		{
			name: "near the end", page: 18, count: 200, perPage: 10, delta: 2,
			wantTotal: 20, wantPrev: true, wantNext: true,
			wantMarkers: []Marker{1, E, 16, 17, 18, 19, 20},
		},
		{
			name: "gap of one before the last page collapses into the last page", page: 17, count: 200, perPage: 10, delta: 2,
			wantTotal: 20, wantPrev: true, wantNext: true,
			wantMarkers: []Marker{1, E, 15, 16, 17, 18, 19, 20},
		},
		{
			name: "zero delta", page: 5, count: 100, perPage: 10, delta: 0,
			wantTotal: 10, wantPrev: true, wantNext: true,
			wantMarkers: []Marker{1, E, 5, E, 10},
		},
		{
			name: "page past the end is not clamped", page: 50, count: 200, perPage: 10, delta: 2,
			wantTotal: 20, wantPrev: true, wantNext: false,
			wantMarkers: []Marker{1, E, 20},
		},
		{
			name: "page zero is not clamped", page: 0, count: 200, perPage: 10, delta: 2,
			wantTotal: 20, wantPrev: false, wantNext: true,
			wantMarkers: []Marker{1, 2, E, 20},
		},
		{
			name: "partial last page", page: 2, count: 11, perPage: 10, delta: 2,
			wantTotal: 2, wantPrev: true, wantNext: false,
			wantMarkers: []Marker{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.page, tt.count, tt.perPage, tt.delta)
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.wantTotal, got.TotalPages)
			assert.Equal(t, tt.wantPrev, got.HasPrev, "HasPrev")
			assert.Equal(t, tt.wantNext, got.HasNext, "HasNext")
			assert.Equal(t, tt.wantMarkers, got.Pages)
		})
	}
}

func TestCompute_Properties(t *testing.T) {
	for count := 0; count <= 230; count += 7 {
		for _, perPage := range []int{1, 3, 10} {
			total := (count + perPage - 1) / perPage
			for page := 1; page <= total+1; page++ {
				for delta := 0; delta <= 3; delta++ {
					w := Compute(page, count, perPage, delta)

					if count == 0 {
						assert.Equal(t, 0, w.TotalPages)
					}
					assert.Equal(t, Marker(1), w.Pages[0], "first marker")
					if w.TotalPages > 1 {
						assert.Equal(t, Marker(w.TotalPages), w.Pages[len(w.Pages)-1], "last marker")
					}

					ellipses := 0
					for i, m := range w.Pages {
						if m.IsEllipsis() {
							ellipses++
							assert.False(t, i > 0 && w.Pages[i-1].IsEllipsis(), "adjacent ellipses")
						}
					}
					assert.LessOrEqual(t, ellipses, 2)

					assert.Equal(t, w, Compute(page, count, perPage, delta), "idempotent")
				}
			}
		}
	}
}

func TestCompute_StrictlyIncreasingPages(t *testing.T) {
	w := Compute(7, 500, 10, DefaultDelta)
	last := 0
	for _, m := range w.Pages {
		if m.IsEllipsis() {
			continue
		}
		assert.Greater(t, m.Page(), last)
		last = m.Page()
	}
}

func TestWindow_Visible(t *testing.T) {
	assert.False(t, Compute(1, 0, 10, DefaultDelta).Visible())
	assert.False(t, Compute(1, 10, 10, DefaultDelta).Visible())
	assert.True(t, Compute(1, 11, 10, DefaultDelta).Visible())
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"page=4", 4},
		{"page=abc", 1},
		{"page=", 1},
		{"page=0", 0},
		{"page=-2", -2},
		{"search=ann&page=3", 3},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParsePage(q))
		})
	}
}
