package pagination

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, w Window, rawURL string) string {
	t.Helper()
	base, err := url.Parse(rawURL)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Nav(w, base).Render(context.Background(), &buf))
	return buf.String()
}

func TestNav_HiddenForSinglePage(t *testing.T) {
	assert.Empty(t, render(t, Compute(1, 5, 10, DefaultDelta), "/list/teachers"))
	assert.Empty(t, render(t, Compute(1, 0, 10, DefaultDelta), "/list/teachers"))
}

func TestNav_KeepsFiltersAndMarksCurrentPage(t *testing.T) {
	html := render(t, Compute(10, 200, 10, DefaultDelta), "/list/students?search=ann&teacherId=t1&page=10")

	assert.Contains(t, html, `href="/list/students?page=11&amp;search=ann&amp;teacherId=t1"`)
	assert.Contains(t, html, `aria-current="page">10</a>`)
	assert.Equal(t, 2, strings.Count(html, "<span class=\""+ellipsisClass+"\">...</span>"))
	assert.Contains(t, html, ">20</a>")
	assert.NotContains(t, html, ">7</a>")
}

func TestNav_DisablesPrevOnFirstPage(t *testing.T) {
	html := render(t, Compute(1, 25, 10, DefaultDelta), "/list/exams")

	assert.Contains(t, html, `aria-disabled="true">Prev</span>`)
	assert.Contains(t, html, `href="/list/exams?page=2" class="`+buttonClass+`">Next</a>`)
}

func TestNav_DisablesNextOnLastPage(t *testing.T) {
	html := render(t, Compute(3, 30, 10, DefaultDelta), "/list/exams")

	assert.Contains(t, html, `aria-disabled="true">Next</span>`)
	assert.Contains(t, html, `href="/list/exams?page=2" class="`+buttonClass+`">Prev</a>`)
}

func TestPageURL(t *testing.T) {
	base, _ := url.Parse("/list/lessons?classId=4&page=2")
	assert.Equal(t, "/list/lessons?classId=4&page=5", PageURL(base, 5))
	assert.Equal(t, "/list/lessons?classId=4&page=2", base.String(), "base is not mutated")
}
