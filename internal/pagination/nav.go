package pagination

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

const (
	buttonClass   = "py-2 px-4 rounded-md bg-slate-200 text-xs font-semibold"
	disabledClass = "opacity-50 cursor-not-allowed pointer-events-none"
	pageClass     = "px-2 rounded-sm text-sm"
	currentClass  = "bg-lamaSky font-semibold"
	ellipsisClass = "px-2 text-sm text-gray-400 select-none"
)

// PageURL returns base with its "page" parameter replaced. Other query
// parameters (search, filters) are kept.
func PageURL(base *url.URL, page int) string {
	u := *base
	q := base.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// Nav renders Prev, the page markers and Next. It renders nothing when the
// window has a single page or none.
func Nav(w Window, base *url.URL) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if !w.Visible() {
			return nil
		}

		var err error
		write := func(format string, args ...any) {
			if err == nil {
				_, err = fmt.Fprintf(out, format, args...)
			}
		}

		write(`<nav class="p-4 flex items-center justify-between text-gray-500" aria-label="Pagination">`)
		writeStep(write, "Prev", w.HasPrev, base, w.PrevPage())

		write(`<div class="flex items-center gap-2 text-sm">`)
		for _, m := range w.Pages {
			if m.IsEllipsis() {
				write(`<span class="%s">...</span>`, ellipsisClass)
				continue
			}
			class := pageClass
			current := ""
			if m.Page() == w.Page {
				class = twmerge.Merge(pageClass, currentClass)
				current = ` aria-current="page"`
			}
			write(`<a href="%s" class="%s"%s>%d</a>`,
				templ.EscapeString(PageURL(base, m.Page())), class, current, m.Page())
		}
		write(`</div>`)

		writeStep(write, "Next", w.HasNext, base, w.NextPage())
		write(`</nav>`)
		return err
	})
}

func writeStep(write func(string, ...any), label string, enabled bool, base *url.URL, page int) {
	if !enabled {
		write(`<span class="%s" aria-disabled="true">%s</span>`, twmerge.Merge(buttonClass, disabledClass), label)
		return
	}
	write(`<a href="%s" class="%s">%s</a>`, templ.EscapeString(PageURL(base, page)), buttonClass, label)
}
