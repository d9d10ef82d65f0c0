package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/DukeRupert/schooldash/internal/csrf"
	"github.com/DukeRupert/schooldash/internal/pagination"
)

// noAvatar is shown for people without a profile photo.
const noAvatar = "/static/images/noAvatar.svg"

var numberPrinter = message.NewPrinter(language.English)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Math functions
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},

		// Date/Time functions
		"year": func() int {
			return time.Now().Year()
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("15:04")
		},
		"formatDateISO": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},

		// String functions
		"lower": func(v any) string {
			return strings.ToLower(fmt.Sprint(v))
		},
		"title": func(v any) string {
			return titleCase(fmt.Sprint(v))
		},
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
		"number": func(n int) string {
			return numberPrinter.Sprintf("%d", n)
		},
		"percent": func(p float64) string {
			if p < 0 {
				return "-"
			}
			return numberPrinter.Sprintf("%.0f%%", p)
		},
		"avatar": avatarOrDefault,
		// JSON encoding for safe JavaScript embedding
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS(`""`)
			}
			return template.JS(b)
		},

		// Conditional/Logic functions
		"ternary": func(condition bool, trueVal, falseVal any) any {
			if condition {
				return trueVal
			}
			return falseVal
		},

		// Collection functions
		"list": func(items ...any) []any {
			return items
		},
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil
				}
				dict[key] = values[i+1]
			}
			return dict
		},

		// Tailwind class merging; later classes win
		"cx": func(classes ...string) string {
			return twmerge.Merge(classes...)
		},

		// Pagination bar under list pages
		"pagination": func(w pagination.Window, base *url.URL) (template.HTML, error) {
			return templ.ToGoHTML(context.Background(), pagination.Nav(w, base))
		},

		// Form helpers
		"csrfField": func(token string) template.HTML {
			return template.HTML(fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`,
				csrf.FormFieldName, template.HTMLEscapeString(token)))
		},
	}
}

// titleCase turns enum values like "MONDAY" into "Monday".
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
