package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
)

// Renderer manages template parsing and rendering with isolated template sets.
// It supports two layouts:
//   - "public" layout for signed-out pages (home)
//   - "app" layout for the role dashboards and list pages
//
// Templates are organized as:
//   - layouts/public.html, layouts/app.html - base layouts
//   - components/*.html - reusable components (shared across layouts)
//   - partials/*.html - standalone fragments for htmx responses
//   - pages/public/*.html - public pages (use public layout)
//   - pages/*.html - app pages (use app layout)
//   - pages/{list,dashboards}/*.html - nested app pages
type Renderer struct {
	fsys      fs.FS
	templates map[string]*template.Template
	logger    *slog.Logger
	reload    bool
	mu        sync.RWMutex
}

// RendererConfig holds configuration for the renderer.
type RendererConfig struct {
	// FS is rooted at the templates directory: either the embedded copy or
	// os.DirFS of the source tree.
	FS     fs.FS
	Logger *slog.Logger

	// Reload re-parses every template before each render.
	Reload bool
}

// nestedPageDirs are the subdirectories of pages/ rendered with the app layout.
var nestedPageDirs = []string{"list", "dashboards"}

// NewRenderer creates a new template renderer.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	r := &Renderer{
		fsys:      cfg.FS,
		templates: make(map[string]*template.Template),
		logger:    cfg.Logger,
		reload:    cfg.Reload,
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) loadTemplates() error {
	fsys := r.fsys

	// Get component templates (shared across layouts) - recursively from all subdirs
	var componentFiles []string
	err := fs.WalkDir(fsys, "components", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".html") {
			componentFiles = append(componentFiles, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk components dir: %w", err)
	}

	// Get partial templates (standalone fragments for htmx)
	partialFiles, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob partials: %w", err)
	}

	templates := make(map[string]*template.Template)

	// Parse each partial as a standalone template
	for _, partial := range partialFiles {
		partialTmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(fsys, partial)
		if err != nil {
			return fmt.Errorf("failed to parse partial %s: %w", partial, err)
		}
		// Store with base name as key (e.g., "toast" for "toast.html")
		templates["partial/"+baseName(partial)] = partialTmpl
	}

	shared := append(componentFiles, partialFiles...)

	publicBaseTmpl, err := r.parseLayout("public", shared)
	if err != nil {
		return err
	}
	appBaseTmpl, err := r.parseLayout("app", shared)
	if err != nil {
		return err
	}

	// Parse public pages (home)
	if err := r.parsePages(templates, publicBaseTmpl, "pages/public/*.html", "public/"); err != nil {
		return err
	}

	// Parse app pages (root level pages use app layout)
	if err := r.parsePages(templates, appBaseTmpl, "pages/*.html", ""); err != nil {
		return err
	}

	// Parse nested app pages (list/index, list/teacher, dashboards/admin, etc.)
	for _, dir := range nestedPageDirs {
		if err := r.parsePages(templates, appBaseTmpl, "pages/"+dir+"/*.html", dir+"/"); err != nil {
			return err
		}
	}

	r.templates = templates
	r.logger.Info("templates loaded", "count", len(templates))
	return nil
}

// parseLayout parses layouts/{name}.html together with the shared files.
func (r *Renderer) parseLayout(name string, shared []string) (*template.Template, error) {
	files := append([]string{"layouts/" + name + ".html"}, shared...)
	tmpl, err := template.New(name).Funcs(TemplateFuncs()).ParseFS(r.fsys, files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s layout: %w", name, err)
	}
	return tmpl, nil
}

// parsePages clones base for every page matching pattern and stores it as
// prefix + file name without extension.
func (r *Renderer) parsePages(dst map[string]*template.Template, base *template.Template, pattern, prefix string) error {
	pages, err := fs.Glob(r.fsys, pattern)
	if err != nil {
		return fmt.Errorf("failed to glob %s: %w", pattern, err)
	}

	for _, page := range pages {
		pageTmpl, err := base.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFS(r.fsys, page)
		if err != nil {
			return fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		dst[prefix+baseName(page)] = pageTmpl
	}
	return nil
}

func baseName(p string) string {
	name := path.Base(p)
	return strings.TrimSuffix(name, path.Ext(name))
}

// Reload reloads all templates from the filesystem. Useful for development.
func (r *Renderer) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadTemplates()
}

// Render renders a template to an io.Writer.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, err := r.lookup(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, r.getBaseTemplateName(name), data)
}

// RenderHTTP renders a template directly to an http.ResponseWriter.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data any) {
	r.RenderHTTPStatus(w, http.StatusOK, name, data)
}

// RenderHTTPStatus renders a template with the given status code.
func (r *Renderer) RenderHTTPStatus(w http.ResponseWriter, status int, name string, data any) {
	// Render to buffer first to catch errors before writing headers
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", "name", name, "error", err)
		http.Error(w, "Template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderPartial renders a partial template (for htmx responses).
// The partial file should contain {{define "name"}}...{{end}} where name matches the file name.
func (r *Renderer) RenderPartial(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := r.renderPartial(&buf, name, data); err != nil {
		r.logger.Error("partial execution failed", "name", name, "error", err)
		http.Error(w, "Partial execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (r *Renderer) renderPartial(w io.Writer, name string, data any) error {
	tmpl, err := r.lookup("partial/" + name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	// Pick up template edits without a restart
	if r.reload {
		if err := r.Reload(); err != nil {
			return nil, fmt.Errorf("template reload failed: %w", err)
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// getBaseTemplateName determines which base template to execute.
func (r *Renderer) getBaseTemplateName(name string) string {
	if strings.HasPrefix(name, "public/") {
		return "public"
	}
	return "app"
}

// ListTemplates returns a list of all loaded template names.
// Useful for debugging.
func (r *Renderer) ListTemplates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// ToastData holds data for rendering a toast notification.
type ToastData struct {
	Type        string // success, error, warning, info
	Title       string // optional
	Message     string
	AutoDismiss int // seconds, default 5
}

// RenderPartialWithToast renders a partial and appends an OOB toast
// notification. Used by htmx form posts that need to show feedback.
func (r *Renderer) RenderPartialWithToast(w http.ResponseWriter, name string, data any, toast ToastData) {
	if toast.AutoDismiss == 0 {
		toast.AutoDismiss = 5
	}
	if toast.Type == "" {
		toast.Type = "info"
	}

	var buf bytes.Buffer
	if err := r.renderPartial(&buf, name, data); err != nil {
		r.logger.Error("partial execution failed", "name", name, "error", err)
		http.Error(w, "Partial execution failed", http.StatusInternalServerError)
		return
	}
	if err := r.renderPartial(&buf, "toast", toast); err != nil {
		r.logger.Error("toast execution failed", "error", err)
		http.Error(w, "Partial execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
