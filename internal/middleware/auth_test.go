package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/DukeRupert/schooldash/internal/auth"
	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/metrics"
	"github.com/DukeRupert/schooldash/internal/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// =============================================================================
// Test Helpers
// =============================================================================

// fakeVerifier accepts tokens present in its map.
type fakeVerifier map[string]*domain.Identity

func (f fakeVerifier) Verify(token string) (*domain.Identity, error) {
	id, ok := f[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return id, nil
}

var (
	adminID   = &domain.Identity{UserID: "user_admin", Role: domain.RoleAdmin}
	teacherID = &domain.Identity{UserID: "user_teacher", Role: domain.RoleTeacher}
	parentID  = &domain.Identity{UserID: "user_parent", Role: domain.RoleParent}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthMiddleware() *AuthMiddleware {
	return NewAuthMiddleware(fakeVerifier{
		"admin-token":   adminID,
		"teacher-token": teacherID,
		"parent-token":  parentID,
	}, "https://accounts.school.test/sign-in", discardLogger())
}

// okHandler records whether it ran and the identity it saw.
type okHandler struct {
	called bool
	id     *domain.Identity
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.id = auth.GetIdentity(r.Context())
	w.WriteHeader(http.StatusOK)
}

func withIdentity(r *http.Request, id *domain.Identity) *http.Request {
	return r.WithContext(auth.SetIdentity(r.Context(), id))
}

// =============================================================================
// WithIdentity
// =============================================================================

func TestWithIdentity_NoToken_ContinuesWithoutIdentity(t *testing.T) {
	mw := newTestAuthMiddleware()
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mw.WithIdentity(next).ServeHTTP(rec, req)

	if !next.called {
		t.Fatal("next handler was not called")
	}
	if next.id != nil {
		t.Errorf("identity = %+v, want nil", next.id)
	}
}

func TestWithIdentity_Cookie_SetsIdentity(t *testing.T) {
	mw := newTestAuthMiddleware()
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "admin-token"})
	rec := httptest.NewRecorder()
	mw.WithIdentity(next).ServeHTTP(rec, req)

	if next.id == nil || next.id.UserID != adminID.UserID {
		t.Fatalf("identity = %+v, want %+v", next.id, adminID)
	}
}

func TestWithIdentity_BearerHeader_SetsIdentity(t *testing.T) {
	mw := newTestAuthMiddleware()
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/api/grades", nil)
	req.Header.Set("Authorization", "Bearer teacher-token")
	rec := httptest.NewRecorder()
	mw.WithIdentity(next).ServeHTTP(rec, req)

	if next.id == nil || next.id.Role != domain.RoleTeacher {
		t.Fatalf("identity = %+v, want teacher", next.id)
	}
}

func TestWithIdentity_InvalidToken_ContinuesWithoutIdentity(t *testing.T) {
	mw := newTestAuthMiddleware()
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "forged"})
	rec := httptest.NewRecorder()
	before := testutil.ToFloat64(metrics.SessionRejections)
	mw.WithIdentity(next).ServeHTTP(rec, req)

	if !next.called {
		t.Fatal("next handler was not called")
	}
	if next.id != nil {
		t.Errorf("identity = %+v, want nil", next.id)
	}
	if got := testutil.ToFloat64(metrics.SessionRejections) - before; got != 1 {
		t.Errorf("session rejections += %v, want 1", got)
	}
}

// =============================================================================
// RequireIdentity
// =============================================================================

func TestRequireIdentity_WithIdentity_Continues(t *testing.T) {
	mw := newTestAuthMiddleware()
	next := &okHandler{}

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/student", nil), adminID)
	rec := httptest.NewRecorder()
	mw.RequireIdentity(next).ServeHTTP(rec, req)

	if !next.called {
		t.Fatal("next handler was not called")
	}
}

func TestRequireIdentity_HTML_RedirectsToSignIn(t *testing.T) {
	mw := newTestAuthMiddleware()
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/list/exams?page=3", nil)
	rec := httptest.NewRecorder()
	mw.RequireIdentity(next).ServeHTTP(rec, req)

	if next.called {
		t.Fatal("next handler should not be called")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location: %v", err)
	}
	if loc.Host != "accounts.school.test" || loc.Path != "/sign-in" {
		t.Errorf("Location = %s, want the sign-in page", loc)
	}
	if got := loc.Query().Get("redirect_url"); got != "/list/exams?page=3" {
		t.Errorf("redirect_url = %q, want %q", got, "/list/exams?page=3")
	}
}

func TestRequireIdentity_API_Returns401(t *testing.T) {
	mw := newTestAuthMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/grades", nil)
	rec := httptest.NewRecorder()
	mw.RequireIdentity(&okHandler{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != domain.EUNAUTHORIZED {
		t.Errorf("error code = %q, want %q", body.Error.Code, domain.EUNAUTHORIZED)
	}
}

// =============================================================================
// RequireRoles
// =============================================================================

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		id           *domain.Identity
		wantStatus   int
		wantLocation string
		wantCalled   bool
	}{
		{"admin allowed", "/api/grades", adminID, http.StatusOK, "", true},
		{"teacher forbidden api", "/api/grades", teacherID, http.StatusForbidden, "", false},
		{"teacher sent home", "/admin", teacherID, http.StatusSeeOther, "/teacher", false},
		{"parent sent home", "/admin", parentID, http.StatusSeeOther, "/parent", false},
		{"anonymous api", "/api/grades", nil, http.StatusUnauthorized, "", false},
	}

	mw := newTestAuthMiddleware()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &okHandler{}
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.id != nil {
				req = withIdentity(req, tt.id)
			}
			rec := httptest.NewRecorder()

			mw.RequireRoles(domain.RoleAdmin)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if next.called != tt.wantCalled {
				t.Errorf("called = %v, want %v", next.called, tt.wantCalled)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.wantLocation)
			}
		})
	}
}

// =============================================================================
// RequireAccess and the route access map
// =============================================================================

func TestAllowedRoles(t *testing.T) {
	tests := []struct {
		path      string
		wantOK    bool
		wantRoles []domain.Role
	}{
		{"/", false, nil},
		{"/health", false, nil},
		{"/admin", true, []domain.Role{domain.RoleAdmin}},
		{"/teacher", true, []domain.Role{domain.RoleTeacher}},
		{"/teachers", false, nil},
		{"/list/teachers", true, staffRoles},
		{"/list/teachers/user_1", true, staffRoles},
		{"/list/subjects", true, []domain.Role{domain.RoleAdmin}},
		{"/list/results", true, domain.AllRoles},
		{"/api/charts/count", true, domain.AllRoles},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			roles, ok := AllowedRoles(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if len(roles) != len(tt.wantRoles) {
				t.Fatalf("roles = %v, want %v", roles, tt.wantRoles)
			}
			for i := range roles {
				if roles[i] != tt.wantRoles[i] {
					t.Errorf("roles = %v, want %v", roles, tt.wantRoles)
				}
			}
		})
	}
}

func TestRequireAccess(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		id         *domain.Identity
		wantStatus int
	}{
		{"public path anonymous", "/", nil, http.StatusOK},
		{"staff list as teacher", "/list/students", teacherID, http.StatusOK},
		{"staff list as parent", "/list/students", parentID, http.StatusSeeOther},
		{"subjects as teacher", "/list/subjects", teacherID, http.StatusSeeOther},
		{"results as parent", "/list/results", parentID, http.StatusOK},
		{"own dashboard", "/parent", parentID, http.StatusOK},
		{"dashboard anonymous", "/parent", nil, http.StatusSeeOther},
	}

	mw := newTestAuthMiddleware()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.id != nil {
				req = withIdentity(req, tt.id)
			}
			rec := httptest.NewRecorder()

			mw.RequireAccess(&okHandler{}).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// =============================================================================
// Helpers
// =============================================================================

func TestIsAPIRequest(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    bool
	}{
		{"api path", "/api/grades", nil, true},
		{"accept json", "/list/exams", map[string]string{"Accept": "application/json"}, true},
		{"json body", "/list/exams", map[string]string{"Content-Type": "application/json"}, true},
		{"htmx", "/api/grades", map[string]string{"HX-Request": "true"}, false},
		{"page", "/list/exams", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := isAPIRequest(req); got != tt.want {
				t.Errorf("isAPIRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStack_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Stack(mark("a"), mark("b"), mark("c"))(&okHandler{})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v, want [a b c]", order)
	}
}
