package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DukeRupert/schooldash/internal/domain"
)

func newGradeMux(grades *fakeGrades) *http.ServeMux {
	h := NewGradeHandler(grades, 10, discardLogger())
	mux := http.NewServeMux()
	passthrough := func(next http.Handler) http.Handler { return next }
	h.RegisterRoutes(mux, passthrough, passthrough)
	return mux
}

func serveGrades(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = withRole(req, domain.RoleAdmin, "admin1")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) JSONError {
	t.Helper()
	var body JSONError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestGradeAPI_List(t *testing.T) {
	grades := newFakeGrades(1, 2, 3)
	mux := newGradeMux(grades)

	rec := serveGrades(mux, "GET", "/api/grades?page=1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body GradeListResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 3 || body.Total != 3 || body.Page != 1 || body.PerPage != 10 || body.TotalPages != 1 {
		t.Errorf("body = %+v", body)
	}
	if grades.params.PerPage != 10 {
		t.Errorf("PerPage = %d, want configured page size", grades.params.PerPage)
	}
}

func TestGradeAPI_Get(t *testing.T) {
	mux := newGradeMux(newFakeGrades(4))

	rec := serveGrades(mux, "GET", "/api/grades/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var g domain.Grade
	if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.ID != 1 || g.Level != 4 {
		t.Errorf("grade = %+v", g)
	}

	for _, path := range []string{"/api/grades/99", "/api/grades/abc", "/api/grades/0"} {
		rec := serveGrades(mux, "GET", path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}
}

func TestGradeAPI_Create(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     int
		wantCode string
	}{
		{"valid", `{"level": 5}`, http.StatusCreated, ""},
		{"duplicate", `{"level": 1}`, http.StatusConflict, domain.ECONFLICT},
		{"out of range", `{"level": 13}`, http.StatusBadRequest, domain.EINVALID},
		{"malformed json", `{"level":`, http.StatusBadRequest, domain.EINVALID},
		{"unknown field", `{"level": 5, "name": "x"}`, http.StatusBadRequest, domain.EINVALID},
		{"wrong type", `{"level": "five"}`, http.StatusBadRequest, domain.EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newGradeMux(newFakeGrades(1))

			rec := serveGrades(mux, "POST", "/api/grades", tt.body)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.wantCode != "" {
				if got := decodeErrorCode(t, rec).Error.Code; got != tt.wantCode {
					t.Errorf("code = %q, want %q", got, tt.wantCode)
				}
			}
		})
	}
}

func TestGradeAPI_CreateValidationFields(t *testing.T) {
	mux := newGradeMux(newFakeGrades())

	rec := serveGrades(mux, "POST", "/api/grades", `{"level": 0}`)

	body := decodeErrorCode(t, rec)
	if body.Error.Fields["level"] == "" {
		t.Errorf("expected a level field error, got %+v", body.Error)
	}
}

func TestGradeAPI_Update(t *testing.T) {
	grades := newFakeGrades(1)
	mux := newGradeMux(grades)

	rec := serveGrades(mux, "PUT", "/api/grades/1", `{"level": 2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if grades.grades[1].Level != 2 {
		t.Errorf("level = %d, want 2", grades.grades[1].Level)
	}

	rec = serveGrades(mux, "PUT", "/api/grades/7", `{"level": 2}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGradeAPI_Delete(t *testing.T) {
	grades := newFakeGrades(1)
	mux := newGradeMux(grades)

	rec := serveGrades(mux, "DELETE", "/api/grades/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if _, ok := grades.grades[1]; ok {
		t.Error("grade should be gone")
	}

	rec = serveGrades(mux, "DELETE", "/api/grades/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestGradeAPI_IDAboveInt32(t *testing.T) {
	grades := newFakeGrades(3)
	mux := newGradeMux(grades)

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		body := ""
		if method == "PUT" {
			body = `{"level": 5}`
		}
		rec := serveGrades(mux, method, "/api/grades/4294967297", body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", method, rec.Code)
		}
	}

	if grades.byID != 0 {
		t.Errorf("service called %d times for an out-of-range id", grades.byID)
	}
	if g := grades.grades[1]; g.Level != 3 {
		t.Errorf("grade 1 = %+v, want untouched", g)
	}
}

func TestGradeAPI_MutationsUseWrappers(t *testing.T) {
	h := NewGradeHandler(newFakeGrades(1), 10, discardLogger())
	mux := http.NewServeMux()
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ForbiddenResponse(w, r, discardLogger())
		})
	}
	passthrough := func(next http.Handler) http.Handler { return next }
	h.RegisterRoutes(mux, deny, passthrough)

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		path := "/api/grades/1"
		if method == "POST" {
			path = "/api/grades"
		}
		rec := serveGrades(mux, method, path, `{"level": 3}`)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s status = %d, want 403", method, rec.Code)
		}
	}

	rec := serveGrades(mux, "GET", "/api/grades/1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("reads should not be wrapped, got %d", rec.Code)
	}
}
