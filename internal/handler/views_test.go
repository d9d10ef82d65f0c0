package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/DukeRupert/schooldash/internal/domain"
)

func menuHrefs(sections []MenuSection) map[string]bool {
	hrefs := map[string]bool{}
	for _, s := range sections {
		for _, item := range s.Items {
			hrefs[item.Href] = true
		}
	}
	return hrefs
}

func TestMenuFor(t *testing.T) {
	tests := []struct {
		role    domain.Role
		want    []string
		notWant []string
	}{
		{domain.RoleAdmin, []string{"/", "/list/subjects", "/list/grades", "/list/teachers", "/list/events"}, nil},
		{domain.RoleTeacher, []string{"/list/teachers", "/list/lessons", "/list/results"}, []string{"/list/subjects", "/list/grades"}},
		{domain.RoleStudent, []string{"/", "/list/exams", "/list/announcements"}, []string{"/list/teachers", "/list/parents", "/list/classes"}},
		{domain.RoleParent, []string{"/list/results", "/list/attendance"}, []string{"/list/students", "/list/lessons"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			hrefs := menuHrefs(MenuFor(tt.role))
			for _, h := range tt.want {
				if !hrefs[h] {
					t.Errorf("menu missing %s", h)
				}
			}
			for _, h := range tt.notWant {
				if hrefs[h] {
					t.Errorf("menu should not include %s", h)
				}
			}
		})
	}
}

func TestMenuFor_UnknownRoleIsEmpty(t *testing.T) {
	if got := MenuFor(domain.Role("janitor")); len(got) != 0 {
		t.Errorf("MenuFor(unknown) = %v, want no sections", got)
	}
}

func TestNewPageData(t *testing.T) {
	anon := newPageData(httptest.NewRequest("GET", "/list/exams", nil), "Exams")
	if anon.Identity != nil || anon.Menu != nil {
		t.Errorf("signed-out page data = %+v", anon)
	}
	if anon.CurrentPath != "/list/exams" || anon.Title != "Exams" {
		t.Errorf("page data = %+v", anon)
	}

	signedIn := newPageData(withRole(httptest.NewRequest("GET", "/", nil), domain.RoleStudent, "s1"), "Home")
	if signedIn.Identity == nil || signedIn.Identity.UserID != "s1" || len(signedIn.Menu) == 0 {
		t.Errorf("signed-in page data = %+v", signedIn)
	}
}
