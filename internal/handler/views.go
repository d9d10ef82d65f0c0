// Package handler contains HTTP handlers for the school dashboard.
//
// This file holds the view models shared by every page: the layout data and
// the role-filtered sidebar menu.
package handler

import (
	"net/http"

	"github.com/DukeRupert/schooldash/internal/auth"
	"github.com/DukeRupert/schooldash/internal/domain"
)

// MenuItem is one sidebar link.
type MenuItem struct {
	Label   string
	Href    string
	Icon    string
	Visible []domain.Role
}

// MenuSection groups sidebar links under a heading.
type MenuSection struct {
	Title string
	Items []MenuItem
}

var (
	everyone = domain.AllRoles
	staff    = []domain.Role{domain.RoleAdmin, domain.RoleTeacher}
	admins   = []domain.Role{domain.RoleAdmin}
)

var menu = []MenuSection{
	{
		Title: "MENU",
		Items: []MenuItem{
			{Label: "Home", Href: "/", Icon: "home", Visible: everyone},
			{Label: "Teachers", Href: "/list/teachers", Icon: "teacher", Visible: staff},
			{Label: "Students", Href: "/list/students", Icon: "student", Visible: staff},
			{Label: "Parents", Href: "/list/parents", Icon: "parent", Visible: staff},
			{Label: "Subjects", Href: "/list/subjects", Icon: "subject", Visible: admins},
			{Label: "Classes", Href: "/list/classes", Icon: "class", Visible: staff},
			{Label: "Grades", Href: "/list/grades", Icon: "grade", Visible: admins},
			{Label: "Lessons", Href: "/list/lessons", Icon: "lesson", Visible: staff},
			{Label: "Exams", Href: "/list/exams", Icon: "exam", Visible: everyone},
			{Label: "Assignments", Href: "/list/assignments", Icon: "assignment", Visible: everyone},
			{Label: "Results", Href: "/list/results", Icon: "result", Visible: everyone},
			{Label: "Attendance", Href: "/list/attendance", Icon: "attendance", Visible: everyone},
			{Label: "Events", Href: "/list/events", Icon: "calendar", Visible: everyone},
			{Label: "Announcements", Href: "/list/announcements", Icon: "announcement", Visible: everyone},
		},
	},
}

// MenuFor returns the sidebar sections with only the links role may open.
// Sections left empty are dropped.
func MenuFor(role domain.Role) []MenuSection {
	sections := make([]MenuSection, 0, len(menu))
	for _, section := range menu {
		var items []MenuItem
		for _, item := range section.Items {
			if role.In(item.Visible...) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			sections = append(sections, MenuSection{Title: section.Title, Items: items})
		}
	}
	return sections
}

// PageData is the layout data every app page embeds.
type PageData struct {
	Title       string
	CurrentPath string
	Identity    *domain.Identity
	Menu        []MenuSection
}

// newPageData fills the layout data from the request.
func newPageData(r *http.Request, title string) PageData {
	id := auth.GetIdentityFromRequest(r)
	data := PageData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Identity:    id,
	}
	if id != nil {
		data.Menu = MenuFor(id.Role)
	}
	return data
}
