package middleware

import (
	"strings"

	"github.com/DukeRupert/schooldash/internal/domain"
)

// accessRule grants a path prefix to a set of roles.
type accessRule struct {
	prefix string
	roles  []domain.Role
}

var (
	staffRoles = []domain.Role{domain.RoleAdmin, domain.RoleTeacher}
	everyone   = domain.AllRoles
)

// routeAccess is checked in order; the first matching prefix wins, so more
// specific prefixes come first.
var routeAccess = []accessRule{
	{"/admin", []domain.Role{domain.RoleAdmin}},
	{"/teacher", []domain.Role{domain.RoleTeacher}},
	{"/student", []domain.Role{domain.RoleStudent}},
	{"/parent", []domain.Role{domain.RoleParent}},

	{"/list/teachers", staffRoles},
	{"/list/students", staffRoles},
	{"/list/parents", staffRoles},
	{"/list/classes", staffRoles},
	{"/list/lessons", staffRoles},
	{"/list/subjects", []domain.Role{domain.RoleAdmin}},
	{"/list/exams", everyone},
	{"/list/assignments", everyone},
	{"/list/results", everyone},
	{"/list/attendance", everyone},
	{"/list/events", everyone},
	{"/list/announcements", everyone},
	{"/list/grades", []domain.Role{domain.RoleAdmin}},

	{"/api/", everyone},
}

// AllowedRoles reports the roles that may reach path. ok is false for
// public paths.
func AllowedRoles(path string) (roles []domain.Role, ok bool) {
	for _, rule := range routeAccess {
		if matchesPrefix(path, rule.prefix) {
			return rule.roles, true
		}
	}
	return nil, false
}

// matchesPrefix matches whole path segments: "/teacher" covers "/teacher"
// and "/teacher/x" but not "/teachers".
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	if strings.HasSuffix(prefix, "/") || len(path) == len(prefix) {
		return true
	}
	return path[len(prefix)] == '/'
}
