package domain

// Role is the dashboard role carried in the identity provider's session
// claims (metadata.role).
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// AllRoles lists every role in display order.
var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

// ParseRole returns the Role for s and whether it is one of the known roles.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return r, true
	}
	return "", false
}

// HomePath is the dashboard a role lands on after sign-in.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return "/" + string(r)
	}
	return "/"
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Identity is the authenticated caller as asserted by the identity provider.
type Identity struct {
	UserID string
	Role   Role
}

// Scope narrows a list query to the records the caller's role may see.
// Admins get an empty scope. Exactly one field is set for other roles.
type Scope struct {
	TeacherID string
	StudentID string
	ParentID  string
}

// ScopeFor derives the visibility scope for an identity.
func ScopeFor(id Identity) Scope {
	switch id.Role {
	case RoleTeacher:
		return Scope{TeacherID: id.UserID}
	case RoleStudent:
		return Scope{StudentID: id.UserID}
	case RoleParent:
		return Scope{ParentID: id.UserID}
	}
	return Scope{}
}
