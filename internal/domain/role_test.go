package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"admin", RoleAdmin, true},
		{"teacher", RoleTeacher, true},
		{"student", RoleStudent, true},
		{"parent", RoleParent, true},
		{"Admin", "", false},
		{"", "", false},
		{"principal", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_HomePath(t *testing.T) {
	assert.Equal(t, "/admin", RoleAdmin.HomePath())
	assert.Equal(t, "/parent", RoleParent.HomePath())
	assert.Equal(t, "/", Role("janitor").HomePath())
}

func TestRole_In(t *testing.T) {
	assert.True(t, RoleTeacher.In(RoleAdmin, RoleTeacher))
	assert.False(t, RoleStudent.In(RoleAdmin, RoleTeacher))
	assert.False(t, RoleStudent.In())
}

func TestScopeFor(t *testing.T) {
	assert.Equal(t, Scope{}, ScopeFor(Identity{UserID: "u1", Role: RoleAdmin}))
	assert.Equal(t, Scope{TeacherID: "u2"}, ScopeFor(Identity{UserID: "u2", Role: RoleTeacher}))
	assert.Equal(t, Scope{StudentID: "u3"}, ScopeFor(Identity{UserID: "u3", Role: RoleStudent}))
	assert.Equal(t, Scope{ParentID: "u4"}, ScopeFor(Identity{UserID: "u4", Role: RoleParent}))
}
