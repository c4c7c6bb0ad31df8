package contentpolicy_test

import (
	"testing"

	"github.com/danielhkim/shepherdhub/internal/app/policy/contentpolicy"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
)

func actor(id int, role string, deptID int) authz.Actor {
	a := authz.Actor{ID: id, Role: role}
	if deptID != 0 {
		a.DepartmentID = &deptID
	}
	return a
}

func TestCanMutate(t *testing.T) {
	cases := []struct {
		name     string
		actor    authz.Actor
		authorID int
		deptID   int
		want     string
	}{
		{"super mutates anything", actor(1, authz.RoleSuperAdmin, 0), 99, 4, ""},
		{"dept admin mutates own department", actor(2, authz.RoleDeptAdmin, 2), 99, 2, ""},
		{"dept admin blocked elsewhere", actor(2, authz.RoleDeptAdmin, 2), 99, 3, contentpolicy.DenyWrongDept},
		{"author mutates own record", actor(3, authz.RoleTeacher, 2), 3, 2, ""},
		{"teacher blocked on colleague's record", actor(3, authz.RoleTeacher, 2), 4, 2, contentpolicy.DenyNotAuthor},
		{"author blocked outside department", actor(3, authz.RoleTeacher, 2), 3, 5, contentpolicy.DenyWrongDept},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := contentpolicy.CanMutate(c.actor, c.authorID, c.deptID); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestCanView(t *testing.T) {
	if got := contentpolicy.CanView(actor(1, authz.RoleSuperAdmin, 0), 7); got != "" {
		t.Errorf("super view: got %q", got)
	}
	if got := contentpolicy.CanView(actor(3, authz.RoleTeacher, 2), 2); got != "" {
		t.Errorf("same-department view: got %q", got)
	}
	if got := contentpolicy.CanView(actor(3, authz.RoleTeacher, 2), 3); got != contentpolicy.DenyWrongDept {
		t.Errorf("cross-department view: got %q", got)
	}
}
