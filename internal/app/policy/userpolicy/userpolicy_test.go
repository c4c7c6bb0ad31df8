package userpolicy_test

import (
	"testing"

	"github.com/danielhkim/shepherdhub/internal/app/policy/userpolicy"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

func intp(v int) *int { return &v }

func super() authz.Actor {
	return authz.Actor{ID: 1, Role: authz.RoleSuperAdmin}
}

func deptAdmin(deptID int) authz.Actor {
	return authz.Actor{ID: 2, Role: authz.RoleDeptAdmin, DepartmentID: &deptID}
}

func teacher(deptID int) authz.Actor {
	return authz.Actor{ID: 3, Role: authz.RoleTeacher, DepartmentID: &deptID}
}

func TestCanCreateUser(t *testing.T) {
	cases := []struct {
		name  string
		actor authz.Actor
		role  string
		dept  *int
		want  string
	}{
		{"super creates super", super(), "super_admin", nil, ""},
		{"super creates dept admin", super(), "department_admin", intp(2), ""},
		{"super creates teacher anywhere", super(), "teacher", intp(9), ""},
		{"super omits department for teacher", super(), "teacher", nil, userpolicy.DenyDeptRequired},
		{"legacy admin alias accepted", super(), "admin", nil, ""},
		{"unknown role", super(), "principal", intp(2), userpolicy.DenyRoleUnknown},
		{"dept admin creates teacher in own dept", deptAdmin(2), "teacher", intp(2), ""},
		{"dept admin creates teacher elsewhere", deptAdmin(2), "teacher", intp(3), userpolicy.DenyWrongDept},
		{"dept admin grants admin role", deptAdmin(2), "department_admin", intp(2), userpolicy.DenyRoleGrant},
		{"dept admin grants super role", deptAdmin(2), "super_admin", nil, userpolicy.DenyRoleGrant},
		{"dept admin omits department", deptAdmin(2), "teacher", nil, userpolicy.DenyDeptForbidden},
		{"teacher creates anyone", teacher(2), "teacher", intp(2), userpolicy.DenyNotAdmin},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := userpolicy.CanCreateUser(c.actor, c.role, c.dept); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestCanUpdateUser(t *testing.T) {
	ownTeacher := models.User{ID: 10, Role: "teacher", DepartmentID: intp(2)}
	otherTeacher := models.User{ID: 11, Role: "teacher", DepartmentID: intp(3)}
	otherAdmin := models.User{ID: 12, Role: "department_admin", DepartmentID: intp(2)}

	cases := []struct {
		name    string
		actor   authz.Actor
		target  models.User
		newRole string
		want    string
	}{
		{"super updates anyone", super(), otherAdmin, "super_admin", ""},
		{"dept admin updates own teacher", deptAdmin(2), ownTeacher, "", ""},
		{"dept admin updates teacher elsewhere", deptAdmin(2), otherTeacher, "", userpolicy.DenyWrongDept},
		{"dept admin touches an admin account", deptAdmin(2), otherAdmin, "", userpolicy.DenySuperDowngrade},
		{"dept admin promotes a teacher", deptAdmin(2), ownTeacher, "department_admin", userpolicy.DenyRoleGrant},
		{"dept admin keeps teacher role", deptAdmin(2), ownTeacher, "teacher", ""},
		{"teacher updates anyone", teacher(2), ownTeacher, "", userpolicy.DenyNotAdmin},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := userpolicy.CanUpdateUser(c.actor, c.target, c.newRole); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	if got := userpolicy.CanDeleteUser(super(), models.User{ID: 1, Role: "super_admin"}); got != userpolicy.DenySelfDelete {
		t.Errorf("self-delete by super_admin: got %q, want %q", got, userpolicy.DenySelfDelete)
	}
	if got := userpolicy.CanDeleteUser(deptAdmin(2), models.User{ID: 2, Role: "teacher", DepartmentID: intp(2)}); got != userpolicy.DenySelfDelete {
		t.Errorf("self check must run before role checks: got %q", got)
	}
	if got := userpolicy.CanDeleteUser(super(), models.User{ID: 10, Role: "department_admin", DepartmentID: intp(2)}); got != "" {
		t.Errorf("super deleting another account: got %q", got)
	}
	if got := userpolicy.CanDeleteUser(deptAdmin(2), models.User{ID: 10, Role: "teacher", DepartmentID: intp(3)}); got != userpolicy.DenyWrongDept {
		t.Errorf("cross-department delete: got %q", got)
	}
}

func TestCanViewUser(t *testing.T) {
	self := models.User{ID: 3, Role: "teacher", DepartmentID: intp(2)}
	if got := userpolicy.CanViewUser(teacher(2), self); got != "" {
		t.Errorf("everyone may read their own record: got %q", got)
	}
	other := models.User{ID: 10, Role: "teacher", DepartmentID: intp(2)}
	if got := userpolicy.CanViewUser(teacher(2), other); got != userpolicy.DenyNotAdmin {
		t.Errorf("teacher reading a colleague: got %q", got)
	}
	if got := userpolicy.CanViewUser(deptAdmin(2), other); got != "" {
		t.Errorf("dept admin reading own-department account: got %q", got)
	}
	elsewhere := models.User{ID: 11, Role: "teacher", DepartmentID: intp(3)}
	if got := userpolicy.CanViewUser(deptAdmin(2), elsewhere); got != userpolicy.DenyWrongDept {
		t.Errorf("dept admin reading cross-department account: got %q", got)
	}
}
