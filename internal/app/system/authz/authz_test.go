package authz_test

import (
	"testing"

	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
)

func intp(v int) *int { return &v }

func TestCanonical(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"super_admin", authz.RoleSuperAdmin},
		{"admin", authz.RoleSuperAdmin},
		{"ADMIN", authz.RoleSuperAdmin},
		{"department_admin", authz.RoleDeptAdmin},
		{"teacher", authz.RoleTeacher},
		{"user", authz.RoleTeacher},
		{" teacher ", authz.RoleTeacher},
		{"owner", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := authz.Canonical(c.in); got != c.want {
			t.Errorf("Canonical(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestActorGates(t *testing.T) {
	super := authz.Actor{Role: authz.RoleSuperAdmin}
	dept := authz.Actor{Role: authz.RoleDeptAdmin, DepartmentID: intp(2)}
	teacher := authz.Actor{Role: authz.RoleTeacher, DepartmentID: intp(2)}
	unknown := authz.Actor{Role: "owner"}

	if !super.IsSuperAdmin() || dept.IsSuperAdmin() || teacher.IsSuperAdmin() {
		t.Error("IsSuperAdmin should hold only for super_admin")
	}
	if !super.IsAdmin() || !dept.IsAdmin() || teacher.IsAdmin() {
		t.Error("IsAdmin should hold for super_admin and department_admin only")
	}
	if !teacher.IsTeacherTier() || !dept.IsTeacherTier() || !super.IsTeacherTier() {
		t.Error("all staff roles clear the teacher tier")
	}
	if unknown.IsTeacherTier() {
		t.Error("unknown role must fail every gate")
	}
}

func TestCanAccessDepartment(t *testing.T) {
	super := authz.Actor{Role: authz.RoleSuperAdmin}
	if !super.CanAccessDepartment(1) || !super.CanAccessDepartment(99) {
		t.Error("super_admin may touch any department")
	}

	dept := authz.Actor{Role: authz.RoleDeptAdmin, DepartmentID: intp(2)}
	if !dept.CanAccessDepartment(2) {
		t.Error("department_admin may touch own department")
	}
	if dept.CanAccessDepartment(3) {
		t.Error("department_admin may not touch another department")
	}

	orphan := authz.Actor{Role: authz.RoleTeacher}
	if orphan.CanAccessDepartment(2) {
		t.Error("an actor with no department may touch nothing")
	}
}

func TestDepartmentScope(t *testing.T) {
	s := authz.DepartmentScope(authz.Actor{Role: authz.RoleSuperAdmin})
	if !s.AllDepartments {
		t.Error("super_admin scope spans all departments")
	}
	if s.Restricted() {
		t.Error("unbounded scope reports unrestricted")
	}

	s = authz.DepartmentScope(authz.Actor{Role: authz.RoleTeacher, DepartmentID: intp(4)})
	if s.AllDepartments || s.DepartmentID != 4 {
		t.Errorf("teacher scope = %+v, want department 4 only", s)
	}
	if !s.Restricted() {
		t.Error("single-department scope reports restricted")
	}
}

func TestScopeAllowsMember(t *testing.T) {
	open := authz.Scope{AllDepartments: true}
	if !open.AllowsMember(7) {
		t.Error("nil MemberIDs places no member restriction")
	}

	closed := authz.Scope{DepartmentID: 1, MemberIDs: []int{}}
	if closed.AllowsMember(7) {
		t.Error("empty non-nil MemberIDs allows no member")
	}
	if !closed.Restricted() {
		t.Error("empty member set is still a restriction")
	}

	narrowed := authz.Scope{DepartmentID: 1, MemberIDs: []int{5, 7}}
	if !narrowed.AllowsMember(7) || narrowed.AllowsMember(9) {
		t.Error("member-set scope admits only listed ids")
	}
}
