// internal/app/system/authz/authz.go

// Package authz decides what an actor may touch. It owns the role
// vocabulary (with legacy-alias normalization), the per-request Actor,
// and the department/list scoping rules every resource router applies
// before hitting a store.
//
// Policy decisions here are pure: no database access, no HTTP. Checks
// that need a resource's owner fields live in internal/app/policy.
package authz

// Actor is the authenticated caller, resolved from a session token by
// the auth middleware. Role is always canonical by the time an Actor
// exists. DepartmentID is nil only for super_admin.
type Actor struct {
	ID           int
	Username     string
	Name         string
	Role         string
	DepartmentID *int
}

// IsSuperAdmin reports whether the actor has the top role.
func (a Actor) IsSuperAdmin() bool { return a.Role == RoleSuperAdmin }

// IsAdmin reports whether the actor is super_admin or department_admin.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleSuperAdmin || a.Role == RoleDeptAdmin
}

// IsTeacherTier reports whether the actor clears the generic
// "at least teacher" gate: super_admin, department_admin, or teacher.
// Unknown roles are denied.
func (a Actor) IsTeacherTier() bool {
	switch a.Role {
	case RoleSuperAdmin, RoleDeptAdmin, RoleTeacher:
		return true
	}
	return false
}

// CanAccessDepartment reports whether the actor may touch data owned by
// deptID. super_admin may touch every department; everyone else only
// their own.
func (a Actor) CanAccessDepartment(deptID int) bool {
	if a.IsSuperAdmin() {
		return true
	}
	return a.DepartmentID != nil && *a.DepartmentID == deptID
}

// Scope is the query-filter form of an actor's visibility: either all
// departments, one department, or an explicit member-id set (group
// leaders). A Scope never widens a caller-supplied filter; it only
// narrows.
type Scope struct {
	// AllDepartments is true only for super_admin.
	AllDepartments bool
	// DepartmentID is the single department the actor is confined to
	// when AllDepartments is false.
	DepartmentID int
	// MemberIDs, when non-nil, restricts attendance/visit/member reads
	// to this id set (the union of the actor's led groups' members).
	// nil means no member-level restriction. A non-nil empty set means
	// the actor leads groups with no members and sees nothing.
	MemberIDs []int
}

// Restricted reports whether the scope confines reads at all.
func (s Scope) Restricted() bool { return !s.AllDepartments || s.MemberIDs != nil }

// AllowsMember reports whether a member id passes the scope's
// member-set restriction (always true when MemberIDs is nil).
func (s Scope) AllowsMember(memberID int) bool {
	if s.MemberIDs == nil {
		return true
	}
	for _, id := range s.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// DepartmentScope computes the department portion of the actor's scope.
// Group-leader narrowing is layered on by scopepolicy, which needs the
// group stores.
func DepartmentScope(a Actor) Scope {
	if a.IsSuperAdmin() {
		return Scope{AllDepartments: true}
	}
	dept := 0
	if a.DepartmentID != nil {
		dept = *a.DepartmentID
	}
	return Scope{DepartmentID: dept}
}
