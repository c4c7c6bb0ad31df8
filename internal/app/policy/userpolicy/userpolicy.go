// internal/app/policy/userpolicy/userpolicy.go

// Package userpolicy provides authorization policies for staff account
// management.
//
// Authorization rules:
//   - super_admin can create, update, and delete any account
//   - department_admin can manage only teacher accounts inside their own
//     department, and cannot grant any role other than teacher
//   - teachers cannot manage accounts
//   - nobody deletes their own account; the self check runs before any
//     role check so a super_admin deleting themselves still gets the
//     same refusal
package userpolicy

import (
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

// Denial reasons. Empty string means allowed.
const (
	DenySelfDelete     = "you cannot delete your own account"
	DenyNotAdmin       = "only administrators can manage accounts"
	DenyWrongDept      = "account is outside your department"
	DenyRoleGrant      = "department administrators can only manage teacher accounts"
	DenyDeptRequired   = "a department is required for this role"
	DenyDeptForbidden  = "only super administrators may omit the department"
	DenyRoleUnknown    = "unrecognized role"
	DenyTargetMissing  = "account not found"
	DenySuperDowngrade = "only super administrators can manage administrator accounts"
)

// CanCreateUser reports whether actor may create an account with the
// given canonical role and department. Returns a denial reason or "".
func CanCreateUser(a authz.Actor, role string, departmentID *int) string {
	if !a.IsAdmin() {
		return DenyNotAdmin
	}
	if authz.Canonical(role) == "" {
		return DenyRoleUnknown
	}
	role = authz.Canonical(role)

	if role == authz.RoleSuperAdmin {
		if !a.IsSuperAdmin() {
			return DenyRoleGrant
		}
		return ""
	}

	// department_admin and teacher accounts must belong somewhere.
	if departmentID == nil {
		if a.IsSuperAdmin() {
			return DenyDeptRequired
		}
		return DenyDeptForbidden
	}

	if a.IsSuperAdmin() {
		return ""
	}

	// department_admin: teacher accounts in own department only.
	if role != authz.RoleTeacher {
		return DenyRoleGrant
	}
	if !a.CanAccessDepartment(*departmentID) {
		return DenyWrongDept
	}
	return ""
}

// CanUpdateUser reports whether actor may modify target. newRole, when
// non-empty, is the role the update would assign (canonical form).
func CanUpdateUser(a authz.Actor, target models.User, newRole string) string {
	if !a.IsAdmin() {
		return DenyNotAdmin
	}
	if a.IsSuperAdmin() {
		return ""
	}

	// department_admin: target must be a teacher in their department,
	// and the update may not promote beyond teacher.
	if authz.Canonical(target.Role) != authz.RoleTeacher {
		return DenySuperDowngrade
	}
	if target.DepartmentID == nil || !a.CanAccessDepartment(*target.DepartmentID) {
		return DenyWrongDept
	}
	if newRole != "" && authz.Canonical(newRole) != authz.RoleTeacher {
		return DenyRoleGrant
	}
	return ""
}

// CanDeleteUser reports whether actor may delete target. The self-delete
// ban is checked first and applies to every role.
func CanDeleteUser(a authz.Actor, target models.User) string {
	if a.ID == target.ID {
		return DenySelfDelete
	}
	return CanUpdateUser(a, target, "")
}

// CanViewUser reports whether actor may read target's account record.
// Everyone may read themselves; admins follow the management scope.
func CanViewUser(a authz.Actor, target models.User) string {
	if a.ID == target.ID {
		return ""
	}
	if !a.IsAdmin() {
		return DenyNotAdmin
	}
	if a.IsSuperAdmin() {
		return ""
	}
	if target.DepartmentID == nil || !a.CanAccessDepartment(*target.DepartmentID) {
		return DenyWrongDept
	}
	return ""
}
