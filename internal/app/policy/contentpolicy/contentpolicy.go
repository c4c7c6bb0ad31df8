// internal/app/policy/contentpolicy/contentpolicy.go

// Package contentpolicy provides the author-or-admin rule shared by
// authored records (visits, announcements, visit templates).
//
// Authorization rules:
//   - super_admin can mutate any record
//   - department_admin can mutate records in their own department
//   - everyone else can mutate only records they authored
//
// Reads are governed by department scope alone; authorship never
// restricts reading.
package contentpolicy

import "github.com/danielhkim/shepherdhub/internal/app/system/authz"

// Denial reasons. Empty string means allowed.
const (
	DenyNotAuthor = "only the author or an administrator can modify this record"
	DenyWrongDept = "record is outside your department"
)

// CanMutate reports whether actor may update or delete a record
// authored by authorID and owned by departmentID. Returns a denial
// reason or "".
func CanMutate(a authz.Actor, authorID, departmentID int) string {
	if a.IsSuperAdmin() {
		return ""
	}
	if !a.CanAccessDepartment(departmentID) {
		return DenyWrongDept
	}
	if a.Role == authz.RoleDeptAdmin {
		return ""
	}
	if a.ID != authorID {
		return DenyNotAuthor
	}
	return ""
}

// CanView reports whether actor may read a record owned by
// departmentID. Department scope is the only read restriction.
func CanView(a authz.Actor, departmentID int) string {
	if a.CanAccessDepartment(departmentID) {
		return ""
	}
	return DenyWrongDept
}
