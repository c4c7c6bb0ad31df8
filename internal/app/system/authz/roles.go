// internal/app/system/authz/roles.go
package authz

import "strings"

// Canonical roles, ordered by privilege.
const (
	RoleSuperAdmin = "super_admin"
	RoleDeptAdmin  = "department_admin"
	RoleTeacher    = "teacher"
)

// Canonical maps a stored role string to its canonical form. Legacy
// databases carry "admin" (treated as super_admin) and bare "user"
// (treated as teacher); mapping once here keeps alias checks out of
// every rule. Unknown roles map to "" and fail every gate.
func Canonical(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleSuperAdmin, "admin":
		return RoleSuperAdmin
	case RoleDeptAdmin:
		return RoleDeptAdmin
	case RoleTeacher, "user":
		return RoleTeacher
	default:
		return ""
	}
}

// IsKnown reports whether role (after canonicalization) is recognized.
func IsKnown(role string) bool { return Canonical(role) != "" }
