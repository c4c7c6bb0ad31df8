// internal/app/policy/scopepolicy/scopepolicy.go

// Package scopepolicy computes the effective read scope for roster,
// attendance, and visit listings.
//
// The scope narrows in two layers:
//   - department: super_admin sees all departments, everyone else only
//     their own (authz.DepartmentScope)
//   - group leadership: a teacher-role user who leads groups is further
//     confined to the union of their groups' member ids; admins are
//     never narrowed this way even when they lead groups
package scopepolicy

import (
	"context"

	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

// ListScope returns the actor's effective scope for member-keyed reads.
// A teacher who leads no groups gets plain department scope; a teacher
// who leads groups with no members gets an empty (non-nil) member set
// and sees nothing.
func ListScope(ctx context.Context, groups *groupstore.Store, a authz.Actor) (authz.Scope, error) {
	scope := authz.DepartmentScope(a)
	if a.IsAdmin() {
		return scope, nil
	}

	led, err := groups.ListByLeader(ctx, a.ID)
	if err != nil {
		return authz.Scope{}, err
	}
	if len(led) == 0 {
		return scope, nil
	}

	ids := make([]int, 0, len(led))
	for _, g := range led {
		ids = append(ids, g.ID)
	}
	memberIDs, err := groups.MemberIDsOfGroups(ctx, ids)
	if err != nil {
		return authz.Scope{}, err
	}
	scope.MemberIDs = memberIDs
	return scope, nil
}

// CanManageGroup reports whether actor may mutate a group: admins
// within department scope, or the group's own leader. Returns a denial
// reason or "".
func CanManageGroup(a authz.Actor, g models.Group) string {
	if !a.CanAccessDepartment(g.DepartmentID) {
		return "group is outside your department"
	}
	if a.IsAdmin() {
		return ""
	}
	if g.LeaderID != nil && *g.LeaderID == a.ID {
		return ""
	}
	return "only the group leader or an administrator can modify this group"
}
