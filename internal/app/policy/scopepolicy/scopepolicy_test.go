package scopepolicy_test

import (
	"testing"

	"github.com/danielhkim/shepherdhub/internal/app/policy/scopepolicy"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
	"github.com/danielhkim/shepherdhub/internal/testutil"
)

func intp(v int) *int { return &v }

func TestCanManageGroup(t *testing.T) {
	g := models.Group{ID: 1, DepartmentID: 2, LeaderID: intp(30)}

	if got := scopepolicy.CanManageGroup(testutil.SuperAdmin(1), g); got != "" {
		t.Errorf("super_admin: got %q", got)
	}
	if got := scopepolicy.CanManageGroup(testutil.DeptAdmin(2, 2), g); got != "" {
		t.Errorf("same-department admin: got %q", got)
	}
	if got := scopepolicy.CanManageGroup(testutil.DeptAdmin(2, 3), g); got == "" {
		t.Error("cross-department admin must be denied")
	}
	if got := scopepolicy.CanManageGroup(testutil.Teacher(30, 2), g); got != "" {
		t.Errorf("the group's leader: got %q", got)
	}
	if got := scopepolicy.CanManageGroup(testutil.Teacher(31, 2), g); got == "" {
		t.Error("a non-leader teacher must be denied")
	}

	leaderless := models.Group{ID: 2, DepartmentID: 2}
	if got := scopepolicy.CanManageGroup(testutil.Teacher(30, 2), leaderless); got == "" {
		t.Error("no teacher manages a leaderless group")
	}
}

func TestListScope_AdminsNeverNarrowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	admin := f.CreateUser(ctx, "admin1", authz.RoleDeptAdmin, &dept.ID)
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)
	g := f.CreateGroup(ctx, "Cell 1", dept.ID, &admin.ID)
	if err := f.Groups.AddMember(ctx, g.ID, m.ID); err != nil {
		t.Fatal(err)
	}

	scope, err := scopepolicy.ListScope(ctx, f.Groups, testutil.DeptAdmin(admin.ID, dept.ID))
	if err != nil {
		t.Fatal(err)
	}
	if scope.MemberIDs != nil {
		t.Error("an admin leading a group must keep full department scope")
	}
	if scope.DepartmentID != dept.ID {
		t.Errorf("department = %d, want %d", scope.DepartmentID, dept.ID)
	}
}

func TestListScope_TeacherWithoutGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)

	scope, err := scopepolicy.ListScope(ctx, f.Groups, testutil.Teacher(teacher.ID, dept.ID))
	if err != nil {
		t.Fatal(err)
	}
	if scope.MemberIDs != nil {
		t.Error("a teacher leading no groups has no member restriction")
	}
}

func TestListScope_LeaderNarrowedToGroupUnion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	m1 := f.CreateMember(ctx, "Jiho Park", dept.ID)
	m2 := f.CreateMember(ctx, "Sua Choi", dept.ID)
	m3 := f.CreateMember(ctx, "Hana Lee", dept.ID)

	g1 := f.CreateGroup(ctx, "Cell 1", dept.ID, &teacher.ID)
	g2 := f.CreateGroup(ctx, "Cell 2", dept.ID, &teacher.ID)
	for _, pair := range []struct{ g, m int }{
		{g1.ID, m1.ID},
		{g1.ID, m2.ID},
		{g2.ID, m2.ID}, // overlap must not duplicate
	} {
		if err := f.Groups.AddMember(ctx, pair.g, pair.m); err != nil {
			t.Fatal(err)
		}
	}

	scope, err := scopepolicy.ListScope(ctx, f.Groups, testutil.Teacher(teacher.ID, dept.ID))
	if err != nil {
		t.Fatal(err)
	}
	if len(scope.MemberIDs) != 2 {
		t.Fatalf("member set = %v, want {%d, %d}", scope.MemberIDs, m1.ID, m2.ID)
	}
	if !scope.AllowsMember(m1.ID) || !scope.AllowsMember(m2.ID) {
		t.Errorf("member set %v must admit enrolled members", scope.MemberIDs)
	}
	if scope.AllowsMember(m3.ID) {
		t.Error("members outside the led groups are excluded")
	}
}

func TestListScope_LeaderOfEmptyGroupSeesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	teacher := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	f.CreateGroup(ctx, "Cell 1", dept.ID, &teacher.ID)

	scope, err := scopepolicy.ListScope(ctx, f.Groups, testutil.Teacher(teacher.ID, dept.ID))
	if err != nil {
		t.Fatal(err)
	}
	if scope.MemberIDs == nil || len(scope.MemberIDs) != 0 {
		t.Errorf("member set = %v, want empty non-nil", scope.MemberIDs)
	}
	if scope.AllowsMember(1) {
		t.Error("empty member set admits nobody")
	}
}
