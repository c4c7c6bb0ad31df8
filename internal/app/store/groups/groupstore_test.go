package groupstore_test

import (
	"errors"
	"testing"

	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/testutil"
)

func TestAddMember_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	g := f.CreateGroup(ctx, "Cell 1", dept.ID, nil)
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)

	if err := f.Groups.AddMember(ctx, g.ID, m.ID); err != nil {
		t.Fatal(err)
	}
	err := f.Groups.AddMember(ctx, g.ID, m.ID)
	if !errors.Is(err, groupstore.ErrAlreadyMember) {
		t.Fatalf("got %v, want ErrAlreadyMember", err)
	}
}

func TestMemberIDsOfGroups_UnionWithoutDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	g1 := f.CreateGroup(ctx, "Cell 1", dept.ID, nil)
	g2 := f.CreateGroup(ctx, "Cell 2", dept.ID, nil)
	m1 := f.CreateMember(ctx, "Jiho Park", dept.ID)
	m2 := f.CreateMember(ctx, "Sua Choi", dept.ID)

	for _, pair := range []struct{ g, m int }{
		{g1.ID, m1.ID}, {g1.ID, m2.ID}, {g2.ID, m1.ID},
	} {
		if err := f.Groups.AddMember(ctx, pair.g, pair.m); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := f.Groups.MemberIDsOfGroups(ctx, []int{g1.ID, g2.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Errorf("union = %v, want two distinct members", ids)
	}

	empty, err := f.Groups.MemberIDsOfGroups(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty input must yield an empty non-nil set, got %v", empty)
	}
}

func TestDelete_CascadesMemberships(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	g := f.CreateGroup(ctx, "Cell 1", dept.ID, nil)
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)
	if err := f.Groups.AddMember(ctx, g.ID, m.ID); err != nil {
		t.Fatal(err)
	}

	n, err := f.Groups.Delete(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d", n)
	}

	ids, err := f.Groups.MemberIDs(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("memberships survived the group delete: %v", ids)
	}
}

func TestListByLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	leader := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	other := f.CreateUser(ctx, "teach2", authz.RoleTeacher, &dept.ID)

	f.CreateGroup(ctx, "Cell 1", dept.ID, &leader.ID)
	f.CreateGroup(ctx, "Cell 2", dept.ID, &leader.ID)
	f.CreateGroup(ctx, "Cell 3", dept.ID, &other.ID)
	f.CreateGroup(ctx, "Cell 4", dept.ID, nil)

	led, err := f.Groups.ListByLeader(ctx, leader.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(led) != 2 {
		t.Errorf("leads %d groups, want 2", len(led))
	}
}

func TestUpdate_ClearLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	leader := f.CreateUser(ctx, "teach1", authz.RoleTeacher, &dept.ID)
	g := f.CreateGroup(ctx, "Cell 1", dept.ID, &leader.ID)

	var none *int
	matched, err := f.Groups.Update(ctx, g.ID, groupstore.Patch{LeaderID: &none})
	if err != nil {
		t.Fatal(err)
	}
	if matched != 1 {
		t.Fatalf("matched = %d", matched)
	}

	got, err := f.Groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LeaderID != nil {
		t.Errorf("leader = %v, want cleared", got.LeaderID)
	}
}
