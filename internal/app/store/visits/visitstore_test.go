package visitstore_test

import (
	"context"
	"testing"

	visitstore "github.com/danielhkim/shepherdhub/internal/app/store/visits"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
	"github.com/danielhkim/shepherdhub/internal/testutil"
)

func logVisit(t *testing.T, s *visitstore.Store, ctx context.Context, memberID, deptID int, date string) models.Visit {
	t.Helper()
	v, err := s.Create(ctx, models.Visit{
		MemberID:     memberID,
		TeacherID:    1,
		DepartmentID: deptID,
		Date:         date,
		Content:      "phone call",
	})
	if err != nil {
		t.Fatalf("create test visit: %v", err)
	}
	return v
}

func TestList_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	visits := visitstore.New(db)

	dept := f.CreateDepartment(ctx, "Middle School")
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)
	logVisit(t, visits, ctx, m.ID, dept.ID, "2026-08-10")
	logVisit(t, visits, ctx, m.ID, dept.ID, "2026-08-24")

	rows, err := visits.List(ctx, visitstore.Filter{MemberID: &m.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Date != "2026-08-24" {
		t.Errorf("order: %+v", rows)
	}
}

func TestList_MemberFilterIntersectsScopeSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)
	visits := visitstore.New(db)

	dept := f.CreateDepartment(ctx, "Middle School")
	m1 := f.CreateMember(ctx, "Jiho Park", dept.ID)
	m2 := f.CreateMember(ctx, "Sua Choi", dept.ID)
	m3 := f.CreateMember(ctx, "Minho Lee", dept.ID)
	logVisit(t, visits, ctx, m1.ID, dept.ID, "2026-08-10")
	logVisit(t, visits, ctx, m2.ID, dept.ID, "2026-08-11")
	logVisit(t, visits, ctx, m3.ID, dept.ID, "2026-08-12")

	scope := []int{m1.ID, m2.ID}

	rows, err := visits.List(ctx, visitstore.Filter{MemberID: &m1.ID, MemberIDs: scope})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].MemberID != m1.ID {
		t.Errorf("in-scope member filter: %+v", rows)
	}

	rows, err = visits.List(ctx, visitstore.Filter{MemberID: &m3.ID, MemberIDs: scope})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("out-of-scope member filter leaked %d rows: %+v", len(rows), rows)
	}
}
