package attendancestore_test

import (
	"testing"

	attendancestore "github.com/danielhkim/shepherdhub/internal/app/store/attendance"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
	"github.com/danielhkim/shepherdhub/internal/testutil"
)

func TestUpsert_SamePairConvergesOnOneRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)

	first := f.RecordAttendance(ctx, m.ID, dept.ID, "2026-08-23", models.AttendanceAbsent)

	// Correcting the same member and date overwrites in place.
	second, err := f.Attendance.Upsert(ctx, attendancestore.Record{
		MemberID:     m.ID,
		DepartmentID: dept.ID,
		Date:         "2026-08-23",
		Status:       models.AttendancePresent,
		Notes:        "arrived after roll call",
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("correction created a new row: %d then %d", first.ID, second.ID)
	}
	if second.Status != models.AttendancePresent || second.Notes != "arrived after roll call" {
		t.Errorf("row not overwritten: %+v", second)
	}

	rows, err := f.Attendance.List(ctx, attendancestore.Filter{MemberID: &m.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows for one (member, date) pair", len(rows))
	}
}

func TestUpsert_DistinctDatesDistinctRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)

	f.RecordAttendance(ctx, m.ID, dept.ID, "2026-08-16", models.AttendancePresent)
	f.RecordAttendance(ctx, m.ID, dept.ID, "2026-08-23", models.AttendanceLate)

	rows, err := f.Attendance.List(ctx, attendancestore.Filter{MemberID: &m.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Newest date first.
	if rows[0].Date != "2026-08-23" || rows[1].Date != "2026-08-16" {
		t.Errorf("order: %s, %s", rows[0].Date, rows[1].Date)
	}
}

func TestList_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	d1 := f.CreateDepartment(ctx, "Middle School")
	d2 := f.CreateDepartment(ctx, "High School")
	m1 := f.CreateMember(ctx, "Jiho Park", d1.ID)
	m2 := f.CreateMember(ctx, "Sua Choi", d2.ID)

	f.RecordAttendance(ctx, m1.ID, d1.ID, "2026-08-09", models.AttendancePresent)
	f.RecordAttendance(ctx, m1.ID, d1.ID, "2026-08-16", models.AttendanceAbsent)
	f.RecordAttendance(ctx, m2.ID, d2.ID, "2026-08-16", models.AttendancePresent)

	byDept, err := f.Attendance.List(ctx, attendancestore.Filter{DepartmentID: &d1.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byDept) != 2 {
		t.Errorf("department filter: %d rows, want 2", len(byDept))
	}

	byRange, err := f.Attendance.List(ctx, attendancestore.Filter{DateFrom: "2026-08-10", DateTo: "2026-08-20"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byRange) != 2 {
		t.Errorf("date range filter: %d rows, want 2", len(byRange))
	}

	byStatus, err := f.Attendance.List(ctx, attendancestore.Filter{Status: models.AttendanceAbsent})
	if err != nil {
		t.Fatal(err)
	}
	if len(byStatus) != 1 || byStatus[0].MemberID != m1.ID {
		t.Errorf("status filter: %+v", byStatus)
	}

	// A non-nil empty member set matches nothing.
	none, err := f.Attendance.List(ctx, attendancestore.Filter{MemberIDs: []int{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("empty member set: %d rows, want 0", len(none))
	}
}

func TestList_MemberFilterIntersectsScopeSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	m1 := f.CreateMember(ctx, "Jiho Park", dept.ID)
	m2 := f.CreateMember(ctx, "Sua Choi", dept.ID)
	m3 := f.CreateMember(ctx, "Minho Lee", dept.ID)

	f.RecordAttendance(ctx, m1.ID, dept.ID, "2026-08-23", models.AttendancePresent)
	f.RecordAttendance(ctx, m2.ID, dept.ID, "2026-08-23", models.AttendanceAbsent)
	f.RecordAttendance(ctx, m3.ID, dept.ID, "2026-08-23", models.AttendancePresent)

	scope := []int{m1.ID, m2.ID}

	// An equality filter inside the scope set narrows to that member.
	rows, err := f.Attendance.List(ctx, attendancestore.Filter{MemberID: &m1.ID, MemberIDs: scope})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].MemberID != m1.ID {
		t.Errorf("in-scope member filter: %+v", rows)
	}

	// One outside the set matches nothing; the set must not be
	// widened by the equality filter.
	rows, err = f.Attendance.List(ctx, attendancestore.Filter{MemberID: &m3.ID, MemberIDs: scope})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("out-of-scope member filter leaked %d rows: %+v", len(rows), rows)
	}
}

func TestBulkUpsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)

	saved, failed := f.Attendance.BulkUpsert(ctx, []attendancestore.Record{
		{MemberID: m.ID, DepartmentID: dept.ID, Date: "2026-08-23", Status: models.AttendancePresent},
		{MemberID: m.ID, DepartmentID: dept.ID, Date: "2026-08-16", Status: models.AttendanceLate},
	})
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if len(saved) != 2 {
		t.Errorf("saved = %d rows, want 2", len(saved))
	}
}

func TestDeleteByDate_ScopedToDepartment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	d1 := f.CreateDepartment(ctx, "Middle School")
	d2 := f.CreateDepartment(ctx, "High School")
	m1 := f.CreateMember(ctx, "Jiho Park", d1.ID)
	m2 := f.CreateMember(ctx, "Sua Choi", d2.ID)

	f.RecordAttendance(ctx, m1.ID, d1.ID, "2026-08-23", models.AttendancePresent)
	f.RecordAttendance(ctx, m2.ID, d2.ID, "2026-08-23", models.AttendancePresent)

	n, err := f.Attendance.DeleteByDate(ctx, "2026-08-23", &d1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	left, err := f.Attendance.List(ctx, attendancestore.Filter{Date: "2026-08-23"})
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].DepartmentID != d2.ID {
		t.Errorf("surviving rows: %+v", left)
	}
}

func TestDeleteByMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	dept := f.CreateDepartment(ctx, "Middle School")
	m := f.CreateMember(ctx, "Jiho Park", dept.ID)
	f.RecordAttendance(ctx, m.ID, dept.ID, "2026-08-16", models.AttendancePresent)
	f.RecordAttendance(ctx, m.ID, dept.ID, "2026-08-23", models.AttendanceAbsent)

	n, err := f.Attendance.DeleteByMember(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
}
