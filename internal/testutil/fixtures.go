// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	attendancestore "github.com/danielhkim/shepherdhub/internal/app/store/attendance"
	departmentstore "github.com/danielhkim/shepherdhub/internal/app/store/departments"
	groupstore "github.com/danielhkim/shepherdhub/internal/app/store/groups"
	memberstore "github.com/danielhkim/shepherdhub/internal/app/store/members"
	userstore "github.com/danielhkim/shepherdhub/internal/app/store/users"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data through the
// real stores, so counter ids and timestamps behave as in production.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T

	Departments *departmentstore.Store
	Users       *userstore.Store
	Members     *memberstore.Store
	Groups      *groupstore.Store
	Attendance  *attendancestore.Store
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{
		db:          db,
		t:           t,
		Departments: departmentstore.New(db),
		Users:       userstore.New(db),
		Members:     memberstore.New(db),
		Groups:      groupstore.New(db),
		Attendance:  attendancestore.New(db),
	}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateDepartment creates a test department.
func (f *Fixtures) CreateDepartment(ctx context.Context, name string) models.Department {
	f.t.Helper()
	d, err := f.Departments.Create(ctx, models.Department{Name: name, AgeRange: "13-15"})
	if err != nil {
		f.t.Fatalf("create test department: %v", err)
	}
	return d
}

// CreateUser creates a staff account with a fixed bcrypt hash for the
// password "test-password".
func (f *Fixtures) CreateUser(ctx context.Context, username, role string, deptID *int) models.User {
	f.t.Helper()
	u, err := f.Users.Create(ctx, models.User{
		Username: username,
		// bcrypt of "test-password", cost 10
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Name:         "Test " + username,
		Role:         role,
		DepartmentID: deptID,
	})
	if err != nil {
		f.t.Fatalf("create test user: %v", err)
	}
	return u
}

// CreateMember creates a roster member in the given department.
func (f *Fixtures) CreateMember(ctx context.Context, name string, deptID int) models.Member {
	f.t.Helper()
	m, err := f.Members.Create(ctx, models.Member{
		Name:         name,
		DepartmentID: deptID,
		Status:       models.MemberActive,
	})
	if err != nil {
		f.t.Fatalf("create test member: %v", err)
	}
	return m
}

// CreateGroup creates a group, optionally with a leader.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, deptID int, leaderID *int) models.Group {
	f.t.Helper()
	g, err := f.Groups.Create(ctx, models.Group{
		DepartmentID: deptID,
		Name:         name,
		Type:         models.GroupCell,
		LeaderID:     leaderID,
	})
	if err != nil {
		f.t.Fatalf("create test group: %v", err)
	}
	return g
}

// RecordAttendance upserts one attendance record.
func (f *Fixtures) RecordAttendance(ctx context.Context, memberID, deptID int, date, status string) models.Attendance {
	f.t.Helper()
	a, err := f.Attendance.Upsert(ctx, attendancestore.Record{
		MemberID:     memberID,
		DepartmentID: deptID,
		Date:         date,
		Status:       status,
	})
	if err != nil {
		f.t.Fatalf("record test attendance: %v", err)
	}
	return a
}
