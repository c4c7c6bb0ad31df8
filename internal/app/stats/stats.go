// internal/app/stats/stats.go

// Package stats computes attendance analytics. Everything here is pure:
// records in, numbers out, no database or clock access (callers pass
// the reference date where one matters).
//
// Conventions shared by every function:
//   - dates are YYYY-MM-DD strings, which compare in calendar order
//   - rate = round(present / total * 100), and 0 when total is 0
//   - "late" counts toward totals but never toward present
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Rate returns the integer attendance percentage, rounded half up.
// Zero total yields 0, not a division error.
func Rate(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}

// Counts tallies one bucket of records by status.
type Counts struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	Total   int `json:"total"`
	Rate    int `json:"rate"`
}

func (c *Counts) add(status string) {
	switch status {
	case models.AttendancePresent:
		c.Present++
	case models.AttendanceLate:
		c.Late++
	case models.AttendanceAbsent:
		c.Absent++
	default:
		return
	}
	c.Total++
	c.Rate = Rate(c.Present, c.Total)
}

// Summarize tallies all records into one bucket.
func Summarize(records []models.Attendance) Counts {
	var c Counts
	for _, r := range records {
		c.add(r.Status)
	}
	return c
}

// DailyCounts is one worship day's tally.
type DailyCounts struct {
	Date string `json:"date"`
	Counts
}

// ByDay buckets records per date, oldest first.
func ByDay(records []models.Attendance) []DailyCounts {
	byDate := map[string]*Counts{}
	for _, r := range records {
		c, ok := byDate[r.Date]
		if !ok {
			c = &Counts{}
			byDate[r.Date] = c
		}
		c.add(r.Status)
	}
	out := make([]DailyCounts, 0, len(byDate))
	for date, c := range byDate {
		out = append(out, DailyCounts{Date: date, Counts: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// MemberCounts is one member's tally across the input range.
type MemberCounts struct {
	MemberID int `json:"member_id"`
	Counts
}

// ByMember buckets records per member, ordered by member id.
func ByMember(records []models.Attendance) []MemberCounts {
	byID := map[int]*Counts{}
	for _, r := range records {
		c, ok := byID[r.MemberID]
		if !ok {
			c = &Counts{}
			byID[r.MemberID] = c
		}
		c.add(r.Status)
	}
	out := make([]MemberCounts, 0, len(byID))
	for id, c := range byID {
		out = append(out, MemberCounts{MemberID: id, Counts: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out
}

// AbsentStreaks returns, per member, how many consecutive recent
// worship days the member has been absent. Walking backward from the
// member's most recent record: "absent" extends the streak, "present"
// ends it, and "late" is skipped without ending it, so absent, late,
// absent counts as a streak of two.
func AbsentStreaks(records []models.Attendance) map[int]int {
	byMember := map[int][]models.Attendance{}
	for _, r := range records {
		byMember[r.MemberID] = append(byMember[r.MemberID], r)
	}

	streaks := map[int]int{}
	for id, recs := range byMember {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date > recs[j].Date })
		streak := 0
		for _, r := range recs {
			if r.Status == models.AttendanceLate {
				continue
			}
			if r.Status != models.AttendanceAbsent {
				break
			}
			streak++
		}
		streaks[id] = streak
	}
	return streaks
}

// WeekStart returns the Sunday on or before t, truncated to a date.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// WeeklyCounts is one Sunday-anchored week's tally.
type WeeklyCounts struct {
	// WeekStart is the week's Sunday, YYYY-MM-DD.
	WeekStart string `json:"week_start"`
	Counts
}

// LastWeeks buckets records into the n Sunday-anchored weeks ending at
// the week containing ref, oldest first. Weeks with no records still
// appear, zeroed, so a chart always has n points.
func LastWeeks(records []models.Attendance, ref time.Time, n int) []WeeklyCounts {
	if n <= 0 {
		return nil
	}
	latest := WeekStart(ref)
	out := make([]WeeklyCounts, n)
	index := map[string]int{}
	for i := 0; i < n; i++ {
		ws := latest.AddDate(0, 0, -7*(n-1-i)).Format(dateLayout)
		out[i] = WeeklyCounts{WeekStart: ws}
		index[ws] = i
	}

	for _, r := range records {
		d, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			continue
		}
		ws := WeekStart(d).Format(dateLayout)
		if i, ok := index[ws]; ok {
			out[i].add(r.Status)
		}
	}
	return out
}

// MonthlyCounts is one calendar month's tally.
type MonthlyCounts struct {
	// Month is YYYY-MM.
	Month string `json:"month"`
	Counts
}

// LastMonths buckets records into the n calendar months ending at the
// month containing ref, oldest first. Months with no records still
// appear, zeroed, so a trend chart always has n points.
func LastMonths(records []models.Attendance, ref time.Time, n int) []MonthlyCounts {
	if n <= 0 {
		return nil
	}
	latest := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthlyCounts, n)
	index := map[string]int{}
	for i := 0; i < n; i++ {
		m := latest.AddDate(0, -(n - 1 - i), 0).Format("2006-01")
		out[i] = MonthlyCounts{Month: m}
		index[m] = i
	}

	for _, r := range records {
		if len(r.Date) < 7 {
			continue
		}
		if i, ok := index[r.Date[:7]]; ok {
			out[i].add(r.Status)
		}
	}
	return out
}
