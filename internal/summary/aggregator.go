package summary

import (
	"strconv"
	"strings"
	"time"

	"go-emp-mgmt/internal/attendance"
	"go-emp-mgmt/internal/employee"
)

// recordDateLayouts are tried in order. Dates are interpreted in UTC unless
// they carry an offset, and month/year are taken after converting to UTC.
var recordDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ReportRow is one line of the monthly summary.
type ReportRow struct {
	EmployeeID  string  `json:"employeeId"`
	Present     int     `json:"present"`
	Absent      int     `json:"absent"`
	Halfday     int     `json:"halfday"`
	Name        string  `json:"name"`
	Designation string  `json:"designation"`
	Salary      float64 `json:"salary"`
}

// Group holds the status counts of one employeeId within a month. Holiday is
// counted but never projected into a ReportRow.
type Group struct {
	EmployeeID string
	Present    int
	Absent     int
	Halfday    int
	Holiday    int
}

// ParseQueryInt reads a leading integer the way JavaScript parseInt does with
// no radix: surrounding whitespace, an optional sign, a "0x" prefix for hex,
// then digits up to the first non-digit. ok is false when no digit is found.
func ParseQueryInt(s string) (n int, ok bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHex
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	v, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil || v > int64(maxInt) {
		return 0, false
	}
	if neg {
		v = -v
	}
	return int(v), true
}

const maxInt = int(^uint(0) >> 1)

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// MonthWindow returns the first and last instant of month/year in UTC.
// time.Date normalises out-of-range months, so it never fails.
func MonthWindow(month, year int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// ParseRecordDate parses a stored attendance date string.
func ParseRecordDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Tally groups the records that fall in month/year by employeeId, in order
// of first appearance. Records with an unparseable date are skipped.
func Tally(month, year int, records []attendance.Attendance) []Group {
	var (
		groups []Group
		index  = map[string]int{}
	)
	for _, r := range records {
		t, ok := ParseRecordDate(r.Date)
		if !ok || int(t.Month()) != month || t.Year() != year {
			continue
		}

		i, seen := index[r.EmployeeID]
		if !seen {
			i = len(groups)
			index[r.EmployeeID] = i
			groups = append(groups, Group{EmployeeID: r.EmployeeID})
		}

		g := &groups[i]
		switch r.ParsedStatus() {
		case attendance.StatusPresent:
			g.Present++
		case attendance.StatusAbsent:
			g.Absent++
		case attendance.StatusHalfday:
			g.Halfday++
		case attendance.StatusHoliday:
			g.Holiday++
		}
	}
	return groups
}

// GroupIDs returns the employeeIds of groups, in group order.
func GroupIDs(groups []Group) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.EmployeeID
	}
	return ids
}

// Join is an inner join of groups against employees on employeeId. A group
// with no employee is dropped; a group whose employeeId is shared by several
// employees yields one row per employee, in the order given.
func Join(groups []Group, employees []employee.Employee) []ReportRow {
	byID := make(map[string][]employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.EmployeeID] = append(byID[e.EmployeeID], e)
	}

	rows := make([]ReportRow, 0, len(groups))
	for _, g := range groups {
		for _, e := range byID[g.EmployeeID] {
			rows = append(rows, ReportRow{
				EmployeeID:  g.EmployeeID,
				Present:     g.Present,
				Absent:      g.Absent,
				Halfday:     g.Halfday,
				Name:        e.EmployeeName,
				Designation: e.Designation,
				Salary:      e.Salary,
			})
		}
	}
	return rows
}

// Aggregate builds the monthly summary from already loaded records and
// employees. The result is never nil.
func Aggregate(month, year int, records []attendance.Attendance, employees []employee.Employee) []ReportRow {
	return Join(Tally(month, year, records), employees)
}
