package summary

import (
	"testing"
	"time"

	"go-emp-mgmt/internal/attendance"
	"go-emp-mgmt/internal/employee"

	"github.com/stretchr/testify/assert"
)

func rec(empID, date, status string) attendance.Attendance {
	return attendance.Attendance{EmployeeID: empID, Date: date, Status: status}
}

func emp(empID, name, designation string, salary float64) employee.Employee {
	return employee.Employee{EmployeeID: empID, EmployeeName: name, Designation: designation, Salary: salary}
}

func TestAggregate_MonthScenario(t *testing.T) {
	records := []attendance.Attendance{
		rec("E1", "2024-03-01", "present"),
		rec("E1", "2024-03-02", "absent"),
		rec("E1", "2024-03-03", "present"),
		rec("E1", "2024-04-01", "present"),
	}
	employees := []employee.Employee{emp("E1", "Ann", "Engineer", 5000)}

	rows := Aggregate(3, 2024, records, employees)

	assert.Equal(t, []ReportRow{{
		EmployeeID:  "E1",
		Present:     2,
		Absent:      1,
		Halfday:     0,
		Name:        "Ann",
		Designation: "Engineer",
		Salary:      5000,
	}}, rows)
}

func TestAggregate_StatusMatchIsCaseSensitive(t *testing.T) {
	records := []attendance.Attendance{
		rec("E1", "2024-03-01", "present"),
		rec("E1", "2024-03-02", "Present"),
		rec("E1", "2024-03-03", "ABSENT"),
		rec("E1", "2024-03-04", "halfday"),
	}

	rows := Aggregate(3, 2024, records, []employee.Employee{emp("E1", "Ann", "Eng", 1)})

	assert.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Present)
	assert.Equal(t, 0, rows[0].Absent)
	assert.Equal(t, 1, rows[0].Halfday)
}

func TestAggregate_EdgeCases(t *testing.T) {
	t.Run("unparseable date is excluded", func(t *testing.T) {
		records := []attendance.Attendance{
			rec("E1", "not-a-date", "present"),
			rec("E1", "2024-03-05", "halfday"),
		}
		rows := Aggregate(3, 2024, records, []employee.Employee{emp("E1", "Ann", "Eng", 1)})

		assert.Len(t, rows, 1)
		assert.Equal(t, 0, rows[0].Present)
		assert.Equal(t, 1, rows[0].Halfday)
	})

	t.Run("no matching records is an empty, non-nil report", func(t *testing.T) {
		rows := Aggregate(2, 2024, []attendance.Attendance{rec("E1", "2024-03-05", "present")}, nil)

		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("orphan employeeId is dropped", func(t *testing.T) {
		records := []attendance.Attendance{
			rec("GHOST", "2024-03-01", "present"),
			rec("E1", "2024-03-01", "present"),
		}
		rows := Aggregate(3, 2024, records, []employee.Employee{emp("E1", "Ann", "Eng", 1)})

		assert.Len(t, rows, 1)
		assert.Equal(t, "E1", rows[0].EmployeeID)
	})

	t.Run("duplicate employeeId yields one row per employee", func(t *testing.T) {
		records := []attendance.Attendance{rec("E1", "2024-03-01", "present")}
		employees := []employee.Employee{
			emp("E1", "Ann", "Eng", 1),
			emp("E1", "Ann Again", "Ops", 2),
		}

		rows := Aggregate(3, 2024, records, employees)

		assert.Len(t, rows, 2)
		assert.Equal(t, "Ann", rows[0].Name)
		assert.Equal(t, "Ann Again", rows[1].Name)
		assert.Equal(t, 1, rows[1].Present)
	})

	t.Run("groups keep first appearance order", func(t *testing.T) {
		records := []attendance.Attendance{
			rec("E2", "2024-03-02", "present"),
			rec("E1", "2024-03-01", "present"),
			rec("E2", "2024-03-03", "absent"),
		}
		employees := []employee.Employee{emp("E1", "Ann", "Eng", 1), emp("E2", "Bob", "Ops", 2)}

		rows := Aggregate(3, 2024, records, employees)

		assert.Equal(t, []string{"E2", "E1"}, []string{rows[0].EmployeeID, rows[1].EmployeeID})
	})

	t.Run("holiday and unrecognized statuses", func(t *testing.T) {
		records := []attendance.Attendance{
			rec("E1", "2024-03-01", "holiday"),
			rec("E1", "2024-03-02", "late"),
		}

		groups := Tally(3, 2024, records)
		assert.Equal(t, []Group{{EmployeeID: "E1", Holiday: 1}}, groups)

		rows := Join(groups, []employee.Employee{emp("E1", "Ann", "Eng", 1)})
		assert.Equal(t, ReportRow{EmployeeID: "E1", Name: "Ann", Designation: "Eng", Salary: 1}, rows[0])
	})

	t.Run("month and year are both required to match", func(t *testing.T) {
		records := []attendance.Attendance{rec("E1", "2023-03-01", "present")}

		assert.Empty(t, Aggregate(3, 2024, records, []employee.Employee{emp("E1", "Ann", "Eng", 1)}))
	})
}

func TestParseRecordDate(t *testing.T) {
	cases := []struct {
		in    string
		month time.Month
		year  int
		ok    bool
	}{
		{"2024-03-04", time.March, 2024, true},
		{"2024-03-04T10:00:00Z", time.March, 2024, true},
		{"2024-03-04T10:00:00.123Z", time.March, 2024, true},
		{"2024-03-04T10:00:00", time.March, 2024, true},
		{"2024-03-04 10:00:00", time.March, 2024, true},
		{"2024-03-31T23:30:00-05:00", time.April, 2024, true},
		{"04/03/2024", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseRecordDate(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.month, got.Month(), tc.in)
			assert.Equal(t, tc.year, got.Year(), tc.in)
		}
	}
}

func TestParseQueryInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"03", 3, true},
		{" 12 ", 12, true},
		{"+7", 7, true},
		{"-2", -2, true},
		{"3abc", 3, true},
		{"2024.5", 2024, true},
		{"0x0A", 10, true},
		{"0x", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseQueryInt(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2, 2024)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 29, end.Day())
	assert.Equal(t, time.February, end.Month())

	start, end = MonthWindow(12, 2023)
	assert.Equal(t, time.December, start.Month())
	assert.Equal(t, 31, end.Day())
	assert.Equal(t, 2023, end.Year())
}
