package summary

import (
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet     = "Summary"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []string{"Employee ID", "Name", "Designation", "Salary", "Present", "Absent", "Halfday"}

// RenderXLSX lays rows out as a single sheet: the title in A1, headers on
// row 3 and one line per report row below. The caller closes the file.
func RenderXLSX(title string, rows []ReportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetCellValue(exportSheet, "A1", title); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A3", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := []interface{}{r.EmployeeID, r.Name, r.Designation, r.Salary, r.Present, r.Absent, r.Halfday}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
