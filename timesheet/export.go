package timesheet

import (
	"fmt"
	"io"

	"github.com/warp/hr-extensions/hr"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Timesheets"

var exportHeaders = []string{
	"ID", "Description", "Date", "Project", "Task", "Parent Task",
	"Employee", "Manager", "Department", "Company", "Partner",
	"Time Spent", "Amount",
}

// WriteXLSX writes the rows as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range rows {
		values := []any{
			r.ID, r.Name, hr.FormatDate(r.Date),
			ref(r.ProjectID), ref(r.TaskID), ref(r.ParentTaskID),
			ref(r.EmployeeID), ref(r.ManagerID), ref(r.DepartmentID),
			ref(r.CompanyID), ref(r.PartnerID),
			r.UnitAmount.InexactFloat64(), r.Amount.InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ref renders an optional reference; empty cells for nil.
func ref(id *int64) any {
	if id == nil {
		return ""
	}
	return *id
}
