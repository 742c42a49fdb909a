package interfaces

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"facilities-cloud/internal/forecast/application"
)

// BuildForecastXLSX renders a minimal XLSX workbook for a forecast run.
func BuildForecastXLSX(run *application.Forecast) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	yearsSheet := "years"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(yearsSheet)

	scope := "Portfolio"
	if run.AssetID != "" {
		scope = run.AssetID
	}
	_ = f.SetCellValue(summarySheet, "A1", "Capital Needs Forecast")
	_ = f.SetCellValue(summarySheet, "A3", "Scope")
	_ = f.SetCellValue(summarySheet, "B3", scope)
	_ = f.SetCellValue(summarySheet, "A4", "Start Year")
	_ = f.SetCellValue(summarySheet, "B4", run.StartYear)
	_ = f.SetCellValue(summarySheet, "A5", "Horizon")
	_ = f.SetCellValue(summarySheet, "B5", run.Horizon)
	_ = f.SetCellValue(summarySheet, "A6", "Immediate Needs")
	_ = f.SetCellValue(summarySheet, "B6", run.Needs.Immediate)
	_ = f.SetCellValue(summarySheet, "A7", "Short Term Needs")
	_ = f.SetCellValue(summarySheet, "B7", run.Needs.ShortTerm)
	_ = f.SetCellValue(summarySheet, "A8", "Medium Term Needs")
	_ = f.SetCellValue(summarySheet, "B8", run.Needs.MediumTerm)
	_ = f.SetCellValue(summarySheet, "A9", "Long Term Needs")
	_ = f.SetCellValue(summarySheet, "B9", run.Needs.LongTerm)
	_ = f.SetCellValue(summarySheet, "A10", "Total")
	_ = f.SetCellValue(summarySheet, "B10", run.Needs.Total())

	headers := []string{"Year", "Immediate", "Short Term", "Medium Term", "Long Term", "Total", "Cumulative"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(yearsSheet, cell, header)
	}
	for i, year := range run.Years {
		row := i + 2
		_ = f.SetCellValue(yearsSheet, fmt.Sprintf("A%d", row), year.Year)
		_ = f.SetCellValue(yearsSheet, fmt.Sprintf("B%d", row), year.ImmediateNeeds)
		_ = f.SetCellValue(yearsSheet, fmt.Sprintf("C%d", row), year.ShortTermNeeds)
		_ = f.SetCellValue(yearsSheet, fmt.Sprintf("D%d", row), year.MediumTermNeeds)
		_ = f.SetCellValue(yearsSheet, fmt.Sprintf("E%d", row), year.LongTermNeeds)
		_ = f.SetCellValue(yearsSheet, fmt.Sprintf("F%d", row), year.TotalProjectedCost)
		_ = f.SetCellValue(yearsSheet, fmt.Sprintf("G%d", row), year.CumulativeCost)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
