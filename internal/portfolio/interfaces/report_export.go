package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"facilities-cloud/internal/portfolio/application"
)

// BuildConditionReportPDF renders a minimal PDF condition report for a
// rebuilt summary. Engine outputs stay plain records; rendering happens
// only at this collaborator boundary.
func BuildConditionReportPDF(summary *application.Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	title := "Portfolio Condition Report"
	if summary.AssetID != "" {
		title = fmt.Sprintf("Asset Condition Report: %s", summary.AssetID)
	}
	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Components: %d", summary.ComponentCount))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Deferred Maintenance: %.0f", summary.RepairCost))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Replacement Value: %.0f", summary.ReplacementCost))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("FCI: %.2f%% (%s)", float64(summary.FCIPercent), summary.FCIRating))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", summary.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	// Classification groups table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(20, 6, "Code", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "System Group", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Count", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Repair Cost", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Replacement Cost", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, group := range summary.ClassificationGroups {
		pdf.CellFormat(20, 6, group.Code, "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, group.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", group.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.0f", group.RepairCost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.0f", group.ReplacementCost), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 6, "Priority", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Count", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Total Cost", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "% of Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, group := range summary.PriorityGroups {
		pdf.CellFormat(50, 6, string(group.Bucket), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", group.Count), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.0f", group.TotalCost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d%%", group.PercentageOfTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
