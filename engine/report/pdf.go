package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/equipsight/equipsight/engine/dataset/model"
	"github.com/jung-kurt/gofpdf"
)

const (
	// maxEquipmentRows caps the detail table so large uploads stay readable.
	maxEquipmentRows = 50
	// maxNameLen truncates long equipment names in the detail table.
	maxNameLen = 20
)

// Input carries everything the report renders.
type Input struct {
	Dataset     *model.Dataset
	Equipment   []*model.Equipment
	GeneratedBy string
}

// Write renders the dataset report as an A4 PDF.
func Write(w io.Writer, input *Input) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	writeHeader(pdf, input)
	writeSummaryTable(pdf, input.Dataset)
	writeDistributionTable(pdf, input.Dataset)
	writeEquipmentTable(pdf, input.Equipment)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}
	return nil
}

func writeHeader(pdf *gofpdf.Fpdf, input *Input) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Equipment Parameter Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Dataset: "+input.Dataset.Name, "", 1, "C", false, 0, "")
	uploaded := input.Dataset.UploadedAt.Format("2006-01-02 15:04 MST")
	pdf.CellFormat(0, 6, "Uploaded: "+uploaded, "", 1, "C", false, 0, "")
	if input.GeneratedBy != "" {
		pdf.CellFormat(0, 6, "Generated by: "+input.GeneratedBy, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func headerCell(pdf *gofpdf.Fpdf, width float64, text string) {
	pdf.SetFillColor(52, 73, 94)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(width, 8, text, "1", 0, "C", true, 0, "")
}

func bodyCell(pdf *gofpdf.Fpdf, width float64, text string, zebra bool) {
	if zebra {
		pdf.SetFillColor(236, 240, 241)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(width, 7, text, "1", 0, "L", true, 0, "")
}

func writeSummaryTable(pdf *gofpdf.Fpdf, dataset *model.Dataset) {
	sectionTitle(pdf, "Summary Statistics")
	headerCell(pdf, 95, "Metric")
	headerCell(pdf, 95, "Value")
	pdf.Ln(-1)
	rows := [][2]string{
		{"Total Equipment", fmt.Sprintf("%d", dataset.TotalEquipment)},
		{"Average Flowrate", fmt.Sprintf("%.2f", dataset.AvgFlowrate)},
		{"Average Pressure", fmt.Sprintf("%.2f", dataset.AvgPressure)},
		{"Average Temperature", fmt.Sprintf("%.2f", dataset.AvgTemperature)},
	}
	for i, row := range rows {
		bodyCell(pdf, 95, row[0], i%2 == 1)
		bodyCell(pdf, 95, row[1], i%2 == 1)
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writeDistributionTable(pdf *gofpdf.Fpdf, dataset *model.Dataset) {
	sectionTitle(pdf, "Equipment Type Distribution")
	headerCell(pdf, 95, "Type")
	headerCell(pdf, 95, "Count")
	pdf.Ln(-1)
	types := make([]string, 0, len(dataset.TypeDistribution))
	for t := range dataset.TypeDistribution {
		types = append(types, t)
	}
	sort.Strings(types)
	for i, t := range types {
		bodyCell(pdf, 95, t, i%2 == 1)
		bodyCell(pdf, 95, fmt.Sprintf("%d", dataset.TypeDistribution[t]), i%2 == 1)
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writeEquipmentTable(pdf *gofpdf.Fpdf, equipment []*model.Equipment) {
	sectionTitle(pdf, "Equipment Details")
	widths := []float64{50, 40, 33, 33, 34}
	headers := []string{"Name", "Type", "Flowrate", "Pressure", "Temperature"}
	for i, h := range headers {
		headerCell(pdf, widths[i], h)
	}
	pdf.Ln(-1)
	capped := equipment
	if len(capped) > maxEquipmentRows {
		capped = capped[:maxEquipmentRows]
	}
	for i, eq := range capped {
		zebra := i%2 == 1
		bodyCell(pdf, widths[0], truncate(eq.Name, maxNameLen), zebra)
		bodyCell(pdf, widths[1], eq.Type, zebra)
		bodyCell(pdf, widths[2], fmt.Sprintf("%.2f", eq.Flowrate), zebra)
		bodyCell(pdf, widths[3], fmt.Sprintf("%.2f", eq.Pressure), zebra)
		bodyCell(pdf, widths[4], fmt.Sprintf("%.2f", eq.Temperature), zebra)
		pdf.Ln(-1)
	}
	if len(equipment) > maxEquipmentRows {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 7,
			fmt.Sprintf("Showing %d of %d rows", maxEquipmentRows, len(equipment)),
			"", 1, "L", false, 0, "")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
