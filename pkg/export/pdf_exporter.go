package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfCellPad    = 1.5
	pdfLineHeight = 4.5
)

var (
	headerFill = [3]int{52, 73, 94}
	infoGray   = [3]int{128, 128, 128}
)

// generatedLayout matches the timestamp format used in submission cells.
const generatedLayout = "2006-01-02 15:04:05 UTC"

// PDFExporter renders datasets into a landscape tabular report.
type PDFExporter struct {
	disableCompression bool
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates an A4 landscape report: centred title, generation timestamp,
// a table whose header repeats on every page, and a trailing record count.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, ErrNoColumns
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(!e.disableCompression)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	tableW := pageW - 2*pdfMargin
	colW := tableW / float64(len(data.Columns))

	if data.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(infoGray[0], infoGray[1], infoGray[2])
	if !data.GeneratedAt.IsZero() {
		pdf.CellFormat(0, 6, "Generated: "+data.GeneratedAt.UTC().Format(generatedLayout), "", 1, "R", false, 0, "")
		pdf.Ln(2)
	}

	labels := data.Labels()
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		pdf.SetTextColor(255, 255, 255)
		h := rowHeight(pdf, labels, colW, tr)
		drawRow(pdf, labels, colW, h, "C", true, tr)
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	values := make([]string, len(data.Columns))
	for _, row := range data.Rows {
		for i := range data.Columns {
			values[i] = data.cell(row, i)
		}
		h := rowHeight(pdf, values, colW, tr)
		if pdf.GetY()+h > pageH-pdfMargin {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(0, 0, 0)
		}
		drawRow(pdf, values, colW, h, "L", false, tr)
	}

	pdf.Ln(4)
	if pdf.GetY()+6 > pageH-pdfMargin {
		pdf.AddPage()
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(infoGray[0], infoGray[1], infoGray[2])
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Records: %d", len(data.Rows)), "", 1, "L", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func rowHeight(pdf *gofpdf.Fpdf, values []string, colW float64, tr func(string) string) float64 {
	lines := 1
	for _, v := range values {
		if n := len(pdf.SplitLines([]byte(tr(v)), colW-2*pdfCellPad)); n > lines {
			lines = n
		}
	}
	return float64(lines)*pdfLineHeight + 2*pdfCellPad
}

// drawRow paints one wrapped table row and moves the cursor below it.
func drawRow(pdf *gofpdf.Fpdf, values []string, colW, h float64, align string, fill bool, tr func(string) string) {
	x, y := pdf.GetXY()
	style := "D"
	if fill {
		style = "FD"
	}
	for i, v := range values {
		cx := x + float64(i)*colW
		pdf.Rect(cx, y, colW, h, style)
		pdf.SetXY(cx+pdfCellPad, y+pdfCellPad)
		pdf.MultiCell(colW-2*pdfCellPad, pdfLineHeight, tr(v), "", align, false)
	}
	pdf.SetXY(x, y+h)
}
