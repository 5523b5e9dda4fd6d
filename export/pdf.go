package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// encodePDF renders the table landscape with a repeated header row. Cell text
// is truncated to the column width; exports are for scanning, not archival.
func encodePDF(t Table) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(t.Title, false)
	pdf.SetFont("Helvetica", "", 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	cols := len(t.Headers)
	if cols == 0 {
		return nil, fmt.Errorf("no columns to render")
	}
	colW := usable / float64(cols)

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(221, 235, 247)
		for _, h := range t.Headers {
			pdf.CellFormat(colW, 7, truncate(pdf, h, colW), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	if t.Title != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(usable, 9, t.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
	}
	drawHeader()
	pdf.SetAcceptPageBreakFunc(func() bool { return true })

	_, pageH := pdf.GetPageSize()
	for _, row := range t.Rows {
		if pdf.GetY() > pageH-20 {
			pdf.AddPage()
			drawHeader()
		}
		for i := 0; i < cols; i++ {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(colW, 6, truncate(pdf, value, colW), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	for pdf.GetStringWidth(s) > width-2 && len(s) > 4 {
		s = s[:len(s)-4] + "..."
	}
	return s
}
