// Package export renders tabular resource data as downloadable documents.
package export

import (
	"fmt"
	"strings"
)

// Table is the flattened, already-filtered row set to render.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// ContentType maps a doctype to the MIME type sent with the download.
func ContentType(doctype string) string {
	switch doctype {
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		return "application/pdf"
	case "csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// Filename builds the canonical download name, e.g. assets_export_2026-08-28.xlsx.
func Filename(resource, doctype, date string) string {
	return fmt.Sprintf("%s_export_%s.%s", resource, date, doctype)
}

// Encode renders the table in the requested format. Unknown doctypes error.
func Encode(doctype string, t Table) ([]byte, error) {
	switch strings.ToLower(doctype) {
	case "xlsx":
		return encodeXLSX(t)
	case "pdf":
		return encodePDF(t)
	case "csv":
		return encodeCSV(t)
	default:
		return nil, fmt.Errorf("unsupported doctype %q", doctype)
	}
}
