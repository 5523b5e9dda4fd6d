package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Title:   "Assets",
		Headers: []string{"ID", "Name", "Provider"},
		Rows: [][]string{
			{"1", "web-prod-01", "aws"},
			{"2", "billing-db", "azure"},
		},
	}
}

func TestFilenameFormat(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	assert.Equal(t, "assets_export_2026-08-28.xlsx", Filename("assets", "xlsx", date))
}

func TestContentTypes(t *testing.T) {
	assert.Equal(t, "text/csv", ContentType("csv"))
	assert.Equal(t, "application/pdf", ContentType("pdf"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ContentType("xlsx"))
	assert.Equal(t, "application/octet-stream", ContentType("weird"))
}

func TestEncodeUnknownDoctype(t *testing.T) {
	_, err := Encode("docx", sampleTable())
	assert.Error(t, err)
}

func TestEncodeCSVRoundTrip(t *testing.T) {
	data, err := Encode("csv", sampleTable())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "Name", "Provider"}, records[0])
	assert.Equal(t, []string{"2", "billing-db", "azure"}, records[2])
}

func TestEncodeXLSXContainsRows(t *testing.T) {
	data, err := Encode("xlsx", sampleTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Assets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "web-prod-01", rows[1][1])
}

func TestEncodePDFProducesDocument(t *testing.T) {
	data, err := Encode("pdf", sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
