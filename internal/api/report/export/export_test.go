package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testColumns = []models.ColumnSpec{
	{Key: "channel", Header: "Kênh bán", Format: models.FormatText},
	{Key: "orders", Header: "Số đơn", Format: models.FormatNumber},
	{Key: "revenue", Header: "Doanh thu", Format: models.FormatMoney},
	{Key: "percentage", Format: models.FormatPercent},
}

func testDoc(rows ...models.Row) Document {
	return Document{Title: "Doanh thu theo kênh", Columns: testColumns, Rows: rows}
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(b, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	out, err := Write(models.ExportCSV, testDoc())
	require.NoError(t, err)

	records := readCSV(t, out)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Kênh bán", "Số đơn", "Doanh thu", "Percentage"}, records[0])
}

func TestWriteCSV_RowsInColumnOrder(t *testing.T) {
	out, err := Write(models.ExportCSV, testDoc(
		models.Row{"revenue": 3000.0, "channel": "online", "orders": int32(3), "percentage": 60.0},
		models.Row{"channel": "pos", "orders": int64(2), "revenue": 2000.456, "percentage": 40},
	))
	require.NoError(t, err)

	records := readCSV(t, out)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"online", "3", "3000.00", "60.00"}, records[1])
	assert.Equal(t, []string{"pos", "2", "2000.46", "40.00"}, records[2])
}

func TestWriteExcel(t *testing.T) {
	out, err := Write(models.ExportExcel, testDoc(models.Row{"channel": "online", "orders": 3, "revenue": 1500.5}))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(excelSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Kênh bán", rows[0][0])
	assert.Equal(t, "online", rows[1][0])
}

func TestWritePDF(t *testing.T) {
	out, err := Write(models.ExportPDF, testDoc(models.Row{"channel": "Cửa hàng Đà Nẵng", "orders": 1, "revenue": 10}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestWrite_UnknownFormat(t *testing.T) {
	_, err := Write(models.ExportFormat("xml"), testDoc())
	assert.True(t, errors.Is(err, common.ErrInvalidFormat))
}

func TestFoldASCII(t *testing.T) {
	assert.Equal(t, "Doanh thu theo kenh", foldASCII("Doanh thu theo kênh"))
	assert.Equal(t, "Da Nang", foldASCII("Đà Nẵng"))
}

func TestFormatCell(t *testing.T) {
	loc := time.UTC
	date := models.ColumnSpec{Key: "d", Format: models.FormatDate}
	assert.Equal(t, "2024-01-31", FormatCell(date, time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC), loc))
	assert.Equal(t, "", FormatCell(date, nil, loc))

	money := models.ColumnSpec{Key: "m", Format: models.FormatMoney}
	assert.Equal(t, "0.10", FormatCell(money, 0.1, loc))
	assert.Equal(t, "n/a", FormatCell(money, "n/a", loc))
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "sales-by-channel-20240305-140709.xlsx", FileName("sales-by-channel", models.ExportExcel, at))
	assert.Equal(t, "application/pdf", ContentType(models.ExportPDF))
	assert.True(t, Valid(models.ExportCSV))
	assert.False(t, Valid("docx"))
}
