package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const csvHeader = "客户名称,CAD,数量,到货日期\n"

func TestReadFileCSV(t *testing.T) {
	body := csvHeader +
		"客户A,CAD-001,100,2025-06-01\n" +
		"客户B,CAD-002,0,2025/06/02\n"
	rows, err := ReadFile(strings.NewReader(body), "orders.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "客户A", rows[0].Client)
	assert.Equal(t, "CAD-001", rows[0].CAD)
	assert.Equal(t, 100, rows[0].Qty)
	assert.Equal(t, "2025-06-01", rows[0].Arrival.String())
	assert.Equal(t, 0, rows[1].Qty)
	assert.Equal(t, "2025-06-02", rows[1].Arrival.String())
}

func TestReadFileCSVWithBOM(t *testing.T) {
	body := "\xef\xbb\xbf" + csvHeader + "客户A,CAD-001,10,2025-06-01\n"
	rows, err := ReadFile(strings.NewReader(body), "orders.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "客户A", rows[0].Client)
}

func TestReadFileEnglishAliases(t *testing.T) {
	body := "Client,CAD,Qty,Arrival_Date\n客户C,CAD-003,42,2025-06-03\n"
	rows, err := ReadFile(strings.NewReader(body), "orders.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 42, rows[0].Qty)
}

func TestReadFileExtraColumnsIgnored(t *testing.T) {
	body := "备注,客户名称,CAD,数量,到货日期\nnote,客户A,CAD-001,10,2025-06-01\n"
	rows, err := ReadFile(strings.NewReader(body), "orders.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadFileMissingColumns(t *testing.T) {
	body := "客户名称,CAD\n客户A,CAD-001\n"
	_, err := ReadFile(strings.NewReader(body), "orders.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "数量")
	assert.Contains(t, err.Error(), "到货日期")
}

func TestReadFileBadRows(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"blank client", ",CAD-001,10,2025-06-01"},
		{"blank cad", "客户A,,10,2025-06-01"},
		{"negative qty", "客户A,CAD-001,-5,2025-06-01"},
		{"non-numeric qty", "客户A,CAD-001,many,2025-06-01"},
		{"fractional qty", "客户A,CAD-001,10.5,2025-06-01"},
		{"bad date", "客户A,CAD-001,10,someday"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ReadFile(strings.NewReader(csvHeader+c.row+"\n"), "orders.csv")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 1")
		})
	}
}

func TestReadFileBlankRowsSkipped(t *testing.T) {
	body := csvHeader + "客户A,CAD-001,10,2025-06-01\n,,,\n"
	rows, err := ReadFile(strings.NewReader(body), "orders.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadFileFloatQty(t *testing.T) {
	// Spreadsheet exports render integers as "1000.0".
	body := csvHeader + "客户A,CAD-001,1000.0,2025-06-01\n"
	rows, err := ReadFile(strings.NewReader(body), "orders.csv")
	require.NoError(t, err)
	assert.Equal(t, 1000, rows[0].Qty)
}

func TestReadFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"客户名称", "CAD", "数量", "到货日期"}
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, col+"1", h))
	}
	require.NoError(t, f.SetCellValue(sheet, "A2", "客户B"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "CAD-007"))
	require.NoError(t, f.SetCellValue(sheet, "C2", 250))
	require.NoError(t, f.SetCellValue(sheet, "D2", "2025-06-05"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ReadFile(&buf, "orders.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "客户B", rows[0].Client)
	assert.Equal(t, "CAD-007", rows[0].CAD)
	assert.Equal(t, 250, rows[0].Qty)
	assert.Equal(t, "2025-06-05", rows[0].Arrival.String())
}

func TestReadFileUnsupportedType(t *testing.T) {
	_, err := ReadFile(strings.NewReader("x"), "orders.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestReadFileEmpty(t *testing.T) {
	_, err := ReadFile(strings.NewReader(""), "orders.csv")
	require.Error(t, err)
}
