// Package ingest parses uploaded order files. CSV, XLSX and legacy XLS are
// accepted; the first sheet of a workbook is used. Uploads must carry the
// required columns (客户名称, CAD, 数量, 到货日期 or their English aliases);
// anything else in the file is ignored.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/zoepiqian/bufferplan/core/order"
)

// maxSheetRows bounds how many rows are pulled from a legacy XLS sheet.
const maxSheetRows = 100000

// ReadFile parses the upload into order rows. The filename extension
// selects the reader.
func ReadFile(r io.Reader, filename string) ([]order.Order, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		rows [][]string
		err  error
	)
	switch ext {
	case ".csv":
		rows, err = readCSV(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv, .xlsx or .xls)", ext)
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	// Excel writes CSV with a UTF-8 BOM; strip it before parsing.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readXLS(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	rows := wb.ReadAllCells(maxSheetRows)
	return rows, nil
}

// parseRows maps the header through the column aliases, checks the required
// columns and converts the data rows.
func parseRows(rows [][]string) ([]order.Order, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		if col, ok := order.CanonicalColumn(h); ok {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	var missing []string
	for _, col := range order.RequiredColumns() {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	out := make([]order.Order, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		o, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, o)
	}
	return out, nil
}

func parseRow(row []string, idx map[string]int) (order.Order, error) {
	client := cell(row, idx[order.ColClient])
	if client == "" {
		return order.Order{}, fmt.Errorf("%s must not be blank", order.ColClient)
	}
	cad := cell(row, idx[order.ColCAD])
	if cad == "" {
		return order.Order{}, fmt.Errorf("%s must not be blank", order.ColCAD)
	}
	qtyCell := cell(row, idx[order.ColQty])
	qty, err := parseQty(qtyCell)
	if err != nil {
		return order.Order{}, err
	}
	arrival, err := order.ParseDate(cell(row, idx[order.ColArrival]))
	if err != nil {
		return order.Order{}, fmt.Errorf("%s: %w", order.ColArrival, err)
	}
	return order.Order{Client: client, CAD: cad, Qty: qty, Arrival: arrival}, nil
}

func parseQty(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%s must not be blank", order.ColQty)
	}
	// Spreadsheets often render integers as "1000.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%s %q is not an integer", order.ColQty, s)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s must be >= 0, got %s", order.ColQty, s)
	}
	return int(f), nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
