// Package export serializes aggregated order rows into the fixed template
// layout consumed downstream, as CSV, XLSX or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/zoepiqian/bufferplan/core/order"
)

// TemplateColumns is the fixed column order required by the downstream
// consumer. Sourcing and IO are intentionally left blank.
var TemplateColumns = []string{
	"Creation Date",
	"Sourcing",
	"IO",
	"CAD",
	"Qty",
	"客户名称",
	"Request Date",
}

// Row is one line of the export template.
type Row struct {
	CreationDate string `json:"creation_date"`
	Sourcing     string `json:"sourcing"`
	IO           string `json:"io"`
	CAD          string `json:"cad"`
	Qty          int    `json:"qty"`
	Client       string `json:"客户名称"`
	RequestDate  string `json:"request_date"`
}

// ToTemplate maps order rows into template rows. now stamps Creation Date.
func ToTemplate(rows []order.Order, now time.Time) []Row {
	created := now.Format("2006-01-02")
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{
			CreationDate: created,
			CAD:          r.CAD,
			Qty:          r.Qty,
			Client:       r.Client,
			RequestDate:  r.Arrival.String(),
		}
	}
	return out
}

func (r Row) record() []string {
	return []string{
		r.CreationDate,
		r.Sourcing,
		r.IO,
		r.CAD,
		strconv.Itoa(r.Qty),
		r.Client,
		r.RequestDate,
	}
}

// WriteCSV writes the template to w. A UTF-8 BOM is prepended so Excel
// opens the Chinese headers correctly (utf-8-sig).
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := w.Write([]byte("\xef\xbb\xbf")); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(TemplateColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the template as a single-sheet workbook with a bold
// header row.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, h := range TemplateColumns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, col+"1", h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, col+"1", col+"1", bold); err != nil {
			return err
		}
	}
	for i, r := range rows {
		cells := []any{r.CreationDate, r.Sourcing, r.IO, r.CAD, r.Qty, r.Client, r.RequestDate}
		for j, v := range cells {
			col, err := excelize.ColumnNumberToName(j + 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, i+2), v); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// WriteJSON writes the template to w in JSON format.
func WriteJSON(w io.Writer, rows []Row) error {
	return json.NewEncoder(w).Encode(rows)
}
