package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Source identifies how a row entered the system.
type Source string

const (
	SourceUpload Source = "upload"
	SourceManual Source = "manual"
	SourceSplit  Source = "split"
)

// Order is one delivery-order row: a quantity of one CAD part for one
// client, expected on ArrivalDate.
type Order struct {
	ID      string `json:"id,omitempty"`
	Planner string `json:"planner,omitempty"`
	Source  Source `json:"source,omitempty"`
	Client  string `json:"client"`
	CAD     string `json:"cad"`
	Qty     int    `json:"qty"`
	Arrival Date   `json:"arrival_date"`
}

// Column names of the required upload schema. The Chinese headers are the
// canonical ones used by the planning team's spreadsheets.
const (
	ColClient  = "客户名称"
	ColCAD     = "CAD"
	ColQty     = "数量"
	ColArrival = "到货日期"
)

// RequiredColumns lists the upload schema in canonical order.
func RequiredColumns() []string {
	return []string{ColClient, ColCAD, ColQty, ColArrival}
}

// columnAliases maps normalized header spellings to canonical column names.
var columnAliases = map[string]string{
	"客户名称":         ColClient,
	"client":       ColClient,
	"client_name":  ColClient,
	"cad":          ColCAD,
	"数量":           ColQty,
	"qty":          ColQty,
	"quantity":     ColQty,
	"到货日期":         ColArrival,
	"arrival_date": ColArrival,
	"arrival date": ColArrival,
	"request_date": ColArrival,
}

// CanonicalColumn resolves a header cell to its canonical column name.
func CanonicalColumn(header string) (string, bool) {
	c, ok := columnAliases[strings.ToLower(strings.TrimSpace(header))]
	return c, ok
}

const dayFormat = "2006-01-02"

// Date is a day-granularity point in time. The zero value means "not set".
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to day granularity.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current day.
func Today() Date { return DateOf(time.Now()) }

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Time() time.Time    { return d.t }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) String() string     { return d.t.Format(dayFormat) }
func (d Date) AddDays(n int) Date { return DateOf(d.t.AddDate(0, 0, n)) }
func (d Date) Compact() string    { return d.t.Format("20060102") }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// dateFormats are the spreadsheet date shapes seen in planner uploads.
var dateFormats = []string{
	dayFormat,
	"2006/01/02",
	"2006.01.02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Serial numbers in this range decode as Excel dates (1954..2118); plain
// years and quantities fall outside it.
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// ParseDate parses a cell value into a Date. Numeric values are treated as
// Excel date serials when they fall in a plausible range.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= minExcelSerial && serial <= maxExcelSerial {
			t, err := excelize.ExcelDateToTime(serial, false)
			if err == nil {
				return DateOf(t), nil
			}
		}
		return Date{}, fmt.Errorf("numeric value %q is not a date", value)
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, value); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q", value)
}
