package order

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoClient is returned when a batch is submitted without a client.
var ErrNoClient = errors.New("no client selected")

// RowError reports a validation failure on a specific row. Row is 1-based
// to match what the planner sees on screen.
type RowError struct {
	Row   int
	Field string
	Msg   string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s %s", e.Row, e.Field, e.Msg)
}

// ValidateEntry checks a single manually entered row.
func ValidateEntry(row int, o Order) error {
	if strings.TrimSpace(o.CAD) == "" {
		return &RowError{Row: row, Field: ColCAD, Msg: "must not be blank"}
	}
	if o.Qty < 0 {
		return &RowError{Row: row, Field: ColQty, Msg: "must be >= 0"}
	}
	if o.Arrival.IsZero() {
		return &RowError{Row: row, Field: ColArrival, Msg: "not set"}
	}
	return nil
}

// ValidateBatch checks a pending batch before it is committed: the shared
// client must be selected and every entry must be complete.
func ValidateBatch(client string, entries []Order) error {
	if strings.TrimSpace(client) == "" {
		return ErrNoClient
	}
	for i, e := range entries {
		if err := ValidateEntry(i+1, e); err != nil {
			return err
		}
	}
	return nil
}
