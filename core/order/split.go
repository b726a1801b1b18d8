package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrRowNotFound is returned when a split row id does not exist in the plan.
var ErrRowNotFound = errors.New("split row not found")

// SplitPlan divides a large total quantity for one client/CAD/date into
// fixed-size chunks plus a remainder. Rows stay editable until the plan is
// confirmed and its rows are committed.
type SplitPlan struct {
	Client    string  `json:"client"`
	CAD       string  `json:"cad"`
	Total     int     `json:"total"`
	ChunkSize int     `json:"chunk_size"`
	BaseDate  Date    `json:"base_date"`
	Rows      []Order `json:"rows"`
}

// NewSplitPlan generates the chunk rows: total/size rows of size, plus one
// remainder row when total is not an exact multiple.
func NewSplitPlan(client, cad string, total, size int, base Date) (*SplitPlan, error) {
	if strings.TrimSpace(client) == "" {
		return nil, ErrNoClient
	}
	if strings.TrimSpace(cad) == "" {
		return nil, fmt.Errorf("%s must not be blank", ColCAD)
	}
	if total < 1 {
		return nil, fmt.Errorf("total quantity must be >= 1, got %d", total)
	}
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be >= 1, got %d", size)
	}
	if base.IsZero() {
		base = Today()
	}

	chunks := total / size
	remainder := total % size

	rows := make([]Order, 0, chunks+1)
	for i := 0; i < chunks; i++ {
		rows = append(rows, splitRow(client, cad, size, base))
	}
	if remainder > 0 {
		rows = append(rows, splitRow(client, cad, remainder, base))
	}
	return &SplitPlan{
		Client:    client,
		CAD:       cad,
		Total:     total,
		ChunkSize: size,
		BaseDate:  base,
		Rows:      rows,
	}, nil
}

func splitRow(client, cad string, qty int, date Date) Order {
	return Order{
		ID:      uuid.NewString(),
		Source:  SourceSplit,
		Client:  client,
		CAD:     cad,
		Qty:     qty,
		Arrival: date,
	}
}

// CurrentTotal sums the quantities of the remaining rows. Edits may drift
// it away from the originally requested total; callers surface both.
func (p *SplitPlan) CurrentTotal() int {
	sum := 0
	for _, r := range p.Rows {
		sum += r.Qty
	}
	return sum
}

func (p *SplitPlan) find(id string) int {
	for i := range p.Rows {
		if p.Rows[i].ID == id {
			return i
		}
	}
	return -1
}

// SetQty adjusts one row's quantity. Split rows must stay >= 1.
func (p *SplitPlan) SetQty(id string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("split row quantity must be >= 1, got %d", qty)
	}
	i := p.find(id)
	if i < 0 {
		return ErrRowNotFound
	}
	p.Rows[i].Qty = qty
	return nil
}

// SetDate adjusts one row's arrival date.
func (p *SplitPlan) SetDate(id string, d Date) error {
	if d.IsZero() {
		return fmt.Errorf("split row date must be set")
	}
	i := p.find(id)
	if i < 0 {
		return ErrRowNotFound
	}
	p.Rows[i].Arrival = d
	return nil
}

// Remove drops one row from the plan.
func (p *SplitPlan) Remove(id string) error {
	i := p.find(id)
	if i < 0 {
		return ErrRowNotFound
	}
	p.Rows = append(p.Rows[:i], p.Rows[i+1:]...)
	return nil
}

// Validate checks the plan is committable: at least one row, every row with
// a positive quantity and a set date.
func (p *SplitPlan) Validate() error {
	if len(p.Rows) == 0 {
		return errors.New("split plan has no rows")
	}
	for i, r := range p.Rows {
		if r.Qty < 1 {
			return &RowError{Row: i + 1, Field: ColQty, Msg: "must be >= 1"}
		}
		if r.Arrival.IsZero() {
			return &RowError{Row: i + 1, Field: ColArrival, Msg: "not set"}
		}
	}
	return nil
}
