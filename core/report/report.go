// Package report aggregates every planner's rows into the review table,
// group totals for charting and summary statistics.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/zoepiqian/bufferplan/core/order"
	"github.com/zoepiqian/bufferplan/core/session"
)

// GroupBy selects the grouping key for totals.
type GroupBy string

const (
	ByClient  GroupBy = "client"
	ByPlanner GroupBy = "planner"
)

// GroupTotal is the summed quantity for one key, one bar in the chart.
type GroupTotal struct {
	Key string `json:"key"`
	Qty int    `json:"qty"`
}

// Stats summarizes the quantity distribution of the aggregated rows.
type Stats struct {
	Rows   int     `json:"rows"`
	Total  int     `json:"total_qty"`
	Mean   float64 `json:"mean_qty"`
	Median float64 `json:"median_qty"`
	StdDev float64 `json:"stddev_qty"`
	Min    int     `json:"min_qty"`
	Max    int     `json:"max_qty"`
}

// Aggregate concatenates every planner's uploaded and submitted tables in
// configuration order and stamps each row with its planner.
func Aggregate(store session.Store) ([]order.Order, error) {
	rows := []order.Order{}
	for _, p := range store.Planners() {
		up, err := store.Upload(p)
		if err != nil {
			return nil, err
		}
		sub, err := store.Submitted(p)
		if err != nil {
			return nil, err
		}
		for _, r := range append(up, sub...) {
			r.Planner = p
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// GroupTotals sums quantities per client or per planner, sorted by key.
func GroupTotals(rows []order.Order, by GroupBy) ([]GroupTotal, error) {
	key := func(r order.Order) string { return r.Client }
	switch by {
	case ByClient:
	case ByPlanner:
		key = func(r order.Order) string { return r.Planner }
	default:
		return nil, fmt.Errorf("unknown grouping %q", by)
	}

	sums := map[string]int{}
	for _, r := range rows {
		sums[key(r)] += r.Qty
	}
	out := make([]GroupTotal, 0, len(sums))
	for k, q := range sums {
		out = append(out, GroupTotal{Key: k, Qty: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Describe computes summary statistics over the row quantities. An empty
// input yields the zero Stats.
func Describe(rows []order.Order) Stats {
	if len(rows) == 0 {
		return Stats{}
	}
	qty := make([]float64, len(rows))
	s := Stats{Rows: len(rows), Min: rows[0].Qty, Max: rows[0].Qty}
	for i, r := range rows {
		qty[i] = float64(r.Qty)
		s.Total += r.Qty
		if r.Qty < s.Min {
			s.Min = r.Qty
		}
		if r.Qty > s.Max {
			s.Max = r.Qty
		}
	}
	sort.Float64s(qty)
	s.Mean = stat.Mean(qty, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, qty, nil)
	if len(qty) > 1 {
		s.StdDev = stat.StdDev(qty, nil)
	}
	return s
}
