package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zoepiqian/bufferplan/core/events"
)

// PromSink records session events in Prometheus metrics.
type PromSink struct {
	commits  *prometheus.CounterVec
	rows     *prometheus.CounterVec
	qty      *prometheus.CounterVec
	uploads  *prometheus.CounterVec
	rowsHist *prometheus.HistogramVec
}

// NewPromSink registers the session metrics on the provided registerer. If
// reg is nil, the default registerer is used. Collectors already registered
// are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bufferplan_commits_total",
			Help: "Total number of committed batches and split plans",
		}, []string{"planner", "source"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bufferplan_rows_committed_total",
			Help: "Total number of order rows committed",
		}, []string{"planner", "source"}),
		qty: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bufferplan_qty_committed_total",
			Help: "Total quantity of parts committed",
		}, []string{"planner", "source"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bufferplan_uploads_total",
			Help: "Total number of file uploads accepted",
		}, []string{"planner"}),
		rowsHist: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bufferplan_rows_per_commit",
			Help:    "Distribution of rows per committed batch or split plan",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}, []string{"source"}),
	}

	var err error
	if s.commits, err = register(reg, s.commits); err != nil {
		return nil, err
	}
	if s.rows, err = register(reg, s.rows); err != nil {
		return nil, err
	}
	if s.qty, err = register(reg, s.qty); err != nil {
		return nil, err
	}
	if s.uploads, err = register(reg, s.uploads); err != nil {
		return nil, err
	}
	if s.rowsHist, err = register(reg, s.rowsHist); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the existing collector when it is
// already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(T), nil
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// RecordCommit increments the commit counters.
func (s *PromSink) RecordCommit(ev events.CommitEvent) error {
	src := string(ev.Source)
	s.commits.WithLabelValues(ev.Planner, src).Inc()
	s.rows.WithLabelValues(ev.Planner, src).Add(float64(ev.Rows))
	s.qty.WithLabelValues(ev.Planner, src).Add(float64(ev.Qty))
	s.rowsHist.WithLabelValues(src).Observe(float64(ev.Rows))
	return nil
}

// RecordUpload increments the upload counter.
func (s *PromSink) RecordUpload(ev events.UploadEvent) error {
	s.uploads.WithLabelValues(ev.Planner).Inc()
	return nil
}
