package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoepiqian/bufferplan/core/events"
	"github.com/zoepiqian/bufferplan/core/order"
)

func TestPromSinkRecordCommit(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	require.NoError(t, err)

	ev := events.CommitEvent{
		Planner: "Becky Chen",
		Source:  order.SourceManual,
		Rows:    3,
		Qty:     120,
		Time:    time.Now(),
	}
	require.NoError(t, sink.RecordCommit(ev))
	require.NoError(t, sink.RecordCommit(ev))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.commits.WithLabelValues("Becky Chen", "manual")))
	assert.Equal(t, 6.0, testutil.ToFloat64(sink.rows.WithLabelValues("Becky Chen", "manual")))
	assert.Equal(t, 240.0, testutil.ToFloat64(sink.qty.WithLabelValues("Becky Chen", "manual")))
}

func TestPromSinkRecordUpload(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordUpload(events.UploadEvent{Planner: "Yerik Yao", Rows: 10}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.uploads.WithLabelValues("Yerik Yao")))
}

func TestPromSinkReregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSink(reg)
	require.NoError(t, err)
	// Second sink on the same registry reuses the collectors.
	sink, err := NewPromSink(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordUpload(events.UploadEvent{Planner: "p"}))
}

func TestMultiSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSink(reg)
	require.NoError(t, err)
	multi := NewMultiSink(NopSink{}, prom)

	require.NoError(t, multi.RecordCommit(events.CommitEvent{Planner: "p", Source: order.SourceSplit, Rows: 1, Qty: 5}))
	require.NoError(t, multi.RecordUpload(events.UploadEvent{Planner: "p", Rows: 1}))
	assert.Equal(t, 1.0, testutil.ToFloat64(prom.commits.WithLabelValues("p", "split")))
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, ":9090", c.PrometheusAddr)
}
