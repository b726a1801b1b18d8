// Package metrics records session activity (uploads, batch submits, split
// confirmations) to the configured observability sinks.
package metrics

import (
	"github.com/zoepiqian/bufferplan/core/events"
)

// Sink records session events for observability purposes.
type Sink interface {
	RecordCommit(ev events.CommitEvent) error
	RecordUpload(ev events.UploadEvent) error
}

// Config selects and parameterizes the metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordCommit(events.CommitEvent) error { return nil }
func (NopSink) RecordUpload(events.UploadEvent) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCommit forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordCommit(ev events.CommitEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCommit(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordUpload forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordUpload(ev events.UploadEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordUpload(ev); err != nil {
			return err
		}
	}
	return nil
}
