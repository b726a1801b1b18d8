package metrics

import (
	"context"

	"github.com/zoepiqian/bufferplan/core/events"
	"github.com/zoepiqian/bufferplan/infra/logger"
	"github.com/zoepiqian/bufferplan/internal/eventbus"
)

// Recorder consumes session events from the bus and forwards them to a
// sink. It keeps observability off the request path.
type Recorder struct {
	bus  eventbus.EventBus
	sink Sink
	log  logger.Logger
}

// NewRecorder wires the bus to the sink.
func NewRecorder(bus eventbus.EventBus, sink Sink, log logger.Logger) *Recorder {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Recorder{bus: bus, sink: sink, log: log}
}

// Run blocks consuming events until the context is canceled or the bus is
// closed. Sink errors are logged, never propagated.
func (r *Recorder) Run(ctx context.Context) {
	ch := r.bus.Subscribe()
	defer r.bus.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			r.record(e)
		}
	}
}

func (r *Recorder) record(e eventbus.Event) {
	switch ev := e.(type) {
	case events.CommitEvent:
		if err := r.sink.RecordCommit(ev); err != nil {
			r.log.Errorf("record commit: %v", err)
		}
	case events.UploadEvent:
		if err := r.sink.RecordUpload(ev); err != nil {
			r.log.Errorf("record upload: %v", err)
		}
	}
}
