// Package events defines the session events emitted on the event bus.
//
// Available event types:
//   - CommitEvent: rows landed in a planner's submitted table
//   - UploadEvent: a planner's uploaded table was replaced
package events

import (
	"time"

	"github.com/zoepiqian/bufferplan/core/order"
)

// CommitEvent is published when rows are appended to a submitted table,
// either from a manual batch or a confirmed split plan.
type CommitEvent struct {
	Planner string
	Source  order.Source
	Rows    int
	Qty     int
	Time    time.Time
}

// UploadEvent is published when an upload replaces a planner's file table.
type UploadEvent struct {
	Planner string
	Rows    int
	Time    time.Time
}
