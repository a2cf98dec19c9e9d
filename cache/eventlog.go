package cache

import (
	"fmt"
	"io"
)

// Cache event markers written to the event log, one letter per event.
const (
	EventHit       = "h"
	EventAdmit     = "a"
	EventEvict     = "e"
	EventOversized = "L"
)

// EventLog records per-object cache events as single lines of the form
// "<event> <currentSize> <id> <size>". The second field is the resident
// byte total after an admit and before an evict; hit lines carry 0 there
// and oversized rejects carry the capacity. It is purely informational; nothing
// in the policies reads it back. A nil EventLog discards everything, so
// caches can log unconditionally.
type EventLog struct {
	w io.Writer
}

// NewEventLog returns an event log writing to w.
func NewEventLog(w io.Writer) *EventLog {
	return &EventLog{w: w}
}

func (l *EventLog) record(event string, currentSize, id, size uint64) {
	if l == nil || l.w == nil {
		return
	}
	fmt.Fprintf(l.w, "%s %d %d %d\n", event, currentSize, id, size)
}
