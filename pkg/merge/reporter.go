package merge

import (
	"fmt"

	units "github.com/docker/go-units"
)

// EventKind identifies a per-sector or per-run notice emitted by the engine.
type EventKind int

const (
	EventNone EventKind = iota
	// EventAlignment announces where dump B starts contributing.
	EventAlignment
	EventADone
	EventBDone
	// EventAlreadyBadInA is a marked A sector copied before B applies.
	EventAlreadyBadInA
	// EventBadOnlyInB is a marked B sector where A is readable.
	EventBadOnlyInB
	// EventBadBeyondB is a marked A sector at the index where B ran out.
	EventBadBeyondB
	// EventTailBadInB is a marked B sector appended after A ran out.
	EventTailBadInB
	EventFixed
	EventBothBad
	EventConflict
)

func (k EventKind) String() string {
	switch k {
	case EventAlignment:
		return "alignment"
	case EventADone:
		return "a-done"
	case EventBDone:
		return "b-done"
	case EventAlreadyBadInA:
		return "already-bad-in-a"
	case EventBadOnlyInB:
		return "bad-only-in-b"
	case EventBadBeyondB:
		return "bad-beyond-b"
	case EventTailBadInB:
		return "tail-bad-in-b"
	case EventFixed:
		return "fixed"
	case EventBothBad:
		return "both-bad"
	case EventConflict:
		return "conflict"
	}
	return "none"
}

// Informational reports whether quiet mode may suppress the event.
func (k EventKind) Informational() bool {
	switch k {
	case EventAlreadyBadInA, EventBadOnlyInB, EventBadBeyondB, EventTailBadInB:
		return true
	}
	return false
}

// Event is a notice about one sector index.
type Event struct {
	Kind   EventKind
	Index  int64
	Offset int64
}

// Reporter receives the engine's progress and classification events. The
// engine never depends on what a Reporter does with them.
type Reporter interface {
	Event(ev Event)
	Progress(sectors, bytes int64)
	Summary(res Result)
}

// LogReporter writes events through the package logger.
type LogReporter struct{}

// NewLogReporter returns a Reporter that logs through the package logger.
func NewLogReporter() *LogReporter { return &LogReporter{} }

func (LogReporter) Event(ev Event) {
	where := fmt.Sprintf("sector %8d offset: %#10x", ev.Index, ev.Offset)
	switch ev.Kind {
	case EventAlignment:
		logSink.Infof("skipping to offset %#x, dump B starts at sector %d", ev.Offset, ev.Index)
	case EventADone:
		logSink.Infof("done reading dump A at %s", where)
	case EventBDone:
		logSink.Infof("done reading dump B at %s", where)
	case EventAlreadyBadInA:
		logSink.Infof("bad %s - already in dump A", where)
	case EventBadOnlyInB:
		logSink.Infof("dump B bad %s - using dump A instead", where)
	case EventBadBeyondB:
		logSink.Infof("bad %s - dump B already ended", where)
	case EventTailBadInB:
		logSink.Infof("dump B bad %s - appended as is", where)
	case EventFixed:
		logSink.Infof("bad %s - using dump B instead", where)
	case EventBothBad:
		logSink.Warnf("bad %s - also bad in dump B", where)
	case EventConflict:
		logSink.Errorf("diff %s - no resolve strategy", where)
	}
}

func (LogReporter) Progress(sectors, bytes int64) {
	logSink.Infof("%d sectors %s processed", sectors, units.BytesSize(float64(bytes)))
}

func (LogReporter) Summary(res Result) {
	logSink.Infof("merged %d sectors (%s): dump A bad %d, dump B bad %d, both bad %d, fixed %d",
		res.Sectors, units.BytesSize(float64(res.Bytes)),
		res.Tally.ABad, res.Tally.BBad, res.Tally.BothBad, res.Tally.Fixed)
}
