package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Result summarizes a merge run.
type Result struct {
	Tally   Tally
	Sectors int64
	Bytes   int64
	// Marked counts emitted sectors that still carry the marker.
	Marked   int64
	Outcomes [numOutcomes]int64
}

// Count returns how many sectors were emitted with outcome o.
func (r Result) Count(o Outcome) int64 {
	if o < 0 || o >= numOutcomes {
		return 0
	}
	return r.Outcomes[o]
}

// String renders the final sector statistics.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d sectors processed (%d bytes)\n", r.Sectors, r.Bytes)
	fmt.Fprintf(&b, "sector stats:\n")
	fmt.Fprintf(&b, "  dump A bad: %d\n", r.Tally.ABad)
	fmt.Fprintf(&b, "  dump B bad: %d\n", r.Tally.BBad)
	fmt.Fprintf(&b, "  both bad  : %d\n", r.Tally.BothBad)
	fmt.Fprintf(&b, "  fixed     : %d\n", r.Tally.Fixed)
	return b.String()
}

// Engine merges two dumps into one output in a single sequential pass.
//
// The engine walks both dumps in lock-step. Its exhaustion flags and the
// current index decide the State of every sector index; Classify then
// decides what is written. An Engine is not safe for concurrent use and can
// only be run once.
type Engine struct {
	opts Options
	a    *Dump
	b    *Dump
	out  io.Writer
	rep  Reporter

	index  int64
	aDone  bool
	bDone  bool
	result Result
}

// New creates an engine reading a and b and appending to out. A nil reporter
// discards all events.
func New(a, b io.Reader, out io.Writer, opts Options, rep Reporter) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rep == nil {
		rep = NewNoopReporter()
	}
	return &Engine{
		opts: opts,
		a:    NewDump("dump A", a, opts.SectorSize),
		b:    NewDump("dump B", b, opts.SectorSize),
		out:  out,
		rep:  rep,
	}, nil
}

// Run merges until both dumps are exhausted, or until A is exhausted when
// appending is not allowed. On error the returned Result covers the sectors
// written before the failure.
func (e *Engine) Run() (Result, error) {
	if e.opts.AlignOffset > 0 {
		e.rep.Event(Event{Kind: EventAlignment, Index: e.opts.AlignOffset, Offset: e.opts.byteOffset(e.opts.AlignOffset)})
	}
	for {
		done, err := e.step()
		if err != nil {
			return e.result, err
		}
		if done {
			break
		}
	}
	if e.opts.ProgressInterval > 0 && e.result.Sectors%e.opts.ProgressInterval != 0 {
		e.rep.Progress(e.result.Sectors, e.result.Bytes)
	}
	e.rep.Summary(e.result)
	return e.result, nil
}

// step processes one sector index. It reports true once nothing is left to
// emit.
func (e *Engine) step() (bool, error) {
	a, err := e.readA()
	if err != nil {
		return false, err
	}

	state := e.state()
	var b []byte
	switch state {
	case StateBothExhausted:
		return true, nil
	case StateAExhausted:
		if !e.opts.AllowAppend {
			return true, nil
		}
		if e.index < e.opts.AlignOffset {
			return false, fmt.Errorf("%w: dump A ended at sector %d before alignment offset %d",
				ErrSizeTooSmall, e.index, e.opts.AlignOffset)
		}
		if b, err = e.readB(); err != nil {
			return false, err
		}
		if b == nil {
			return true, nil
		}
	case StateBothActive:
		if b, err = e.readB(); err != nil {
			return false, err
		}
	}

	d, err := Classify(state, a, b, e.opts.Marker)
	if err != nil {
		e.rep.Event(e.event(EventConflict))
		return false, &ConflictError{
			Index:  e.index,
			Offset: e.opts.byteOffset(e.index),
			A:      bytes.Clone(a),
			B:      bytes.Clone(b),
		}
	}
	if err := e.emit(d); err != nil {
		return false, err
	}
	return false, nil
}

// state derives the State of the current index from the exhaustion flags.
func (e *Engine) state() State {
	switch {
	case e.aDone && e.bDone:
		return StateBothExhausted
	case e.aDone:
		return StateAExhausted
	case e.index < e.opts.AlignOffset:
		return StatePreAlignment
	case e.bDone:
		return StateBExhausted
	}
	return StateBothActive
}

func (e *Engine) readA() ([]byte, error) {
	if e.aDone {
		return nil, nil
	}
	a, err := e.a.Next()
	if err != nil {
		return nil, err
	}
	if a == nil {
		e.aDone = true
		e.rep.Event(e.event(EventADone))
	}
	return a, nil
}

func (e *Engine) readB() ([]byte, error) {
	if e.bDone {
		return nil, nil
	}
	b, err := e.b.Next()
	if err != nil {
		return nil, err
	}
	if b == nil {
		e.bDone = true
		e.rep.Event(e.event(EventBDone))
	}
	return b, nil
}

func (e *Engine) emit(d Decision) error {
	if d.Outcome == OutcomeNone {
		return nil
	}
	n, err := e.out.Write(d.Data)
	if err == nil && n != len(d.Data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("write sector %d: %w", e.index, err)
	}

	if d.Event != EventNone && !(e.opts.Quiet && d.Event.Informational()) {
		e.rep.Event(e.event(d.Event))
	}

	e.result.Tally.add(d.Delta)
	e.result.Outcomes[d.Outcome]++
	e.result.Sectors++
	e.result.Bytes += int64(len(d.Data))
	if IsMarked(d.Data, e.opts.Marker) {
		e.result.Marked++
	}
	e.index++

	if e.opts.ProgressInterval > 0 && e.result.Sectors%e.opts.ProgressInterval == 0 {
		e.rep.Progress(e.result.Sectors, e.result.Bytes)
	}
	return nil
}

func (e *Engine) event(kind EventKind) Event {
	return Event{Kind: kind, Index: e.index, Offset: e.opts.byteOffset(e.index)}
}

// Merge runs a single engine over a and b. It is a shorthand for New + Run.
func Merge(a, b io.Reader, out io.Writer, opts Options, rep Reporter) (Result, error) {
	e, err := New(a, b, out, opts, rep)
	if err != nil {
		return Result{}, err
	}
	return e.Run()
}

// IsConflict returns the ConflictError wrapped in err, if any.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
