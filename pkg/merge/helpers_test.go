package merge

import (
	"bytes"
)

const testSectorSize = 64

// sector returns a testSectorSize block starting with content, zero padded.
func sector(content string) []byte {
	s := make([]byte, testSectorSize)
	copy(s, content)
	return s
}

// bad returns a marked sector.
func bad() []byte {
	return sector(string(DefaultMarker) + " some garbage")
}

func join(sectors ...[]byte) []byte {
	return bytes.Join(sectors, nil)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.SectorSize = testSectorSize
	opts.ProgressInterval = 0
	return opts
}

type recordingReporter struct {
	events   []Event
	progress [][2]int64
	summary  *Result
}

func (r *recordingReporter) Event(ev Event) { r.events = append(r.events, ev) }

func (r *recordingReporter) Progress(sectors, bytes int64) {
	r.progress = append(r.progress, [2]int64{sectors, bytes})
}

func (r *recordingReporter) Summary(res Result) { r.summary = &res }

func (r *recordingReporter) kinds() []EventKind {
	var out []EventKind
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (r *recordingReporter) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// runMerge merges in memory and returns the output.
func runMerge(a, b []byte, opts Options, rep Reporter) ([]byte, Result, error) {
	var out bytes.Buffer
	res, err := Merge(bytes.NewReader(a), bytes.NewReader(b), &out, opts, rep)
	return out.Bytes(), res, err
}
