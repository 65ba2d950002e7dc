package merge

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	shellquote "github.com/kballard/go-shellquote"
)

// Phases written to the state log.
const (
	PhasePlan         = "PLAN"
	PhaseMergeSuccess = "MERGE_SUCCESS"
	PhaseMergeFailed  = "MERGE_FAILED"
)

// RunRecord holds what the state log records about one invocation.
type RunRecord struct {
	ID      uuid.UUID
	Args    []string
	DumpA   string
	DumpB   string
	Output  string
	Options Options
	Result  Result
}

// NewRunRecord returns a record with a fresh run id.
func NewRunRecord(args []string, dumpA, dumpB, output string, opts Options) RunRecord {
	return RunRecord{
		ID:      uuid.New(),
		Args:    args,
		DumpA:   dumpA,
		DumpB:   dumpB,
		Output:  output,
		Options: opts,
	}
}

// AppendStateLog appends a human-readable entry for rec to the given path.
// phase is one of PhasePlan, PhaseMergeSuccess or PhaseMergeFailed; err is
// recorded for failed merges.
func AppendStateLog(path, phase string, rec RunRecord, err error) error {
	f, openErr := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		return openErr
	}
	defer f.Close()

	info, statErr := f.Stat()
	if statErr == nil && info.Size() == 0 {
		header := "# sector merge state log - each section describes one run. Newest entries are at the bottom.\n\n"
		if _, err := f.WriteString(header); err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s %s ===\n", phase, now)
	fmt.Fprintf(&b, "run: %s\n", rec.ID)
	if len(rec.Args) > 0 {
		fmt.Fprintf(&b, "command: %s\n", shellquote.Join(rec.Args...))
	}
	fmt.Fprintf(&b, "dump_a: %s\n", rec.DumpA)
	fmt.Fprintf(&b, "dump_b: %s\n", rec.DumpB)
	fmt.Fprintf(&b, "output: %s\n", rec.Output)
	fmt.Fprintf(&b, "sector_size: %d\n", rec.Options.SectorSize)
	fmt.Fprintf(&b, "marker: %q\n", rec.Options.Marker)
	fmt.Fprintf(&b, "skip_sectors: %d\n", rec.Options.AlignOffset)
	fmt.Fprintf(&b, "append: %v\n", rec.Options.AllowAppend)

	if phase != PhasePlan {
		fmt.Fprintf(&b, "sectors: %d\n", rec.Result.Sectors)
		fmt.Fprintf(&b, "bytes: %d\n", rec.Result.Bytes)
		fmt.Fprintf(&b, "a_bad: %d\n", rec.Result.Tally.ABad)
		fmt.Fprintf(&b, "b_bad: %d\n", rec.Result.Tally.BBad)
		fmt.Fprintf(&b, "both_bad: %d\n", rec.Result.Tally.BothBad)
		fmt.Fprintf(&b, "fixed: %d\n", rec.Result.Tally.Fixed)
	}

	switch phase {
	case PhaseMergeSuccess:
		fmt.Fprintf(&b, "result: SUCCESS\n\n")
	case PhaseMergeFailed:
		fmt.Fprintf(&b, "result: FAILED: %v\n\n", err)
	default:
		fmt.Fprintf(&b, "result: PENDING MERGE\n\n")
	}

	_, writeErr := f.WriteString(b.String())
	return writeErr
}
