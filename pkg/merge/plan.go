package merge

import (
	"fmt"
	"strings"
)

// PlanResult is a high-level description of how two dumps will be merged,
// computed from their sizes alone.
type PlanResult struct {
	DumpA  string
	DumpB  string
	Output string

	SizeA      int64
	SizeB      int64
	SectorSize int
	SectorsA   int64
	SectorsB   int64

	// Leading A sectors copied before B applies.
	Skipped int64
	// Sectors where A and B are compared.
	Compared int64
	// A sectors copied after B ends.
	TrailingA int64
	// B sectors appended after A ends.
	AppendedB int64
	// B sectors that will never be read.
	IgnoredB int64
}

// Plan inspects both dumps and builds the merge plan. It does not validate
// the sizes; call ValidateMergeSafety for that.
func Plan(sys System, dumpA, dumpB, output string, opts Options) (PlanResult, error) {
	if err := opts.Validate(); err != nil {
		return PlanResult{}, err
	}
	sizeA, err := sys.Size(dumpA)
	if err != nil {
		return PlanResult{}, fmt.Errorf("dump A %s is not accessible: %w", dumpA, err)
	}
	sizeB, err := sys.Size(dumpB)
	if err != nil {
		return PlanResult{}, fmt.Errorf("dump B %s is not accessible: %w", dumpB, err)
	}
	p := PlanSizes(sizeA, sizeB, opts)
	p.DumpA, p.DumpB, p.Output = dumpA, dumpB, output
	return p, nil
}

// PlanSizes is the underlying implementation used by Plan.
func PlanSizes(sizeA, sizeB int64, opts Options) PlanResult {
	ss := int64(opts.SectorSize)
	p := PlanResult{
		SizeA:      sizeA,
		SizeB:      sizeB,
		SectorSize: opts.SectorSize,
		SectorsA:   (sizeA + ss - 1) / ss,
		SectorsB:   (sizeB + ss - 1) / ss,
	}

	p.Skipped = min(opts.AlignOffset, p.SectorsA)
	remainingA := p.SectorsA - p.Skipped
	p.Compared = min(remainingA, p.SectorsB)
	p.TrailingA = remainingA - p.Compared

	restB := p.SectorsB - p.Compared
	if opts.AllowAppend && p.SectorsA >= opts.AlignOffset {
		p.AppendedB = restB
	} else {
		p.IgnoredB = restB
	}
	return p
}

// Total returns the number of sectors the merged output will hold.
func (p PlanResult) Total() int64 {
	return p.SectorsA + p.AppendedB
}

// String renders a human-readable description of the plan.
func (p PlanResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Merge plan: %s + %s -> %s\n", p.DumpA, p.DumpB, p.Output)
	fmt.Fprintf(&b, "  sector size: %d bytes\n", p.SectorSize)
	fmt.Fprintf(&b, "  dump A: %d bytes, %d sectors\n", p.SizeA, p.SectorsA)
	fmt.Fprintf(&b, "  dump B: %d bytes, %d sectors\n", p.SizeB, p.SectorsB)
	if p.Skipped > 0 {
		fmt.Fprintf(&b, "  - sectors 0-%d: copy from dump A\n", p.Skipped-1)
	}
	if p.Compared > 0 {
		fmt.Fprintf(&b, "  - sectors %d-%d: compare dump A with dump B\n", p.Skipped, p.Skipped+p.Compared-1)
	}
	if p.TrailingA > 0 {
		start := p.Skipped + p.Compared
		fmt.Fprintf(&b, "  - sectors %d-%d: copy from dump A\n", start, start+p.TrailingA-1)
	}
	if p.AppendedB > 0 {
		fmt.Fprintf(&b, "  - sectors %d-%d: append from dump B\n", p.SectorsA, p.SectorsA+p.AppendedB-1)
	}
	if p.IgnoredB > 0 {
		fmt.Fprintf(&b, "  - %d trailing sectors of dump B are not used\n", p.IgnoredB)
	}
	fmt.Fprintf(&b, "  output: %d sectors\n", p.Total())
	return b.String()
}
