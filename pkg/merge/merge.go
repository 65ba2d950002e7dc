package merge

import (
	"bufio"
	"fmt"
	"os"
)

const ioBufferSize = 1 << 20

// MergeFiles validates the inputs, merges dumpA and dumpB into output and
// syncs the result. All three files are closed on every return path. When an
// error is returned the output may hold a partial merge and must not be used.
func MergeFiles(sys System, dumpA, dumpB, output string, opts Options, rep Reporter) (res Result, err error) {
	if err := ValidateMergeSafety(sys, dumpA, dumpB, output, opts); err != nil {
		return Result{}, err
	}

	fa, err := openDump(dumpA)
	if err != nil {
		return Result{}, err
	}
	defer fa.Close()

	fb, err := openDump(dumpB)
	if err != nil {
		return Result{}, err
	}
	defer fb.Close()

	fo, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return Result{}, fmt.Errorf("cannot create output %s: %w", output, err)
	}
	defer func() {
		if cerr := fo.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output %s: %w", output, cerr)
		}
	}()

	w := bufio.NewWriterSize(fo, ioBufferSize)
	res, err = Merge(
		bufio.NewReaderSize(fa, ioBufferSize),
		bufio.NewReaderSize(fb, ioBufferSize),
		w, opts, rep)

	// Flush even after a failure so the output shows how far the merge got.
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("flush output %s: %w", output, ferr)
	}
	if err != nil {
		return res, err
	}
	if err := fo.Sync(); err != nil {
		return res, fmt.Errorf("sync output %s: %w", output, err)
	}
	return res, nil
}

func openDump(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open dump %s: %w", path, err)
	}
	adviseSequential(f)
	return f, nil
}
