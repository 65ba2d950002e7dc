package merge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ValidateMergeSafety performs the checks that must pass before any sector
// is read:
//   - the options must be usable
//   - the output must not exist, or be an empty regular file that is not one
//     of the dumps
//   - the dump sizes must fit together (see ValidateSizes)
func ValidateMergeSafety(sys System, dumpA, dumpB, output string, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	if err := validateOutput(sys, dumpA, dumpB, output); err != nil {
		return err
	}

	sizeA, err := sys.Size(dumpA)
	if err != nil {
		return fmt.Errorf("dump A %s is not accessible: %w", dumpA, err)
	}
	sizeB, err := sys.Size(dumpB)
	if err != nil {
		return fmt.Errorf("dump B %s is not accessible: %w", dumpB, err)
	}
	return ValidateSizes(sizeA, sizeB, opts)
}

func validateOutput(sys System, dumpA, dumpB, output string) error {
	if output == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	st, err := sys.Stat(output)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot inspect output %s: %w", output, err)
	}
	if !st.Mode().IsRegular() || st.Size() > 0 {
		return fmt.Errorf("%w: %s (%d bytes); pick a new path so nothing gets overwritten", ErrOutputExists, output, st.Size())
	}
	for _, in := range []string{dumpA, dumpB} {
		if inSt, err := sys.Stat(in); err == nil && os.SameFile(st, inSt) {
			return fmt.Errorf("%w: %s is the same file as input %s", ErrOutputExists, output, in)
		}
	}
	return nil
}

// ValidateSizes checks the dump sizes against the alignment and append
// settings:
//   - without offset and append, both dumps must be the same size
//   - with an offset but no append, B shifted by the offset must fit into A
//   - with append, A must at least reach the offset, so B has a place to start
func ValidateSizes(sizeA, sizeB int64, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	skip := opts.byteOffset(opts.AlignOffset)
	switch {
	case opts.AllowAppend:
		if sizeA < skip {
			return fmt.Errorf("%w: dump A (%d bytes) ends before the alignment offset %#x", ErrSizeTooSmall, sizeA, skip)
		}
	case opts.AlignOffset == 0:
		if sizeA != sizeB {
			return fmt.Errorf("%w: dump A is %d bytes, dump B is %d bytes; rerun with --enable-append if B extends A", ErrSizeMismatch, sizeA, sizeB)
		}
	default:
		if sizeA < sizeB+skip {
			return fmt.Errorf("%w: dump A (%d bytes) < dump B (%d bytes) + offset %#x", ErrSizeTooSmall, sizeA, sizeB, skip)
		}
	}
	return nil
}
