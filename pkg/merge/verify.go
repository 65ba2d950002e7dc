package merge

import (
	"bufio"
	"fmt"
	"os"
)

// Verification describes what was found when re-reading a merged image.
type Verification struct {
	Sectors int64
	Bytes   int64
	// Marked counts sectors still unreadable in the merged image.
	Marked int64
}

// VerifyOutput re-reads the merged image at path and checks it against the
// Result of the run that produced it: the byte length must match, and the
// number of sectors still carrying the marker must equal the number the
// engine emitted.
func VerifyOutput(path string, opts Options, res Result) (Verification, error) {
	if err := opts.Validate(); err != nil {
		return Verification{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Verification{}, fmt.Errorf("VerifyOutput: cannot open %s: %w", path, err)
	}
	defer f.Close()
	adviseSequential(f)

	var v Verification
	d := NewDump(path, bufio.NewReaderSize(f, ioBufferSize), opts.SectorSize)
	for {
		s, err := d.Next()
		if err != nil {
			return v, fmt.Errorf("VerifyOutput: %w", err)
		}
		if s == nil {
			break
		}
		v.Sectors++
		v.Bytes += int64(len(s))
		if IsMarked(s, opts.Marker) {
			v.Marked++
		}
	}

	if v.Bytes != res.Bytes {
		return v, fmt.Errorf("VerifyOutput: %s holds %d bytes, merge wrote %d", path, v.Bytes, res.Bytes)
	}
	if v.Marked != res.Marked {
		return v, fmt.Errorf("VerifyOutput: %s has %d unreadable sectors, merge emitted %d", path, v.Marked, res.Marked)
	}
	return v, nil
}
