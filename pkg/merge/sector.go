package merge

import (
	"bytes"
	"fmt"
	"math"
)

// DefaultSectorSize is the sector size of the dumps unless configured otherwise.
const DefaultSectorSize = 512

// MaxSectorSize is the largest sector size the engine accepts.
const MaxSectorSize = 1 << 20

// DefaultProgressInterval is the number of sectors between two progress
// reports: one MiB of 512 byte sectors.
const DefaultProgressInterval = 2048

// DefaultMarker is what imaging tools write at the start of a sector they
// could not read.
var DefaultMarker = []byte("UNREADABLESECTOR")

// IsMarked reports whether the sector data starts with marker.
func IsMarked(data, marker []byte) bool {
	return len(marker) > 0 && bytes.HasPrefix(data, marker)
}

// Options configures a merge run.
type Options struct {
	SectorSize int
	Marker     []byte
	// AlignOffset is the number of leading sectors of dump A that are copied
	// verbatim; dump B's first sector lines up with A's sector AlignOffset.
	AlignOffset int64
	// AllowAppend lets dump B extend past the end of dump A. The remaining
	// sectors of B are appended to the output.
	AllowAppend bool
	// Quiet suppresses informational sector events. Fixes, conflicts and
	// sectors bad in both dumps are always reported.
	Quiet            bool
	ProgressInterval int64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SectorSize:       DefaultSectorSize,
		Marker:           DefaultMarker,
		ProgressInterval: DefaultProgressInterval,
	}
}

// Validate checks that the options describe a merge the engine can run.
func (o Options) Validate() error {
	switch {
	case o.SectorSize <= 0:
		return fmt.Errorf("%w: sector size must be positive, got %d", ErrInvalidOptions, o.SectorSize)
	case o.SectorSize > MaxSectorSize:
		return fmt.Errorf("%w: sector size %d exceeds %d bytes", ErrInvalidOptions, o.SectorSize, MaxSectorSize)
	case len(o.Marker) == 0:
		return fmt.Errorf("%w: marker must not be empty", ErrInvalidOptions)
	case len(o.Marker) > o.SectorSize:
		return fmt.Errorf("%w: marker (%d bytes) is longer than a sector (%d bytes)", ErrInvalidOptions, len(o.Marker), o.SectorSize)
	case o.AlignOffset < 0:
		return fmt.Errorf("%w: alignment offset must not be negative, got %d", ErrInvalidOptions, o.AlignOffset)
	case o.AlignOffset > math.MaxInt64/int64(o.SectorSize):
		return fmt.Errorf("%w: alignment offset %d sectors is beyond any addressable byte offset", ErrInvalidOptions, o.AlignOffset)
	case o.ProgressInterval < 0:
		return fmt.Errorf("%w: progress interval must not be negative, got %d", ErrInvalidOptions, o.ProgressInterval)
	}
	return nil
}

// byteOffset returns the byte position of sector index in a dump.
func (o Options) byteOffset(index int64) int64 {
	return index * int64(o.SectorSize)
}
