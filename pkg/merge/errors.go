package merge

import (
	"errors"
	"fmt"
)

// Errors that abort a merge run. None of them are retried; callers should
// treat the output file as unusable whenever one is returned.
var (
	// ErrOutputExists is returned when the output path already holds data.
	ErrOutputExists = errors.New("output file exists")

	// ErrSizeMismatch is returned when two dumps merged without an offset and
	// without append mode differ in size.
	ErrSizeMismatch = errors.New("dumps are not the same size")

	// ErrSizeTooSmall is returned when dump B, shifted by the alignment
	// offset, does not fit into dump A.
	ErrSizeTooSmall = errors.New("dump B does not fit into dump A")

	// ErrUnresolvableConflict is returned when both dumps hold readable but
	// different data for the same sector.
	ErrUnresolvableConflict = errors.New("sectors differ, no resolve strategy")

	// ErrInvalidOptions is returned for a sector size, marker or offset the
	// engine cannot work with.
	ErrInvalidOptions = errors.New("invalid merge options")
)

// ConflictError describes the sector at which a merge was aborted because the
// two dumps disagree.
type ConflictError struct {
	Index  int64
	Offset int64
	A      []byte
	B      []byte
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("diff sector %d offset: %#x: %v", e.Index, e.Offset, ErrUnresolvableConflict)
}

func (e *ConflictError) Unwrap() error { return ErrUnresolvableConflict }
