package merge

import (
	"errors"
	"fmt"
	"io"
)

// Dump reads a raw sector dump sequentially, one sector at a time.
type Dump struct {
	name      string
	r         io.Reader
	buf       []byte
	read      int64
	exhausted bool
}

// NewDump wraps r. name is only used in error messages.
func NewDump(name string, r io.Reader, sectorSize int) *Dump {
	return &Dump{
		name: name,
		r:    r,
		buf:  make([]byte, sectorSize),
	}
}

// Next returns the next sector. It returns nil once the dump is exhausted.
// A short final sector is returned once and exhausts the dump. The returned
// slice is only valid until the following call.
func (d *Dump) Next() ([]byte, error) {
	if d.exhausted {
		return nil, nil
	}
	n, err := io.ReadFull(d.r, d.buf)
	switch {
	case errors.Is(err, io.EOF):
		d.exhausted = true
		return nil, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		d.exhausted = true
	case err != nil:
		return nil, fmt.Errorf("read %s sector %d: %w", d.name, d.read, err)
	}
	d.read++
	return d.buf[:n], nil
}

// Exhausted reports whether the dump has no more sectors.
func (d *Dump) Exhausted() bool { return d.exhausted }

// Sectors returns the number of sectors read so far.
func (d *Dump) Sectors() int64 { return d.read }
