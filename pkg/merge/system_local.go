package merge

import (
	"fmt"
	"io"
	"io/fs"
	"os"
)

// System abstracts how we discover information about dumps and the output
// path. Tests provide a fake implementation; the real one asks the OS.
type System interface {
	Stat(path string) (fs.FileInfo, error)
	// Size returns the number of readable bytes at path. For block devices
	// this is the device size rather than the inode size.
	Size(path string) (int64, error)
}

// DefaultSystem is used by the CLI. It can be replaced in tests if needed.
var DefaultSystem System = NewLocalSystem()

// localSystem is a System backed by the local filesystem.
type localSystem struct{}

// NewLocalSystem creates a System backed by the local OS.
func NewLocalSystem() System {
	return localSystem{}
}

func (localSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (localSystem) Size(path string) (int64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if st.Mode().IsRegular() {
		return st.Size(), nil
	}
	if st.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}

	// Devices report a zero inode size; seek to the end instead.
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("cannot determine size of %s: %w", path, err)
	}
	return size, nil
}
