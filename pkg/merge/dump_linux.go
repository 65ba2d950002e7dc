//go:build linux

package merge

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the dump is read front to back once.
// Pipes and some devices reject the hint; errors are ignored.
func adviseSequential(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
