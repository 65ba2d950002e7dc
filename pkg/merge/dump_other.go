//go:build !linux

package merge

import "os"

func adviseSequential(*os.File) {}
