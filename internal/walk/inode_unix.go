//go:build !windows

package walk

import (
	"io/fs"
	"syscall"
)

func platformInode(info fs.FileInfo) (uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return stat.Ino, true
}
