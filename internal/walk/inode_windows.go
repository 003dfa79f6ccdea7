//go:build windows

package walk

import "io/fs"

// Windows file info does not expose an inode through os.FileInfo.Sys() in a
// portable way; Walker.Files then dedups followed symlinks by their resolved
// target path instead.
func platformInode(info fs.FileInfo) (uint64, bool) {
	return 0, false
}
