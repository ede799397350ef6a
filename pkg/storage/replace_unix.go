//go:build !windows

package storage

import "os"

// replaceFile atomically replaces target with tmp. rename(2) is atomic on
// POSIX when both paths live on the same filesystem, which Save guarantees
// by creating the temp file next to the target.
func replaceFile(tmp, target string) error {
	return os.Rename(tmp, target)
}

// syncDir flushes the parent directory so the rename's metadata reaches
// stable storage. Without this a crash right after rename can roll the
// directory entry back to the old file.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
