package core

import "os"

// pathIsDir reports whether path exists and is a directory.
func pathIsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// PathExists reports whether path exists at all, matching the teacher's
// core.PathExists helper (src/fs/fs.go in please).
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
