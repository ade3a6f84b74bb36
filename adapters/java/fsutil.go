package java

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// regularWithin reports whether entry (found under root) is a regular file.
// Symbolic links are accepted only when their target is a regular file that
// stays inside root.
func regularWithin(root, path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(realRoot, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular()
}

// hasPrefixBytes reads len(sig) bytes from path and compares them to sig.
func hasPrefixBytes(path string, sig []byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	buf := make([]byte, len(sig))
	n, _ := f.Read(buf)
	return n == len(sig) && string(buf) == string(sig), nil
}
