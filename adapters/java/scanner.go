package java

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/kitops/jkit/internal/logging"
)

// maxClassFileSize bounds how much of a single file is read.
const maxClassFileSize = 32 << 20

// ClassScanner finds runnable classes among compiled class files.
type ClassScanner struct{}

// NewClassScanner returns a ClassScanner.
func NewClassScanner() *ClassScanner { return &ClassScanner{} }

// FindMainClasses walks dir and returns the sorted fully-qualified names of
// classes declaring `public static void main(String[])`. Files are recognized
// by the class file magic number, not by extension. Symbolic links are not
// followed out of dir, and a missing dir yields no candidates. Corrupt class
// files and unreadable entries below dir are skipped.
func (s *ClassScanner) FindMainClasses(ctx context.Context, dir string) ([]string, error) {
	logger := logging.FromContext(ctx)

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", dir, err)
	}
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		logger.Debug(ctx, "class scan skipped, directory does not exist", "dir", root)
		return nil, nil
	}

	var found []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Debug(ctx, "skipping unreadable entry", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !regularWithin(root, path, d) {
			return nil
		}
		b, err := readClassFile(path)
		if err != nil {
			logger.Debug(ctx, "skipping unreadable file", "path", path, "err", err)
			return nil
		}
		if b == nil {
			return nil
		}
		ci, err := parseClass(b)
		if err != nil {
			logger.Debug(ctx, "skipping unparsable class file", "path", path, "err", err)
			return nil
		}
		if ci.MainMethod {
			found = append(found, ci.Name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", root, err)
	}
	slices.Sort(found)
	return slices.Compact(found), nil
}

// MainClass returns the only runnable class under dir. When there is none or
// more than one, ok is false and candidates lists what was found.
func (s *ClassScanner) MainClass(ctx context.Context, dir string) (mainClass string, ok bool, candidates []string, err error) {
	candidates, err = s.FindMainClasses(ctx, dir)
	if err != nil {
		return "", false, nil, err
	}
	if len(candidates) != 1 {
		return "", false, candidates, nil
	}
	return candidates[0], true, candidates, nil
}

// readClassFile returns the file content when it starts with the class file
// magic number, nil otherwise.
func readClassFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil || binary.BigEndian.Uint32(magic[:]) != classMagic {
		return nil, nil
	}
	rest, err := io.ReadAll(io.LimitReader(f, maxClassFileSize))
	if err != nil {
		return nil, err
	}
	return append(magic[:], rest...), nil
}
