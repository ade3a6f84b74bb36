package java

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/logging"
)

// zipSignature is the local file header signature every jar starts with.
var zipSignature = []byte("PK\x03\x04")

const manifestPath = "META-INF/MANIFEST.MF"

// ArchiveInspector finds a self-contained executable archive (a jar whose
// manifest declares Main-Class) in a build output directory.
type ArchiveInspector struct{}

// NewArchiveInspector returns an ArchiveInspector.
func NewArchiveInspector() *ArchiveInspector { return &ArchiveInspector{} }

// Inspect lists dir (not recursively) and returns the executable archive found
// there, or nil when there is none. A missing dir yields nil. Archives are
// recognized by content, whatever their file extension. When several archives
// qualify, the first by file name is returned and the ambiguity is logged.
func (i *ArchiveInspector) Inspect(ctx context.Context, dir string) (*model.FatArchive, error) {
	logger := logging.FromContext(ctx)

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", dir, err)
	}
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug(ctx, "archive inspection skipped, directory does not exist", "dir", root)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", root, err)
	}

	// os.ReadDir sorts by file name
	var found []*model.FatArchive
	for _, e := range entries {
		path := filepath.Join(root, e.Name())
		if !regularWithin(root, path, e) {
			continue
		}
		fa, err := readFatArchive(path)
		if err != nil {
			logger.Debug(ctx, "skipping unreadable archive", "path", path, "err", err)
			continue
		}
		if fa != nil {
			found = append(found, fa)
		}
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	}
	names := make([]string, len(found))
	for n, fa := range found {
		names[n] = filepath.Base(fa.ArchiveFile)
	}
	logger.Warn(ctx, "multiple executable archives found, using the first by name",
		"dir", root, "selected", names[0], "candidates", strings.Join(names, ","), "err", model.ErrAmbiguousResolution)
	return found[0], nil
}

// readFatArchive returns nil, nil when path is not an executable archive.
func readFatArchive(path string) (*model.FatArchive, error) {
	ok, err := hasPrefixBytes(path, zipSignature)
	if err != nil || !ok {
		return nil, err
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, manifestPath) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", manifestPath, err)
		}
		attrs, err := ParseManifest(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", manifestPath, err)
		}
		if attrs[AttrMainClass] == "" {
			return nil, nil
		}
		return &model.FatArchive{ArchiveFile: path, MainClass: attrs[AttrMainClass], Attributes: attrs}, nil
	}
	return nil, nil
}
