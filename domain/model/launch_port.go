package model

import "context"

// ArchiveInspectorPort finds a self-contained executable archive in a build
// output directory. It returns nil, nil when there is none.
type ArchiveInspectorPort interface {
	Inspect(ctx context.Context, dir string) (*FatArchive, error)
}

// ClassScannerPort lists the runnable classes found under a directory of
// compiled classes, sorted by name.
type ClassScannerPort interface {
	FindMainClasses(ctx context.Context, dir string) ([]string, error)
}
