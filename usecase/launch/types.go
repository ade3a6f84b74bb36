package launch

import "github.com/kitops/jkit/domain/model"

// UseCase resolves the launch target of a Java image.
// ArchivePort and ClassPort supply the archive inspection and static scan
// stages; a nil port makes its stage not applicable.
type UseCase struct {
	ArchivePort model.ArchiveInspectorPort
	ClassPort   model.ClassScannerPort
}
