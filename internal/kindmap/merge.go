package kindmap

import "github.com/kitops/jkit/domain/model"

// Merge returns the union of base and override per Kind.
//
// Base aliases come first and keep their order; aliases only known to the
// override are appended in override order. Kinds unknown to base are appended
// after the base Kinds. A nil override yields a copy of base. Neither input is
// modified, and merging the same override again does not change the result.
func Merge(base, override *model.KindMapping) *model.KindMapping {
	out := base.Clone()
	for _, kind := range override.Kinds() {
		out.Add(kind, override.Aliases(kind)...)
	}
	return out
}
