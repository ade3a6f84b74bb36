package manifest

import (
	"context"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/kindmap"
)

// UseCase splits and joins Kubernetes manifests using the kind-to-filename
// mapping. Load selects the override document merged over the bundled table.
type UseCase struct {
	Load kindmap.LoadOptions
}

// mapping returns m, or the configured merged mapping when m is nil.
func (u *UseCase) mapping(ctx context.Context, m *model.KindMapping) (*model.KindMapping, error) {
	if m != nil {
		return m, nil
	}
	return kindmap.Load(ctx, u.Load)
}
