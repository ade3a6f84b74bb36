package manifest

import (
	"context"
	"fmt"

	"github.com/kitops/jkit/adapters/kube"
	"github.com/kitops/jkit/domain/model"
)

// JoinInput names a directory of resource fragments.
type JoinInput struct {
	Dir     string
	Mapping *model.KindMapping
}

// JoinOutput is the combined multi-document manifest.
type JoinOutput struct {
	Manifest string
	Count    int
}

// Join reads the fragments in Dir, infers missing kinds and names from the
// file names and renders them as one manifest sorted by file name.
func (u *UseCase) Join(ctx context.Context, in *JoinInput) (*JoinOutput, error) {
	if in == nil || in.Dir == "" {
		return nil, fmt.Errorf("missing fragment directory")
	}
	m, err := u.mapping(ctx, in.Mapping)
	if err != nil {
		return nil, err
	}
	objs, err := kube.ReadFragments(ctx, in.Dir, m)
	if err != nil {
		return nil, err
	}
	s, err := kube.BuildManifest(objs)
	if err != nil {
		return nil, err
	}
	return &JoinOutput{Manifest: s, Count: len(objs)}, nil
}
