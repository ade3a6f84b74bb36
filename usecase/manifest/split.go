package manifest

import (
	"context"
	"fmt"

	"github.com/kitops/jkit/adapters/kube"
	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/logging"
)

// SplitInput describes a multi-document manifest to split into fragments.
type SplitInput struct {
	// Manifest is the YAML or JSON content.
	Manifest []byte
	// Document names the manifest in error messages.
	Document string
	// OutDir receives the fragment files.
	OutDir string
	// Mapping overrides the configured mapping when set.
	Mapping *model.KindMapping
	// DryRun plans file names without writing.
	DryRun bool
}

// SplitFragment reports one resource and its fragment file.
type SplitFragment struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	File string `json:"file"`
}

// SplitOutput lists fragments in manifest order.
type SplitOutput struct {
	Fragments []SplitFragment `json:"fragments"`
}

// Split writes every resource of the manifest to `<name>-<alias>.yml` in OutDir.
func (u *UseCase) Split(ctx context.Context, in *SplitInput) (*SplitOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("missing split input")
	}
	if in.OutDir == "" && !in.DryRun {
		return nil, fmt.Errorf("missing output directory")
	}
	logger := logging.FromContext(ctx)

	m, err := u.mapping(ctx, in.Mapping)
	if err != nil {
		return nil, err
	}
	doc := in.Document
	if doc == "" {
		doc = "manifest"
	}
	objs, err := kube.DecodeManifest(in.Manifest, doc)
	if err != nil {
		return nil, err
	}

	frags := kube.PlanFragments(objs, m)
	for _, f := range frags {
		if !m.Has(f.Kind) {
			logger.Warn(ctx, "kind has no file name mapping, using lower-cased kind", "kind", f.Kind, "file", f.FileName)
		}
	}

	out := &SplitOutput{Fragments: make([]SplitFragment, 0, len(frags))}
	files := make([]string, len(frags))
	for i, f := range frags {
		files[i] = f.FileName
	}
	if !in.DryRun {
		paths, err := kube.WriteFragments(ctx, in.OutDir, frags)
		if err != nil {
			return nil, err
		}
		copy(files, paths)
	}
	for i, f := range frags {
		out.Fragments = append(out.Fragments, SplitFragment{Kind: f.Kind, Name: f.Name, File: files[i]})
	}
	logger.Info(ctx, "manifest split", "document", doc, "fragments", len(frags), "dryRun", in.DryRun)
	return out, nil
}
