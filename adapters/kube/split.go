package kube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/logging"
	"github.com/kitops/jkit/internal/naming"
)

// Fragment is a single resource destined for its own file.
type Fragment struct {
	FileName string
	Kind     string
	Name     string
	Object   *unstructured.Unstructured
}

// FragmentAlias returns the file name alias used for kind: the preferred
// alias from mapping, or the lower-cased kind when mapping has none.
func FragmentAlias(mapping *model.KindMapping, kind string) string {
	if a, ok := mapping.PreferredAlias(kind); ok {
		return a
	}
	return strings.ToLower(kind)
}

// PlanFragments assigns a unique fragment file name to each object.
// The first object claiming a name keeps `<name>-<alias>.yml`; later ones get
// a resource hash inserted.
func PlanFragments(objs []*unstructured.Unstructured, mapping *model.KindMapping) []Fragment {
	used := map[string]bool{}
	frags := make([]Fragment, 0, len(objs))
	for i, obj := range objs {
		if obj == nil {
			continue
		}
		kind, name := obj.GetKind(), obj.GetName()
		alias := FragmentAlias(mapping, kind)
		file := naming.FragmentFileName(name, alias)
		if used[file] {
			file = naming.DisambiguatedFragmentFileName(name, alias, naming.ResourceHash(obj.GetNamespace(), kind, name))
		}
		if used[file] {
			file = naming.DisambiguatedFragmentFileName(name, alias, naming.ShortHash(obj.GetNamespace()+":"+kind+":"+name+":"+strconv.Itoa(i), 6))
		}
		used[file] = true
		frags = append(frags, Fragment{FileName: file, Kind: kind, Name: name, Object: obj})
	}
	return frags
}

// WriteFragments writes each fragment into dir atomically and returns the
// written paths in input order.
func WriteFragments(ctx context.Context, dir string, frags []Fragment) ([]string, error) {
	logger := logging.FromContext(ctx)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, 0, len(frags))
	for _, f := range frags {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		b, err := EncodeObject(f.Object)
		if err != nil {
			return paths, fmt.Errorf("encode %s/%s: %w", f.Kind, f.Name, err)
		}
		p := filepath.Join(dir, f.FileName)
		if err := renameio.WriteFile(p, b, 0o644); err != nil {
			return paths, fmt.Errorf("write fragment %s: %w", p, err)
		}
		logger.Debug(ctx, "fragment written", "kind", f.Kind, "name", f.Name, "path", p)
		paths = append(paths, p)
	}
	return paths, nil
}
