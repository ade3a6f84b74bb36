package kube

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/logging"
	"github.com/kitops/jkit/internal/naming"
)

// KindFromFragment infers the kind of a fragment file from the alias part of
// its name. ok is false when the file is not a fragment or the alias is unknown.
func KindFromFragment(mapping *model.KindMapping, filename string) (kind, name string, ok bool) {
	name, alias, ok := naming.SplitFragmentFileName(filename)
	if !ok {
		return "", "", false
	}
	kind, ok = mapping.KindForAlias(alias)
	if !ok {
		return "", "", false
	}
	return kind, name, true
}

// ReadFragments loads every fragment file directly under dir, sorted by file
// name. A document without kind takes the kind inferred from its file name and
// a document without metadata.name takes the name part of the file name.
// A missing directory yields no objects.
func ReadFragments(ctx context.Context, dir string, mapping *model.KindMapping) ([]*unstructured.Unstructured, error) {
	logger := logging.FromContext(ctx)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read fragment directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var objs []*unstructured.Unstructured
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if _, _, ok := naming.SplitFragmentFileName(e.Name()); !ok {
			logger.Debug(ctx, "skipping non-fragment file", "file", e.Name())
			continue
		}
		p := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read fragment: %w", err)
		}
		docs, err := decodeFragment(data, p, mapping)
		if err != nil {
			return nil, err
		}
		objs = append(objs, docs...)
	}
	return objs, nil
}

func decodeFragment(data []byte, path string, mapping *model.KindMapping) ([]*unstructured.Unstructured, error) {
	kind, name, inferred := KindFromFragment(mapping, path)
	objs, err := decodeDocuments(data, path)
	if err != nil {
		return nil, err
	}
	var out []*unstructured.Unstructured
	for i, obj := range objs {
		if obj.GetKind() == "" {
			if !inferred {
				_, alias, _ := naming.SplitFragmentFileName(path)
				return nil, &model.MalformedInputError{Document: path, Reason: fmt.Sprintf("document %d has no kind and alias %q is not mapped", i+1, alias)}
			}
			obj.SetKind(kind)
		}
		if obj.GetName() == "" && name != "" && len(objs) == 1 {
			obj.SetName(name)
		}
		expanded, err := expandList(obj)
		if err != nil {
			return nil, &model.MalformedInputError{Document: path, Reason: fmt.Sprintf("document %d: %v", i+1, err)}
		}
		out = append(out, expanded...)
	}
	return out, nil
}
