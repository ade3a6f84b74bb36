package kube

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// BuildManifest returns a multi-document YAML string (each doc preceded
// by ---) of the given objects rendered by EncodeObject.
func BuildManifest(objs []*unstructured.Unstructured) (string, error) {
	var buf bytes.Buffer
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		b, err := EncodeObject(obj)
		if err != nil {
			return "", fmt.Errorf("encode %s/%s: %w", obj.GetKind(), obj.GetName(), err)
		}
		buf.WriteString("---\n")
		buf.Write(b)
	}
	return buf.String(), nil
}

// EncodeObject renders obj as 2-space indented YAML. User content is kept as
// is, including empty maps; only a null metadata.creationTimestamp and an
// empty status are left out. obj is not modified.
func EncodeObject(obj *unstructured.Unstructured) ([]byte, error) {
	return encodeYAML(withoutNoise(obj.Object))
}

// ObjectMap converts a typed API object (a pointer to struct) into its
// unstructured form with empty values pruned.
func ObjectMap(obj any) (map[string]any, error) {
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("convert %T: %w", obj, err)
	}
	return CleanObject(m), nil
}

// CleanObject prunes empty maps / null values (in-place) and drops noisy
// fields: null metadata.creationTimestamp and empty status. Only meant for
// objects jkit generates itself.
func CleanObject(m map[string]any) map[string]any {
	pruneMap(m)
	if meta, ok := m["metadata"].(map[string]any); ok && len(meta) == 0 {
		delete(m, "metadata")
	}
	if st, ok := m["status"].(map[string]any); ok && len(st) == 0 {
		delete(m, "status")
	}
	return m
}

// withoutNoise returns a shallow copy of m without a null
// metadata.creationTimestamp and an empty status.
func withoutNoise(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	if meta, ok := m["metadata"].(map[string]any); ok {
		if ts, found := meta["creationTimestamp"]; found && ts == nil {
			cp := make(map[string]any, len(meta))
			for k, v := range meta {
				if k != "creationTimestamp" {
					cp[k] = v
				}
			}
			out["metadata"] = cp
		}
	}
	if st, ok := m["status"].(map[string]any); ok && len(st) == 0 {
		delete(out, "status")
	}
	return out
}

func encodeYAML(v any) ([]byte, error) {
	var ybuf bytes.Buffer
	enc := yaml.NewEncoder(&ybuf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	b := ybuf.Bytes()
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	return b, nil
}

// pruneMap recursively prunes nil values and empty maps from a structure (in-place), preserving empty slices.
func pruneMap(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			cleaned := pruneMap(val)
			switch cv := cleaned.(type) {
			case nil:
				delete(x, k)
			case map[string]any:
				if len(cv) == 0 {
					delete(x, k)
				} else {
					x[k] = cv
				}
			default:
				x[k] = cv
			}
		}
		return x
	case []any:
		for i, it := range x {
			x[i] = pruneMap(it)
		}
		return x
	default:
		return x
	}
}
