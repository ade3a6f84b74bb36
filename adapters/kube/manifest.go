package kube

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kitops/jkit/domain/model"
)

// DecodeManifest decodes a multi-document YAML (or JSON) manifest into
// unstructured objects. Empty documents are skipped and `*List` objects are
// expanded into their items. Every object must declare a kind.
func DecodeManifest(data []byte, document string) ([]*unstructured.Unstructured, error) {
	docs, err := decodeDocuments(data, document)
	if err != nil {
		return nil, err
	}
	var objs []*unstructured.Unstructured
	for i, obj := range docs {
		expanded, err := expandList(obj)
		if err != nil {
			return nil, &model.MalformedInputError{Document: document, Reason: fmt.Sprintf("document %d: %v", i+1, err)}
		}
		objs = append(objs, expanded...)
	}
	return objs, nil
}

// decodeDocuments decodes every non-empty document as a mapping.
func decodeDocuments(data []byte, document string) ([]*unstructured.Unstructured, error) {
	var objs []*unstructured.Unstructured
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for n := 1; ; n++ {
		var doc any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &model.MalformedInputError{Document: document, Reason: fmt.Sprintf("document %d: %v", n, err)}
		}
		if doc == nil {
			continue
		}
		m, ok := normalize(doc).(map[string]any)
		if !ok {
			return nil, &model.MalformedInputError{Document: document, Reason: fmt.Sprintf("document %d is not a mapping", n)}
		}
		objs = append(objs, &unstructured.Unstructured{Object: m})
	}
	return objs, nil
}

func expandList(obj *unstructured.Unstructured) ([]*unstructured.Unstructured, error) {
	if obj.GetKind() == "" {
		return nil, fmt.Errorf("kind is missing")
	}
	if !strings.HasSuffix(obj.GetKind(), "List") || !obj.IsList() {
		return []*unstructured.Unstructured{obj}, nil
	}
	items, _ := obj.Object["items"].([]any)
	out := make([]*unstructured.Unstructured, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("list item %d is not a mapping", i)
		}
		sub, err := expandList(&unstructured.Unstructured{Object: m})
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		out = append(out, sub...)
	}
	return out, nil
}

// normalize converts YAML decoded values to the JSON-compatible types
// unstructured helpers expect (int64 instead of int, string timestamps).
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalize(val)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, it := range x {
			x[i] = normalize(it)
		}
		return x
	case int:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return float64(x)
		}
		return int64(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return x
	}
}
