package model

import (
	"slices"
	"strings"
)

// KindMapping maps a resource Kind (e.g. "ConfigMap") to the ordered list of
// aliases used as filename fragments (e.g. ["cm", "configmap"]).
//
// Kinds keep their insertion order and so do the aliases of each Kind; the
// first alias is the preferred short form. A Kind present in the mapping
// always has at least one alias and its aliases are unique.
type KindMapping struct {
	kinds   []string
	aliases map[string][]string
}

// NewKindMapping returns an empty mapping.
func NewKindMapping() *KindMapping {
	return &KindMapping{aliases: map[string][]string{}}
}

// Add appends aliases to kind, creating the Kind if needed. Aliases already
// present for kind and empty aliases are skipped. Adding no usable alias to
// an unknown Kind leaves the mapping unchanged.
func (m *KindMapping) Add(kind string, aliases ...string) {
	cur, exists := m.aliases[kind]
	for _, a := range aliases {
		if a == "" || slices.Contains(cur, a) {
			continue
		}
		cur = append(cur, a)
	}
	if len(cur) == 0 {
		return
	}
	if !exists {
		m.kinds = append(m.kinds, kind)
	}
	m.aliases[kind] = cur
}

// Set replaces the aliases of kind. The Kind keeps its position if it already
// exists. Setting no usable alias removes the Kind.
func (m *KindMapping) Set(kind string, aliases ...string) {
	if _, exists := m.aliases[kind]; exists {
		delete(m.aliases, kind)
		if !hasUsable(aliases) {
			m.kinds = slices.DeleteFunc(m.kinds, func(k string) bool { return k == kind })
			return
		}
		var cur []string
		for _, a := range aliases {
			if a != "" && !slices.Contains(cur, a) {
				cur = append(cur, a)
			}
		}
		m.aliases[kind] = cur
		return
	}
	m.Add(kind, aliases...)
}

func hasUsable(aliases []string) bool {
	return slices.ContainsFunc(aliases, func(a string) bool { return a != "" })
}

// Aliases returns a copy of the aliases of kind, or nil if kind is unknown.
func (m *KindMapping) Aliases(kind string) []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.aliases[kind])
}

// PreferredAlias returns the first alias of kind.
func (m *KindMapping) PreferredAlias(kind string) (string, bool) {
	if m == nil {
		return "", false
	}
	a := m.aliases[kind]
	if len(a) == 0 {
		return "", false
	}
	return a[0], true
}

// Has reports whether kind is present.
func (m *KindMapping) Has(kind string) bool {
	if m == nil {
		return false
	}
	_, ok := m.aliases[kind]
	return ok
}

// Kinds returns the Kinds in insertion order.
func (m *KindMapping) Kinds() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.kinds)
}

// Len returns the number of Kinds.
func (m *KindMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.kinds)
}

// KindForAlias returns the first Kind (in mapping order) declaring alias.
// Aliases are compared case-insensitively.
func (m *KindMapping) KindForAlias(alias string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, k := range m.kinds {
		for _, a := range m.aliases[k] {
			if strings.EqualFold(a, alias) {
				return k, true
			}
		}
	}
	return "", false
}

// Clone returns a deep copy.
func (m *KindMapping) Clone() *KindMapping {
	c := NewKindMapping()
	if m == nil {
		return c
	}
	c.kinds = slices.Clone(m.kinds)
	for k, v := range m.aliases {
		c.aliases[k] = slices.Clone(v)
	}
	return c
}

// Equal reports whether both mappings hold the same Kinds with the same
// aliases in the same order. Kind order is not compared.
func (m *KindMapping) Equal(o *KindMapping) bool {
	if m.Len() != o.Len() {
		return false
	}
	for _, k := range m.Kinds() {
		if !o.Has(k) || !slices.Equal(m.aliases[k], o.aliases[k]) {
			return false
		}
	}
	return true
}
