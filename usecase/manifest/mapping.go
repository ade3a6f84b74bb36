package manifest

import (
	"context"
	"fmt"
)

// MappingInput selects the kinds to report. Empty Kinds means all.
type MappingInput struct {
	Kinds []string `json:"kinds,omitempty"`
}

// MappingEntry is one kind with its file name aliases.
type MappingEntry struct {
	Kind      string   `json:"kind"`
	Preferred string   `json:"preferred"`
	Aliases   []string `json:"aliases"`
}

// MappingOutput is the effective mapping in mapping order.
type MappingOutput struct {
	Entries []MappingEntry `json:"entries"`
}

// Mapping loads the bundled table merged with the configured overrides.
func (u *UseCase) Mapping(ctx context.Context, in *MappingInput) (*MappingOutput, error) {
	if in == nil {
		in = &MappingInput{}
	}
	m, err := u.mapping(ctx, nil)
	if err != nil {
		return nil, err
	}
	kinds := in.Kinds
	if len(kinds) == 0 {
		kinds = m.Kinds()
	}
	out := &MappingOutput{Entries: make([]MappingEntry, 0, len(kinds))}
	for _, k := range kinds {
		if !m.Has(k) {
			return nil, fmt.Errorf("kind %q has no file name mapping", k)
		}
		pref, _ := m.PreferredAlias(k)
		out.Entries = append(out.Entries, MappingEntry{Kind: k, Preferred: pref, Aliases: m.Aliases(k)})
	}
	return out, nil
}
