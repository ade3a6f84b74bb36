package naming

// Package naming provides centralized generation of resource fragment file
// names and the short deterministic hashes used to keep them unique. Keeping
// the logic here allows future changes (format/length) without touching call
// sites.

import (
	"crypto/sha1"
	"fmt"
	"path/filepath"
	"strings"
)

// defaultLength defines the hex length of hashes (bits ~ length * 4).
const defaultLength = 6

// FragmentExt is the file extension of split resource fragments.
const FragmentExt = ".yml"

// ShortHash returns the hex SHA1 prefix of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := fmt.Sprintf("%x", sum)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// ResourceHash returns a short hash identifying a resource by its
// namespace, kind and name.
func ResourceHash(namespace, kind, name string) string {
	return ShortHash(fmt.Sprintf("%s:%s:%s", namespace, kind, name), defaultLength)
}

// FragmentFileName returns the fragment file name of a resource.
// The format is:
//
//	<name>-<alias>.yml
//
// or `<alias>.yml` when the resource has no name.
func FragmentFileName(name, alias string) string {
	if name == "" {
		return alias + FragmentExt
	}
	return name + "-" + alias + FragmentExt
}

// DisambiguatedFragmentFileName returns `<name>-<hash>-<alias>.yml`, used when
// two resources would otherwise share a fragment file name.
func DisambiguatedFragmentFileName(name, alias, hash string) string {
	if name == "" {
		return hash + "-" + alias + FragmentExt
	}
	return name + "-" + hash + "-" + alias + FragmentExt
}

// SplitFragmentFileName splits a fragment file name into its resource name
// and alias. The alias is the text after the last hyphen; a file name
// without hyphen is an alias alone. Only .yml, .yaml and .json files are
// fragments.
func SplitFragmentFileName(filename string) (name, alias string, ok bool) {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".yml", ".yaml", ".json":
	default:
		return "", "", false
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "", "", false
	}
	i := strings.LastIndex(stem, "-")
	if i < 0 {
		return "", stem, true
	}
	if i == len(stem)-1 {
		return "", "", false
	}
	return stem[:i], stem[i+1:], true
}
