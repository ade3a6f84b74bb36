package java

import (
	"bufio"
	"io"
	"net/textproto"
	"strings"
)

// AttrMainClass is the manifest attribute declaring the entry point.
const AttrMainClass = "Main-Class"

// ParseManifest reads the main section of a jar manifest (META-INF/MANIFEST.MF).
// Continuation lines start with a single space. Parsing stops at the first
// blank line, which ends the main section. Attribute names are
// case-insensitive and stored in canonical form (main-class: Main-Class).
func ParseManifest(r io.Reader) (map[string]string, error) {
	attrs := map[string]string{}
	var last string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if last != "" {
				attrs[last] += line[1:]
			}
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			last = ""
			continue
		}
		last = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(name))
		attrs[last] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}
