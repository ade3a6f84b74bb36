package kindmap

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/magiconair/properties"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/naming"
)

// ParseOverrides parses a properties document of `Kind=alias, alias` lines.
//
// The document follows the Java properties syntax (comments, `=`, `:` or
// whitespace separators, escapes and line continuations). When a Kind
// appears more than once the last entry wins, keeping the position of the
// first. Structural errors are reported as *model.MalformedInputError.
//
// The caller owns r and closes it.
func ParseOverrides(r io.Reader, document string) (*model.KindMapping, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", document, err)
	}
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(b)
	if err != nil {
		return nil, &model.MalformedInputError{Document: document, Line: errorLine(err), Reason: err.Error()}
	}

	m := model.NewKindMapping()
	for _, kind := range props.Keys() {
		value, _ := props.Get(kind)
		fail := func(format string, args ...any) error {
			return &model.MalformedInputError{Document: document, Line: keyLine(b, kind), Reason: fmt.Sprintf(format, args...)}
		}
		if err := naming.ValidateKind(kind); err != nil {
			return nil, fail("%v", err)
		}
		aliases, err := splitAliases(value)
		if err != nil {
			return nil, fail("kind %q: %v", kind, err)
		}
		if len(aliases) == 0 {
			return nil, fail("kind %q has no filename types", kind)
		}
		m.Set(kind, aliases...)
	}
	return m, nil
}

var errorLineRE = regexp.MustCompile(`Line (\d+)`)

// errorLine extracts the line number from a properties parse error.
func errorLine(err error) int {
	sm := errorLineRE.FindStringSubmatch(err.Error())
	if sm == nil {
		return 0
	}
	n, _ := strconv.Atoi(sm[1])
	return n
}

// keyLine returns the line of the last entry declaring key, 0 if not found.
func keyLine(doc []byte, key string) int {
	found := 0
	cont := false
	for i, line := range strings.Split(string(doc), "\n") {
		line = strings.TrimRight(line, "\r")
		if cont {
			cont = continued(line)
			continue
		}
		line = strings.TrimLeft(line, " \t\f")
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		cont = continued(line)
		if entryKey(line) == key {
			found = i + 1
		}
	}
	return found
}

// entryKey returns the unescaped key of a properties entry line.
func entryKey(line string) string {
	var k strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			k.WriteByte(line[i])
		case c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f':
			return k.String()
		default:
			k.WriteByte(c)
		}
	}
	return k.String()
}

// continued reports whether line ends with an odd number of backslashes.
func continued(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// FormatOverrides writes m in the properties format read by ParseOverrides,
// one Kind per line in mapping order.
func FormatOverrides(w io.Writer, m *model.KindMapping) error {
	for _, kind := range m.Kinds() {
		if _, err := fmt.Fprintf(w, "%s=%s\n", kind, strings.Join(m.Aliases(kind), ", ")); err != nil {
			return err
		}
	}
	return nil
}
