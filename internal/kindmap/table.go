package kindmap

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/naming"
)

const tableDelimiter = "|==="

// ParseTable parses a Kind/filename-type table document into a KindMapping.
//
// The document is a two-column table:
//
//	[cols=2*,options="header"]
//	|===
//	|Kind
//	|Filename Type
//
//	|ConfigMap
//	a|`cm`, `configmap`
//	|===
//
// Lines before the opening delimiter are table attributes and are skipped.
// When the attributes declare a header, the first row is skipped too. Each
// record is a `|Kind` cell followed by a cell listing backtick-quoted aliases.
// Any structural violation is reported as *model.MalformedInputError naming
// document, and no partial mapping is returned.
//
// The caller owns r and closes it.
func ParseTable(r io.Reader, document string) (*model.KindMapping, error) {
	p := &tableParser{document: document, mapping: model.NewKindMapping()}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		if done, err := p.feed(sc.Text()); err != nil {
			return nil, err
		} else if done {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", document, err)
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.mapping, nil
}

type tableParser struct {
	document string
	mapping  *model.KindMapping
	line     int

	header     bool   // attributes declared a header row
	inTable    bool   // opening delimiter seen
	closed     bool   // closing delimiter seen
	skipHeader bool   // still inside the header row
	kind       string // Kind waiting for its alias cell
	kindLine   int
}

func (p *tableParser) fail(line int, format string, args ...any) error {
	return &model.MalformedInputError{Document: p.document, Line: line, Reason: fmt.Sprintf(format, args...)}
}

// feed consumes one line. It returns true once the closing delimiter is read.
func (p *tableParser) feed(raw string) (bool, error) {
	line := strings.TrimSpace(raw)

	if !p.inTable {
		if line == tableDelimiter {
			p.inTable = true
			p.skipHeader = p.header
			return false, nil
		}
		if strings.Contains(line, `options="header"`) || strings.Contains(line, "%header") {
			p.header = true
		}
		return false, nil
	}

	if line == tableDelimiter {
		if p.kind != "" {
			return false, p.fail(p.kindLine, "kind %q has no filename types", p.kind)
		}
		p.closed = true
		return true, nil
	}

	if p.skipHeader {
		if line == "" {
			p.skipHeader = false
		}
		return false, nil
	}

	switch {
	case line == "":
		if p.kind != "" {
			return false, p.fail(p.kindLine, "kind %q has no filename types", p.kind)
		}
	case strings.HasPrefix(line, "//"):
		// comment
	case strings.HasPrefix(line, "a|"):
		return false, p.aliases(line[len("a|"):])
	case strings.HasPrefix(line, "|"):
		cell := strings.TrimSpace(line[1:])
		if strings.Contains(cell, "`") {
			return false, p.aliases(cell)
		}
		if p.kind != "" {
			return false, p.fail(p.kindLine, "kind %q has no filename types", p.kind)
		}
		if err := naming.ValidateKind(cell); err != nil {
			return false, p.fail(p.line, "%v", err)
		}
		p.kind = cell
		p.kindLine = p.line
	default:
		return false, p.fail(p.line, "unexpected line %q", line)
	}
	return false, nil
}

func (p *tableParser) aliases(cell string) error {
	if p.kind == "" {
		return p.fail(p.line, "filename types %q without preceding kind", strings.TrimSpace(cell))
	}
	aliases, err := splitAliases(cell)
	if err != nil {
		return p.fail(p.line, "kind %q: %v", p.kind, err)
	}
	if len(aliases) == 0 {
		return p.fail(p.line, "kind %q has no filename types", p.kind)
	}
	p.mapping.Add(p.kind, aliases...)
	p.kind = ""
	return nil
}

func (p *tableParser) finish() error {
	switch {
	case !p.inTable:
		return p.fail(0, "no table found")
	case !p.closed:
		return p.fail(p.line, "table is not terminated by %q", tableDelimiter)
	}
	return nil
}

// splitAliases splits a comma separated alias list, trimming whitespace and
// backtick quoting. Empty entries are dropped.
func splitAliases(s string) ([]string, error) {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		a := strings.TrimSpace(strings.Trim(strings.TrimSpace(tok), "`"))
		if a == "" {
			continue
		}
		if err := naming.ValidateAlias(a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
