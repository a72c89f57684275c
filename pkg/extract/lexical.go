package extract

import (
	"regexp"
	"strings"

	"github.com/gnana997/blocksmith/pkg/source"
)

var (
	// interface FooProps {  /  interface FooProps extends Bar {
	interfaceOpenRe = regexp.MustCompile(`\binterface\s+\w*Props\b[^{;]*\{`)
	// type FooProps = {
	typeOpenRe = regexp.MustCompile(`\btype\s+\w*Props\s*=\s*\{`)
	// segment-leading "name:" / "name?:" / "readonly name:", see flatten
	memberRe = regexp.MustCompile(`(?m)^\s*(?:readonly\s+)?([A-Za-z_$][A-Za-z0-9_$]*)\??\s*:`)

	// function Foo({  /  function Foo<T>({
	functionOpenRe = regexp.MustCompile(`\bfunction\s+\w+\s*(?:<[^>(]*>)?\s*\(\s*\{`)
	// const Foo = ({  /  const Foo: React.FC<P> = ({
	arrowOpenRe = regexp.MustCompile(`\bconst\s+\w+\s*(?::[^=]+)?=\s*(?:async\s*)?\(\s*\{`)
)

// Lexical extracts property names with two independent text scans and
// performs no semantic analysis.
type Lexical struct{}

// Extract implements Extractor.
func (Lexical) Extract(src source.Source) []string {
	text := src.String()
	c := newCollector()

	for _, name := range scanInterface(text) {
		c.add(name)
	}
	for _, name := range scanDestructuring(text) {
		c.add(name)
	}

	return c.result()
}

// scanInterface collects the top-level member names of the first props
// interface or props type literal.
func scanInterface(text string) []string {
	open := firstMatch(text, interfaceOpenRe, typeOpenRe)
	if open < 0 {
		return nil
	}
	body, ok := balancedBody(text, open)
	if !ok {
		return nil
	}

	var names []string
	for _, m := range memberRe.FindAllStringSubmatch(flatten(body), -1) {
		names = append(names, m[1])
	}
	return names
}

// scanDestructuring collects the keys of the first destructured parameter of
// a function declaration or arrow function.
func scanDestructuring(text string) []string {
	open := firstMatch(text, functionOpenRe, arrowOpenRe)
	if open < 0 {
		return nil
	}
	body, ok := balancedBody(text, open)
	if !ok {
		return nil
	}

	var names []string
	for _, part := range splitTopLevel(body) {
		part = strings.TrimSpace(flatten(part))
		if part == "" || strings.HasPrefix(part, "...") {
			continue
		}
		if i := strings.IndexAny(part, ":="); i >= 0 {
			part = part[:i]
		}
		names = append(names, strings.TrimSpace(part))
	}
	return names
}

// firstMatch returns the offset of the '{' ending the earliest match of any
// pattern, or -1.
func firstMatch(text string, patterns ...*regexp.Regexp) int {
	best := -1
	for _, re := range patterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if brace := loc[1] - 1; best < 0 || brace < best {
			best = brace
		}
	}
	return best
}

// balancedBody returns the text between the '{' at open and its matching '}'.
// Braces inside string literals and comments are ignored.
func balancedBody(text string, open int) (string, bool) {
	depth := 0
	s := scanner{text: text, pos: open}
	for s.pos < len(text) {
		ch, code := s.next()
		if !code {
			continue
		}
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[open+1 : s.pos-1], true
			}
		}
	}
	return "", false
}

// flatten blanks out the contents of nested braces, brackets and parens, and
// all comments, so that only top-level members remain visible to memberRe.
// Top-level ';' and ',' become newlines, so every member starts a line even
// when several share one.
func flatten(body string) string {
	var b strings.Builder
	depth := 0
	s := scanner{text: body}
	for s.pos < len(body) {
		start := s.pos
		ch, code := s.next()
		unit := body[start:s.pos]

		if !code {
			if ch == '/' || depth > 0 {
				b.WriteString(strings.Repeat("\n", strings.Count(unit, "\n")))
			} else {
				b.WriteString(unit)
			}
			continue
		}

		switch ch {
		case '{', '[', '(':
			depth++
			if depth == 1 {
				b.WriteByte(ch)
			}
			continue
		case '}', ']', ')':
			depth--
			if depth == 0 {
				b.WriteByte(ch)
			}
			continue
		}
		switch {
		case depth == 0 && (ch == ';' || ch == ','):
			b.WriteByte('\n')
		case depth == 0 || ch == '\n':
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// splitTopLevel splits on commas that are not nested in brackets or strings.
func splitTopLevel(body string) []string {
	var parts []string
	depth, last := 0, 0
	s := scanner{text: body}
	for s.pos < len(body) {
		ch, code := s.next()
		if !code {
			continue
		}
		switch ch {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, body[last:s.pos-1])
				last = s.pos
			}
		}
	}
	return append(parts, body[last:])
}

// scanner walks source text one unit at a time, treating string literals and
// comments as opaque.
type scanner struct {
	text string
	pos  int
}

// next consumes one unit. For code it returns the byte and true; for a whole
// string literal or comment it returns its first byte and false.
func (s *scanner) next() (byte, bool) {
	ch := s.text[s.pos]
	rest := s.text[s.pos:]

	switch {
	case strings.HasPrefix(rest, "//"):
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			s.pos += i
		} else {
			s.pos = len(s.text)
		}
		return ch, false
	case strings.HasPrefix(rest, "/*"):
		if i := strings.Index(rest[2:], "*/"); i >= 0 {
			s.pos += i + 4
		} else {
			s.pos = len(s.text)
		}
		return ch, false
	case ch == '"' || ch == '\'' || ch == '`':
		s.pos++
		for s.pos < len(s.text) {
			c := s.text[s.pos]
			s.pos++
			if c == '\\' {
				s.pos++
				continue
			}
			if c == ch {
				break
			}
		}
		if s.pos > len(s.text) {
			s.pos = len(s.text)
		}
		return ch, false
	}

	s.pos++
	return ch, true
}
