package rewrite

import "strings"

// line is one template line split from its terminator so edits never disturb
// the original line endings.
type line struct {
	body string
	eol  string
	// final lines are not touched by later passes.
	final bool
}

func splitLines(text string) []*line {
	var lines []*line
	for _, raw := range strings.SplitAfter(text, "\n") {
		if raw == "" {
			continue
		}
		l := &line{body: raw}
		if strings.HasSuffix(l.body, "\n") {
			l.body, l.eol = l.body[:len(l.body)-1], "\n"
			if strings.HasSuffix(l.body, "\r") {
				l.body, l.eol = l.body[:len(l.body)-1], "\r\n"
			}
		}
		lines = append(lines, l)
	}
	return lines
}

func joinLines(lines []*line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.body)
		b.WriteString(l.eol)
	}
	return b.String()
}

// span is a half-open byte range within a line body.
type span struct {
	start, end int
}

func (s span) of(body string) string {
	return body[s.start:s.end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

// nextToken returns the whitespace-delimited token starting at or after from.
// A token opening with a double quote extends to the closing quote.
func nextToken(body string, from int) (span, bool) {
	i := from
	for i < len(body) && isSpace(body[i]) {
		i++
	}
	if i >= len(body) {
		return span{}, false
	}
	start := i
	if body[i] == '"' {
		if end := strings.IndexByte(body[i+1:], '"'); end >= 0 {
			return span{start, i + 1 + end + 1}, true
		}
	}
	for i < len(body) && !isSpace(body[i]) {
		i++
	}
	return span{start, i}, true
}

// keyword returns the lower-cased first token of a line and its span.
func keyword(body string) (string, span, bool) {
	sp, ok := nextToken(body, 0)
	if !ok {
		return "", span{}, false
	}
	return strings.ToLower(sp.of(body)), sp, true
}

func isComment(body string) bool {
	trimmed := strings.TrimLeft(body, " \t")
	return strings.HasPrefix(trimmed, "*")
}

func replaceSpan(body string, sp span, with string) string {
	return body[:sp.start] + with + body[sp.end:]
}
