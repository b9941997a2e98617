package rewrite

import (
	"strconv"
	"strings"

	"github.com/vk/cornergrid/internal/model"
)

const (
	tempKeyword    = ".temp"
	controlKeyword = ".control"
)

// RedirectKind identifies one of the three output statements of a deck.
type RedirectKind string

const (
	// RedirectRaw is "write <file> [vectors]", the binary waveform dump.
	RedirectRaw RedirectKind = "write"
	// RedirectCSV is "wrdata <file> <vectors>", the tabular dump.
	RedirectCSV RedirectKind = "wrdata"
	// RedirectTxt is "print <vectors> > <file>", the text dump.
	RedirectTxt RedirectKind = "print"
)

// redirectKinds lists the statements in the order they are searched for.
var redirectKinds = []RedirectKind{RedirectRaw, RedirectCSV, RedirectTxt}

// Subdir returns the layout directory the statement's output belongs in.
func (k RedirectKind) Subdir() model.Subdir {
	switch k {
	case RedirectRaw:
		return model.SubdirRaw
	case RedirectCSV:
		return model.SubdirCSV
	default:
		return model.SubdirTxt
	}
}

// Ext returns the file extension used for the statement's output.
func (k RedirectKind) Ext() string {
	switch k {
	case RedirectRaw:
		return "raw"
	case RedirectCSV:
		return "csv"
	default:
		return "txt"
	}
}

// Redirect records one rewritten output statement.
type Redirect struct {
	Kind RedirectKind
	// Line is the 1-based line number in the generated deck.
	Line int
	From string
	To   string
}

// setTemperature points every .temp directive at t. Without one, a directive
// is inserted in front of the first .control line.
func setTemperature(lines []*line, t model.Temperature) (int, bool, []*line, error) {
	value := strconv.Itoa(int(t))
	count := 0
	for _, l := range lines {
		if l.final || isComment(l.body) {
			continue
		}
		kw, kwSpan, ok := keyword(l.body)
		if !ok || kw != tempKeyword {
			continue
		}
		l.body = replaceTempArgs(l.body, kwSpan.end, value)
		count++
	}
	if count > 0 {
		return count, false, lines, nil
	}

	for i, l := range lines {
		if isComment(l.body) {
			continue
		}
		kw, _, ok := keyword(l.body)
		if !ok || kw != controlKeyword {
			continue
		}
		eol := l.eol
		if eol == "" {
			eol = "\n"
		}
		directive := &line{body: tempKeyword + " " + value, eol: eol}
		out := make([]*line, 0, len(lines)+1)
		out = append(out, lines[:i]...)
		out = append(out, directive)
		out = append(out, lines[i:]...)
		return 0, true, out, nil
	}
	return 0, false, nil, ErrNoControlBlock
}

// replaceTempArgs swaps the directive's argument, together with any further
// numeric arguments, for a single value. Anything after them, such as a
// trailing "$ comment", is kept.
func replaceTempArgs(body string, from int, value string) string {
	first, ok := nextToken(body, from)
	if !ok || isInlineComment(first.of(body)) {
		return body[:from] + " " + value + body[from:]
	}
	last := first
	for {
		next, ok := nextToken(body, last.end)
		if !ok || !isNumber(next.of(body)) {
			break
		}
		last = next
	}
	return replaceSpan(body, span{first.start, last.end}, value)
}

// isInlineComment reports whether tok starts an ngspice end-of-line comment.
func isInlineComment(tok string) bool {
	return strings.HasPrefix(tok, "$") || strings.HasPrefix(tok, ";")
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// redirectOutputs rewrites the first occurrence of each output statement and
// marks those lines final. It returns what was rewritten and which kinds were
// not found.
func redirectOutputs(lines []*line, layout model.Layout, runName string) ([]Redirect, []RedirectKind) {
	done := make(map[RedirectKind]bool, len(redirectKinds))
	var redirects []Redirect
	for i, l := range lines {
		if l.final || isComment(l.body) {
			continue
		}
		kw, kwSpan, ok := keyword(l.body)
		if !ok {
			continue
		}
		kind := RedirectKind(kw)
		if done[kind] {
			continue
		}

		var target span
		var found bool
		switch kind {
		case RedirectRaw, RedirectCSV:
			target, found = nextToken(l.body, kwSpan.end)
			if found && isInlineComment(target.of(l.body)) {
				found = false
			}
		case RedirectTxt:
			target, found = printTarget(l.body, kwSpan.end)
			if !found {
				// Not redirected to a file; a later print may be.
				continue
			}
		default:
			continue
		}

		path := formatPath(layout.File(kind.Subdir(), runName, kind.Ext()))
		r := Redirect{Kind: kind, Line: i + 1, To: path}
		if found {
			r.From = target.of(l.body)
			l.body = replaceSpan(l.body, target, path)
		} else {
			l.body = l.body[:kwSpan.end] + " " + path + l.body[kwSpan.end:]
		}
		l.final = true
		done[kind] = true
		redirects = append(redirects, r)
	}

	var missing []RedirectKind
	for _, kind := range redirectKinds {
		if !done[kind] {
			missing = append(missing, kind)
		}
	}
	return redirects, missing
}

// printTarget locates the file after the ">" (or ">>") redirection of a print
// statement. Comparisons inside vector expressions such as v(a>b) are skipped
// by only accepting a marker outside parentheses.
func printTarget(body string, from int) (span, bool) {
	depth := 0
	for i := from; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '>':
			if depth > 0 {
				continue
			}
			after := i + 1
			if after < len(body) && body[after] == '>' {
				after++
			}
			return nextToken(body, after)
		}
	}
	return span{}, false
}
