package rewrite

import "strings"

// boundary decides whether a neighbouring byte ends a token.
type boundary func(c byte) bool

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// cornerBoundary treats underscores as separators so "tt_model" carries the
// sentinel while "tt1" and "output" do not.
func cornerBoundary(c byte) bool {
	return !isAlnum(c)
}

// nameBoundary keeps underscores inside the token so "case_sim" does not match
// within "case_sim2" or "my_case_sim".
func nameBoundary(c byte) bool {
	return !isAlnum(c) && c != '_'
}

// replaceToken replaces every occurrence of old in s that is delimited on both
// sides by the string edges or bytes accepted by edge. It returns the
// string and the number of replacements.
func replaceToken(s, old, repl string, edge boundary) (string, int) {
	if old == "" || !strings.Contains(s, old) {
		return s, 0
	}
	var b strings.Builder
	n := 0
	i := 0
	for {
		j := strings.Index(s[i:], old)
		if j < 0 {
			break
		}
		j += i
		end := j + len(old)
		leftOK := j == 0 || edge(s[j-1])
		rightOK := end == len(s) || edge(s[end])
		if leftOK && rightOK {
			b.WriteString(s[i:j])
			b.WriteString(repl)
			n++
			i = end
			continue
		}
		b.WriteString(s[i : j+1])
		i = j + 1
	}
	if n == 0 {
		return s, 0
	}
	b.WriteString(s[i:])
	return b.String(), n
}
