package rewrite

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/vk/cornergrid/internal/model"
)

// ErrNoControlBlock is returned when a .temp directive has to be inserted but
// the template has no .control block to insert it in front of.
var ErrNoControlBlock = errors.New("template has no .temp directive and no .control block to insert one before")

// cornerDirectives are the statements whose sentinel tokens name a corner.
var cornerDirectives = map[string]bool{
	".lib":     true,
	".include": true,
	".inc":     true,
	".model":   true,
	".param":   true,
}

// Params describes one run of a template.
type Params struct {
	// BaseName is the template file stem, e.g. "case_sim".
	BaseName string
	// Corner replaces the sentinel token.
	Corner model.Corner
	// Temperature is written into the .temp directive. Nil leaves the
	// template's directive as is and keeps the temperature out of the run name.
	Temperature *model.Temperature
	// OutputDir is the output root holding the raw, csv and txt directories.
	OutputDir string
}

// RunName returns the name every output of this run is based on.
func (p Params) RunName() string {
	tag := model.CornerTag(p.Corner)
	if p.Temperature != nil {
		tag = model.RunTag(p.Corner, *p.Temperature)
	}
	return model.RunName(p.BaseName, tag)
}

// Changes counts what a rewrite touched. It is informational only.
type Changes struct {
	CornerTokens     int
	TempDirectives   int
	TempInserted     bool
	Redirects        []Redirect
	NameReferences   int
	MissingRedirects []RedirectKind
}

// Result is a rewritten deck.
type Result struct {
	Text    string
	RunName string
	Changes Changes
}

// Rewriter rewrites templates into per-run decks.
type Rewriter struct {
	sentinel string
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithSentinel sets the placeholder corner token. Empty values are ignored.
func WithSentinel(token string) Option {
	return func(r *Rewriter) {
		if token != "" {
			r.sentinel = token
		}
	}
}

// New returns a Rewriter using model.DefaultSentinel unless overridden.
func New(opts ...Option) *Rewriter {
	r := &Rewriter{sentinel: model.DefaultSentinel}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sentinel returns the placeholder corner token.
func (r *Rewriter) Sentinel() string {
	return r.sentinel
}

// Rewrite produces the deck for one run. The passes run in a fixed order:
// corner tokens, the temperature directive, output redirections, and finally
// base-name references on every line not already finalised.
func (r *Rewriter) Rewrite(text string, p Params) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.ErrEmptyTemplate
	}
	if p.BaseName == "" {
		return nil, errors.New("base name is required")
	}
	if p.Corner == "" {
		return nil, errors.New("corner is required")
	}

	lines := splitLines(text)
	runName := p.RunName()
	res := &Result{RunName: runName}

	markHeader(lines)
	res.Changes.CornerTokens = r.substituteCorner(lines, p.Corner)

	if p.Temperature != nil {
		count, inserted, updated, err := setTemperature(lines, *p.Temperature)
		if err != nil {
			return nil, err
		}
		lines = updated
		res.Changes.TempDirectives = count
		res.Changes.TempInserted = inserted
	}

	res.Changes.Redirects, res.Changes.MissingRedirects = redirectOutputs(lines, model.NewLayout(p.OutputDir), runName)
	res.Changes.NameReferences = renameReferences(lines, p.BaseName, runName)

	res.Text = joinLines(lines)
	return res, nil
}

// markHeader keeps the sch_path header pointing at the real schematic.
func markHeader(lines []*line) {
	for _, l := range lines {
		content := model.ContentText(l.body)
		if content == "" {
			continue
		}
		if strings.Contains(content, model.HeaderMarker) {
			l.final = true
		}
		return
	}
}

func (r *Rewriter) substituteCorner(lines []*line, corner model.Corner) int {
	total := 0
	for _, l := range lines {
		if l.final || isComment(l.body) {
			continue
		}
		kw, _, ok := keyword(l.body)
		if !ok || !cornerDirectives[kw] {
			continue
		}
		var n int
		l.body, n = replaceToken(l.body, r.sentinel, string(corner), cornerBoundary)
		total += n
	}
	return total
}

func renameReferences(lines []*line, baseName, runName string) int {
	total := 0
	for _, l := range lines {
		if l.final {
			continue
		}
		var n int
		l.body, n = replaceToken(l.body, baseName, runName, nameBoundary)
		total += n
	}
	return total
}

// formatPath renders an output path the way the deck refers to it: forward
// slashes, quoted when it contains whitespace.
func formatPath(path string) string {
	path = filepath.ToSlash(path)
	if strings.ContainsAny(path, " \t") {
		return `"` + path + `"`
	}
	return path
}
