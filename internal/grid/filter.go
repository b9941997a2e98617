package grid

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vk/cornergrid/internal/model"
)

// filterEnv is the environment a filter expression is evaluated against.
type filterEnv struct {
	Corner string `expr:"corner"`
	Temp   int    `expr:"temp"`
	Tag    string `expr:"tag"`
	Index  int    `expr:"index"`
}

// Filter keeps the pairs for which a boolean expr-lang expression holds,
// e.g. `corner startsWith "ss" && temp < 0`.
type Filter struct {
	source  string
	program *vm.Program
}

// NewFilter compiles source. An empty source yields a filter that keeps
// every pair.
func NewFilter(source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return &Filter{}, nil
	}
	program, err := expr.Compile(source, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", source, err)
	}
	return &Filter{source: source, program: program}, nil
}

// String returns the filter source.
func (f *Filter) String() string {
	return f.source
}

// Apply returns the pairs matching the filter, in their original order.
// Index is the 1-based position of the pair before filtering.
func (f *Filter) Apply(pairs []Pair) ([]Pair, error) {
	if f == nil || f.program == nil {
		return pairs, nil
	}
	kept := make([]Pair, 0, len(pairs))
	for i, p := range pairs {
		env := filterEnv{
			Corner: string(p.Corner),
			Temp:   int(p.Temperature),
			Tag:    model.RunTag(p.Corner, p.Temperature),
			Index:  i + 1,
		}
		out, err := expr.Run(f.program, env)
		if err != nil {
			return nil, fmt.Errorf("filter %q on %s: %w", f.source, env.Tag, err)
		}
		if ok, _ := out.(bool); ok {
			kept = append(kept, p)
		}
	}
	return kept, nil
}
