package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/cornergrid/internal/model"
)

// newEvalContext returns the variables and functions available to sweep file
// expressions, e.g. `temperatures = range(-40, 126, 55)` or
// `corners = concat(default_corners, ["tt_mm"])`.
func newEvalContext() *hcl.EvalContext {
	corners := make([]cty.Value, len(model.DefaultCorners))
	for i, c := range model.DefaultCorners {
		corners[i] = cty.StringVal(string(c))
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_corners": cty.ListVal(corners),
			"nominal_temp":    cty.NumberIntVal(int64(model.NominalTemperature)),
		},
		Functions: map[string]function.Function{
			"abs":      stdlib.AbsoluteFunc,
			"concat":   stdlib.ConcatFunc,
			"distinct": stdlib.DistinctFunc,
			"flatten":  stdlib.FlattenFunc,
			"format":   stdlib.FormatFunc,
			"lower":    stdlib.LowerFunc,
			"range":    stdlib.RangeFunc,
			"reverse":  stdlib.ReverseListFunc,
			"sort":     stdlib.SortFunc,
			"upper":    stdlib.UpperFunc,
		},
	}
}
