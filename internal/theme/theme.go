// Package theme builds the HCL evaluation context that token expressions are
// resolved against.
package theme

import (
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Scope holds the values visible to token expressions. Generated values are
// optional; a nil map leaves its namespace out of the context.
type Scope struct {
	Palette   *color.Node
	Ramps     map[string][]string
	Harmonies map[string][]string
	Semantics map[string]map[string]string
}

// FunctionNames lists the functions available in token expressions.
var FunctionNames = []string{"best_text", "darken", "lighten", "mix", "oklch"}

// StepKey returns the attribute name for a 1-based ramp position.
func StepKey(position int) string {
	return fmt.Sprintf("step%d", position)
}

// ResolveColor extracts a color hex string from a cty.Value.
// If the value is a string, return it directly.
// If the value is an object, extract the "color" key.
func ResolveColor(val cty.Value) (string, error) {
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("color value is null or unknown")
	}
	if val.Type() == cty.String {
		return val.AsString(), nil
	}
	if val.Type().IsObjectType() {
		if val.Type().HasAttribute("color") {
			colorVal := val.GetAttr("color")
			if colorVal.Type() == cty.String {
				return colorVal.AsString(), nil
			}
		}
		return "", fmt.Errorf("object has no 'color' attribute; reference a specific child or add a color attribute")
	}
	return "", fmt.Errorf("expected string or object with color attribute, got %s", val.Type().FriendlyName())
}

// NodeToCty converts a color.Node to a cty.Value for HCL evaluation context.
// Leaf nodes (no children) become cty.StringVal.
// Nodes with children become cty.ObjectVal, with "color" as a sibling key if the node has its own color.
func NodeToCty(node *color.Node) cty.Value {
	if node == nil {
		return cty.EmptyObjectVal
	}
	if node.Children == nil {
		if node.Color != nil {
			return cty.StringVal(node.Color.Hex())
		}
		return cty.EmptyObjectVal
	}

	vals := make(map[string]cty.Value, len(node.Children)+1)
	if node.Color != nil {
		vals["color"] = cty.StringVal(node.Color.Hex())
	}
	for k, child := range node.Children {
		vals[k] = NodeToCty(child)
	}
	return cty.ObjectVal(vals)
}

// RampsToCty exposes each ramp as an object of step1..stepN attributes.
func RampsToCty(ramps map[string][]string) cty.Value {
	vals := make(map[string]cty.Value, len(ramps))
	for name, steps := range ramps {
		attrs := make(map[string]cty.Value, len(steps))
		for i, hex := range steps {
			attrs[StepKey(i+1)] = cty.StringVal(hex)
		}
		vals[name] = cty.ObjectVal(attrs)
	}
	return cty.ObjectVal(vals)
}

// HarmoniesToCty exposes each harmony as an indexable tuple.
func HarmoniesToCty(harmonies map[string][]string) cty.Value {
	vals := make(map[string]cty.Value, len(harmonies))
	for name, colors := range harmonies {
		elems := make([]cty.Value, len(colors))
		for i, hex := range colors {
			elems[i] = cty.StringVal(hex)
		}
		vals[name] = cty.TupleVal(elems)
	}
	return cty.ObjectVal(vals)
}

// SemanticsToCty exposes each semantic set as an object keyed by role.
func SemanticsToCty(semantics map[string]map[string]string) cty.Value {
	vals := make(map[string]cty.Value, len(semantics))
	for name, roles := range semantics {
		attrs := make(map[string]cty.Value, len(roles))
		for role, hex := range roles {
			attrs[role] = cty.StringVal(hex)
		}
		vals[name] = cty.ObjectVal(attrs)
	}
	return cty.ObjectVal(vals)
}

func parseArg(v cty.Value) (color.Color, error) {
	hex, err := ResolveColor(v)
	if err != nil {
		return color.Color{}, err
	}
	return color.ParseHex(hex)
}

// number reads args[i] as a finite float64. Literals beyond float64 range
// such as 1e400 are rejected rather than becoming ±Inf.
func number(args []cty.Value, i int) (float64, error) {
	f, _ := args[i].AsBigFloat().Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, function.NewArgErrorf(i, "number %s is out of range", args[i].AsBigFloat().Text('g', 6))
	}
	return f, nil
}

// colorParam accepts a hex string or a palette group with a color attribute.
func colorParam(name string) function.Parameter {
	return function.Parameter{Name: name, Type: cty.DynamicPseudoType}
}

// MakeLightenFunc creates an HCL function that raises OKLCH lightness.
// Usage: lighten("#hex", 0.1) or lighten(palette.brand, 0.1)
func MakeLightenFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Raises OKLCH lightness by the given amount (0.0 to 1.0)",
		Params: []function.Parameter{
			colorParam("color"),
			{Name: "amount", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			c, err := parseArg(args[0])
			if err != nil {
				return cty.NilVal, err
			}
			amount, err := number(args, 1)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(color.Lighten(c, amount).Hex()), nil
		},
	})
}

// MakeDarkenFunc creates an HCL function that lowers OKLCH lightness.
// Usage: darken("#hex", 0.1) or darken(palette.brand, 0.1)
func MakeDarkenFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Lowers OKLCH lightness by the given amount (0.0 to 1.0)",
		Params: []function.Parameter{
			colorParam("color"),
			{Name: "amount", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			c, err := parseArg(args[0])
			if err != nil {
				return cty.NilVal, err
			}
			amount, err := number(args, 1)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(color.Darken(c, amount).Hex()), nil
		},
	})
}

// MakeMixFunc creates an HCL function that blends two colors in OKLCH.
// Usage: mix(palette.brand, "#ffffff", 0.25)
func MakeMixFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Blends the first color toward the second by t (0.0 to 1.0)",
		Params: []function.Parameter{
			colorParam("a"),
			colorParam("b"),
			{Name: "t", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			a, err := parseArg(args[0])
			if err != nil {
				return cty.NilVal, err
			}
			b, err := parseArg(args[1])
			if err != nil {
				return cty.NilVal, err
			}
			t, err := number(args, 2)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(color.Mix(a, b, t).Hex()), nil
		},
	})
}

// MakeBestTextFunc creates an HCL function returning black or white,
// whichever reads better on the background.
func MakeBestTextFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Returns #000000 or #ffffff, whichever has more APCA contrast on the background",
		Params:      []function.Parameter{colorParam("background")},
		Type:        function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			bg, err := parseArg(args[0])
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(contrast.BestTextColor(bg).Hex()), nil
		},
	})
}

// MakeOKLCHFunc creates an HCL function that builds a color from OKLCH
// coordinates, clamped into sRGB.
// Usage: oklch(0.62, 0.19, 260)
func MakeOKLCHFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Builds a color from OKLCH lightness, chroma and hue",
		Params: []function.Parameter{
			{Name: "l", Type: cty.Number},
			{Name: "c", Type: cty.Number},
			{Name: "h", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			var v [3]float64
			for i := range v {
				f, err := number(args, i)
				if err != nil {
					return cty.NilVal, err
				}
				v[i] = f
			}
			lch := color.OKLCH{L: v[0], C: v[1], H: color.NormalizeHue(v[2])}
			return cty.StringVal(lch.Hex()), nil
		},
	})
}

// Functions returns the function table shared by every evaluation pass.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"best_text": MakeBestTextFunc(),
		"darken":    MakeDarkenFunc(),
		"lighten":   MakeLightenFunc(),
		"mix":       MakeMixFunc(),
		"oklch":     MakeOKLCHFunc(),
	}
}

// BuildEvalContext creates an HCL evaluation context with the scope's
// variables and the token functions.
func BuildEvalContext(s Scope) *hcl.EvalContext {
	vars := map[string]cty.Value{
		"palette": NodeToCty(s.Palette),
	}
	if s.Ramps != nil {
		vars["ramp"] = RampsToCty(s.Ramps)
	}
	if s.Harmonies != nil {
		vars["harmony"] = HarmoniesToCty(s.Harmonies)
	}
	if s.Semantics != nil {
		vars["semantic"] = SemanticsToCty(s.Semantics)
	}
	return &hcl.EvalContext{
		Variables: vars,
		Functions: Functions(),
	}
}

// SortedKeys returns the keys of m in order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
