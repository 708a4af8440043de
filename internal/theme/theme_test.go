package theme

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/tonekit/internal/color"
	"github.com/zclconf/go-cty/cty"
)

func testPalette() *color.Node {
	brand := color.MustParseHex("#2563eb")
	surface := color.MustParseHex("#ffffff")
	sunken := color.MustParseHex("#f3f4f6")
	return &color.Node{
		Children: map[string]*color.Node{
			"brand": {Color: &brand},
			"surface": {
				Color: &surface,
				Children: map[string]*color.Node{
					"sunken": {Color: &sunken},
				},
			},
		},
	}
}

func testScope() Scope {
	return Scope{
		Palette:   testPalette(),
		Ramps:     map[string][]string{"blue": {"#fafcff", "#f0f5ff", "#00175d"}},
		Harmonies: map[string][]string{"accent": {"#eb2563", "#63eb25"}},
		Semantics: map[string]map[string]string{"blue": {"success": "#00a050", "danger": "#e0302a"}},
	}
}

func eval(t *testing.T, ctx *hcl.EvalContext, src string) (cty.Value, hcl.Diagnostics) {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		t.Fatalf("parsing %q: %s", src, diags.Error())
	}
	return expr.Value(ctx)
}

func TestNodeToCty(t *testing.T) {
	val := NodeToCty(testPalette())
	if !val.Type().IsObjectType() {
		t.Fatalf("expected object, got %s", val.Type().FriendlyName())
	}
	if got := val.GetAttr("brand").AsString(); got != "#2563eb" {
		t.Errorf("brand = %q", got)
	}
	surface := val.GetAttr("surface")
	if got := surface.GetAttr("color").AsString(); got != "#ffffff" {
		t.Errorf("surface.color = %q", got)
	}
	if got := surface.GetAttr("sunken").AsString(); got != "#f3f4f6" {
		t.Errorf("surface.sunken = %q", got)
	}
}

func TestNodeToCty_Nil(t *testing.T) {
	if val := NodeToCty(nil); !val.RawEquals(cty.EmptyObjectVal) {
		t.Errorf("NodeToCty(nil) = %#v", val)
	}
}

func TestResolveColor(t *testing.T) {
	tests := []struct {
		name    string
		val     cty.Value
		want    string
		wantErr bool
	}{
		{"string", cty.StringVal("#ff0000"), "#ff0000", false},
		{"group with color", cty.ObjectVal(map[string]cty.Value{
			"color": cty.StringVal("#c0c0c0"),
			"low":   cty.StringVal("#21202e"),
		}), "#c0c0c0", false},
		{"group without color", cty.ObjectVal(map[string]cty.Value{
			"low": cty.StringVal("#21202e"),
		}), "", true},
		{"number", cty.NumberIntVal(3), "", true},
		{"null", cty.NullVal(cty.String), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveColor(tt.val)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildEvalContext_References(t *testing.T) {
	ctx := BuildEvalContext(testScope())

	tests := []struct {
		expr string
		want string
	}{
		{"palette.brand", "#2563eb"},
		{"palette.surface.sunken", "#f3f4f6"},
		{"ramp.blue.step1", "#fafcff"},
		{"ramp.blue.step3", "#00175d"},
		{"harmony.accent[1]", "#63eb25"},
		{"semantic.blue.danger", "#e0302a"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			val, diags := eval(t, ctx, tt.expr)
			if diags.HasErrors() {
				t.Fatalf("eval error: %s", diags.Error())
			}
			if got := val.AsString(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildEvalContext_PaletteOnly(t *testing.T) {
	ctx := BuildEvalContext(Scope{Palette: testPalette()})
	if _, ok := ctx.Variables["ramp"]; ok {
		t.Error("ramp namespace present without ramps")
	}
	if _, diags := eval(t, ctx, "ramp.blue.step1"); !diags.HasErrors() {
		t.Error("expected error referencing ramp in palette-only context")
	}
}

func TestFunctions(t *testing.T) {
	ctx := BuildEvalContext(testScope())

	tests := []struct {
		expr string
		want string
	}{
		{`best_text("#ffffff")`, "#000000"},
		{`best_text("#000000")`, "#ffffff"},
		{`best_text(palette.surface)`, "#000000"},
		{`mix("#ff0000", "#0000ff", 0)`, "#ff0000"},
		{`mix("#ff0000", "#0000ff", 1)`, "#0000ff"},
		{`lighten("#808080", 0)`, "#808080"},
		{`darken("#000000", 0.2)`, "#000000"},
		{`lighten("#ffffff", 0.2)`, "#ffffff"},
		{`oklch(1, 0, 0)`, "#ffffff"},
		{`oklch(0, 0.2, 90)`, "#000000"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			val, diags := eval(t, ctx, tt.expr)
			if diags.HasErrors() {
				t.Fatalf("eval error: %s", diags.Error())
			}
			if got := val.AsString(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunctions_LightenDarkenDirection(t *testing.T) {
	ctx := BuildEvalContext(testScope())

	base := color.MustParseHex("#2563eb").OKLCH().L
	for _, tt := range []struct {
		expr    string
		lighter bool
	}{
		{`lighten(palette.brand, 0.15)`, true},
		{`darken(palette.brand, 0.15)`, false},
	} {
		val, diags := eval(t, ctx, tt.expr)
		if diags.HasErrors() {
			t.Fatalf("%s: %s", tt.expr, diags.Error())
		}
		l := color.MustParseHex(val.AsString()).OKLCH().L
		if tt.lighter != (l > base) {
			t.Errorf("%s lightness = %f, base %f", tt.expr, l, base)
		}
	}
}

func TestFunctions_InvalidColor(t *testing.T) {
	ctx := BuildEvalContext(testScope())
	for _, expr := range []string{`lighten("blue", 0.1)`, `best_text(3)`, `mix("#fff", "#000000", 0.5)`} {
		if _, diags := eval(t, ctx, expr); !diags.HasErrors() {
			t.Errorf("%s: expected error", expr)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("SortedKeys = %v", got)
	}
}
