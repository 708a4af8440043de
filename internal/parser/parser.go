// Package parser decodes HCL token files.
package parser

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/config"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/jsvensson/tonekit/internal/ramp"
	"github.com/jsvensson/tonekit/internal/theme"
	"github.com/zclconf/go-cty/cty"
)

// ErrNoSeed is returned for a ramp with neither base nor preset.
var ErrNoSeed = errors.New("ramp needs a base color or a preset")

// ParseResult holds the decoded and generated token data.
type ParseResult struct {
	Meta      Meta
	Palette   *color.Node
	Ramps     []Ramp
	Harmonies []Harmony
	Checks    []Check
}

// Ramp is a generated ramp. Light and Dark hold both modes; Colors returns
// the one selected by the block's dark_mode setting.
type Ramp struct {
	Name     string
	Options  ramp.Options
	Light    []string
	Dark     []string
	Semantic map[ramp.Role]string
}

// Colors returns the ramp in its configured mode.
func (r Ramp) Colors() []string {
	if r.Options.DarkMode {
		return r.Dark
	}
	return r.Light
}

// Harmony is a generated harmony set.
type Harmony struct {
	Name   string
	Base   string
	Kind   ramp.HarmonyKind
	Colors []string
}

// Check is a text/background pair to audit.
type Check struct {
	Name       string
	Text       color.Color
	Background color.Color
	Use        contrast.UseCase
	Min        contrast.WCAGRating
}

// Meta holds token file metadata.
type Meta struct {
	Name   string `hcl:"name,optional"`
	Prefix string `hcl:"prefix,optional" validate:"omitempty,ident"`
}

// PaletteBlock wraps a single palette block for gohcl decoding.
type PaletteBlock struct {
	Entries hcl.Body `hcl:",remain"`
}

// RawConfig captures meta and palette first (no EvalContext needed).
type RawConfig struct {
	Meta    *Meta         `hcl:"meta,block"`
	Palette *PaletteBlock `hcl:"palette,block"`
	Remain  hcl.Body      `hcl:",remain"`
}

// RampBlock is a ramp definition. Base is filled from BaseValue after decoding.
// ChromaScale must be positive when set; use a small value such as 0.01 for a
// near-gray ramp.
type RampBlock struct {
	Name        string            `hcl:"name,label" validate:"ident"`
	BaseValue   cty.Value         `hcl:"base,optional" validate:"-"`
	Preset      string            `hcl:"preset,optional" validate:"omitempty,preset"`
	Steps       int               `hcl:"steps,optional" validate:"gte=0"`
	ChromaScale *float64          `hcl:"chroma_scale,optional" validate:"omitempty,gt=0"`
	HueBias     float64           `hcl:"hue_bias,optional"`
	DarkMode    bool              `hcl:"dark_mode,optional"`
	Locked      map[string]string `hcl:"locked,optional" validate:"dive,keys,numeric,endkeys,hex6"`
	Semantic    bool              `hcl:"semantic,optional"`
	Base        string            `validate:"omitempty,hex6"`
}

// HarmonyBlock is a harmony definition.
type HarmonyBlock struct {
	Name      string    `hcl:"name,label" validate:"ident"`
	BaseValue cty.Value `hcl:"base" validate:"-"`
	Kind      string    `hcl:"kind" validate:"harmony"`
	Base      string    `validate:"required,hex6"`
}

// GeneratorConfig decodes blocks that reference palette.
type GeneratorConfig struct {
	Ramps     []RampBlock    `hcl:"ramp,block"`
	Harmonies []HarmonyBlock `hcl:"harmony,block"`
	Remain    hcl.Body       `hcl:",remain"`
}

// CheckBlock is a contrast check definition.
type CheckBlock struct {
	Name            string    `hcl:"name,label"`
	TextValue       cty.Value `hcl:"text" validate:"-"`
	BackgroundValue cty.Value `hcl:"background" validate:"-"`
	Use             string    `hcl:"use,optional" validate:"usecase"`
	Min             string    `hcl:"min,optional" validate:"omitempty,wcag"`
	Text            string    `validate:"required,hex6"`
	Background      string    `validate:"required,hex6"`
}

// CheckConfig decodes blocks that reference generated values. It has no
// remain field, so unknown blocks are reported here.
type CheckConfig struct {
	Checks []CheckBlock `hcl:"check,block"`
}

// Loader handles multi-pass HCL decoding, widening the evaluation scope as
// each pass produces values.
type Loader struct {
	body  hcl.Body
	meta  Meta
	scope theme.Scope
	ctx   *hcl.EvalContext
}

// NewLoader reads an HCL file and runs the first pass.
func NewLoader(path string) (*Loader, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	return NewLoaderFromSource(path, src)
}

// NewLoaderFromSource parses src and runs the first pass.
func NewLoaderFromSource(filename string, src []byte) (*Loader, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	// First pass: meta and palette (palette entries may reference earlier entries)
	var raw RawConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding palette: %s", diags.Error())
	}

	palette := &color.Node{}
	if raw.Palette != nil {
		paletteBody, ok := raw.Palette.Entries.(*hclsyntax.Body)
		if !ok {
			return nil, fmt.Errorf("palette block is not an hclsyntax.Body")
		}
		if err := parsePaletteBody(paletteBody, palette, palette, "palette"); err != nil {
			return nil, fmt.Errorf("parsing palette: %w", err)
		}
	}

	var meta Meta
	if raw.Meta != nil {
		meta = *raw.Meta
		if err := config.Validate(&meta); err != nil {
			return nil, fmt.Errorf("meta: %w", err)
		}
	}

	scope := theme.Scope{Palette: palette}
	return &Loader{
		body:  raw.Remain,
		meta:  meta,
		scope: scope,
		ctx:   theme.BuildEvalContext(scope),
	}, nil
}

// Decode decodes the remaining body into target using the current context.
func (l *Loader) Decode(target any) error {
	if diags := gohcl.DecodeBody(l.body, l.ctx, target); diags.HasErrors() {
		return fmt.Errorf("decoding: %s", diags.Error())
	}
	return nil
}

// Palette returns the parsed palette tree.
func (l *Loader) Palette() *color.Node {
	return l.scope.Palette
}

// Context returns the EvalContext for the current pass.
func (l *Loader) Context() *hcl.EvalContext {
	return l.ctx
}

// widen adds generated values to the scope and advances to body.
func (l *Loader) widen(body hcl.Body, ramps []Ramp, harmonies []Harmony) {
	l.body = body
	l.scope = NewScope(l.scope.Palette, ramps, harmonies)
	l.ctx = theme.BuildEvalContext(l.scope)
}

// NewScope builds the evaluation scope checks are decoded against.
func NewScope(palette *color.Node, ramps []Ramp, harmonies []Harmony) theme.Scope {
	scope := theme.Scope{
		Palette:   palette,
		Ramps:     make(map[string][]string, len(ramps)),
		Harmonies: make(map[string][]string, len(harmonies)),
		Semantics: make(map[string]map[string]string),
	}
	for _, r := range ramps {
		scope.Ramps[r.Name] = r.Colors()
		if r.Semantic != nil {
			roles := make(map[string]string, len(r.Semantic))
			for role, hex := range r.Semantic {
				roles[string(role)] = hex
			}
			scope.Semantics[r.Name] = roles
		}
	}
	for _, h := range harmonies {
		scope.Harmonies[h.Name] = h.Colors
	}
	return scope
}

// Parse parses an HCL token file and returns a fully-resolved ParseResult.
func Parse(path string) (*ParseResult, error) {
	loader, err := NewLoader(path)
	if err != nil {
		return nil, err
	}
	return loader.resolve()
}

// ParseSource is Parse for in-memory content.
func ParseSource(filename string, src []byte) (*ParseResult, error) {
	loader, err := NewLoaderFromSource(filename, src)
	if err != nil {
		return nil, err
	}
	return loader.resolve()
}

func (l *Loader) resolve() (*ParseResult, error) {
	// Second pass: ramps and harmonies against palette
	var gen GeneratorConfig
	if err := l.Decode(&gen); err != nil {
		return nil, err
	}

	ramps := make([]Ramp, 0, len(gen.Ramps))
	seen := make(map[string]bool)
	for i := range gen.Ramps {
		r, err := BuildRamp(&gen.Ramps[i])
		if err != nil {
			return nil, fmt.Errorf("ramp %q: %w", gen.Ramps[i].Name, err)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate ramp %q", r.Name)
		}
		seen[r.Name] = true
		ramps = append(ramps, r)
	}

	harmonies := make([]Harmony, 0, len(gen.Harmonies))
	seen = make(map[string]bool)
	for i := range gen.Harmonies {
		h, err := BuildHarmony(&gen.Harmonies[i])
		if err != nil {
			return nil, fmt.Errorf("harmony %q: %w", gen.Harmonies[i].Name, err)
		}
		if seen[h.Name] {
			return nil, fmt.Errorf("duplicate harmony %q", h.Name)
		}
		seen[h.Name] = true
		harmonies = append(harmonies, h)
	}

	// Third pass: checks against everything generated so far
	l.widen(gen.Remain, ramps, harmonies)
	var checks CheckConfig
	if err := l.Decode(&checks); err != nil {
		return nil, err
	}

	resolvedChecks := make([]Check, 0, len(checks.Checks))
	for i := range checks.Checks {
		c, err := BuildCheck(&checks.Checks[i])
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", checks.Checks[i].Name, err)
		}
		resolvedChecks = append(resolvedChecks, c)
	}

	return &ParseResult{
		Meta:      l.meta,
		Palette:   l.scope.Palette,
		Ramps:     ramps,
		Harmonies: harmonies,
		Checks:    resolvedChecks,
	}, nil
}

// resolveHex fills dest from an optional color value. Null leaves it empty.
func resolveHex(val cty.Value, dest *string) error {
	if val.IsNull() {
		return nil
	}
	hex, err := theme.ResolveColor(val)
	if err != nil {
		return err
	}
	*dest = hex
	return nil
}

// BuildRamp resolves, validates and generates a decoded ramp block.
func BuildRamp(b *RampBlock) (Ramp, error) {
	if err := resolveHex(b.BaseValue, &b.Base); err != nil {
		return Ramp{}, fmt.Errorf("base: %w", err)
	}
	if err := config.Validate(b); err != nil {
		return Ramp{}, err
	}
	if b.Base == "" && b.Preset == "" {
		return Ramp{}, ErrNoSeed
	}

	opts := ramp.Options{BaseColor: b.Base}
	if b.Preset != "" {
		var err error
		if opts, err = ramp.PresetOptions(b.Preset); err != nil {
			return Ramp{}, err
		}
		if b.Base != "" {
			opts.BaseColor = b.Base
		}
	}
	opts.Steps = b.Steps
	// An explicit chroma_scale = 0 fails validation above; nil keeps the
	// preset's scale or the default.
	if b.ChromaScale != nil {
		opts.ChromaScale = *b.ChromaScale
	}
	opts.HueBias = b.HueBias
	opts.DarkMode = b.DarkMode

	if len(b.Locked) > 0 {
		opts.LockedSteps = make(map[int]string, len(b.Locked))
		for key, hex := range b.Locked {
			pos, err := strconv.Atoi(key)
			if err != nil {
				return Ramp{}, fmt.Errorf("locked step %q: %w", key, err)
			}
			opts.LockedSteps[pos] = hex
		}
	}

	// Locked steps belong to the configured mode only.
	light, dark := opts, opts
	light.DarkMode, dark.DarkMode = false, true
	if opts.DarkMode {
		light.LockedSteps = nil
	} else {
		dark.LockedSteps = nil
	}

	r := Ramp{Name: b.Name, Options: opts}
	var err error
	if r.Light, err = ramp.Generate(light); err != nil {
		return Ramp{}, err
	}
	if r.Dark, err = ramp.Generate(dark); err != nil {
		return Ramp{}, err
	}
	if b.Semantic {
		if r.Semantic, err = ramp.Semantic(opts.BaseColor); err != nil {
			return Ramp{}, err
		}
	}
	return r, nil
}

// BuildHarmony resolves and validates a decoded harmony block.
func BuildHarmony(b *HarmonyBlock) (Harmony, error) {
	if err := resolveHex(b.BaseValue, &b.Base); err != nil {
		return Harmony{}, fmt.Errorf("base: %w", err)
	}
	if err := config.Validate(b); err != nil {
		return Harmony{}, err
	}

	kind, err := ramp.ParseHarmonyKind(b.Kind)
	if err != nil {
		return Harmony{}, err
	}
	colors, err := ramp.Harmony(b.Base, kind)
	if err != nil {
		return Harmony{}, err
	}
	base, err := color.NormalizeHex(b.Base)
	if err != nil {
		return Harmony{}, err
	}
	return Harmony{Name: b.Name, Base: base, Kind: kind, Colors: colors}, nil
}

// BuildCheck resolves and validates a decoded check block.
func BuildCheck(b *CheckBlock) (Check, error) {
	if err := resolveHex(b.TextValue, &b.Text); err != nil {
		return Check{}, fmt.Errorf("text: %w", err)
	}
	if err := resolveHex(b.BackgroundValue, &b.Background); err != nil {
		return Check{}, fmt.Errorf("background: %w", err)
	}
	if err := config.Validate(b); err != nil {
		return Check{}, err
	}

	text, err := color.ParseHex(b.Text)
	if err != nil {
		return Check{}, fmt.Errorf("text: %w", err)
	}
	bg, err := color.ParseHex(b.Background)
	if err != nil {
		return Check{}, fmt.Errorf("background: %w", err)
	}
	use, err := contrast.ParseUseCase(b.Use)
	if err != nil {
		return Check{}, err
	}
	minRating := contrast.RatingAA
	if b.Min != "" {
		if minRating, err = contrast.ParseWCAGRating(b.Min); err != nil {
			return Check{}, err
		}
	}
	return Check{Name: b.Name, Text: text, Background: bg, Use: use, Min: minRating}, nil
}

// PaletteItem is a palette attribute or block in source order.
type PaletteItem struct {
	Pos   hcl.Pos
	Attr  *hclsyntax.Attribute
	Block *hclsyntax.Block
}

// PaletteItems returns the attributes and blocks of body sorted by source
// position, so later entries can reference earlier ones.
func PaletteItems(body *hclsyntax.Body) []PaletteItem {
	items := make([]PaletteItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, PaletteItem{Pos: attr.SrcRange.Start, Attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, PaletteItem{Pos: block.DefRange().Start, Block: block})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Pos.Byte < items[j].Pos.Byte
	})
	return items
}

// parsePaletteBody parses a palette block body with support for:
// - Direct color attributes: key = "#hex"
// - Group blocks with an optional own color: key { color = "#hex", sub = ... }
// - References to earlier entries and token functions
func parsePaletteBody(body *hclsyntax.Body, root, node *color.Node, prefix string) error {
	for _, item := range PaletteItems(body) {
		if item.Block != nil {
			if len(item.Block.Labels) > 0 {
				return fmt.Errorf("%s.%s: palette groups take no labels", prefix, item.Block.Type)
			}
			if node.Children == nil {
				node.Children = make(map[string]*color.Node)
			}
			child := &color.Node{}
			node.Children[item.Block.Type] = child
			if err := parsePaletteBody(item.Block.Body, root, child, prefix+"."+item.Block.Type); err != nil {
				return err
			}
			continue
		}

		name := item.Attr.Name
		ctx := theme.BuildEvalContext(theme.Scope{Palette: root})
		val, diags := item.Attr.Expr.Value(ctx)
		if diags.HasErrors() {
			return fmt.Errorf("evaluating %s.%s: %s", prefix, name, diags.Error())
		}
		hex, err := theme.ResolveColor(val)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", prefix, name, err)
		}
		c, err := color.ParseHex(hex)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", prefix, name, err)
		}

		if name == "color" {
			node.Color = &c
			continue
		}
		if node.Children == nil {
			node.Children = make(map[string]*color.Node)
		}
		node.Children[name] = &color.Node{Color: &c}
	}
	return nil
}
