package lsp

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/tonekit/internal/audit"
	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/parser"
	"github.com/jsvensson/tonekit/internal/theme"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
	DiagInfo    = protocol.DiagnosticSeverityInformation
)

const diagSource = "tonekit"

// colorAttributes are the block attributes whose values resolve to a color.
var colorAttributes = map[string]bool{
	"base":       true,
	"text":       true,
	"background": true,
}

// AnalysisResult holds all information produced by analyzing a token file.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Palette     *color.Node
	Scope       theme.Scope
	Symbols     map[string]protocol.Range // "palette.base", "ramp.blue" -> definition range
	Colors      []ColorLocation
	Ramps       []parser.Ramp
	Harmonies   []parser.Harmony
}

// ColorLocation records a resolved color at a specific source position.
type ColorLocation struct {
	Range protocol.Range
	Color color.Color
	IsRef bool // true for references and function calls, false for hex literals
}

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

// hclRangeToLSP converts an HCL range to an LSP range.
func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze parses HCL content from memory and produces diagnostics, a symbol table,
// and color locations. It collects ALL errors rather than short-circuiting on the first.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{
		Symbols: make(map[string]protocol.Range),
	}

	file, diags := hclsyntax.ParseConfig([]byte(content), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		for _, d := range diags {
			result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
		}
		// Cannot proceed with semantic analysis if syntax is broken
		return result
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		result.addError(hcl.Range{}, "internal error: parsed body is not *hclsyntax.Body")
		return result
	}

	for name, attr := range body.Attributes {
		result.addError(attr.SrcRange, fmt.Sprintf("unexpected top-level attribute %q", name))
	}

	var paletteBody *hclsyntax.Body
	var ramps, harmonies, checks []*hclsyntax.Block

	for _, block := range body.Blocks {
		switch block.Type {
		case "palette":
			if paletteBody != nil {
				result.addError(block.DefRange(), "duplicate palette block")
				continue
			}
			paletteBody = block.Body
		case "ramp":
			ramps = append(ramps, block)
		case "harmony":
			harmonies = append(harmonies, block)
		case "check":
			checks = append(checks, block)
		case "meta":
			result.analyzeMeta(block)
		default:
			result.addError(block.DefRange(), fmt.Sprintf("unsupported block type %q (valid: meta, palette, ramp, harmony, check)", block.Type))
		}
	}

	// Palette with incremental evaluation (source-ordered, self-referencing)
	palette := &color.Node{}
	if paletteBody != nil {
		result.analyzePaletteBody(paletteBody, palette, palette, "palette")
	}
	result.Palette = palette

	ctx := theme.BuildEvalContext(theme.Scope{Palette: palette})
	for _, block := range ramps {
		result.analyzeRamp(block, ctx)
	}
	for _, block := range harmonies {
		result.analyzeHarmony(block, ctx)
	}

	result.Scope = parser.NewScope(palette, result.Ramps, result.Harmonies)
	ctx = theme.BuildEvalContext(result.Scope)
	for _, block := range checks {
		result.analyzeCheck(block, ctx)
	}

	return result
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagSource),
	}

	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}

	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}

	return diag
}

// addError adds an error-level diagnostic at the given range.
func (r *AnalysisResult) addError(rng hcl.Range, msg string) {
	r.addDiagnostic(rng, DiagError, msg)
}

// addWarning adds a warning-level diagnostic at the given range.
func (r *AnalysisResult) addWarning(rng hcl.Range, msg string) {
	r.addDiagnostic(rng, DiagWarning, msg)
}

func (r *AnalysisResult) addDiagnostic(rng hcl.Range, sev protocol.DiagnosticSeverity, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &sev,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

// addHCLDiags adds decode diagnostics, falling back to rng when a
// diagnostic carries no subject.
func (r *AnalysisResult) addHCLDiags(diags hcl.Diagnostics, rng hcl.Range) {
	for _, d := range diags {
		diag := hclDiagToLSP(d)
		if d.Subject == nil {
			diag.Range = hclRangeToLSP(rng)
		}
		r.Diagnostics = append(r.Diagnostics, diag)
	}
}

func strPtr(s string) *string {
	return &s
}

func (r *AnalysisResult) analyzeMeta(block *hclsyntax.Block) {
	var meta parser.Meta
	if diags := gohcl.DecodeBody(block.Body, nil, &meta); diags.HasErrors() {
		r.addHCLDiags(diags, block.DefRange())
		return
	}
	if meta.Prefix != "" && !hclsyntax.ValidIdentifier(meta.Prefix) {
		rng := block.DefRange()
		if attr, ok := block.Body.Attributes["prefix"]; ok {
			rng = attr.SrcRange
		}
		r.addError(rng, fmt.Sprintf("meta.prefix %q is not a valid identifier", meta.Prefix))
	}
}

// analyzePaletteBody parses a palette block body, collecting diagnostics and building
// the symbol table and color locations. Items are processed in source order so later
// entries can reference earlier ones.
func (r *AnalysisResult) analyzePaletteBody(body *hclsyntax.Body, paletteRoot *color.Node, node *color.Node, prefix string) {
	for _, item := range parser.PaletteItems(body) {
		if item.Block != nil {
			if node.Children == nil {
				node.Children = make(map[string]*color.Node)
			}
			child := &color.Node{}
			node.Children[item.Block.Type] = child
			path := prefix + "." + item.Block.Type
			r.Symbols[path] = hclRangeToLSP(item.Block.DefRange())
			if len(item.Block.Labels) > 0 {
				r.addError(item.Block.DefRange(), fmt.Sprintf("%s: palette groups take no labels", path))
			}
			r.analyzePaletteBody(item.Block.Body, paletteRoot, child, path)
			continue
		}

		// Rebuild eval context with current state of palette root
		ctx := theme.BuildEvalContext(theme.Scope{Palette: paletteRoot})

		attrName := item.Attr.Name
		symbolName := prefix + "." + attrName

		// Record symbol for non-"color" attributes
		if attrName != "color" {
			r.Symbols[symbolName] = hclRangeToLSP(item.Attr.SrcRange)
		}

		c, ok := r.evalColor(item.Attr, ctx, symbolName)
		if !ok {
			continue
		}

		if attrName == "color" {
			node.Color = &c
		} else {
			if node.Children == nil {
				node.Children = make(map[string]*color.Node)
			}
			node.Children[attrName] = &color.Node{Color: &c}
		}
	}
}

// evalColor evaluates a color attribute and records its location. Failures
// become error diagnostics on the attribute.
func (r *AnalysisResult) evalColor(attr *hclsyntax.Attribute, ctx *hcl.EvalContext, name string) (color.Color, bool) {
	val, diags := attr.Expr.Value(ctx)
	if diags.HasErrors() {
		r.addError(attr.SrcRange, fmt.Sprintf("evaluating %s: %s", name, diags.Error()))
		return color.Color{}, false
	}

	hexStr, err := theme.ResolveColor(val)
	if err != nil {
		r.addError(attr.SrcRange, fmt.Sprintf("%s: %s", name, err.Error()))
		return color.Color{}, false
	}

	c, err := color.ParseHex(hexStr)
	if err != nil {
		r.addError(attr.SrcRange, fmt.Sprintf("%s: %s", name, err.Error()))
		return color.Color{}, false
	}

	r.Colors = append(r.Colors, ColorLocation{
		Range: hclRangeToLSP(attr.Expr.Range()),
		Color: c,
		IsRef: !isLiteralExpr(attr.Expr),
	})
	return c, true
}

// recordBlockColors records color locations for a generator or check block:
// color attributes are evaluated, and hex literals inside locked maps are
// picked up as they are.
func (r *AnalysisResult) recordBlockColors(block *hclsyntax.Block, ctx *hcl.EvalContext) bool {
	ok := true
	for name, attr := range block.Body.Attributes {
		switch {
		case colorAttributes[name]:
			if _, valid := r.evalColor(attr, ctx, blockPath(block)+"."+name); !valid {
				ok = false
			}
		case name == "locked":
			obj, isObj := attr.Expr.(*hclsyntax.ObjectConsExpr)
			if !isObj {
				continue
			}
			for _, item := range obj.Items {
				r.recordLiteral(item.ValueExpr)
			}
		}
	}
	return ok
}

// recordLiteral records a quoted hex literal's color location.
func (r *AnalysisResult) recordLiteral(expr hclsyntax.Expression) {
	hex, ok := literalString(expr)
	if !ok {
		return
	}
	c, err := color.ParseHex(hex)
	if err != nil {
		return
	}
	r.Colors = append(r.Colors, ColorLocation{
		Range: hclRangeToLSP(expr.Range()),
		Color: c,
	})
}

// requireLabel reports whether a generator or check block has its one name label.
func (r *AnalysisResult) requireLabel(block *hclsyntax.Block) bool {
	if len(block.Labels) != 1 {
		r.addError(block.DefRange(), fmt.Sprintf("%s blocks need exactly one name label", block.Type))
		return false
	}
	return true
}

func blockPath(block *hclsyntax.Block) string {
	if len(block.Labels) == 0 {
		return block.Type
	}
	return block.Type + "." + block.Labels[0]
}

func (r *AnalysisResult) analyzeRamp(block *hclsyntax.Block, ctx *hcl.EvalContext) {
	if !r.requireLabel(block) {
		return
	}
	path := blockPath(block)
	if _, dup := r.Symbols[path]; dup {
		r.addError(block.DefRange(), fmt.Sprintf("duplicate ramp %q", block.Labels[0]))
		return
	}
	r.Symbols[path] = hclRangeToLSP(block.DefRange())

	if !r.recordBlockColors(block, ctx) {
		return
	}

	var rb parser.RampBlock
	if diags := gohcl.DecodeBody(block.Body, ctx, &rb); diags.HasErrors() {
		r.addHCLDiags(diags, block.DefRange())
		return
	}
	rb.Name = block.Labels[0]

	ramp, err := parser.BuildRamp(&rb)
	if err != nil {
		r.addError(block.DefRange(), fmt.Sprintf("%s: %s", path, err))
		return
	}
	if attr, ok := block.Body.Attributes["semantic"]; ok && ramp.Semantic != nil {
		r.Symbols["semantic."+ramp.Name] = hclRangeToLSP(attr.SrcRange)
	}
	r.Ramps = append(r.Ramps, ramp)
}

func (r *AnalysisResult) analyzeHarmony(block *hclsyntax.Block, ctx *hcl.EvalContext) {
	if !r.requireLabel(block) {
		return
	}
	path := blockPath(block)
	if _, dup := r.Symbols[path]; dup {
		r.addError(block.DefRange(), fmt.Sprintf("duplicate harmony %q", block.Labels[0]))
		return
	}
	r.Symbols[path] = hclRangeToLSP(block.DefRange())

	if !r.recordBlockColors(block, ctx) {
		return
	}

	var hb parser.HarmonyBlock
	if diags := gohcl.DecodeBody(block.Body, ctx, &hb); diags.HasErrors() {
		r.addHCLDiags(diags, block.DefRange())
		return
	}
	hb.Name = block.Labels[0]

	h, err := parser.BuildHarmony(&hb)
	if err != nil {
		r.addError(block.DefRange(), fmt.Sprintf("%s: %s", path, err))
		return
	}
	r.Harmonies = append(r.Harmonies, h)
}

// analyzeCheck validates a check block and reports a failing pair as a
// warning, so a token file with weak contrast still renders.
func (r *AnalysisResult) analyzeCheck(block *hclsyntax.Block, ctx *hcl.EvalContext) {
	if !r.requireLabel(block) {
		return
	}
	path := blockPath(block)
	if !r.recordBlockColors(block, ctx) {
		return
	}

	var cb parser.CheckBlock
	if diags := gohcl.DecodeBody(block.Body, ctx, &cb); diags.HasErrors() {
		r.addHCLDiags(diags, block.DefRange())
		return
	}
	cb.Name = block.Labels[0]

	check, err := parser.BuildCheck(&cb)
	if err != nil {
		r.addError(block.DefRange(), fmt.Sprintf("%s: %s", path, err))
		return
	}

	f := audit.Evaluate(check)
	if f.Passed() {
		return
	}
	var problems []string
	if !f.WCAGPass() {
		problems = append(problems, fmt.Sprintf("WCAG %.2f:1 is below %s", f.Result.WCAG.Ratio, f.Min))
	}
	if !f.APCAPass() {
		problems = append(problems, fmt.Sprintf("APCA Lc %.1f fails for %s text", f.Result.APCA.Lc, f.Use))
	}
	msg := fmt.Sprintf("%s: %s on %s: %s", path, f.Text, f.Background, strings.Join(problems, "; "))
	if f.Suggestion != "" {
		msg += fmt.Sprintf(" (try %s)", f.Suggestion)
	}
	r.addWarning(block.DefRange(), msg)
}

// literalString returns the value of a plain quoted string expression.
func literalString(expr hclsyntax.Expression) (string, bool) {
	switch e := expr.(type) {
	case *hclsyntax.TemplateExpr:
		if !e.IsStringLiteral() {
			return "", false
		}
		lit, ok := e.Parts[0].(*hclsyntax.LiteralValueExpr)
		if !ok || !lit.Val.Type().Equals(cty.String) {
			return "", false
		}
		return lit.Val.AsString(), true
	case *hclsyntax.LiteralValueExpr:
		if !e.Val.Type().Equals(cty.String) {
			return "", false
		}
		return e.Val.AsString(), true
	}
	return "", false
}

// isLiteralExpr reports whether the expression is a quoted literal rather
// than a reference or function call.
func isLiteralExpr(expr hclsyntax.Expression) bool {
	_, ok := literalString(expr)
	return ok
}
