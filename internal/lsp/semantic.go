package lsp

import (
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Semantic token types we'll use (indices 0-7)
var semanticTokenTypes = []string{
	"keyword",   // 0: block names (meta, palette, ramp, harmony, check)
	"property",  // 1: attribute names
	"variable",  // 2: block labels (ramp "blue")
	"namespace", // 3: palette, ramp, harmony and semantic roots
	"string",    // 4: hex color literals
	"function",  // 5: lighten(), darken(), mix(), best_text(), oklch()
	"number",    // 6: numeric literals
	"comment",   // 7: comments
}

// Semantic token modifiers (bit flags)
var semanticTokenModifiers = []string{
	"declaration", // bit 0: defining a new symbol
}

const modDeclaration uint32 = 1 << 0

// tokenTypeIndices maps type names to their indices for fast lookup
var tokenTypeIndices map[string]uint32

func init() {
	tokenTypeIndices = make(map[string]uint32, len(semanticTokenTypes))
	for i, t := range semanticTokenTypes {
		tokenTypeIndices[t] = uint32(i)
	}
}

// SemanticToken represents a single token with its metadata
type SemanticToken struct {
	Line      uint32 // 0-based line number
	StartChar uint32 // 0-based character offset
	Length    uint32
	Type      uint32 // index into semanticTokenTypes
	Modifiers uint32 // bit flags
}

// encodeTokens converts tokens to LSP format (5 integers per token)
// Uses delta encoding for line numbers and character positions
func encodeTokens(tokens []SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	// Sort tokens by position
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})

	data := make([]uint32, 0, len(tokens)*5)

	var prevLine uint32 = 0
	var prevChar uint32 = 0

	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevChar
		} else {
			deltaStart = tok.StartChar
		}

		data = append(data,
			deltaLine,
			deltaStart,
			tok.Length,
			tok.Type,
			tok.Modifiers,
		)

		prevLine = tok.Line
		prevChar = tok.StartChar
	}

	return data
}

// semanticTokensFull generates semantic tokens for the entire document content
func semanticTokensFull(content string) []uint32 {
	src := []byte(content)
	file, diags := hclsyntax.ParseConfig(src, "", hcl.InitialPos)
	if diags.HasErrors() {
		return []uint32{}
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return []uint32{}
	}

	var c tokenCollector
	c.body(body)
	c.comments(src)

	return encodeTokens(c.tokens)
}

// tokenCollector accumulates semantic tokens while walking a token file.
type tokenCollector struct {
	tokens []SemanticToken
}

// add records a token of length characters at start.
func (c *tokenCollector) add(start hcl.Pos, length int, tokenType string, modifiers uint32) {
	if length <= 0 {
		return
	}
	c.tokens = append(c.tokens, SemanticToken{
		Line:      uint32(start.Line - 1),
		StartChar: uint32(start.Column - 1),
		Length:    uint32(length),
		Type:      tokenTypeIndices[tokenType],
		Modifiers: modifiers,
	})
}

// span records a token covering all of rng, which must sit on one line.
func (c *tokenCollector) span(rng hcl.Range, tokenType string) {
	if rng.Start.Line != rng.End.Line {
		return
	}
	c.add(rng.Start, rng.End.Column-rng.Start.Column, tokenType, 0)
}

func (c *tokenCollector) body(body *hclsyntax.Body) {
	for _, block := range body.Blocks {
		c.add(block.TypeRange.Start, len(block.Type), "keyword", 0)
		// ramp "blue" declares ramp.blue
		for _, rng := range block.LabelRanges {
			c.add(rng.Start, rng.End.Column-rng.Start.Column, "variable", modDeclaration)
		}
		c.body(block.Body)
	}

	for name, attr := range body.Attributes {
		c.add(attr.NameRange.Start, len(name), "property", modDeclaration)
		c.expr(attr.Expr)
	}
}

func (c *tokenCollector) expr(expr hclsyntax.Expression) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		c.literal(e)
	case *hclsyntax.TemplateExpr:
		// Quoted hex literals, quotes included
		if str, ok := literalString(e); ok && isHexLiteral(str) {
			c.span(e.SrcRange, "string")
		}
	case *hclsyntax.ObjectConsExpr:
		for _, item := range e.Items {
			c.expr(item.ValueExpr)
		}
	case *hclsyntax.ScopeTraversalExpr:
		c.traversal(e.Traversal)
	case *hclsyntax.FunctionCallExpr:
		c.add(e.NameRange.Start, len(e.Name), "function", 0)
		for _, arg := range e.Args {
			c.expr(arg)
		}
	case *hclsyntax.RelativeTraversalExpr:
		c.expr(e.Source)
	}
}

func (c *tokenCollector) literal(e *hclsyntax.LiteralValueExpr) {
	switch e.Val.Type() {
	case cty.String:
		if isHexLiteral(e.Val.AsString()) {
			c.span(e.SrcRange, "string")
		}
	case cty.Number:
		c.span(e.SrcRange, "number")
	}
}

// traversal handles block references like palette.brand, ramp.blue.step3
// and harmony.accent[0].
func (c *tokenCollector) traversal(trav hcl.Traversal) {
	if len(trav) == 0 {
		return
	}
	root, ok := trav[0].(hcl.TraverseRoot)
	if !ok {
		return
	}
	if _, exists := BlockTypes[root.Name]; !exists {
		return
	}

	c.add(root.SrcRange.Start, len(root.Name), "namespace", 0)

	for _, step := range trav[1:] {
		switch seg := step.(type) {
		case hcl.TraverseAttr:
			// The range starts at the dot
			start := seg.SrcRange.End
			start.Column -= len(seg.Name)
			c.add(start, len(seg.Name), "property", 0)
		case hcl.TraverseIndex:
			// The range covers the brackets
			start := seg.SrcRange.Start
			start.Column++
			c.add(start, seg.SrcRange.End.Column-seg.SrcRange.Start.Column-2, "number", 0)
		}
	}
}

// comments marks line and block comments, which the syntax tree drops.
func (c *tokenCollector) comments(src []byte) {
	tokens, diags := hclsyntax.LexConfig(src, "", hcl.InitialPos)
	if diags.HasErrors() {
		return
	}
	for _, tok := range tokens {
		if tok.Type != hclsyntax.TokenComment {
			continue
		}
		// Line comments include their newline
		text := strings.TrimRight(string(tok.Bytes), "\r\n")
		if strings.Contains(text, "\n") {
			continue
		}
		c.add(tok.Range.Start, len(text), "comment", 0)
	}
}

func isHexLiteral(s string) bool {
	return len(s) == 7 && s[0] == '#'
}
