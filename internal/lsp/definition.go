package lsp

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// BlockTypes are the namespaces a token expression can reference, with a
// short description used in completions.
var BlockTypes = map[string]string{
	"palette":  "palette reference",
	"ramp":     "generated ramp step",
	"harmony":  "harmony color",
	"semantic": "semantic role color",
}

// referenceAt returns the reference path under the cursor, cut after the
// segment the cursor is on: the cursor on "blue" in "ramp.blue.step3" yields
// "ramp.blue". Index segments end the path, so "harmony.accent[0]" yields
// "harmony.accent". Documents that fail to parse fall back to scanning the
// line text.
func referenceAt(content string, pos protocol.Position) string {
	file, diags := hclsyntax.ParseConfig([]byte(content), "", hcl.InitialPos)
	if diags.HasErrors() {
		lines := strings.Split(content, "\n")
		if int(pos.Line) >= len(lines) {
			return ""
		}
		return blockRefAtCursor(lines[pos.Line], pos.Character)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return ""
	}

	line := int(pos.Line) + 1
	col := int(pos.Character)
	var ref string
	_ = hclsyntax.VisitAll(body, func(n hclsyntax.Node) hcl.Diagnostics {
		expr, ok := n.(*hclsyntax.ScopeTraversalExpr)
		if !ok || ref != "" {
			return nil
		}
		rng := expr.SrcRange
		if rng.Start.Line != line || col < rng.Start.Column-1 || col >= rng.End.Column-1 {
			return nil
		}
		ref = traversalPrefix(expr.Traversal, col)
		return nil
	})
	return ref
}

// traversalPrefix joins the traversal names up to the segment covering the
// 0-based column col.
func traversalPrefix(trav hcl.Traversal, col int) string {
	root, ok := trav[0].(hcl.TraverseRoot)
	if !ok {
		return ""
	}
	if _, exists := BlockTypes[root.Name]; !exists {
		return ""
	}

	parts := []string{root.Name}
	if col < root.SrcRange.End.Column-1 {
		return root.Name
	}
	for _, step := range trav[1:] {
		attr, ok := step.(hcl.TraverseAttr)
		if !ok {
			break
		}
		parts = append(parts, attr.Name)
		if col < attr.SrcRange.End.Column-1 {
			break
		}
	}
	return strings.Join(parts, ".")
}

// blockRefAtCursor extracts the block reference path up to the cursor position
// from a single line of text.
// For example, if cursor is on "palette" in "palette.base", it returns "palette".
// If cursor is on "base" in "palette.base", it returns "palette.base".
// Returns "" if the cursor is not on a block reference.
func blockRefAtCursor(line string, character uint32) string {
	col := int(character)
	if col >= len(line) {
		return ""
	}

	// Find the end of the current word (letters, digits, underscores, dots)
	end := col
	for end < len(line) && isIdentChar(line[end]) {
		end++
	}

	// Find the start of the current word (letters, digits, underscores, dots)
	start := col
	for start > 0 && isIdentChar(line[start-1]) {
		start--
	}

	word := line[start:end]

	// Check if it's a valid block reference
	parts := strings.Split(word, ".")
	if len(parts) == 0 {
		return ""
	}

	// Check if first part is a valid block name
	if _, exists := BlockTypes[parts[0]]; !exists {
		return ""
	}

	// If cursor is on just the block name, check if followed by dot
	if len(parts) == 1 && word == parts[0] {
		if end < len(line) && line[end] == '.' {
			return parts[0]
		}
		return ""
	}

	// Calculate cursor position within word and return path up to cursor
	cursorInWord := col - start
	var resultParts []string
	currentPos := 0

	for _, part := range parts {
		partEnd := currentPos + len(part)
		if currentPos <= cursorInWord {
			resultParts = append(resultParts, part)
		}
		currentPos = partEnd + 1 // +1 for dot
	}

	return strings.Join(resultParts, ".")
}

// isIdentChar returns true if the byte is a valid identifier character
// (letter, digit, underscore, or dot for dotted paths).
func isIdentChar(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_' || b == '.'
}

// definition returns the definition location for a reference at the given cursor position.
// It looks the reference path up in the symbol table, dropping trailing segments until a symbol matches, so "ramp.blue.step3"
// resolves to the ramp block. Returns nil if the cursor is not on a reference
// or if no symbol is found.
func definition(result *AnalysisResult, content string, uri string, pos protocol.Position) *protocol.Location {
	if result == nil {
		return nil
	}

	ref := referenceAt(content, pos)
	if ref == "" {
		return nil
	}

	for parts := strings.Split(ref, "."); len(parts) > 1; parts = parts[:len(parts)-1] {
		if symRange, ok := result.Symbols[strings.Join(parts, ".")]; ok {
			return &protocol.Location{
				URI:   protocol.DocumentUri(uri),
				Range: symRange,
			}
		}
	}
	return nil
}

// textDocumentDefinition handles textDocument/definition requests.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	result := s.getResult(uri)
	if result == nil {
		return nil, nil
	}

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	return definition(result, content, uri, params.Position), nil
}
