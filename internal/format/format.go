// Package format rewrites token files into canonical style.
package format

import (
	"bytes"
	"regexp"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

var multipleBlankLines = regexp.MustCompile(`\n{3,}`)
var blankLineAfterOpenBrace = regexp.MustCompile(`\{\n\s*\n`)
var blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)
var hexLiteral = regexp.MustCompile(`"#[0-9A-Fa-f]{6}"`)

// RampAttributeOrder is the canonical attribute order inside ramp blocks.
// Attributes not listed keep their relative order after the known ones.
var RampAttributeOrder = []string{
	"base",
	"preset",
	"steps",
	"chroma_scale",
	"hue_bias",
	"dark_mode",
	"locked",
	"semantic",
}

// Format takes HCL source content and returns it formatted according to
// HCL canonical style rules. It uses hclwrite.Format which handles
// indentation, spacing, and newline normalization. Ramp attributes are
// sorted into RampAttributeOrder and hex literals are lowercased.
//
// The formatter works even on partial/invalid HCL, making it suitable
// for use while the user is still typing. Reordering is skipped when the
// source does not parse.
func Format(content string) (string, error) {
	src := []byte(content)
	if f, diags := hclwrite.ParseConfig(src, "", hcl.InitialPos); !diags.HasErrors() {
		if reorderRamps(f, src) {
			src = f.Bytes()
		}
	}

	formatted := hclwrite.Format(src)
	// Collapse multiple consecutive blank lines into a single blank line.
	collapsed := multipleBlankLines.ReplaceAllString(string(formatted), "\n\n")
	// Remove blank lines immediately after opening braces.
	collapsed = blankLineAfterOpenBrace.ReplaceAllString(collapsed, "{\n")
	// Remove blank lines immediately before closing braces.
	collapsed = blankLineBeforeCloseBrace.ReplaceAllString(collapsed, "\n${1}")
	collapsed = hexLiteral.ReplaceAllStringFunc(collapsed, strings.ToLower)
	return collapsed, nil
}

// reorderRamps sorts the attributes of every top-level ramp block and
// reports whether anything moved. The hclsyntax parse supplies source
// order, which hclwrite does not expose.
func reorderRamps(f *hclwrite.File, src []byte) bool {
	parsed, diags := hclsyntax.ParseConfig(src, "", hcl.InitialPos)
	if diags.HasErrors() {
		return false
	}
	syntaxBody, ok := parsed.Body.(*hclsyntax.Body)
	if !ok {
		return false
	}

	var syntaxRamps []*hclsyntax.Block
	for _, b := range syntaxBody.Blocks {
		if b.Type == "ramp" {
			syntaxRamps = append(syntaxRamps, b)
		}
	}

	changed := false
	i := 0
	for _, block := range f.Body().Blocks() {
		if block.Type() != "ramp" {
			continue
		}
		if i >= len(syntaxRamps) {
			break
		}
		if reorderBody(block.Body(), sourceOrder(syntaxRamps[i].Body), RampAttributeOrder) {
			changed = true
		}
		i++
	}
	return changed
}

// sourceOrder lists a body's attribute names as they appear in the file.
func sourceOrder(body *hclsyntax.Body) []string {
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return body.Attributes[a].SrcRange.Start.Byte - body.Attributes[b].SrcRange.Start.Byte
	})
	return names
}

// reorderBody rewrites a body's attributes in the given order. Bodies with
// nested blocks or free-standing comments are left alone. Comments attached
// to an attribute move with it.
func reorderBody(body *hclwrite.Body, current, order []string) bool {
	if len(body.Blocks()) > 0 {
		return false
	}

	rank := func(name string) int {
		if i := slices.Index(order, name); i >= 0 {
			return i
		}
		return len(order)
	}
	sorted := slices.Clone(current)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return rank(a) - rank(b)
	})
	if slices.Equal(sorted, current) {
		return false
	}

	attrs := body.Attributes()
	var attrBytes []byte
	for _, name := range current {
		attr, ok := attrs[name]
		if !ok {
			return false
		}
		attrBytes = append(attrBytes, attr.BuildTokens(nil).Bytes()...)
	}
	if len(bytes.Fields(attrBytes)) != len(bytes.Fields(body.BuildTokens(nil).Bytes())) {
		return false
	}

	tokens := make([]hclwrite.Tokens, 0, len(sorted))
	for _, name := range sorted {
		tokens = append(tokens, attrs[name].BuildTokens(nil))
	}
	body.Clear()
	for _, t := range tokens {
		body.AppendUnstructuredTokens(t)
	}
	return true
}
