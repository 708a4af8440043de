package lsp

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/jsvensson/tonekit/internal/ramp"
	"github.com/jsvensson/tonekit/internal/theme"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

// splitLines splits content into lines, preserving empty trailing lines.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// blockContext represents the kind of block the cursor is in.
type blockContext int

const (
	contextRoot    blockContext = iota
	contextMeta                 // inside meta {}
	contextPalette              // inside palette {} or one of its groups
	contextRamp                 // inside ramp "name" {}
	contextHarmony              // inside harmony "name" {}
	contextCheck                // inside check "name" {}
	contextNested               // inside a value such as locked = { ... }
)

// blockAttributes are the attributes each block accepts, in canonical order.
var blockAttributes = map[blockContext][]string{
	contextMeta:    {"name", "prefix"},
	contextRamp:    {"base", "preset", "steps", "chroma_scale", "hue_bias", "dark_mode", "locked", "semantic"},
	contextHarmony: {"base", "kind"},
	contextCheck:   {"text", "background", "use", "min"},
}

// topLevelBlocks are the valid top-level block names and their snippets.
var topLevelBlocks = []struct {
	name    string
	snippet string
}{
	{"meta", "meta {\n  name = \"$1\"\n}"},
	{"palette", "palette {\n  $0\n}"},
	{"ramp", "ramp \"${1:name}\" {\n  base = $0\n}"},
	{"harmony", "harmony \"${1:name}\" {\n  base = $2\n  kind = \"${3:complementary}\"\n}"},
	{"check", "check \"${1:name}\" {\n  text       = $2\n  background = $3\n}"},
}

// complete produces completion items given an analysis result, document content,
// and cursor position. This is the core logic, decoupled from the LSP protocol
// handler for testability.
func complete(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	lines := splitLines(content)
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	charPos := min(int(pos.Character), len(line))
	textBeforeCursor := line[:charPos]

	// Reference path completion: "palette.", "ramp.blue.", "semantic.blue."
	if pathItems := tryPathCompletion(result, textBeforeCursor); pathItems != nil {
		return pathItems
	}

	if attr, ok := valuePosition(textBeforeCursor); ok {
		if items := enumCompletions(attr); items != nil {
			return items
		}
		return valueCompletions()
	}

	ctx := determineBlockContext(lines, int(pos.Line))

	switch ctx {
	case contextMeta, contextRamp, contextHarmony, contextCheck:
		return attributeCompletions(blockAttributes[ctx], lines, int(pos.Line))
	case contextRoot:
		return topLevelCompletions()
	}

	return nil
}

// tryPathCompletion checks if the text before the cursor ends with a
// reference path prefix and returns the members of the value at that path.
// The value tree is the same scope token expressions are evaluated in.
func tryPathCompletion(result *AnalysisResult, textBeforeCursor string) []protocol.CompletionItem {
	if result == nil {
		return nil
	}

	// Take the trailing identifier run, e.g. "palette.highlight.lo"
	start := len(textBeforeCursor)
	for start > 0 && isIdentChar(textBeforeCursor[start-1]) {
		start--
	}
	word := textBeforeCursor[start:]
	dot := strings.IndexByte(word, '.')
	if dot == -1 {
		return nil
	}
	root := word[:dot]
	if _, ok := BlockTypes[root]; !ok {
		return nil
	}

	// Walk the path segments, dropping the partial last one:
	// - "palette."             -> members of palette
	// - "palette.highlight."   -> members of highlight
	// - "palette.highlight.lo" -> members of highlight (client filters "lo")
	segments := strings.Split(word[dot+1:], ".")
	segments = segments[:len(segments)-1]

	scope := result.Scope
	if scope.Palette == nil {
		scope.Palette = result.Palette
	}
	val, ok := theme.BuildEvalContext(scope).Variables[root]
	if !ok {
		return nil
	}
	for _, seg := range segments {
		if !val.Type().IsObjectType() || !val.Type().HasAttribute(seg) {
			return nil
		}
		val = val.GetAttr(seg)
	}

	return valueMembers(val)
}

// valueMembers converts an object value's attributes into completion items.
// Tuples (harmonies) are indexed, not dotted, so they yield nothing.
func valueMembers(val cty.Value) []protocol.CompletionItem {
	if !val.Type().IsObjectType() {
		return nil
	}

	names := make([]string, 0, len(val.Type().AttributeTypes()))
	for name := range val.Type().AttributeTypes() {
		if name == "color" {
			continue
		}
		names = append(names, name)
	}
	sortMembers(names)

	items := make([]protocol.CompletionItem, 0, len(names))
	for _, name := range names {
		child := val.GetAttr(name)
		item := protocol.CompletionItem{
			Label: name,
			Kind:  completionKindPtr(protocol.CompletionItemKindColor),
		}
		switch {
		case child.Type() == cty.String:
			hex := child.AsString()
			item.Detail = &hex
		case child.Type().IsTupleType():
			item.Kind = completionKindPtr(protocol.CompletionItemKindModule)
			item.Detail = strPtr(strconv.Itoa(child.LengthInt()) + " colors")
		default:
			// It's a group/namespace; still offer it but with a different detail
			item.Kind = completionKindPtr(protocol.CompletionItemKindModule)
			item.Detail = strPtr("color group")
		}
		items = append(items, item)
	}
	return items
}

// sortMembers orders names alphabetically, except stepN keys which sort
// numerically.
func sortMembers(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, aok := stepNumber(names[i])
		b, bok := stepNumber(names[j])
		if aok && bok {
			return a < b
		}
		return names[i] < names[j]
	})
}

func stepNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "step")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

// valuePosition reports whether the text before the cursor is at a value
// position (after an "=" with nothing meaningful following it), and returns
// the attribute name on the left of the "=".
func valuePosition(textBeforeCursor string) (string, bool) {
	trimmed := strings.TrimSpace(textBeforeCursor)
	eqIdx := strings.LastIndex(trimmed, "=")
	if eqIdx == -1 {
		return "", false
	}
	afterEq := strings.TrimSpace(trimmed[eqIdx+1:])
	if afterEq != "" {
		return "", false
	}
	return strings.TrimSpace(trimmed[:eqIdx]), true
}

// enumCompletions returns the allowed string values for enumerated
// attributes, or nil for free-form ones.
func enumCompletions(attr string) []protocol.CompletionItem {
	var values []string
	switch attr {
	case "kind":
		for _, k := range ramp.HarmonyKinds() {
			values = append(values, string(k))
		}
	case "preset":
		values = ramp.PresetNames()
	case "use":
		for _, u := range contrast.UseCases {
			values = append(values, string(u))
		}
	case "min":
		values = []string{
			string(contrast.RatingAAA),
			string(contrast.RatingAA),
			string(contrast.RatingAALarge),
		}
	case "steps":
		values = []string{"8", "10", "12"}
	default:
		return nil
	}

	kind := protocol.CompletionItemKindEnumMember
	items := make([]protocol.CompletionItem, 0, len(values))
	for _, v := range values {
		insert := strconv.Quote(v)
		if attr == "steps" {
			insert = v
		}
		items = append(items, protocol.CompletionItem{
			Label:      v,
			Kind:       &kind,
			InsertText: &insert,
		})
	}
	return items
}

// functionSnippets are the snippet bodies for token functions.
var functionSnippets = map[string]struct{ detail, snippet string }{
	"best_text": {"best_text(background)", "best_text(${1:color})"},
	"darken":    {"darken(color, amount)", "darken(${1:color}, ${2:0.1})"},
	"lighten":   {"lighten(color, amount)", "lighten(${1:color}, ${2:0.1})"},
	"mix":       {"mix(a, b, t)", "mix(${1:a}, ${2:b}, ${3:0.5})"},
	"oklch":     {"oklch(l, c, h)", "oklch(${1:0.6}, ${2:0.15}, ${3:250})"},
}

// valueCompletions returns completion items for a value position: function
// snippets and the reference namespaces.
func valueCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet

	items := make([]protocol.CompletionItem, 0, len(theme.FunctionNames)+len(BlockTypes))
	for _, name := range theme.FunctionNames {
		fn := functionSnippets[name]
		snippet := fn.snippet
		items = append(items, protocol.CompletionItem{
			Label:            name,
			Kind:             completionKindPtr(protocol.CompletionItemKindFunction),
			Detail:           strPtr(fn.detail),
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}

	for _, name := range theme.SortedKeys(BlockTypes) {
		insert := name + "."
		items = append(items, protocol.CompletionItem{
			Label:      name,
			Kind:       completionKindPtr(protocol.CompletionItemKindVariable),
			Detail:     strPtr(BlockTypes[name]),
			InsertText: &insert,
		})
	}
	return items
}

// determineBlockContext scans from the top of the file down to the cursor line
// to determine which block the cursor is in, using brace nesting.
func determineBlockContext(lines []string, cursorLine int) blockContext {
	var stack []string

	for i := 0; i <= cursorLine; i++ {
		line := strings.TrimSpace(lines[i])

		opens := strings.Count(line, "{")
		closes := strings.Count(line, "}")

		// Process opening braces: extract the block name (first word on the line)
		if opens > 0 {
			parts := strings.Fields(line)
			if len(parts) >= 1 {
				for range opens {
					stack = append(stack, parts[0])
				}
			}
		}

		for range closes {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if len(stack) == 0 {
		return contextRoot
	}
	if stack[0] == "palette" {
		return contextPalette
	}
	if len(stack) > 1 {
		return contextNested
	}

	switch stack[0] {
	case "meta":
		return contextMeta
	case "ramp":
		return contextRamp
	case "harmony":
		return contextHarmony
	case "check":
		return contextCheck
	}
	return contextNested
}

// attributeCompletions returns attribute name completions, excluding names
// that are already defined in the block surrounding the cursor.
func attributeCompletions(names []string, lines []string, cursorLine int) []protocol.CompletionItem {
	defined := findDefinedAttributes(lines, cursorLine)
	kind := protocol.CompletionItemKindProperty

	var items []protocol.CompletionItem
	for _, name := range names {
		if !defined[name] {
			items = append(items, protocol.CompletionItem{
				Label: name,
				Kind:  &kind,
			})
		}
	}

	return items
}

// findDefinedAttributes scans the current block (from the nearest opening brace
// before cursorLine to cursorLine) and returns attribute names already defined
// (lines containing "name = ...").
func findDefinedAttributes(lines []string, cursorLine int) map[string]bool {
	defined := make(map[string]bool)

	// Scan backwards to find the opening brace of the current block
	startLine := 0
	depth := 0
	for i := cursorLine; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		closes := strings.Count(line, "}")
		opens := strings.Count(line, "{")
		depth += closes - opens
		if depth < 0 {
			startLine = i
			break
		}
	}

	// Scan forward from startLine to cursorLine, collecting attribute names
	for i := startLine; i <= cursorLine; i++ {
		line := strings.TrimSpace(lines[i])
		if eqIdx := strings.Index(line, "="); eqIdx > 0 {
			name := strings.TrimSpace(line[:eqIdx])
			if !strings.Contains(name, " ") && !strings.Contains(name, "{") {
				defined[name] = true
			}
		}
	}

	return defined
}

// topLevelCompletions returns completion items for top-level block names.
func topLevelCompletions() []protocol.CompletionItem {
	snippetFormat := protocol.InsertTextFormatSnippet
	kind := protocol.CompletionItemKindSnippet

	items := make([]protocol.CompletionItem, 0, len(topLevelBlocks))
	for _, b := range topLevelBlocks {
		snippet := b.snippet
		items = append(items, protocol.CompletionItem{
			Label:            b.name,
			Kind:             &kind,
			InsertText:       &snippet,
			InsertTextFormat: &snippetFormat,
		})
	}

	return items
}

// completionKindPtr returns a pointer to a CompletionItemKind.
func completionKindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}

// textDocumentCompletion is the LSP handler for textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	result := s.getResult(uri)
	if result == nil {
		return nil, nil
	}

	items := complete(result, content, params.Position)
	return items, nil
}
