package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/jsvensson/tonekit/internal/parser"
	"github.com/jsvensson/tonekit/internal/ramp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// posInRange returns true if pos is within the range [r.Start, r.End).
// The end position is exclusive.
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// extractText extracts the source text at a given LSP range from document content.
func extractText(content string, r protocol.Range) string {
	lines := strings.Split(content, "\n")
	if int(r.Start.Line) >= len(lines) {
		return ""
	}
	start, end := byteOffset(lines, r.Start), byteOffset(lines, r.End)
	if end < start {
		return ""
	}
	return content[start:end]
}

// byteOffset converts pos to an offset into the joined lines, clamping it to
// the last line and to the end of its line.
func byteOffset(lines []string, pos protocol.Position) int {
	line := min(int(pos.Line), len(lines)-1)
	off := 0
	for _, l := range lines[:line] {
		off += len(l) + 1
	}
	return off + min(int(pos.Character), len(lines[line]))
}

// colorMarkdown describes a color and the text color that reads best on it.
func colorMarkdown(c color.Color) string {
	text := contrast.BestTextColor(c)
	r := contrast.Evaluate(text, c, contrast.UseBody)
	return fmt.Sprintf("`%s` \u00b7 `%s` \u00b7 `%s`\n\nBest text `%s`: WCAG %.2f:1 (%s), APCA Lc %.1f",
		c.Hex(), c.RGB(), c.OKLCH().CSS(), text.Hex(), r.WCAG.Ratio, r.WCAG.Rating, r.APCA.Lc)
}

// semanticMarkdown lists a ramp's semantic roles in their fixed order.
func semanticMarkdown(r parser.Ramp) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**semantic %s**\n", r.Name)
	for _, role := range ramp.Roles {
		fmt.Fprintf(&b, "\n- %s `%s`", role, r.Semantic[role])
	}
	return b.String()
}

// swatchMarkdown lists generated colors, one per line.
func swatchMarkdown(title string, colors []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", title)
	for i, hex := range colors {
		fmt.Fprintf(&b, "\n%d. `%s`", i+1, hex)
	}
	return b.String()
}

// hover produces a Hover response for the given cursor position.
// It checks whether the position falls within any ColorLocation from the analysis result.
// References and function calls show their source text above the color details.
// Ramp and harmony names, and a ramp's semantic attribute, show the
// generated colors.
// Returns nil if nothing is found at the position.
func hover(result *AnalysisResult, content string, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	for _, cl := range result.Colors {
		if !posInRange(pos, cl.Range) {
			continue
		}

		md := colorMarkdown(cl.Color)
		if cl.IsRef {
			sourceText := extractText(content, cl.Range)
			md = fmt.Sprintf("**%s**\n\n%s", sourceText, md)
		}
		return markdownHover(md, cl.Range)
	}

	for _, r := range result.Ramps {
		rng, ok := result.Symbols["ramp."+r.Name]
		if !ok || !posInRange(pos, rng) {
			continue
		}
		mode := "light"
		if r.Options.DarkMode {
			mode = "dark"
		}
		return markdownHover(swatchMarkdown(fmt.Sprintf("ramp %s (%s)", r.Name, mode), r.Colors()), rng)
	}

	for _, r := range result.Ramps {
		rng, ok := result.Symbols["semantic."+r.Name]
		if !ok || len(r.Semantic) == 0 || !posInRange(pos, rng) {
			continue
		}
		return markdownHover(semanticMarkdown(r), rng)
	}

	for _, h := range result.Harmonies {
		rng, ok := result.Symbols["harmony."+h.Name]
		if !ok || !posInRange(pos, rng) {
			continue
		}
		return markdownHover(swatchMarkdown(fmt.Sprintf("harmony %s (%s of %s)", h.Name, h.Kind, h.Base), h.Colors), rng)
	}

	return nil
}

func markdownHover(md string, rng protocol.Range) *protocol.Hover {
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: md,
		},
		Range: &rng,
	}
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)

	result := s.getResult(uri)
	if result == nil {
		return nil, nil
	}

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	return hover(result, content, params.Position), nil
}
