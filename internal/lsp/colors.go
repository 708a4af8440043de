package lsp

import (
	"fmt"
	"math"
	"strings"

	"github.com/jsvensson/tonekit/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorToLSP converts an internal color.Color (0-255 RGB) to a protocol.Color (float32 0.0-1.0).
func colorToLSP(c color.Color) protocol.Color {
	c = c.Clamped()
	return protocol.Color{
		Red:   float32(c.R) / 255.0,
		Green: float32(c.G) / 255.0,
		Blue:  float32(c.B) / 255.0,
		Alpha: 1.0,
	}
}

// colorFromLSP converts a picker color back to 0-255 RGB.
func colorFromLSP(c protocol.Color) color.Color {
	channel := func(v float32) int {
		return int(math.Round(float64(v) * 255))
	}
	return color.Color{R: channel(c.Red), G: channel(c.Green), B: channel(c.Blue)}.Clamped()
}

// documentColors converts the analysis result's color locations into LSP ColorInformation items.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, cl := range result.Colors {
		infos = append(infos, protocol.ColorInformation{
			Range: cl.Range,
			Color: colorToLSP(cl.Color),
		})
	}
	return infos
}

// oklchCall renders a color as an oklch() call expression.
func oklchCall(c color.Color) string {
	lch := c.OKLCH()
	return fmt.Sprintf("oklch(%.4f, %.4f, %.2f)", lch.L, lch.C, lch.H)
}

// colorPresentation produces color presentation options for a given color and range.
// Hex literals and oklch() calls can be replaced by either form. References
// (palette.*, ramp.*, function calls other than oklch) return an empty slice
// so they are never overwritten with literal values.
func colorPresentation(content string, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	c := colorFromLSP(params.Color)
	hexStr := c.Hex()
	call := oklchCall(c)

	text := extractText(content, params.Range)

	switch {
	case strings.HasPrefix(text, "\""), strings.HasPrefix(text, "#"):
		// Include quotes if the original had them
		newText := hexStr
		if strings.HasPrefix(text, "\"") {
			newText = "\"" + hexStr + "\""
		}
		return []protocol.ColorPresentation{
			{
				Label:    hexStr,
				TextEdit: &protocol.TextEdit{Range: params.Range, NewText: newText},
			},
			{
				Label:    call,
				TextEdit: &protocol.TextEdit{Range: params.Range, NewText: call},
			},
		}
	case strings.HasPrefix(text, "oklch("):
		return []protocol.ColorPresentation{
			{
				Label:    call,
				TextEdit: &protocol.TextEdit{Range: params.Range, NewText: call},
			},
			{
				Label:    hexStr,
				TextEdit: &protocol.TextEdit{Range: params.Range, NewText: "\"" + hexStr + "\""},
			},
		}
	}

	return []protocol.ColorPresentation{}
}

// textDocumentDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := string(params.TextDocument.URI)
	result := s.getResult(uri)
	return documentColors(result), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	uri := string(params.TextDocument.URI)
	content, ok := s.docs.Get(uri)
	if !ok {
		return []protocol.ColorPresentation{}, nil
	}
	return colorPresentation(content, params), nil
}
