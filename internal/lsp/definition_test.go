package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const definitionTokens = `palette {
  brand = "#2563eb"
  surface {
    sunken = "#f3f4f6"
  }
}

ramp "blue" {
  base     = palette.brand
  semantic = true
}

harmony "accent" {
  base = palette.brand
  kind = "complementary"
}

check "c" {
  text       = ramp.blue.step12
  background = palette.surface.sunken
}

check "d" {
  text       = harmony.accent[0]
  background = semantic.blue.success
}
`

func TestDefinition(t *testing.T) {
	result := Analyze("test.hcl", definitionTokens)
	uri := "file:///test.hcl"

	tests := []struct {
		name   string
		pos    protocol.Position
		symbol string
	}{
		// Line 8 is "  base     = palette.brand"
		{"palette reference", protocol.Position{Line: 8, Character: 22}, "palette.brand"},
		// Line 18 is "  text       = ramp.blue.step12"
		{"ramp step resolves to ramp block", protocol.Position{Line: 18, Character: 26}, "ramp.blue"},
		{"ramp name", protocol.Position{Line: 18, Character: 21}, "ramp.blue"},
		// Line 19 is "  background = palette.surface.sunken"
		{"nested palette", protocol.Position{Line: 19, Character: 33}, "palette.surface.sunken"},
		{"palette group", protocol.Position{Line: 19, Character: 25}, "palette.surface"},
		// Line 23 is "  text       = harmony.accent[0]"
		{"harmony", protocol.Position{Line: 23, Character: 25}, "harmony.accent"},
		// Line 24 is "  background = semantic.blue.success"
		{"semantic role resolves to semantic attribute", protocol.Position{Line: 24, Character: 32}, "semantic.blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symRange, ok := result.Symbols[tt.symbol]
			if !ok {
				t.Fatalf("expected %s in symbol table", tt.symbol)
			}

			loc := definition(result, definitionTokens, uri, tt.pos)
			if loc == nil {
				t.Fatal("expected non-nil definition location")
			}
			if loc.URI != protocol.DocumentUri(uri) {
				t.Errorf("URI = %q, want %q", loc.URI, uri)
			}
			if loc.Range != symRange {
				t.Errorf("Range = %v, want %v", loc.Range, symRange)
			}
		})
	}
}

func TestDefinition_NoTarget(t *testing.T) {
	result := Analyze("test.hcl", definitionTokens)
	uri := "file:///test.hcl"

	tests := []struct {
		name string
		pos  protocol.Position
	}{
		// Line 1 is '  brand = "#2563eb"'
		{"hex literal", protocol.Position{Line: 1, Character: 13}},
		// Line 0 is "palette {"
		{"block keyword", protocol.Position{Line: 0, Character: 2}},
		{"past end of document", protocol.Position{Line: 99, Character: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if loc := definition(result, definitionTokens, uri, tt.pos); loc != nil {
				t.Errorf("expected nil, got %+v", loc)
			}
		})
	}
}

func TestDefinition_NilResult(t *testing.T) {
	uri := "file:///test.hcl"
	pos := protocol.Position{Line: 0, Character: 0}

	loc := definition(nil, "", uri, pos)
	if loc != nil {
		t.Errorf("expected nil for nil result, got %+v", loc)
	}
}

func TestDefinition_UnparseableFallsBackToLine(t *testing.T) {
	result := Analyze("test.hcl", definitionTokens)
	broken := definitionTokens + "\nramp \"half\" {\n"

	loc := definition(result, broken, "file:///test.hcl", protocol.Position{Line: 8, Character: 22})
	if loc == nil {
		t.Fatal("expected a location from the line scan")
	}
	if loc.Range != result.Symbols["palette.brand"] {
		t.Errorf("Range = %v, want palette.brand", loc.Range)
	}
}

func TestReferenceAt(t *testing.T) {
	tests := []struct {
		name string
		pos  protocol.Position
		want string
	}{
		{"namespace", protocol.Position{Line: 8, Character: 15}, "palette"},
		{"dot before segment", protocol.Position{Line: 8, Character: 20}, "palette.brand"},
		{"step", protocol.Position{Line: 18, Character: 28}, "ramp.blue.step12"},
		{"index segment", protocol.Position{Line: 23, Character: 30}, "harmony.accent"},
		{"attribute name", protocol.Position{Line: 18, Character: 3}, ""},
		{"string", protocol.Position{Line: 14, Character: 12}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := referenceAt(definitionTokens, tt.pos); got != tt.want {
				t.Errorf("referenceAt(%d:%d) = %q, want %q", tt.pos.Line, tt.pos.Character, got, tt.want)
			}
		})
	}
}

func TestBlockRefAtCursor(t *testing.T) {
	tests := []struct {
		line string
		col  uint32
		want string
	}{
		{"  base = palette.brand", 11, "palette"},
		{"  base = palette.brand", 19, "palette.brand"},
		{"  text = ramp.blue.step3", 15, "ramp.blue"},
		{"  text = ramp.blue.step3", 21, "ramp.blue.step3"},
		{"  text = harmony.accent[0]", 19, "harmony.accent"},
		{"  text = theme.background", 12, ""},
		{"  text = palette", 11, ""},
		{"  base = palette.brand", 99, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := blockRefAtCursor(tt.line, tt.col); got != tt.want {
				t.Errorf("blockRefAtCursor(%q, %d) = %q, want %q", tt.line, tt.col, got, tt.want)
			}
		})
	}
}
