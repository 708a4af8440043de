package tonekit

import (
	"testing"

	"github.com/jsvensson/tonekit/internal/color"
)

func testData() templateData {
	return buildTemplateData(testTokens())
}

func TestResolveColorPath(t *testing.T) {
	data := testData()

	tests := []struct {
		path string
		want string
	}{
		{"palette.brand", "#2563eb"},
		{"palette.surface", "#ffffff"},
		{"palette.surface.sunken", "#f3f4f6"},
		{"ramp.blue.step1", "#f8faff"},
		{"ramp.blue.8", "#0b1f57"},
		{"harmony.accent.0", "#b86e00"},
		{"semantic.blue.success", "#16a34a"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := resolveColorPath(tt.path, data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Hex() != tt.want {
				t.Errorf("got %s, want %s", got.Hex(), tt.want)
			}
		})
	}
}

func TestResolveColorPath_Errors(t *testing.T) {
	data := testData()

	tests := []string{
		"palette",
		"invalid.path",
		"palette.missing",
		"ramp.blue",
		"ramp.blue.step0",
		"ramp.blue.step9",
		"ramp.green.step1",
		"harmony.accent.1",
		"harmony.accent.first",
		"semantic.blue.neutral",
		"semantic.red.success",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			if _, err := resolveColorPath(path, data); err == nil {
				t.Errorf("resolveColorPath(%q) expected error", path)
			}
		})
	}
}

func TestResolveColorPath_NilPalette(t *testing.T) {
	data := templateData{}
	if _, err := resolveColorPath("palette.brand", data); err == nil {
		t.Fatal("expected error for nil palette")
	}
}

func TestFlattenPalette(t *testing.T) {
	flat := make(map[string]string)
	flattenPalette(testTokens().Palette, "", flat)

	want := map[string]string{
		"brand":          "#2563eb",
		"surface":        "#ffffff",
		"surface.sunken": "#f3f4f6",
	}
	if len(flat) != len(want) {
		t.Fatalf("flat = %v", flat)
	}
	for k, v := range want {
		if flat[k] != v {
			t.Errorf("flat[%q] = %q, want %q", k, flat[k], v)
		}
	}
}

func TestToColor(t *testing.T) {
	data := testData()
	c := color.Color{R: 1, G: 2, B: 3}

	got, err := toColor(c, data)
	if err != nil || got != c {
		t.Errorf("toColor(Color) = %v, %v", got, err)
	}
	if _, err := toColor(42, data); err == nil {
		t.Error("toColor(int) expected error")
	}
	if _, err := toColor("#12345", data); err == nil {
		t.Error("toColor(short hex) expected error")
	}
}

func TestCSSIdent(t *testing.T) {
	tests := []struct {
		parts []any
		want  string
	}{
		{[]any{"palette", "surface.sunken"}, "palette-surface-sunken"},
		{[]any{"Blue", 12}, "blue-12"},
		{[]any{"brand_blue", ""}, "brand-blue"},
	}
	for _, tt := range tests {
		if got := cssIdent(tt.parts); got != tt.want {
			t.Errorf("cssIdent(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}
