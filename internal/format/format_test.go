package format

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic formatting",
			input:    `meta{name="Test"prefix="acme"}`,
			expected: `meta { name = "Test" prefix = "acme" }`,
		},
		{
			name:     "palette with nested blocks",
			input:    `palette{base="#191724"surface="#1f1d2e"highlight{low="#21202e"}}`,
			expected: `palette { base = "#191724" surface = "#1f1d2e" highlight { low = "#21202e" } }`,
		},
		{
			name: "already formatted stays same",
			input: `meta {
  name = "Test"
}
`,
			expected: `meta {
  name = "Test"
}
`,
		},
		{
			name:     "extra whitespace normalized",
			input:    `meta   {   name   =   "Test"   }`,
			expected: `meta { name = "Test" }`,
		},
		{
			name:     "empty content",
			input:    "",
			expected: "",
		},
		{
			name: "multiple blocks",
			input: `meta{name="Test"}
palette{base="#191724"}
harmony "h" {base=palette.base}`,
			expected: `meta { name = "Test" }
palette { base = "#191724" }
harmony "h" { base = palette.base }`,
		},
		{
			name: "multiple blank lines collapsed to one",
			input: "meta { name = \"Test\" }\n\n\n\npalette { base = \"#191724\" }",
			expected: "meta { name = \"Test\" }\n\npalette { base = \"#191724\" }",
		},
		{
			name: "many blank lines collapsed to one",
			input: "meta { name = \"Test\" }\n\n\n\n\n\n\npalette { base = \"#191724\" }",
			expected: "meta { name = \"Test\" }\n\npalette { base = \"#191724\" }",
		},
		{
			name: "single blank line preserved",
			input: "meta { name = \"Test\" }\n\npalette { base = \"#191724\" }",
			expected: "meta { name = \"Test\" }\n\npalette { base = \"#191724\" }",
		},
		{
			name: "blank line after opening brace removed",
			input: "palette {\n\n  base = \"#191724\"\n}",
			expected: "palette {\n  base = \"#191724\"\n}",
		},
		{
			name: "blank line before closing brace removed",
			input: "palette {\n  base = \"#191724\"\n\n}",
			expected: "palette {\n  base = \"#191724\"\n}",
		},
		{
			name: "blank lines after and before braces both removed",
			input: "palette {\n\n  base = \"#191724\"\n\n}",
			expected: "palette {\n  base = \"#191724\"\n}",
		},
		{
			name: "nested block blank lines removed",
			input: "palette {\n\n  highlight {\n\n    low = \"#21202e\"\n\n  }\n\n}",
			expected: "palette {\n  highlight {\n    low = \"#21202e\"\n  }\n}",
		},
		{
			name: "ramp block already in order stays same",
			input: `ramp "blue" {
  base         = palette.brand
  steps        = 12
  chroma_scale = 0.9
  semantic     = true
}
`,
			expected: `ramp "blue" {
  base         = palette.brand
  steps        = 12
  chroma_scale = 0.9
  semantic     = true
}
`,
		},
		{
			name: "ramp block misordered gets reordered",
			input: `ramp "blue" {
  semantic     = true
  dark_mode    = false
  base         = palette.brand
  hue_bias     = 0.2
  steps        = 10
  chroma_scale = 0.9
}
`,
			expected: `ramp "blue" {
  base         = palette.brand
  steps        = 10
  chroma_scale = 0.9
  hue_bias     = 0.2
  dark_mode    = false
  semantic     = true
}
`,
		},
		{
			name: "ramp block comments travel with their attribute",
			input: `ramp "blue" {
  steps = 12
  # seed
  base  = palette.brand
}
`,
			expected: `ramp "blue" {
  # seed
  base  = palette.brand
  steps = 12
}
`,
		},
		{
			name: "ramp block inline comments preserved",
			input: `ramp "red" {
  steps  = 8 # compact
  preset = "red"
}
`,
			expected: `ramp "red" {
  preset = "red"
  steps  = 8 # compact
}
`,
		},
		{
			name: "ramp block unknown attributes go last",
			input: `ramp "red" {
  extra  = 1
  preset = "red"
}
`,
			expected: `ramp "red" {
  preset = "red"
  extra  = 1
}
`,
		},
		{
			name: "hex literals lowercased",
			input: `palette {
  brand = "#2563EB"
  ink   = "#111827"
}
`,
			expected: `palette {
  brand = "#2563eb"
  ink   = "#111827"
}
`,
		},
		{
			name:     "non-color strings keep case",
			input:    `meta { name = "ACME" }`,
			expected: `meta { name = "ACME" }`,
		},
		{
			name: "no ramp block unchanged",
			input: `meta {
  name = "Test"
}

palette {
  base = "#191724"
}

check "body" {
  text       = palette.base
  background = "#ffffff"
}
`,
			expected: `meta {
  name = "Test"
}

palette {
  base = "#191724"
}

check "body" {
  text       = palette.base
  background = "#ffffff"
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Format(tt.input)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			// Normalize line endings for comparison
			result = strings.TrimSuffix(result, "\n")
			expected := strings.TrimSuffix(tt.expected, "\n")

			if result != expected {
				t.Errorf("Format() = %q, want %q", result, expected)
			}
		})
	}
}

func TestFormatInvalidHCL(t *testing.T) {
	// hclwrite.Format should handle partial/invalid HCL gracefully
	input := `meta { name = "Test"`
	_, err := Format(input)
	// The function should not error even on incomplete HCL
	if err != nil {
		t.Errorf("Format() on incomplete HCL should not error, got: %v", err)
	}
}
