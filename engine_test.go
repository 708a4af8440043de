package tonekit

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/jsvensson/tonekit/internal/parser"
	"github.com/jsvensson/tonekit/internal/ramp"
	"gopkg.in/yaml.v3"
)

func ptr(c color.Color) *color.Color { return &c }

func testTokens() *Tokens {
	return &Tokens{
		Meta: Meta{Name: "Test Tokens", Prefix: "acme"},
		Palette: &color.Node{Children: map[string]*color.Node{
			"brand": {Color: ptr(color.Color{R: 37, G: 99, B: 235})},
			"surface": {
				Color: ptr(color.Color{R: 255, G: 255, B: 255}),
				Children: map[string]*color.Node{
					"sunken": {Color: ptr(color.Color{R: 243, G: 244, B: 246})},
				},
			},
		}},
		Ramps: []parser.Ramp{
			{
				Name:     "blue",
				Options:  ramp.Options{BaseColor: "#2563eb", Steps: 8},
				Light:    []string{"#f8faff", "#eef3ff", "#d6e2ff", "#a9c1fb", "#6e93f3", "#2563eb", "#1b46a8", "#0b1f57"},
				Dark:     []string{"#070d1f", "#0d1833", "#162a5a", "#21408a", "#2d5ac0", "#5d86ef", "#a3bdf8", "#e8efff"},
				Semantic: map[ramp.Role]string{ramp.RoleSuccess: "#16a34a", ramp.RoleDanger: "#dc2626"},
			},
		},
		Harmonies: []parser.Harmony{
			{Name: "accent", Base: "#2563eb", Kind: ramp.Complementary, Colors: []string{"#b86e00"}},
		},
		Checks: []parser.Check{
			{
				Name:       "body",
				Text:       color.Color{R: 17, G: 24, B: 39},
				Background: color.Color{R: 255, G: 255, B: 255},
				Use:        contrast.UseBody,
				Min:        contrast.RatingAA,
			},
		},
	}
}

func setupTemplateDir(t *testing.T, templates map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runTemplate(t *testing.T, content string) string {
	t.Helper()
	tmplDir := setupTemplateDir(t, map[string]string{"test.txt.tmpl": content})
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Engine{TemplatesDir: tmplDir, OutputDir: outDir}
	if err := e.Run(testTokens()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(outDir, "test.txt"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return string(out)
}

func TestRun(t *testing.T) {
	got := runTemplate(t, `name={{ .Meta.Name }}
brand={{ hex "palette.brand" }}
step={{ step "blue" 6 }}
accent={{ index (harmony "accent") 0 }}`)

	wantLines := []string{
		"name=Test Tokens",
		"brand=#2563eb",
		"step=#2563eb",
		"accent=#b86e00",
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q, got:\n%s", want, got)
		}
	}
}

func TestRunFuncs(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"hex of color value", `{{ hex (palette "surface.sunken") }}`, "#f3f4f6"},
		{"hex literal", `{{ hex "#FFFFFF" }}`, "#ffffff"},
		{"hexAlpha", `{{ hexAlpha "palette.brand" 0.5 }}`, "#2563eb80"},
		{"rgb", `{{ rgb "palette.brand" }}`, "rgb(37, 99, 235)"},
		{"oklch black", `{{ oklch "#000000" }}`, "oklch(0.00% 0.0000 0.00)"},
		{"color path", `{{ (color "semantic.blue.danger").Hex }}`, "#dc2626"},
		{"ramp length", `{{ len (ramp "blue") }}`, "8"},
		{"step by name", `{{ hex "ramp.blue.step1" }}`, "#f8faff"},
		{"bestText", `{{ bestText "palette.brand" }}`, "#ffffff"},
		{"contrast", `{{ (contrast "#000000" "#ffffff").WCAG.Rating }}`, "AAA"},
		{"cssVar", `{{ cssVar "palette" "surface.sunken" }}`, "--acme-palette-surface-sunken"},
		{"cssVar index", `{{ cssVar "blue" 3 }}`, "--acme-blue-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runTemplate(t, tt.tmpl); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunAppFilter(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"app1.txt.tmpl": "app1={{ .Meta.Name }}",
		"app2.txt.tmpl": "app2={{ .Meta.Name }}",
	})
	outDir := filepath.Join(t.TempDir(), "output")

	e := &Engine{
		TemplatesDir: tmplDir,
		OutputDir:    outDir,
		Apps:         []string{"app1.txt"},
	}

	if err := e.Run(testTokens()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "app1.txt")); err != nil {
		t.Error("app1.txt should exist")
	}
	if _, err := os.Stat(filepath.Join(outDir, "app2.txt")); err == nil {
		t.Error("app2.txt should not exist when filtered")
	}
}

func TestRunNoTemplates(t *testing.T) {
	e := &Engine{
		TemplatesDir: t.TempDir(),
		OutputDir:    filepath.Join(t.TempDir(), "output"),
	}

	if err := e.Run(testTokens()); err == nil {
		t.Error("expected error for empty templates dir")
	}
}

func TestRunTemplateError(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"bad.txt.tmpl": `{{ hex "palette.missing" }}`,
	})
	e := &Engine{TemplatesDir: tmplDir, OutputDir: filepath.Join(t.TempDir(), "output")}

	err := e.Run(testTokens())
	if err == nil || !strings.Contains(err.Error(), "executing template") {
		t.Errorf("error = %v, want template execution error", err)
	}
}

func TestRunBuiltins(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "output")
	e := &Engine{OutputDir: outDir, Builtins: true}

	if err := e.Run(testTokens()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	css, err := os.ReadFile(filepath.Join(outDir, "tokens.css"))
	if err != nil {
		t.Fatalf("reading tokens.css: %v", err)
	}
	for _, want := range []string{
		":root {",
		"--acme-palette-brand: #2563eb;",
		"--acme-palette-surface-sunken: #f3f4f6;",
		"--acme-blue-1: #f8faff;",
		"--acme-blue-danger: #dc2626;",
		"--acme-harmony-accent-0: #b86e00;",
		`[data-theme="dark"] {`,
		"--acme-blue-1: #070d1f;",
	} {
		if !strings.Contains(string(css), want) {
			t.Errorf("tokens.css missing %q, got:\n%s", want, css)
		}
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "tokens.yaml"))
	if err != nil {
		t.Fatalf("reading tokens.yaml: %v", err)
	}
	var doc export
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("tokens.yaml is not valid YAML: %v\n%s", err, raw)
	}
	if doc.Name != "Test Tokens" {
		t.Errorf("name = %q", doc.Name)
	}
	if got := doc.Ramps["blue"].Dark[7]; got != "#e8efff" {
		t.Errorf("blue dark step 8 = %s", got)
	}
	if got := doc.Semantic["blue"]["success"]; got != "#16a34a" {
		t.Errorf("semantic success = %s", got)
	}
	if len(doc.Checks) != 1 || doc.Checks[0].Name != "body" {
		t.Errorf("checks = %+v", doc.Checks)
	}
}

func TestRunBuiltinOverride(t *testing.T) {
	tmplDir := setupTemplateDir(t, map[string]string{
		"tokens.css.tmpl": "custom",
	})
	outDir := filepath.Join(t.TempDir(), "output")
	e := &Engine{TemplatesDir: tmplDir, OutputDir: outDir, Builtins: true, Apps: []string{"tokens.css"}}

	if err := e.Run(testTokens()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	css, err := os.ReadFile(filepath.Join(outDir, "tokens.css"))
	if err != nil {
		t.Fatal(err)
	}
	if string(css) != "custom" {
		t.Errorf("tokens.css = %q, want user template output", css)
	}
	if _, err := os.Stat(filepath.Join(outDir, "tokens.yaml")); err == nil {
		t.Error("tokens.yaml should be filtered out")
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, `{{ range $i, $c := ramp "blue" }}{{ if $i }},{{ end }}{{ $c }}{{ end }}`, testTokens()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "#f8faff,#eef3ff") {
		t.Errorf("Render() = %q", buf.String())
	}
}

func TestLoadSourceRoundTrip(t *testing.T) {
	tokens, err := LoadSource("tokens.hcl", []byte(`
meta { name = "Inline" }
palette { brand = "#2563eb" }
ramp "blue" { base = palette.brand }
`))
	if err != nil {
		t.Fatalf("LoadSource() error: %v", err)
	}
	r, ok := tokens.Ramp("blue")
	if !ok || len(r.Colors()) != ramp.DefaultSteps {
		t.Fatalf("ramp blue = %+v, %v", r, ok)
	}
	if _, ok := tokens.Harmony("none"); ok {
		t.Error("Harmony(none) should not be found")
	}

	var buf bytes.Buffer
	if err := Render(&buf, `{{ .Meta.Name }} {{ step "blue" 1 }}`, tokens); err != nil {
		t.Fatal(err)
	}
	if want := "Inline " + r.Light[0]; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
