package tonekit

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/jsvensson/tonekit/internal/audit"
	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/jsvensson/tonekit/internal/parser"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

var log = commonlog.GetLogger("tonekit.engine")

// Engine loads and executes Go templates against resolved Tokens.
type Engine struct {
	TemplatesDir string
	OutputDir    string
	Apps         []string // if non-empty, only render these template basenames
	Builtins     bool     // also render the embedded tokens.css and tokens.yaml
}

// templateSource is a template file on disk or in the embedded set.
type templateSource struct {
	name string // output name, the file name without .tmpl
	path string
	fs   bool
}

// Run loads all .tmpl files from the templates directory (and the built-ins,
// if enabled), executes them with the given tokens, and writes output files.
func (e *Engine) Run(tokens *Tokens) error {
	sources, err := e.collect()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data := buildTemplateData(tokens)

	for _, src := range sources {
		if !e.shouldRender(src.name) {
			log.Debugf("skipping %s", src.name)
			continue
		}
		if err := e.renderTemplate(src, data); err != nil {
			return err
		}
		log.Infof("wrote %s", filepath.Join(e.OutputDir, src.name))
	}

	return nil
}

// collect lists templates to render. A user template shadows a built-in
// with the same output name.
func (e *Engine) collect() ([]templateSource, error) {
	var sources []templateSource
	seen := make(map[string]bool)

	if e.TemplatesDir != "" {
		matches, err := filepath.Glob(filepath.Join(e.TemplatesDir, "*.tmpl"))
		if err != nil {
			return nil, fmt.Errorf("globbing templates: %w", err)
		}
		for _, m := range matches {
			name := strings.TrimSuffix(filepath.Base(m), ".tmpl")
			sources = append(sources, templateSource{name: name, path: m})
			seen[name] = true
		}
	}

	if e.Builtins {
		entries, err := builtinTemplates.ReadDir("templates")
		if err != nil {
			return nil, fmt.Errorf("reading built-in templates: %w", err)
		}
		for _, entry := range entries {
			name := strings.TrimSuffix(entry.Name(), ".tmpl")
			if seen[name] {
				log.Debugf("%s overrides the built-in template", name)
				continue
			}
			sources = append(sources, templateSource{name: name, path: "templates/" + entry.Name(), fs: true})
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no .tmpl files found in %s", e.TemplatesDir)
	}
	return sources, nil
}

func (e *Engine) shouldRender(name string) bool {
	// If no apps are specified, render all.
	if len(e.Apps) == 0 {
		return true
	}

	return slices.Contains(e.Apps, name)
}

func (e *Engine) renderTemplate(src templateSource, data templateData) error {
	tmpl := template.New(filepath.Base(src.path)).Funcs(data.FuncMap)
	var err error
	if src.fs {
		tmpl, err = tmpl.ParseFS(builtinTemplates, src.path)
	} else {
		tmpl, err = tmpl.ParseFiles(src.path)
	}
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", src.path, err)
	}

	outPath := filepath.Join(e.OutputDir, src.name)
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", outPath, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("executing template %s: %w", src.path, err)
	}

	return nil
}

// Render executes a single template string against tokens.
func Render(w io.Writer, text string, tokens *Tokens) error {
	data := buildTemplateData(tokens)
	tmpl, err := template.New("inline").Funcs(data.FuncMap).Parse(text)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	return tmpl.Execute(w, data)
}

// templateData is the data passed to templates.
type templateData struct {
	Meta      Meta
	Palette   *color.Node
	Flat      map[string]string // palette dot path -> hex
	Ramps     []parser.Ramp
	Harmonies []parser.Harmony
	Audit     audit.Report
	Export    export
	FuncMap   template.FuncMap
}

// export is the shape of the built-in YAML output.
type export struct {
	Name      string                       `yaml:"name,omitempty"`
	Palette   map[string]string            `yaml:"palette,omitempty"`
	Ramps     map[string]exportRamp        `yaml:"ramps,omitempty"`
	Harmonies map[string][]string          `yaml:"harmonies,omitempty"`
	Semantic  map[string]map[string]string `yaml:"semantic,omitempty"`
	Checks    []audit.Finding              `yaml:"checks,omitempty"`
}

type exportRamp struct {
	Light []string `yaml:"light"`
	Dark  []string `yaml:"dark"`
}

// flattenPalette maps every colored node to its dot path.
func flattenPalette(node *color.Node, prefix string, dest map[string]string) {
	if node == nil {
		return
	}
	if node.Color != nil && prefix != "" {
		dest[prefix] = node.Color.Hex()
	}
	for name, child := range node.Children {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		flattenPalette(child, path, dest)
	}
}

// resolveColorPath resolves a universal dot-notation path to a Color.
// Supports paths like "palette.brand", "palette.surface.sunken",
// "ramp.blue.step3" (or "ramp.blue.3"), "harmony.accent.0" and
// "semantic.blue.success".
func resolveColorPath(path string, data templateData) (color.Color, error) {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		return color.Color{}, fmt.Errorf("invalid path %q: must be block.name format", path)
	}

	block := parts[0]
	rest := parts[1:]

	switch block {
	case "palette":
		if data.Palette == nil {
			return color.Color{}, fmt.Errorf("palette path not found: %s", path)
		}
		c, err := data.Palette.Lookup(rest)
		if err != nil {
			return color.Color{}, fmt.Errorf("palette path %s: %w", path, err)
		}
		return c, nil

	case "ramp":
		if len(rest) != 2 {
			return color.Color{}, fmt.Errorf("ramp paths must be ramp.name.stepN: %s", path)
		}
		r, ok := findRamp(data.Ramps, rest[0])
		if !ok {
			return color.Color{}, fmt.Errorf("ramp not found: %s", rest[0])
		}
		pos, err := strconv.Atoi(strings.TrimPrefix(rest[1], "step"))
		colors := r.Colors()
		if err != nil || pos < 1 || pos > len(colors) {
			return color.Color{}, fmt.Errorf("ramp %s has no step %q", rest[0], rest[1])
		}
		return color.ParseHex(colors[pos-1])

	case "harmony":
		if len(rest) != 2 {
			return color.Color{}, fmt.Errorf("harmony paths must be harmony.name.index: %s", path)
		}
		h, ok := findHarmony(data.Harmonies, rest[0])
		if !ok {
			return color.Color{}, fmt.Errorf("harmony not found: %s", rest[0])
		}
		i, err := strconv.Atoi(rest[1])
		if err != nil || i < 0 || i >= len(h.Colors) {
			return color.Color{}, fmt.Errorf("harmony %s has no index %q", rest[0], rest[1])
		}
		return color.ParseHex(h.Colors[i])

	case "semantic":
		if len(rest) != 2 {
			return color.Color{}, fmt.Errorf("semantic paths must be semantic.ramp.role: %s", path)
		}
		r, ok := findRamp(data.Ramps, rest[0])
		if !ok || r.Semantic == nil {
			return color.Color{}, fmt.Errorf("no semantic set for ramp %s", rest[0])
		}
		for role, hex := range r.Semantic {
			if string(role) == rest[1] {
				return color.ParseHex(hex)
			}
		}
		return color.Color{}, fmt.Errorf("semantic role not found: %s", rest[1])

	default:
		return color.Color{}, fmt.Errorf("unknown block %q (valid: palette, ramp, harmony, semantic)", block)
	}
}

func findRamp(ramps []parser.Ramp, name string) (parser.Ramp, bool) {
	for _, r := range ramps {
		if r.Name == name {
			return r, true
		}
	}
	return parser.Ramp{}, false
}

func findHarmony(harmonies []parser.Harmony, name string) (parser.Harmony, bool) {
	for _, h := range harmonies {
		if h.Name == name {
			return h, true
		}
	}
	return parser.Harmony{}, false
}

// toColor accepts a Color, a hex literal or a dot path.
func toColor(v any, data templateData) (color.Color, error) {
	switch c := v.(type) {
	case color.Color:
		return c, nil
	case string:
		if strings.HasPrefix(c, "#") {
			return color.ParseHex(c)
		}
		return resolveColorPath(c, data)
	default:
		return color.Color{}, fmt.Errorf("expected color, hex string or path, got %T", v)
	}
}

// cssIdent lowercases and joins name parts with hyphens.
func cssIdent(parts []any) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.ToLower(fmt.Sprint(p))
		s = strings.NewReplacer(".", "-", "_", "-", " ", "-").Replace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "-")
}

func buildTemplateData(tokens *Tokens) templateData {
	data := templateData{
		Meta:      tokens.Meta,
		Palette:   tokens.Palette,
		Flat:      make(map[string]string),
		Ramps:     tokens.Ramps,
		Harmonies: tokens.Harmonies,
		Audit:     tokens.Audit(),
	}
	flattenPalette(tokens.Palette, "", data.Flat)
	data.Export = buildExport(data)

	// data is captured by value; FuncMap is assigned last so every
	// closure sees the finished struct apart from FuncMap itself.
	d := data
	data.FuncMap = template.FuncMap{
		"hex": func(v any) (string, error) {
			c, err := toColor(v, d)
			return c.Hex(), err
		},
		"hexAlpha": func(v any, alpha float64) (string, error) {
			c, err := toColor(v, d)
			return c.HexAlpha(alpha), err
		},
		"rgb": func(v any) (string, error) {
			c, err := toColor(v, d)
			return c.RGB(), err
		},
		"oklch": func(v any) (string, error) {
			c, err := toColor(v, d)
			return c.OKLCH().CSS(), err
		},
		"color": func(path string) (color.Color, error) {
			return resolveColorPath(path, d)
		},
		"palette": func(path string) (color.Color, error) {
			return resolveColorPath("palette."+path, d)
		},
		"ramp": func(name string) ([]string, error) {
			r, ok := findRamp(d.Ramps, name)
			if !ok {
				return nil, fmt.Errorf("ramp not found: %s", name)
			}
			return r.Colors(), nil
		},
		"step": func(name string, n int) (string, error) {
			c, err := resolveColorPath(fmt.Sprintf("ramp.%s.%d", name, n), d)
			return c.Hex(), err
		},
		"harmony": func(name string) ([]string, error) {
			h, ok := findHarmony(d.Harmonies, name)
			if !ok {
				return nil, fmt.Errorf("harmony not found: %s", name)
			}
			return h.Colors, nil
		},
		"bestText": func(v any) (string, error) {
			c, err := toColor(v, d)
			return contrast.BestTextColor(c).Hex(), err
		},
		"contrast": func(text, background any) (contrast.Result, error) {
			t, err := toColor(text, d)
			if err != nil {
				return contrast.Result{}, err
			}
			b, err := toColor(background, d)
			if err != nil {
				return contrast.Result{}, err
			}
			return contrast.Evaluate(t, b, contrast.UseBody), nil
		},
		"cssVar": func(parts ...any) string {
			name := cssIdent(parts)
			if d.Meta.Prefix != "" {
				return "--" + cssIdent([]any{d.Meta.Prefix}) + "-" + name
			}
			return "--" + name
		},
		"toYAML": func(v any) (string, error) {
			out, err := yaml.Marshal(v)
			return string(out), err
		},
		"add": func(a, b int) int {
			return a + b
		},
	}
	return data
}

func buildExport(data templateData) export {
	ex := export{
		Name:    data.Meta.Name,
		Palette: data.Flat,
		Checks:  data.Audit.Findings,
	}
	if len(data.Ramps) > 0 {
		ex.Ramps = make(map[string]exportRamp, len(data.Ramps))
		for _, r := range data.Ramps {
			ex.Ramps[r.Name] = exportRamp{Light: r.Light, Dark: r.Dark}
			if r.Semantic == nil {
				continue
			}
			if ex.Semantic == nil {
				ex.Semantic = make(map[string]map[string]string)
			}
			roles := make(map[string]string, len(r.Semantic))
			for role, hex := range r.Semantic {
				roles[string(role)] = hex
			}
			ex.Semantic[r.Name] = roles
		}
	}
	if len(data.Harmonies) > 0 {
		ex.Harmonies = make(map[string][]string, len(data.Harmonies))
		for _, h := range data.Harmonies {
			ex.Harmonies[h.Name] = h.Colors
		}
	}
	return ex
}
