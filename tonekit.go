// Package tonekit loads HCL token files and renders them through templates.
package tonekit

import (
	"fmt"

	"github.com/jsvensson/tonekit/internal/audit"
	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/parser"
)

// Tokens is the fully-resolved token data, ready for template rendering.
type Tokens struct {
	Meta      Meta
	Palette   *color.Node
	Ramps     []parser.Ramp
	Harmonies []parser.Harmony
	Checks    []parser.Check
}

// Meta holds token file metadata.
type Meta struct {
	Name   string
	Prefix string
}

// Load parses an HCL token file and returns fully-resolved Tokens.
func Load(path string) (*Tokens, error) {
	raw, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("loading tokens: %w", err)
	}
	return fromResult(raw), nil
}

// LoadSource is Load for in-memory content.
func LoadSource(filename string, src []byte) (*Tokens, error) {
	raw, err := parser.ParseSource(filename, src)
	if err != nil {
		return nil, fmt.Errorf("loading tokens: %w", err)
	}
	return fromResult(raw), nil
}

func fromResult(raw *parser.ParseResult) *Tokens {
	return &Tokens{
		Meta: Meta{
			Name:   raw.Meta.Name,
			Prefix: raw.Meta.Prefix,
		},
		Palette:   raw.Palette,
		Ramps:     raw.Ramps,
		Harmonies: raw.Harmonies,
		Checks:    raw.Checks,
	}
}

// Ramp returns the named ramp.
func (t *Tokens) Ramp(name string) (parser.Ramp, bool) {
	for _, r := range t.Ramps {
		if r.Name == name {
			return r, true
		}
	}
	return parser.Ramp{}, false
}

// Harmony returns the named harmony.
func (t *Tokens) Harmony(name string) (parser.Harmony, bool) {
	for _, h := range t.Harmonies {
		if h.Name == name {
			return h, true
		}
	}
	return parser.Harmony{}, false
}

// Audit evaluates every check in the token file.
func (t *Tokens) Audit() audit.Report {
	return audit.Run(t.Checks)
}
