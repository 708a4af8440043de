package ramp

import (
	"fmt"
	"sort"
)

// Preset is a named seed for Generate.
type Preset struct {
	Base        string
	ChromaScale float64
}

var presets = map[string]Preset{
	"gray":    {Base: "#6b7280", ChromaScale: 0.3},
	"slate":   {Base: "#64748b", ChromaScale: 0.5},
	"red":     {Base: "#dc2626", ChromaScale: 1.0},
	"orange":  {Base: "#ea580c", ChromaScale: 1.0},
	"amber":   {Base: "#d97706", ChromaScale: 0.9},
	"yellow":  {Base: "#ca8a04", ChromaScale: 0.9},
	"green":   {Base: "#16a34a", ChromaScale: 0.9},
	"teal":    {Base: "#0d9488", ChromaScale: 0.9},
	"cyan":    {Base: "#0891b2", ChromaScale: 0.9},
	"blue":    {Base: "#2563eb", ChromaScale: 1.0},
	"indigo":  {Base: "#4f46e5", ChromaScale: 1.0},
	"violet":  {Base: "#7c3aed", ChromaScale: 1.0},
	"pink":    {Base: "#db2777", ChromaScale: 1.0},
	"crimson": {Base: "#be123c", ChromaScale: 1.0},
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames returns every preset name, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetOptions returns Options seeded from the named preset.
func PresetOptions(name string) (Options, error) {
	p, ok := presets[name]
	if !ok {
		return Options{}, fmt.Errorf("unknown preset %q", name)
	}
	return Options{BaseColor: p.Base, ChromaScale: p.ChromaScale}, nil
}
