// Package ramp derives tonal scales, alpha scales and hue harmonies from a
// single seed color.
package ramp

import (
	"errors"
	"fmt"
	"math"

	"github.com/jsvensson/tonekit/internal/color"
)

// ErrInvalidSteps is returned for step counts other than 8, 10 or 12.
var ErrInvalidSteps = errors.New("invalid step count")

// DefaultSteps is used when Options.Steps is zero.
const DefaultSteps = 12

// hueBiasDegrees is the hue rotation applied at HueBias = ±1.
const hueBiasDegrees = 10

// Options configures Generate.
type Options struct {
	// BaseColor is the seed, as a 6-digit hex string.
	BaseColor string
	// Steps is 8, 10 or 12. Zero means DefaultSteps.
	Steps int
	// ChromaScale multiplies every step's chroma. Zero means 1.0, so callers
	// taking user input must reject an explicit zero themselves.
	ChromaScale float64
	// HueBias rotates the ramp hue by HueBias×10 degrees. Clamped to [-1, 1].
	HueBias float64
	// DarkMode selects the dark lightness and chroma tables.
	DarkMode bool
	// LockedSteps overrides the computed color at a 1-based output position.
	// For 8- and 10-step ramps the position is not the nominal table step:
	// position 5 of an 8-step ramp is nominal step 7.
	LockedSteps map[int]string
}

// Nominal step tables, indexed by nominal step - 1. Light mode runs from a
// near-white surface at step 1 to high-contrast text at step 12; dark mode
// mirrors the roles.
var (
	lightLightness = [12]float64{0.99, 0.97, 0.94, 0.90, 0.85, 0.79, 0.72, 0.64, 0.56, 0.49, 0.40, 0.25}
	lightChroma    = [12]float64{0.05, 0.10, 0.20, 0.32, 0.45, 0.58, 0.72, 0.88, 1.00, 0.95, 0.85, 0.60}

	darkLightness = [12]float64{0.11, 0.14, 0.18, 0.22, 0.27, 0.32, 0.38, 0.46, 0.56, 0.63, 0.78, 0.93}
	darkChroma    = [12]float64{0.08, 0.12, 0.20, 0.30, 0.40, 0.50, 0.62, 0.78, 1.00, 0.95, 0.75, 0.30}
)

// stepMaps lists the nominal steps (1-based) used for each supported count.
var stepMaps = map[int][]int{
	12: {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	10: {1, 2, 3, 4, 5, 7, 8, 9, 10, 12},
	8:  {1, 3, 5, 7, 8, 9, 11, 12},
}

// NominalSteps returns the nominal table steps used for a ramp of the given
// length.
func NominalSteps(steps int) ([]int, error) {
	m, ok := stepMaps[steps]
	if !ok {
		return nil, fmt.Errorf("%w %d: must be 8, 10 or 12", ErrInvalidSteps, steps)
	}
	out := make([]int, len(m))
	copy(out, m)
	return out, nil
}

func (o Options) withDefaults() Options {
	if o.Steps == 0 {
		o.Steps = DefaultSteps
	}
	if o.ChromaScale == 0 {
		o.ChromaScale = 1
	}
	o.HueBias = math.Max(-1, math.Min(1, o.HueBias))
	return o
}

// Targets returns the unclamped OKLCH target for every output position.
// Locked positions are not applied.
func Targets(opts Options) ([]color.OKLCH, error) {
	opts = opts.withDefaults()

	base, err := color.ParseHex(opts.BaseColor)
	if err != nil {
		return nil, fmt.Errorf("base color: %w", err)
	}
	nominal, err := NominalSteps(opts.Steps)
	if err != nil {
		return nil, err
	}

	lightness, chroma := lightLightness, lightChroma
	if opts.DarkMode {
		lightness, chroma = darkLightness, darkChroma
	}

	baseLch := base.OKLCH()
	hue := color.NormalizeHue(baseLch.H + opts.HueBias*hueBiasDegrees)

	targets := make([]color.OKLCH, len(nominal))
	for i, step := range nominal {
		targets[i] = color.OKLCH{
			L: lightness[step-1],
			C: math.Max(0, baseLch.C*chroma[step-1]*opts.ChromaScale),
			H: hue,
		}
	}
	return targets, nil
}

// Generate returns exactly opts.Steps hex colors in ascending step order.
func Generate(opts Options) ([]string, error) {
	targets, err := Targets(opts)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(targets))
	for i, target := range targets {
		if locked, ok := opts.LockedSteps[i+1]; ok {
			hex, err := color.NormalizeHex(locked)
			if err != nil {
				return nil, fmt.Errorf("locked step %d: %w", i+1, err)
			}
			out[i] = hex
			continue
		}
		out[i] = color.ClampToGamut(target).Color().Hex()
	}
	return out, nil
}
