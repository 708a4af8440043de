package ramp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jsvensson/tonekit/internal/color"
)

// ErrUnknownHarmony is returned for harmony kinds Harmony does not know.
var ErrUnknownHarmony = errors.New("unknown harmony")

// HarmonyKind names a fixed hue relationship.
type HarmonyKind string

const (
	Complementary      HarmonyKind = "complementary"
	SplitComplementary HarmonyKind = "split-complementary"
	Analogous          HarmonyKind = "analogous"
	Triadic            HarmonyKind = "triadic"
	Tetradic           HarmonyKind = "tetradic"
	Monochrome         HarmonyKind = "monochrome"
)

// hueOffsets lists the rotations for each hue-based harmony, in output order.
var hueOffsets = map[HarmonyKind][]float64{
	Complementary:      {180},
	SplitComplementary: {150, 210},
	Analogous:          {30, 330},
	Triadic:            {120, 240},
	Tetradic:           {90, 180, 270},
}

const (
	monochromeShift = 0.2
	monochromeMinL  = 0.15
	monochromeMaxL  = 0.95
)

// HarmonyKinds returns every supported kind, sorted.
func HarmonyKinds() []HarmonyKind {
	kinds := make([]HarmonyKind, 0, len(hueOffsets)+1)
	for k := range hueOffsets {
		kinds = append(kinds, k)
	}
	kinds = append(kinds, Monochrome)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseHarmonyKind validates a harmony name.
func ParseHarmonyKind(s string) (HarmonyKind, error) {
	k := HarmonyKind(s)
	if _, ok := hueOffsets[k]; ok || k == Monochrome {
		return k, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownHarmony, s)
}

// Harmony returns the colors related to base by kind. The base color itself
// is not included.
func Harmony(base string, kind HarmonyKind) ([]string, error) {
	c, err := color.ParseHex(base)
	if err != nil {
		return nil, fmt.Errorf("base color: %w", err)
	}
	lch := c.OKLCH()

	var targets []color.OKLCH
	if kind == Monochrome {
		for _, delta := range []float64{monochromeShift, -monochromeShift} {
			l := math.Max(monochromeMinL, math.Min(monochromeMaxL, lch.L+delta))
			targets = append(targets, color.OKLCH{L: l, C: lch.C, H: lch.H})
		}
	} else {
		offsets, ok := hueOffsets[kind]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownHarmony, kind)
		}
		for _, off := range offsets {
			targets = append(targets, color.OKLCH{L: lch.L, C: lch.C, H: color.NormalizeHue(lch.H + off)})
		}
	}

	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = color.ClampToGamut(t).Color().Hex()
	}
	return out, nil
}
