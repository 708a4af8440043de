package color

import "math"

// gamutEpsilon is the chroma interval width at which ClampToGamut stops.
const gamutEpsilon = 1e-4

// maxChroma bounds the search. No sRGB color reaches chroma 0.33.
const maxChroma = 0.5

// ClampToGamut returns the color with the same lightness and hue as c and
// the largest chroma in [0, c.C] that is representable in sRGB.
//
// Non-finite input never loops: NaN lightness maps to black, NaN or
// infinite hue to 0, NaN or -Inf chroma to 0, and chroma above maxChroma
// searches from maxChroma.
func ClampToGamut(c OKLCH) OKLCH {
	if math.IsNaN(c.H) || math.IsInf(c.H, 0) {
		c.H = 0
	}
	if math.IsNaN(c.C) || math.IsInf(c.C, -1) {
		c.C = 0
	}
	if math.IsNaN(c.L) || c.L <= 0 {
		return OKLCH{L: 0, C: 0, H: c.H}
	}
	if c.L >= 1 {
		return OKLCH{L: 1, C: 0, H: c.H}
	}
	if c.C <= 0 || (c.C <= maxChroma && c.Color().InGamut()) {
		return c
	}

	// Chroma 0 is always in gamut for 0 < L < 1, so lo holds the invariant.
	lo, hi := 0.0, math.Min(c.C, maxChroma)
	for hi-lo > gamutEpsilon {
		mid := (lo + hi) / 2
		if (OKLCH{L: c.L, C: mid, H: c.H}).Color().InGamut() {
			lo = mid
		} else {
			hi = mid
		}
	}
	return OKLCH{L: c.L, C: lo, H: c.H}
}
