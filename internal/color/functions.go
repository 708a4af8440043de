package color

import "math"

// Lighten raises OKLCH lightness by amount (clamped to [0, 1]) and returns
// the gamut-clamped result.
func Lighten(c Color, amount float64) Color {
	lch := c.OKLCH()
	return StepLightness(c, math.Min(1, lch.L+amount))
}

// Darken lowers OKLCH lightness by amount (clamped to [0, 1]).
func Darken(c Color, amount float64) Color {
	lch := c.OKLCH()
	return StepLightness(c, math.Max(0, lch.L-amount))
}

// Mix blends a toward b in OKLCH by t in [0, 1].
func Mix(a, b Color, t float64) Color {
	t = clamp01(t)
	la, lb := a.OKLCH(), b.OKLCH()
	// An achromatic endpoint has no meaningful hue; borrow the other one.
	if la.C < 1e-4 {
		la.H = lb.H
	}
	if lb.C < 1e-4 {
		lb.H = la.H
	}
	return ClampToGamut(InterpolateOKLCH(la, lb, t)).Color().Clamped()
}
