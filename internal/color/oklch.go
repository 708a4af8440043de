package color

import (
	"fmt"
	"math"
)

// OKLab is a color in the OKLab space. L is lightness [0, 1]; A and B are the
// green-red and blue-yellow opponent axes, roughly [-0.4, 0.4].
type OKLab struct {
	L, A, B float64
}

// OKLCH is the polar form of OKLab. C is chroma (>= 0) and H is hue in
// degrees, normalized to [0, 360).
type OKLCH struct {
	L, C, H float64
}

type matrix3 [3][3]float64

func (m *matrix3) mul(v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// M1: linear sRGB → LMS
var linearToLMS = matrix3{
	{0.4122214708, 0.5363325363, 0.0514459929},
	{0.2119034982, 0.6806995451, 0.1073969566},
	{0.0883024619, 0.2817188376, 0.6299787005},
}

// M2: LMS' (cube-rooted) → Lab
var lmsToLab = matrix3{
	{0.2104542553, 0.7936177850, -0.0040720468},
	{1.9779984951, -2.4285922050, 0.4505937099},
	{0.0259040371, 0.7827717662, -0.8086757660},
}

// inverse M2
var labToLMS = matrix3{
	{1, 0.3963377774, 0.2158037573},
	{1, -0.1055613458, -0.0638541728},
	{1, -0.0894841775, -1.2914855480},
}

// inverse M1
var lmsToLinear = matrix3{
	{4.0767416621, -3.3077115913, 0.2309699292},
	{-1.2684380046, 2.6097574011, -0.3413193965},
	{-0.0041960863, -0.7034186147, 1.7076147010},
}

// SRGBToLinear converts a single sRGB channel in [0, 255] to linear light [0, 1].
func SRGBToLinear(channel float64) float64 {
	v := channel / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// LinearToSRGB gamma-encodes a linear channel and returns it rounded and
// clamped to [0, 255].
func LinearToSRGB(v float64) int {
	return clampChannel(encodeChannel(v))
}

// encodeChannel gamma-encodes without clamping. Negative input is mirrored so
// out-of-gamut values stay visible to InGamut.
func encodeChannel(v float64) int {
	sign := 1.0
	if v < 0 {
		sign, v = -1, -v
	}
	var e float64
	if v <= 0.0031308 {
		e = v * 12.92
	} else {
		e = 1.055*math.Pow(v, 1.0/2.4) - 0.055
	}
	return int(math.Round(sign * e * 255.0))
}

// RGBToOKLab converts an sRGB Color to OKLab.
func RGBToOKLab(c Color) OKLab {
	lms := linearToLMS.mul([3]float64{
		SRGBToLinear(float64(c.R)),
		SRGBToLinear(float64(c.G)),
		SRGBToLinear(float64(c.B)),
	})
	lab := lmsToLab.mul([3]float64{math.Cbrt(lms[0]), math.Cbrt(lms[1]), math.Cbrt(lms[2])})
	return OKLab{L: lab[0], A: lab[1], B: lab[2]}
}

// OKLabToRGB converts OKLab to sRGB. Channels are rounded but not clamped:
// an out-of-gamut input yields channels outside [0, 255].
func OKLabToRGB(lab OKLab) Color {
	lms := labToLMS.mul([3]float64{lab.L, lab.A, lab.B})
	for i := range lms {
		lms[i] = lms[i] * lms[i] * lms[i]
	}
	lin := lmsToLinear.mul(lms)
	return Color{R: encodeChannel(lin[0]), G: encodeChannel(lin[1]), B: encodeChannel(lin[2])}
}

// OKLabToOKLCH converts Cartesian OKLab to polar OKLCH.
func OKLabToOKLCH(lab OKLab) OKLCH {
	return OKLCH{
		L: lab.L,
		C: math.Hypot(lab.A, lab.B),
		H: NormalizeHue(math.Atan2(lab.B, lab.A) * 180 / math.Pi),
	}
}

// OKLCHToOKLab converts polar OKLCH to Cartesian OKLab.
func OKLCHToOKLab(c OKLCH) OKLab {
	rad := c.H * math.Pi / 180
	return OKLab{L: c.L, A: c.C * math.Cos(rad), B: c.C * math.Sin(rad)}
}

// RGBToOKLCH converts an sRGB Color to OKLCH.
func RGBToOKLCH(c Color) OKLCH {
	return OKLabToOKLCH(RGBToOKLab(c))
}

// OKLCHToRGB converts OKLCH to sRGB without clamping.
func OKLCHToRGB(c OKLCH) Color {
	return OKLabToRGB(OKLCHToOKLab(c))
}

// OKLCH returns the color in OKLCH.
func (c Color) OKLCH() OKLCH {
	return RGBToOKLCH(c)
}

// Color returns the unclamped sRGB equivalent of c.
func (c OKLCH) Color() Color {
	return OKLCHToRGB(c)
}

// Hex gamut-clamps c and returns it as "#rrggbb".
func (c OKLCH) Hex() string {
	return ClampToGamut(c).Color().Hex()
}

// CSS returns the color in CSS Color 4 oklch() notation.
func (c OKLCH) CSS() string {
	return fmt.Sprintf("oklch(%.2f%% %.4f %.2f)", c.L*100, c.C, c.H)
}

// NormalizeHue wraps a hue in degrees into [0, 360).
func NormalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

// InterpolateOKLCH blends start toward end by t. Lightness and chroma are
// interpolated linearly; hue travels along the shorter arc.
func InterpolateOKLCH(start, end OKLCH, t float64) OKLCH {
	dh := end.H - start.H
	if dh > 180 {
		dh -= 360
	} else if dh < -180 {
		dh += 360
	}
	return OKLCH{
		L: start.L + (end.L-start.L)*t,
		C: start.C + (end.C-start.C)*t,
		H: NormalizeHue(start.H + dh*t),
	}
}

// StepLightness returns a new Color with the given absolute OKLCH lightness,
// preserving the original color's hue and chroma as far as the gamut allows.
func StepLightness(c Color, lightness float64) Color {
	lch := c.OKLCH()
	lch.L = lightness
	return ClampToGamut(lch).Color().Clamped()
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
