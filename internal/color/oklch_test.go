package color

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func TestSRGBLinearRoundtrip(t *testing.T) {
	for ch := 0; ch <= 255; ch++ {
		lin := SRGBToLinear(float64(ch))
		if lin < 0 || lin > 1 {
			t.Fatalf("SRGBToLinear(%d) = %f, outside [0, 1]", ch, lin)
		}
		if got := LinearToSRGB(lin); got != ch {
			t.Errorf("LinearToSRGB(SRGBToLinear(%d)) = %d", ch, got)
		}
	}
}

func TestSRGBToLinear_Piecewise(t *testing.T) {
	// 10/255 sits below the 0.04045 knee and uses the linear segment.
	if got, want := SRGBToLinear(10), (10.0/255.0)/12.92; math.Abs(got-want) > 1e-12 {
		t.Errorf("SRGBToLinear(10) = %g, want %g", got, want)
	}
	if got := SRGBToLinear(255); got != 1 {
		t.Errorf("SRGBToLinear(255) = %g, want 1", got)
	}
}

func TestLinearToSRGB_Clamps(t *testing.T) {
	if got := LinearToSRGB(-0.5); got != 0 {
		t.Errorf("LinearToSRGB(-0.5) = %d, want 0", got)
	}
	if got := LinearToSRGB(1.5); got != 255 {
		t.Errorf("LinearToSRGB(1.5) = %d, want 255", got)
	}
}

func TestRGBToOKLCH_KnownColors(t *testing.T) {
	tests := []struct {
		name       string
		color      Color
		wantL      float64
		wantC      float64
		wantH      float64
		achromatic bool
	}{
		{name: "black", color: Color{0, 0, 0}, achromatic: true},
		{name: "white", color: Color{255, 255, 255}, wantL: 1.0, achromatic: true},
		{name: "red", color: Color{255, 0, 0}, wantL: 0.6279, wantC: 0.2577, wantH: 29.23},
		{name: "green (0,128,0)", color: Color{0, 128, 0}, wantL: 0.5196, wantC: 0.1766, wantH: 142.50},
		{name: "blue", color: Color{0, 0, 255}, wantL: 0.4520, wantC: 0.3132, wantH: 264.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToOKLCH(tt.color)

			if math.Abs(got.L-tt.wantL) > 0.01 {
				t.Errorf("L = %f, want %f", got.L, tt.wantL)
			}
			if math.Abs(got.C-tt.wantC) > 0.01 {
				t.Errorf("C = %f, want %f", got.C, tt.wantC)
			}
			if !tt.achromatic && math.Abs(got.H-tt.wantH) > 0.6 {
				t.Errorf("H = %f, want %f", got.H, tt.wantH)
			}
			if got.H < 0 || got.H >= 360 {
				t.Errorf("H = %f, outside [0, 360)", got.H)
			}
		})
	}
}

func TestRGBToOKLab_MatchesColorful(t *testing.T) {
	hexes := []string{"#2563eb", "#eb6f92", "#31748f", "#9ccfd8", "#f6c177", "#191724", "#808080"}

	for _, h := range hexes {
		t.Run(h, func(t *testing.T) {
			ref, err := colorful.Hex(h)
			if err != nil {
				t.Fatalf("colorful.Hex(%q) error: %v", h, err)
			}
			wantL, wantA, wantB := ref.OkLab()

			got := RGBToOKLab(MustParseHex(h))
			if math.Abs(got.L-wantL) > 1e-3 || math.Abs(got.A-wantA) > 1e-3 || math.Abs(got.B-wantB) > 1e-3 {
				t.Errorf("RGBToOKLab(%s) = %+v, want {%f %f %f}", h, got, wantL, wantA, wantB)
			}
		})
	}
}

func TestOKLCHToRGB_KnownColors(t *testing.T) {
	tests := []struct {
		name string
		in   OKLCH
		want Color
	}{
		{"black", OKLCH{0, 0, 0}, Color{0, 0, 0}},
		{"white", OKLCH{1, 0, 0}, Color{255, 255, 255}},
		{"red", OKLCH{0.62796, 0.25768, 29.234}, Color{255, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OKLCHToRGB(tt.in)
			if absDiff(got.R, tt.want.R) > 1 || absDiff(got.G, tt.want.G) > 1 || absDiff(got.B, tt.want.B) > 1 {
				t.Errorf("OKLCHToRGB(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOKLCHToRGB_OutOfGamutNotClamped(t *testing.T) {
	got := OKLCHToRGB(OKLCH{L: 0.5, C: 2.0, H: 250})
	if got.InGamut() {
		t.Errorf("OKLCHToRGB(0.5, 2.0, 250) = %v, expected out-of-range channels", got)
	}
}

func TestRGBToOKLCH_Roundtrip(t *testing.T) {
	for r := 0; r <= 255; r += 17 {
		for g := 0; g <= 255; g += 17 {
			for b := 0; b <= 255; b += 17 {
				c := Color{r, g, b}
				got := OKLCHToRGB(RGBToOKLCH(c))
				if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 {
					t.Errorf("roundtrip %s = %v", c.Hex(), got)
				}
			}
		}
	}
}

func TestOKLabOKLCH_Polar(t *testing.T) {
	lab := OKLab{L: 0.5, A: -0.1, B: -0.1}
	lch := OKLabToOKLCH(lab)
	if math.Abs(lch.H-225) > 1e-9 {
		t.Errorf("H = %f, want 225", lch.H)
	}
	if math.Abs(lch.C-math.Sqrt(0.02)) > 1e-12 {
		t.Errorf("C = %f, want %f", lch.C, math.Sqrt(0.02))
	}
	back := OKLCHToOKLab(lch)
	if math.Abs(back.A-lab.A) > 1e-12 || math.Abs(back.B-lab.B) > 1e-12 {
		t.Errorf("OKLCHToOKLab = %+v, want %+v", back, lab)
	}
}

func TestNormalizeHue(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-720, 0},
		{725, 5},
	}
	for _, tt := range tests {
		if got := NormalizeHue(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeHue(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInterpolateOKLCH(t *testing.T) {
	tests := []struct {
		name       string
		start, end OKLCH
		t          float64
		want       OKLCH
	}{
		{"midpoint", OKLCH{0.2, 0.1, 100}, OKLCH{0.8, 0.3, 200}, 0.5, OKLCH{0.5, 0.2, 150}},
		{"wraps forward through zero", OKLCH{0.5, 0.1, 350}, OKLCH{0.5, 0.1, 10}, 0.5, OKLCH{0.5, 0.1, 0}},
		{"wraps backward through zero", OKLCH{0.5, 0.1, 10}, OKLCH{0.5, 0.1, 350}, 0.25, OKLCH{0.5, 0.1, 5}},
		{"start", OKLCH{0.3, 0.1, 40}, OKLCH{0.9, 0.2, 300}, 0, OKLCH{0.3, 0.1, 40}},
		{"end", OKLCH{0.3, 0.1, 40}, OKLCH{0.9, 0.2, 300}, 1, OKLCH{0.9, 0.2, 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateOKLCH(tt.start, tt.end, tt.t)
			if math.Abs(got.L-tt.want.L) > 1e-9 || math.Abs(got.C-tt.want.C) > 1e-9 || math.Abs(got.H-tt.want.H) > 1e-9 {
				t.Errorf("InterpolateOKLCH = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOKLCH_CSS(t *testing.T) {
	got := OKLCH{L: 0.628, C: 0.2577, H: 29.234}.CSS()
	if got != "oklch(62.80% 0.2577 29.23)" {
		t.Errorf("CSS() = %q", got)
	}
}

func TestStepLightness(t *testing.T) {
	c := MustParseHex("#2563eb")
	for _, l := range []float64{0.2, 0.5, 0.9} {
		got := StepLightness(c, l)
		if !got.InGamut() {
			t.Fatalf("StepLightness(%v) out of gamut: %v", l, got)
		}
		if gl := got.OKLCH().L; math.Abs(gl-l) > 0.01 {
			t.Errorf("StepLightness(%v) lightness = %f", l, gl)
		}
	}
}
