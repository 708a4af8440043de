// Package contrast measures text/background readability with the WCAG 2.1
// luminance ratio and the APCA lightness-contrast model.
package contrast

import (
	"fmt"

	"github.com/jsvensson/tonekit/internal/color"
)

// WCAGRating classifies a WCAG contrast ratio.
type WCAGRating string

const (
	RatingAAA     WCAGRating = "AAA"
	RatingAA      WCAGRating = "AA"
	RatingAALarge WCAGRating = "AA Large"
	RatingFail    WCAGRating = "Fail"
)

// wcagRank orders ratings so callers can ask whether one meets another.
var wcagRank = map[WCAGRating]int{
	RatingFail:    0,
	RatingAALarge: 1,
	RatingAA:      2,
	RatingAAA:     3,
}

// ParseWCAGRating accepts "AAA", "AA", "AA Large" or "Fail".
func ParseWCAGRating(s string) (WCAGRating, error) {
	r := WCAGRating(s)
	if _, ok := wcagRank[r]; !ok {
		return "", fmt.Errorf("unknown WCAG rating %q (valid: AAA, AA, AA Large, Fail)", s)
	}
	return r, nil
}

// Meets reports whether r is at least as strict as min.
func (r WCAGRating) Meets(min WCAGRating) bool {
	return wcagRank[r] >= wcagRank[min]
}

// RelativeLuminance returns the WCAG relative luminance of c in [0, 1].
func RelativeLuminance(c color.Color) float64 {
	c = c.Clamped()
	return 0.2126*color.SRGBToLinear(float64(c.R)) +
		0.7152*color.SRGBToLinear(float64(c.G)) +
		0.0722*color.SRGBToLinear(float64(c.B))
}

// WCAG returns the contrast ratio between a and b, in [1, 21]. The result is
// symmetric in its arguments.
func WCAG(a, b color.Color) float64 {
	l1 := RelativeLuminance(a)
	l2 := RelativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// WCAGHex is WCAG for hex strings.
func WCAGHex(a, b string) (float64, error) {
	ca, err := color.ParseHex(a)
	if err != nil {
		return 0, err
	}
	cb, err := color.ParseHex(b)
	if err != nil {
		return 0, err
	}
	return WCAG(ca, cb), nil
}

// RateWCAG classifies a contrast ratio against the WCAG 2.1 thresholds.
func RateWCAG(ratio float64) WCAGRating {
	switch {
	case ratio >= 7:
		return RatingAAA
	case ratio >= 4.5:
		return RatingAA
	case ratio >= 3:
		return RatingAALarge
	default:
		return RatingFail
	}
}
