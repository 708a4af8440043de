package contrast

import (
	"math"

	"github.com/jsvensson/tonekit/internal/color"
)

var (
	white = color.Color{R: 255, G: 255, B: 255}
	black = color.Color{R: 0, G: 0, B: 0}
)

// WCAGResult is a WCAG ratio with its rating.
type WCAGResult struct {
	Ratio  float64    `yaml:"ratio"`
	Rating WCAGRating `yaml:"rating"`
}

// APCAResult is an APCA Lc value with its rating for a use case.
type APCAResult struct {
	Lc     float64    `yaml:"lc"`
	Rating APCARating `yaml:"rating"`
}

// Result combines both contrast metrics for one text/background pair.
type Result struct {
	WCAG WCAGResult `yaml:"wcag"`
	APCA APCAResult `yaml:"apca"`
}

// Evaluate measures text on background with both metrics.
func Evaluate(text, background color.Color, use UseCase) Result {
	ratio := WCAG(text, background)
	lc := APCA(text, background)
	return Result{
		WCAG: WCAGResult{Ratio: ratio, Rating: RateWCAG(ratio)},
		APCA: APCAResult{Lc: lc, Rating: RateAPCA(lc, use)},
	}
}

// EvaluateHex is Evaluate for hex strings.
func EvaluateHex(text, background string, use UseCase) (Result, error) {
	t, err := color.ParseHex(text)
	if err != nil {
		return Result{}, err
	}
	b, err := color.ParseHex(background)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(t, b, use), nil
}

// BestTextColor returns white or black, whichever has the larger APCA
// contrast magnitude on background.
func BestTextColor(background color.Color) color.Color {
	if math.Abs(APCA(white, background)) > math.Abs(APCA(black, background)) {
		return white
	}
	return black
}

// BestTextColorHex is BestTextColor for hex strings.
func BestTextColorHex(background string) (string, error) {
	bg, err := color.ParseHex(background)
	if err != nil {
		return "", err
	}
	return BestTextColor(bg).Hex(), nil
}
