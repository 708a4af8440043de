// Package audit evaluates contrast checks declared in a token file.
package audit

import (
	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/jsvensson/tonekit/internal/parser"
)

// wcagMinimum maps a required rating to its minimum ratio.
var wcagMinimum = map[contrast.WCAGRating]float64{
	contrast.RatingAAA:     7.0,
	contrast.RatingAA:      4.5,
	contrast.RatingAALarge: 3.0,
	contrast.RatingFail:    1.0,
}

var (
	white = color.Color{R: 255, G: 255, B: 255}
	black = color.Color{}
)

// suggestSteps bounds the lightness search in Suggest.
const suggestSteps = 24

// Finding is the outcome of one check.
type Finding struct {
	Name       string              `yaml:"name"`
	Text       string              `yaml:"text"`
	Background string              `yaml:"background"`
	Use        contrast.UseCase    `yaml:"use"`
	Min        contrast.WCAGRating `yaml:"min"`
	Result     contrast.Result     `yaml:"result"`
	Suggestion string              `yaml:"suggestion,omitempty"`
}

// WCAGPass reports whether the pair meets the check's minimum rating.
func (f Finding) WCAGPass() bool {
	return f.Result.WCAG.Rating.Meets(f.Min)
}

// APCAPass reports whether the pair is at least marginal for its use case.
func (f Finding) APCAPass() bool {
	return f.Result.APCA.Rating != contrast.APCAFail
}

// Passed reports whether both WCAG and APCA checks pass.
func (f Finding) Passed() bool {
	return f.WCAGPass() && f.APCAPass()
}

// Report collects the findings for a token file.
type Report struct {
	Findings []Finding `yaml:"findings"`
}

// Failed returns the number of findings that did not pass.
func (r Report) Failed() int {
	n := 0
	for _, f := range r.Findings {
		if !f.Passed() {
			n++
		}
	}
	return n
}

// Run evaluates every check in order.
func Run(checks []parser.Check) Report {
	report := Report{Findings: make([]Finding, 0, len(checks))}
	for _, c := range checks {
		report.Findings = append(report.Findings, Evaluate(c))
	}
	return report
}

// Evaluate scores a single check and, when it fails WCAG, suggests a text
// color that would pass.
func Evaluate(c parser.Check) Finding {
	f := Finding{
		Name:       c.Name,
		Text:       c.Text.Hex(),
		Background: c.Background.Hex(),
		Use:        c.Use,
		Min:        c.Min,
		Result:     contrast.Evaluate(c.Text, c.Background, c.Use),
	}
	if !f.WCAGPass() {
		if s, ok := Suggest(c.Text, c.Background, c.Min); ok {
			f.Suggestion = s.Hex()
		}
	}
	return f
}

// Suggest moves text's OKLCH lightness away from the background until the
// WCAG ratio reaches minRating, keeping hue and as much chroma as the gamut allows.
// It returns a passing color near the original, or false if even
// black or white cannot reach minRating.
func Suggest(text, background color.Color, minRating contrast.WCAGRating) (color.Color, bool) {
	target, ok := wcagMinimum[minRating]
	if !ok {
		return color.Color{}, false
	}
	if contrast.WCAG(text, background) >= target {
		return text, true
	}

	// Head toward whichever extreme contrasts more with the background.
	lch := text.OKLCH()
	extreme := 0.0
	if contrast.WCAG(white, background) > contrast.WCAG(black, background) {
		extreme = 1.0
	}
	if contrast.WCAG(color.StepLightness(text, extreme), background) < target {
		return color.Color{}, false
	}

	lo, hi := lch.L, extreme
	for range suggestSteps {
		mid := (lo + hi) / 2
		if contrast.WCAG(color.StepLightness(text, mid), background) >= target {
			hi = mid
		} else {
			lo = mid
		}
	}
	return color.StepLightness(text, hi), true
}
