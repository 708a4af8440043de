package ramp

import (
	"fmt"

	"github.com/jsvensson/tonekit/internal/color"
)

// alphaTables holds the opacity of each output position per step count.
var alphaTables = map[int][]float64{
	12: {0.02, 0.04, 0.08, 0.12, 0.16, 0.20, 0.28, 0.38, 0.50, 0.62, 0.78, 0.92},
	10: {0.02, 0.04, 0.08, 0.12, 0.16, 0.24, 0.36, 0.52, 0.72, 0.90},
	8:  {0.03, 0.08, 0.14, 0.22, 0.34, 0.50, 0.72, 0.92},
}

// GenerateAlpha returns the base color at increasing opacities as
// "#rrggbbaa" strings. Steps of zero means DefaultSteps.
func GenerateAlpha(base string, steps int) ([]string, error) {
	if steps == 0 {
		steps = DefaultSteps
	}
	c, err := color.ParseHex(base)
	if err != nil {
		return nil, fmt.Errorf("base color: %w", err)
	}
	alphas, ok := alphaTables[steps]
	if !ok {
		return nil, fmt.Errorf("%w %d: must be 8, 10 or 12", ErrInvalidSteps, steps)
	}

	out := make([]string, len(alphas))
	for i, a := range alphas {
		out[i] = c.HexAlpha(a)
	}
	return out, nil
}
