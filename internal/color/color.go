package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned when a string is not a 6-digit hex color.
var ErrInvalidHex = errors.New("invalid hex color")

var hexPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// Color represents an sRGB color with channels nominally in [0, 255].
// Colors produced by OKLab conversion may hold out-of-range channels until
// they are clamped; Hex and Clamped always produce displayable values.
type Color struct {
	R, G, B int
}

// Node represents a palette entry that can be both a color and a namespace.
// Color is nil for namespace-only nodes (groups without a color attribute).
// Children is nil for leaf nodes (flat color attributes).
type Node struct {
	Color    *Color
	Children map[string]*Node
}

// Lookup resolves a dot-path (as segments) to a Color.
func (n *Node) Lookup(path []string) (Color, error) {
	current := n
	for _, part := range path {
		if current.Children == nil {
			return Color{}, fmt.Errorf("path not found: %s is a leaf, cannot traverse further", part)
		}
		child, ok := current.Children[part]
		if !ok {
			return Color{}, fmt.Errorf("path not found: %q does not exist", part)
		}
		current = child
	}
	if current.Color == nil {
		return Color{}, fmt.Errorf("path is a group, not a color; add a color attribute or reference a specific child")
	}
	return *current.Color, nil
}

// ParseHex parses a hex color string like "#2563eb" or "2563EB" into a Color.
// Anything other than exactly six hex digits, with an optional leading '#',
// is rejected with an error wrapping ErrInvalidHex.
func ParseHex(s string) (Color, error) {
	if !hexPattern.MatchString(s) {
		return Color{}, fmt.Errorf("%w %q: must be 6 hex digits", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w %q: %v", ErrInvalidHex, s, err)
	}
	return Color{R: int(v>>16) & 0xff, G: int(v>>8) & 0xff, B: int(v) & 0xff}, nil
}

// MustParseHex is like ParseHex but panics on malformed input.
// Intended for package-level tables of known-good colors.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// NormalizeHex parses s and re-serializes it as lowercase "#rrggbb".
func NormalizeHex(s string) (string, error) {
	c, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Clamped returns the color with every channel clamped to [0, 255].
func (c Color) Clamped() Color {
	return Color{R: clampChannel(c.R), G: clampChannel(c.G), B: clampChannel(c.B)}
}

// Hex returns the color as a lowercase hex string with leading #, e.g. "#2563eb".
func (c Color) Hex() string {
	c = c.Clamped()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexBare returns the color as a hex string without leading #, e.g. "2563eb".
func (c Color) HexBare() string {
	return strings.TrimPrefix(c.Hex(), "#")
}

// HexAlpha returns the color in #rrggbbaa form with the given alpha in [0, 1].
// The result is output-only; ParseHex does not accept it.
func (c Color) HexAlpha(alpha float64) string {
	a := int(math.Round(clamp01(alpha) * 255))
	return fmt.Sprintf("%s%02x", c.Hex(), a)
}

// RGB returns the color as an rgb() string, e.g. "rgb(37, 99, 235)".
func (c Color) RGB() string {
	c = c.Clamped()
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// InGamut reports whether every channel lies in [0, 255].
func (c Color) InGamut() bool {
	return inByteRange(c.R) && inByteRange(c.G) && inByteRange(c.B)
}

func inByteRange(v int) bool {
	return v >= 0 && v <= 255
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
