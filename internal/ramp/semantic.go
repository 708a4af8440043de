package ramp

import (
	"fmt"

	"github.com/jsvensson/tonekit/internal/color"
)

// Role is a semantic status color.
type Role string

const (
	RoleSuccess Role = "success"
	RoleWarning Role = "warning"
	RoleDanger  Role = "danger"
	RoleInfo    Role = "info"
)

// Roles lists the semantic roles in output order.
var Roles = []Role{RoleSuccess, RoleWarning, RoleDanger, RoleInfo}

// roleHues are OKLCH hues for each role.
var roleHues = map[Role]float64{
	RoleSuccess: 145,
	RoleWarning: 75,
	RoleDanger:  25,
	RoleInfo:    240,
}

// minRoleChroma keeps roles recognizable when the seed is nearly gray.
const minRoleChroma = 0.08

// Semantic moves base onto each role hue, keeping its lightness and chroma,
// and returns the gamut-clamped hex per role.
func Semantic(base string) (map[Role]string, error) {
	c, err := color.ParseHex(base)
	if err != nil {
		return nil, fmt.Errorf("base color: %w", err)
	}
	lch := c.OKLCH()
	chroma := max(lch.C, minRoleChroma)

	out := make(map[Role]string, len(Roles))
	for _, role := range Roles {
		out[role] = color.ClampToGamut(color.OKLCH{L: lch.L, C: chroma, H: roleHues[role]}).Color().Hex()
	}
	return out, nil
}
