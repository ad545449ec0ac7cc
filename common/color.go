package common

import (
	"fmt"
	"regexp"
	"strconv"
)

// hexColorPattern matches a '#' followed by exactly six hex digits.
var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s is a '#RRGGBB' color triplet.
//
// Parameters:
//   - s: the candidate color string
//
// Returns:
//   - bool: true if s is a valid hex triplet
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// ParseHexColor converts a '#RRGGBB' string into linear [0,1] RGB components.
//
// Parameters:
//   - s: the hex color string
//
// Returns:
//   - [3]float32: red, green and blue in [0,1]
//   - error: error if s is not a valid hex triplet
func ParseHexColor(s string) ([3]float32, error) {
	if !IsHexColor(s) {
		return [3]float32{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return [3]float32{
		float32((v>>16)&0xFF) / 255,
		float32((v>>8)&0xFF) / 255,
		float32(v&0xFF) / 255,
	}, nil
}
