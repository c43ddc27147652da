package reflow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errSinkFailed = errors.New("reflow: drawing sink failed")

// UnknownFamilyError reports a font family with no registered width metrics.
type UnknownFamilyError struct {
	Family string
}

func (e *UnknownFamilyError) Error() string {
	return fmt.Sprintf("reflow: font family %q is not registered", e.Family)
}

// ParseHexColor parses a "#RRGGBB" or "RRGGBB" color string.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	return Color{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
	}, nil
}

// Hex renders the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
