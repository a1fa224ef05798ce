package spec

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// hexColorPattern matches #RRGGBB (case insensitive).
var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ErrInvalidHexFormat is returned for colors not in #RRGGBB form.
var ErrInvalidHexFormat = errors.New("invalid hex color format, expected #RRGGBB")

// RGB is a color with 0-255 components. It marshals as #RRGGBB.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor parses a #RRGGBB string into RGB components.
func ParseHexColor(hexColor string) (RGB, error) {
	hexColor = strings.TrimSpace(hexColor)
	if !hexColorPattern.MatchString(hexColor) {
		return RGB{}, fmt.Errorf("%w: got %q", ErrInvalidHexFormat, hexColor)
	}
	hexColor = strings.TrimPrefix(hexColor, "#")

	r, err := strconv.ParseUint(hexColor[0:2], 16, 8)
	if err != nil {
		return RGB{}, fmt.Errorf("failed to parse red component: %w", err)
	}
	g, err := strconv.ParseUint(hexColor[2:4], 16, 8)
	if err != nil {
		return RGB{}, fmt.Errorf("failed to parse green component: %w", err)
	}
	b, err := strconv.ParseUint(hexColor[4:6], 16, 8)
	if err != nil {
		return RGB{}, fmt.Errorf("failed to parse blue component: %w", err)
	}

	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// Hex returns the color as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string { return c.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseHexColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
