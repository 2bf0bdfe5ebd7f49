// SPDX-License-Identifier: AGPL-3.0-or-later

package badge

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Default background colors, used when a token is missing or unresolvable.
const (
	DefaultLabelColor   = "#555"
	DefaultMessageColor = "#4c1"

	// ErrorColor is used for the message side of error badges.
	ErrorColor = "red"
)

// Backgrounds brighter than this get dark text.
const brightnessThreshold = 0.69

// Shield palette names, checked before the SVG color keywords.
var namedColors = map[string]string{
	"brightgreen":   "#4c1",
	"green":         "#97ca00",
	"yellow":        "#dfb317",
	"yellowgreen":   "#a4a61d",
	"orange":        "#fe7d37",
	"red":           "#e05d44",
	"blue":          "#007ec6",
	"grey":          "#555",
	"gray":          "#555",
	"lightgrey":     "#9f9f9f",
	"lightgray":     "#9f9f9f",
	"success":       "#4c1",
	"important":     "#fe7d37",
	"critical":      "#e05d44",
	"informational": "#007ec6",
	"inactive":      "#9f9f9f",
}

// RGB is an opaque color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Brightness returns the perceived brightness in [0,1].
func (c RGB) Brightness() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// Contrast is a text color and the shadow drawn beneath it.
type Contrast struct {
	Text   string
	Shadow string
}

var (
	lightOnDark = Contrast{Text: "#fff", Shadow: "#010101"}
	darkOnLight = Contrast{Text: "#333", Shadow: "#ccc"}
)

// Contrast picks readable text and shadow colors for c used as a background.
func (c RGB) Contrast() Contrast {
	if c.Brightness() <= brightnessThreshold {
		return lightOnDark
	}
	return darkOnLight
}

// ResolveColor maps a shield color name, an SVG color keyword or a hex
// literal (#rgb, #rrggbb, with or without the leading #) to an RGB value.
// Empty, "none" and unknown tokens report false.
func ResolveColor(token string) (RGB, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" || t == "none" {
		return RGB{}, false
	}

	if hex, ok := namedColors[t]; ok {
		t = hex
	} else if c, ok := colornames.Map[t]; ok {
		return RGB{R: c.R, G: c.G, B: c.B}, true
	}

	if !strings.HasPrefix(t, "#") {
		t = "#" + t
	}
	if len(t) != 4 && len(t) != 7 {
		return RGB{}, false
	}
	c, err := colorful.Hex(t)
	if err != nil {
		return RGB{}, false
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, true
}

// ResolveColorOr resolves token, falling back to def.
func ResolveColorOr(token, def string) RGB {
	if c, ok := ResolveColor(token); ok {
		return c
	}
	c, _ := ResolveColor(def)
	return c
}

// ContrastFor resolves token and returns its contrast pair.
func ContrastFor(token string) (Contrast, bool) {
	c, ok := ResolveColor(token)
	if !ok {
		return Contrast{}, false
	}
	return c.Contrast(), true
}

// GetViewsColor returns a message color based on a view count.
func GetViewsColor(count int64) string {
	switch {
	case count >= 10_000:
		return "brightgreen"
	case count >= 1_000:
		return "green"
	case count >= 100:
		return "yellowgreen"
	case count > 0:
		return "blue"
	default:
		return "lightgrey"
	}
}
