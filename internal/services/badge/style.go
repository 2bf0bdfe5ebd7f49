// SPDX-License-Identifier: AGPL-3.0-or-later

package badge

import (
	"fmt"
	"strings"

	"github.com/btouchard/viewbadge/pkg/xmldoc"
)

// Style selects the visual variant of a badge.
type Style int

const (
	// Flat has rounded corners and no gradient.
	Flat Style = iota
	// FlatSquare has neither rounded corners nor a gradient.
	FlatSquare
	// Plastic is rounded with a glossy gradient overlay.
	Plastic
)

var styleNames = map[Style]string{
	Flat:       "flat",
	FlatSquare: "flat-square",
	Plastic:    "plastic",
}

// Styles lists all variants in declaration order.
func Styles() []Style {
	return []Style{Flat, FlatSquare, Plastic}
}

func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle parses a style name. An empty name selects Flat.
func ParseStyle(name string) (Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Flat, nil
	}
	for s, sn := range styleNames {
		if sn == n {
			return s, nil
		}
	}
	return Flat, fmt.Errorf("unknown badge style %q", name)
}

// StyleSpec holds the fixed parameters of a style.
type StyleSpec struct {
	Height float64
	// VerticalMargin shifts text baselines, in the 10x text coordinate space.
	VerticalMargin float64
	Shadow         bool
	Radius         float64
	Gradient       bool
}

var styles = map[Style]StyleSpec{
	Flat:       {Height: 20, VerticalMargin: 0, Shadow: true, Radius: 3},
	FlatSquare: {Height: 20, VerticalMargin: 0, Shadow: true, Radius: 0},
	Plastic:    {Height: 22, VerticalMargin: 10, Shadow: true, Radius: 4, Gradient: true},
}

// Spec returns the parameters for s, falling back to Flat for unknown values.
func (s Style) Spec() StyleSpec {
	if spec, ok := styles[s]; ok {
		return spec
	}
	return styles[Flat]
}

// Element ids referenced from the background group.
const (
	gradientID = "s"
	clipID     = "r"
)

type gradientStop struct {
	offset  string
	color   string
	opacity string
}

var plasticStops = []gradientStop{
	{offset: "0", color: "#fff", opacity: ".7"},
	{offset: ".1", color: "#aaa", opacity: ".1"},
	{offset: ".9", color: "#000", opacity: ".3"},
	{offset: "1", color: "#000", opacity: ".5"},
}

func (s StyleSpec) rounded() bool { return s.Radius > 0 }

// background returns the style's visual layer: an optional gradient
// definition, an optional clip path, and the group of background rects.
func (s StyleSpec) background(g Geometry, labelColor, messageColor RGB) []*xmldoc.Node {
	var out []*xmldoc.Node
	height := num(s.Height)
	width := num(g.Width)

	if s.Gradient {
		lg := xmldoc.New("linearGradient").
			Attr("id", gradientID).
			Attr("x2", "0").
			Attr("y2", "100%")
		for _, st := range plasticStops {
			lg.Child(xmldoc.New("stop").
				Attr("offset", st.offset).
				Attr("stop-color", st.color).
				Attr("stop-opacity", st.opacity))
		}
		out = append(out, lg)
	}

	if s.rounded() {
		out = append(out, xmldoc.New("clipPath").
			Attr("id", clipID).
			Child(xmldoc.New("rect").
				Attr("width", width).
				Attr("height", height).
				Attr("rx", num(s.Radius)).
				Attr("fill", "#fff")))
	}

	group := xmldoc.New("g")
	if s.rounded() {
		group.Attr("clip-path", "url(#"+clipID+")")
	}
	group.Child(
		xmldoc.New("rect").
			Attr("width", num(g.LeftWidth)).
			Attr("height", height).
			Attr("fill", labelColor.Hex()),
		xmldoc.New("rect").
			Attr("x", num(g.LeftWidth)).
			Attr("width", num(g.RightWidth)).
			Attr("height", height).
			Attr("fill", messageColor.Hex()),
	)
	if s.Gradient {
		group.Child(xmldoc.New("rect").
			Attr("width", width).
			Attr("height", height).
			Attr("fill", "url(#"+gradientID+")"))
	}
	return append(out, group)
}
