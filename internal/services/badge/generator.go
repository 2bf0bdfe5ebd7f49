// SPDX-License-Identifier: AGPL-3.0-or-later

package badge

import (
	"strconv"

	"github.com/btouchard/viewbadge/pkg/xmldoc"
)

// DefaultFontFamily is the font-family written into badges when none is given.
const DefaultFontFamily = "Verdana,Geneva,DejaVu Sans,sans-serif"

// Text is laid out at 10x its size and scaled back down, which gives
// viewers sub-pixel positioning.
const (
	textScaleUp   = 10.0
	textScaleDown = "scale(.1)"
	textFontSize  = "110"

	shadowBaseline = 150.0
	textBaseline   = 140.0
)

// Request describes one badge.
type Request struct {
	Style   Style
	Label   string
	Message string
	// Font is used only for measurement. It is shared and never modified.
	Font *Font
	// FontFamily is written into the SVG; empty means DefaultFontFamily.
	FontFamily string
	// LabelColor and Color are color tokens for the left and right
	// backgrounds; empty or unresolvable tokens fall back to the defaults.
	LabelColor string
	Color      string
}

// Renderer holds everything derived from a Request.
type Renderer struct {
	label        string
	message      string
	fontFamily   string
	labelColor   RGB
	messageColor RGB
	accessible   string
	geometry     Geometry
	style        StyleSpec
}

// NewRenderer resolves colors, measures both texts and lays out the badge.
func NewRenderer(req Request) *Renderer {
	family := req.FontFamily
	if family == "" {
		family = DefaultFontFamily
	}

	labelWidth := req.Font.PreferredWidth(req.Label, MeasureScale)
	messageWidth := req.Font.PreferredWidth(req.Message, MeasureScale)

	return &Renderer{
		label:        req.Label,
		message:      req.Message,
		fontFamily:   family,
		labelColor:   ResolveColorOr(req.LabelColor, DefaultLabelColor),
		messageColor: ResolveColorOr(req.Color, DefaultMessageColor),
		accessible:   req.Label + ": " + req.Message,
		geometry:     NewGeometry(labelWidth, messageWidth),
		style:        req.Style.Spec(),
	}
}

// Render renders a badge to SVG.
func Render(req Request) string {
	return NewRenderer(req).Render()
}

// Geometry returns the computed layout.
func (r *Renderer) Geometry() Geometry { return r.geometry }

// AccessibleText returns the "label: message" summary.
func (r *Renderer) AccessibleText() string { return r.accessible }

// Document builds the SVG tree.
func (r *Renderer) Document() *xmldoc.Document {
	svg := xmldoc.New("svg").
		Attr("xmlns", "http://www.w3.org/2000/svg").
		Attr("xmlns:xlink", "http://www.w3.org/1999/xlink").
		Attr("width", num(r.geometry.Width)).
		Attr("height", num(r.style.Height)).
		Attr("role", "img").
		Attr("aria-label", r.accessible)

	svg.Child(xmldoc.New("title").Text(r.accessible))
	svg.Child(r.style.background(r.geometry, r.labelColor, r.messageColor)...)
	svg.Child(r.foreground())

	return xmldoc.NewDocument(svg)
}

// Render serializes the badge.
func (r *Renderer) Render() string {
	return xmldoc.Serialize(r.Document())
}

func (r *Renderer) foreground() *xmldoc.Node {
	g := xmldoc.New("g").
		Attr("fill", "#fff").
		Attr("text-anchor", "middle").
		Attr("font-family", r.fontFamily).
		Attr("text-rendering", "geometricPrecision").
		Attr("font-size", textFontSize).
		Attr("transform", textScaleDown)

	g.Child(r.text(r.geometry.LabelMargin, r.label, r.labelColor, r.geometry.LabelWidth)...)
	g.Child(r.text(r.geometry.MessageMargin, r.message, r.messageColor, r.geometry.MessageWidth)...)
	return g
}

// text returns the optional shadow copy followed by the visible text.
func (r *Renderer) text(margin float64, content string, background RGB, width float64) []*xmldoc.Node {
	contrast := background.Contrast()
	x := num(textScaleUp * (margin + 0.5*width + r.geometry.HorizontalPadding))
	length := num(textScaleUp * width)

	var out []*xmldoc.Node
	if r.style.Shadow {
		out = append(out, xmldoc.New("text").
			Attr("aria-hidden", "true").
			Attr("fill", contrast.Shadow).
			Attr("fill-opacity", ".3").
			Attr("x", x).
			Attr("y", num(shadowBaseline+r.style.VerticalMargin)).
			Attr("textLength", length).
			Text(content))
	}
	out = append(out, xmldoc.New("text").
		Attr("fill", contrast.Text).
		Attr("x", x).
		Attr("y", num(textBaseline+r.style.VerticalMargin)).
		Attr("textLength", length).
		Text(content))
	return out
}

// num formats v with the shortest single-precision representation, which
// keeps values like 46.5525 free of float64 noise.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 32)
}
