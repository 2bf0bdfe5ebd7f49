// SPDX-License-Identifier: AGPL-3.0-or-later

package badge

// Layout constants.
const (
	HorizontalPadding = 5.0
	LabelMargin       = 1.0
)

// Geometry is the horizontal layout of a badge. It is computed once per
// render and never modified.
type Geometry struct {
	HorizontalPadding float64
	LabelMargin       float64
	MessageMargin     float64
	LabelWidth        float64
	MessageWidth      float64
	LeftWidth         float64
	RightWidth        float64
	Width             float64
}

// NewGeometry lays out a badge from the preferred widths of its two texts.
func NewGeometry(labelWidth, messageWidth float64) Geometry {
	left := labelWidth + 2*HorizontalPadding
	right := messageWidth + 2*HorizontalPadding
	return Geometry{
		HorizontalPadding: HorizontalPadding,
		LabelMargin:       LabelMargin,
		MessageMargin:     left - 1,
		LabelWidth:        labelWidth,
		MessageWidth:      messageWidth,
		LeftWidth:         left,
		RightWidth:        right,
		Width:             left + right,
	}
}
