// SPDX-License-Identifier: AGPL-3.0-or-later

package badge

import (
	"errors"
	"fmt"
	"math"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// MeasureScale is the pixel height text is measured at.
const MeasureScale = 11.0

// widthFudge compensates for the 10x up/down scaling applied to text.
const widthFudge = 1.0345

// Font holds parsed glyph metrics. It is read-only after construction and
// safe for concurrent use: each query allocates its own sfnt.Buffer.
type Font struct {
	sf   *sfnt.Font
	name string
	ppem fixed.Int26_6

	// Vertical metrics in font units.
	ascent  float64
	descent float64
	lineGap float64
}

// ParseFont parses TrueType or OpenType bytes.
func ParseFont(data []byte) (*Font, error) {
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return NewFont(sf)
}

// NewFont wraps an already parsed font.
func NewFont(sf *sfnt.Font) (*Font, error) {
	upem := int(sf.UnitsPerEm())
	if upem <= 0 {
		return nil, errors.New("font has no units per em")
	}
	ppem := fixed.I(upem)

	var buf sfnt.Buffer
	m, err := sf.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("read font metrics: %w", err)
	}
	ascent := unitsOf(m.Ascent)
	descent := unitsOf(m.Descent)
	if ascent+descent <= 0 {
		return nil, errors.New("font has empty vertical extent")
	}

	name := ""
	if n, err := sf.Name(&buf, sfnt.NameIDFamily); err == nil {
		name = n
	}

	return &Font{
		sf:      sf,
		name:    name,
		ppem:    ppem,
		ascent:  ascent,
		descent: descent,
		lineGap: unitsOf(m.Height) - ascent - descent,
	}, nil
}

// Name returns the font family name from the name table, if any.
func (f *Font) Name() string { return f.name }

// unitsOf converts a 26.6 value measured at ppem == unitsPerEm to font units.
func unitsOf(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// pxPerUnit maps font units to pixels so that ascent+descent spans scale px.
func (f *Font) pxPerUnit(scale float64) float64 {
	return scale / (f.ascent + f.descent)
}

func (f *Font) advance(buf *sfnt.Buffer, gi sfnt.GlyphIndex) float64 {
	adv, err := f.sf.GlyphAdvance(buf, gi, f.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return unitsOf(adv)
}

func (f *Font) kern(buf *sfnt.Buffer, a, b sfnt.GlyphIndex) float64 {
	k, err := f.sf.Kern(buf, a, b, f.ppem, font.HintingNone)
	if err != nil {
		// ErrNotFound just means the font carries no kerning for the pair.
		return 0
	}
	return unitsOf(k)
}

// Measure returns the width and line height of text at the given pixel
// scale. Control characters are skipped and an empty string measures zero
// wide. The width is rounded up to a whole pixel.
func (f *Font) Measure(text string, scale float64) (width, height float64) {
	k := f.pxPerUnit(scale)
	height = (f.ascent + f.descent + f.lineGap) * k

	var (
		buf       sfnt.Buffer
		caret     float64
		first     float64
		last      float64
		lastAdv   float64
		prev      sfnt.GlyphIndex
		seenGlyph bool
	)
	for _, r := range text {
		if unicode.IsControl(r) {
			continue
		}
		// Missing glyphs map to .notdef (index 0) and still advance.
		gi, _ := f.sf.GlyphIndex(&buf, r)
		if seenGlyph {
			caret += f.kern(&buf, prev, gi) * k
		} else {
			first = caret
		}
		adv := f.advance(&buf, gi) * k
		last, lastAdv = caret, adv
		caret += adv
		prev = gi
		seenGlyph = true
	}

	if !seenGlyph {
		return 0, height
	}
	return math.Ceil(last + lastAdv - first), height
}

// PreferredWidth returns the width text occupies on a badge: the measured
// width rounded up to an odd integer, times the scaling fudge factor.
func (f *Font) PreferredWidth(text string, scale float64) float64 {
	w, _ := f.Measure(text, scale)
	return RoundUpToOdd(w) * widthFudge
}

// RoundUpToOdd rounds v up to an integer and then to the next odd integer.
func RoundUpToOdd(v float64) float64 {
	n := math.Ceil(v)
	if math.Mod(n, 2) == 0 {
		n++
	}
	return n
}
