// Package dimen implements dimensions and units.
//
/*
BSD License

Copyright (c) 2017–22, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"golang.org/x/image/math/fixed"
)

// Dimen is a dimension type for layout and font metrics.
// Values are in scaled pixels: one device pixel equals 65536 units, which
// gives sub-pixel precision for glyph positioning.
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = PX / 65536
	PX   Dimen = 65536   // device pixel
	BP   Dimen = 65536   // big point, treated as a pixel
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	CM   Dimen = 1857710 // centimeters
	IN   Dimen = 4718592 // inch
)

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

// Px returns a dimension in (fractional) device pixels.
func (d Dimen) Px() float64 {
	return float64(d) / float64(PX)
}

// RoundPx returns a dimension rounded to the nearest device pixel.
// Halfway cases round away from zero.
func (d Dimen) RoundPx() float64 {
	return math.Round(d.Px())
}

// FromPx creates a dimension from a fractional pixel value.
func FromPx(px float64) Dimen {
	return Dimen(math.Round(px * float64(PX)))
}

// FromFixed converts a 26.6 fixed point pixel value to a dimension.
func FromFixed(f fixed.Int26_6) Dimen {
	return Dimen(int32(f) << 10)
}

// Fixed converts a dimension to a 26.6 fixed point pixel value, rounding
// towards zero.
func (d Dimen) Fixed() fixed.Int26_6 {
	return fixed.Int26_6(int32(d) / 1024)
}

// FromFontUnits scales a value in font design units to a dimension, given
// the font's units-per-em and an em-size in pixels.
func FromFontUnits(units int32, upem uint16, emPx float64) Dimen {
	if upem == 0 {
		return Zero
	}
	return FromPx(float64(units) * emPx / float64(upem))
}

// Point is a point on a page or canvas.
type Point struct {
	X, Y Dimen
}

// Origin is origin
var Origin = Point{0, 0}

// Shift a point along a vector.
func (p *Point) Shift(vector Point) *Point {
	p.X += vector.X
	p.Y += vector.Y
	return p
}

// Add returns p+q without modifying p.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)px", p.X.Px(), p.Y.Px())
}

// Rect is a rectangle (on a page).
type Rect struct {
	TopL, BotR Point
}

// RectFromOriginSize creates a rectangle from its top-left corner and its extent.
func RectFromOriginSize(origin Point, size Point) Rect {
	return Rect{TopL: origin, BotR: origin.Add(size)}
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner.
func (r Rect) Width() Dimen {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner.
func (r Rect) Height() Dimen {
	return r.BotR.Y - r.TopL.Y
}

// Size returns width and height of r as a point.
func (r Rect) Size() Point {
	return Point{r.Width(), r.Height()}
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]+)(%|[cminpxtc]{2})?$`)

// ParseDimen parses a string to return a dimension. Syntax is CSS Unit.
// If a percentage value is given (`80%`), the second return value will be true.
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, false, errors.New("format error parsing dimension")
	}
	scale := SP
	ispcnt := false
	if len(d) > 2 {
		switch d[2] {
		case "pt", "PT":
			scale = PT
		case "mm", "MM":
			scale = MM
		case "bp", "px", "BP", "PX":
			scale = PX
		case "cm", "CM":
			scale = CM
		case "in", "IN":
			scale = IN
		case "sp", "SP", "":
			scale = SP
		case "%":
			scale, ispcnt = 1, true
		default:
			return 0, false, errors.New("format error parsing dimension")
		}
	}
	n, err := strconv.Atoi(d[1])
	if err != nil {
		return 0, false, errors.New("format error parsing dimension")
	}
	return Dimen(n) * scale, ispcnt, nil
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}

// Abs returns the absolute value of a dimension.
func Abs(d Dimen) Dimen {
	if d < 0 {
		return -d
	}
	return d
}
