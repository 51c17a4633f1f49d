/*
Package platform holds helpers shared by the font handle implementations in
its sub-packages. Each sub-package wraps one font library:

	ximage     golang.org/x/image/font/sfnt
	gotext     github.com/go-text/typesetting/font
	tdewolff   github.com/tdewolff/font

Handles report metrics for the size of the style they have been created for,
treating the style's point size as the em size in pixels.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package platform

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/font"
	xfont "golang.org/x/image/font"
)

// tracer writes to trace with key 'typecase.fonts'
func tracer() tracing.Trace {
	return tracing.Select("typecase.fonts")
}

// FaceIdentifier returns faceID if it is set. Otherwise it derives an
// identifier from the font binary, which is stable across tasks.
func FaceIdentifier(buf []byte, faceID string) string {
	if faceID != "" {
		return faceID
	}
	h := fnv.New64a()
	h.Write(buf)
	id := fmt.Sprintf("mem:%016x", h.Sum64())
	tracer().Debugf("derived face identifier %s", id)
	return id
}

// EmSize returns the em size in pixels a handle for style has to be set up
// with.
func EmSize(style font.Style) (float64, error) {
	if style.PtSize <= 0 {
		return 0, core.Error(core.EINVALID, "invalid font size %.2f", style.PtSize)
	}
	return style.PtSize, nil
}

// WeightFromClass converts an OpenType weight class (100…900) to a font
// weight, rounding to the nearest hundred.
func WeightFromClass(class int) xfont.Weight {
	if class <= 0 {
		return xfont.WeightNormal
	}
	css := (class + 50) / 100 * 100
	if css < 100 {
		css = 100
	} else if css > 900 {
		css = 900
	}
	w, _ := font.WeightFromCSS(css)
	return w
}

// WeightFromName guesses a font weight from a subfamily name like "Bold
// Italic".
func WeightFromName(subfamily string) xfont.Weight {
	s := strings.ToLower(strings.ReplaceAll(subfamily, " ", ""))
	switch {
	case strings.Contains(s, "extrabold"), strings.Contains(s, "ultrabold"):
		return xfont.WeightExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		return xfont.WeightSemiBold
	case strings.Contains(s, "extralight"), strings.Contains(s, "ultralight"):
		return xfont.WeightExtraLight
	case strings.Contains(s, "black"), strings.Contains(s, "heavy"):
		return xfont.WeightBlack
	case strings.Contains(s, "bold"):
		return xfont.WeightBold
	case strings.Contains(s, "medium"):
		return xfont.WeightMedium
	case strings.Contains(s, "light"):
		return xfont.WeightLight
	case strings.Contains(s, "thin"), strings.Contains(s, "hairline"):
		return xfont.WeightThin
	}
	return xfont.WeightNormal
}

var weightNames = map[xfont.Weight]string{
	xfont.WeightThin:       "Thin",
	xfont.WeightExtraLight: "ExtraLight",
	xfont.WeightLight:      "Light",
	xfont.WeightMedium:     "Medium",
	xfont.WeightSemiBold:   "SemiBold",
	xfont.WeightBold:       "Bold",
	xfont.WeightExtraBold:  "ExtraBold",
	xfont.WeightBlack:      "Black",
}

// FaceName composes a subfamily name for fonts which do not name their face.
func FaceName(weight xfont.Weight, italic bool) string {
	name := weightNames[weight]
	if italic {
		if name == "" {
			return "Italic"
		}
		return name + " Italic"
	}
	if name == "" {
		return "Regular"
	}
	return name
}

// IsItalicName reports whether a subfamily name denotes a slanted face.
func IsItalicName(subfamily string) bool {
	s := strings.ToLower(subfamily)
	return strings.Contains(s, "italic") || strings.Contains(s, "oblique")
}

// HheaMaxAdvance reads advanceWidthMax from a raw 'hhea' table.
func HheaMaxAdvance(hhea []byte) (uint16, bool) {
	if len(hhea) < 12 {
		return 0, false
	}
	return binary.BigEndian.Uint16(hhea[10:12]), true
}

// MaxpNumGlyphs reads the number of glyphs from a raw 'maxp' table.
func MaxpNumGlyphs(maxp []byte) (int, bool) {
	if len(maxp) < 6 {
		return 0, false
	}
	return int(binary.BigEndian.Uint16(maxp[4:6])), true
}
