package resources

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	xfont "golang.org/x/image/font"
)

// FontFile describes a font family available to a locator, together with
// the variants present. Variant names follow the Google Fonts convention,
// e.g. "regular", "italic", "700" or "700italic".
type FontFile struct {
	Family   string
	Variants []string
	Path     string
}

// NormalizeFontname strips a font name of file extensions and blanks, and
// appends indicators for style and weight.
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight, xfont.WeightThin:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold, xfont.WeightBlack:
		fname += "-bold"
	}
	return fname
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	pattern = strings.ToLower(strings.ReplaceAll(pattern, " ", ""))
	if !strings.Contains(strings.ReplaceAll(basename, " ", ""), pattern) {
		return false
	}
	s, w := GuessStyleAndWeight(basename)
	if s == xfont.StyleOblique {
		s = xfont.StyleItalic
	}
	if style == xfont.StyleOblique {
		style = xfont.StyleItalic
	}
	return s == style && w == weight
}

// VariantName returns the name of the variant for a style and weight, in
// the Google Fonts convention.
func VariantName(style xfont.Style, weight xfont.Weight) string {
	italic := style == xfont.StyleItalic || style == xfont.StyleOblique
	switch {
	case weight == xfont.WeightNormal && italic:
		return "italic"
	case weight == xfont.WeightNormal:
		return "regular"
	}
	v := strconv.Itoa((int(weight) + 4) * 100)
	if italic {
		v += "italic"
	}
	return v
}

// quoteFamily turns a family name into a pattern for ClosestMatch.
func quoteFamily(family string) string {
	return regexp.QuoteMeta(strings.TrimSpace(family))
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

// Confidence levels
const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// ClosestMatch scans a list of font files and returns the closest match
// for a given set of parameters. The family name is interpreted as a
// case-insensitive regular expression.
// The confidence returned is the mean of style and weight confidence. Ties on
// the mean are decided by the full sum.
// If no variant matches, returns `NoConfidence`.
func ClosestMatch(files []FontFile, pattern string, style xfont.Style,
	weight xfont.Weight) (match FontFile, variant string, confidence MatchConfidence) {
	//
	r, err := regexp.Compile("^" + strings.ToLower(pattern) + "$")
	if err != nil {
		tracer().Errorf("invalid font name pattern %q", pattern)
		return
	}
	var best MatchConfidence // sum of style and weight confidence
	for _, ff := range files {
		if !r.MatchString(strings.ToLower(ff.Family)) {
			continue
		}
		for _, v := range ff.Variants {
			s := MatchStyle(v, style)
			w := MatchWeight(v, weight)
			if s+w > best {
				best = s + w
				variant = v
				match = ff
			}
		}
	}
	confidence = best / 2
	return
}

// ---------------------------------------------------------------------------

// MatchStyle trys to match a font-variant to a given style.
func MatchStyle(variantName string, style xfont.Style) MatchConfidence {
	variantName = strings.ToLower(variantName)
	italic := strings.Contains(variantName, "italic")
	oblique := strings.Contains(variantName, "obliq")
	switch style {
	case xfont.StyleNormal:
		if !italic && !oblique {
			return PerfectConfidence
		}
		return NoConfidence
	case xfont.StyleItalic:
		if italic {
			return PerfectConfidence
		}
		if oblique {
			return HighConfidence
		}
		return LowConfidence
	case xfont.StyleOblique:
		if oblique {
			return PerfectConfidence
		}
		if italic {
			return HighConfidence
		}
		return LowConfidence
	}
	return NoConfidence
}

// MatchWeight trys to match a font-variant to a given weight. Confidence
// decreases with the distance of the variant's weight from weight.
func MatchWeight(variantName string, weight xfont.Weight) MatchConfidence {
	w, ok := variantWeight(variantName)
	if !ok {
		return NoConfidence
	}
	d := int(w) - int(weight)
	if d < 0 {
		d = -d
	}
	switch d {
	case 0:
		return PerfectConfidence
	case 1:
		return HighConfidence
	case 2:
		return LowConfidence
	}
	return NoConfidence
}

// variantWeight extracts the weight from a variant name.
/* from https://pkg.go.dev/golang.org/x/image/font
WeightThin       Weight = -3 // CSS font-weight value 100.
WeightExtraLight Weight = -2 // CSS font-weight value 200.
WeightLight      Weight = -1 // CSS font-weight value 300.
WeightNormal     Weight = +0 // CSS font-weight value 400.
WeightMedium     Weight = +1 // CSS font-weight value 500.
WeightSemiBold   Weight = +2 // CSS font-weight value 600.
WeightBold       Weight = +3 // CSS font-weight value 700.
WeightExtraBold  Weight = +4 // CSS font-weight value 800.
WeightBlack      Weight = +5 // CSS font-weight value 900.
*/
func variantWeight(variantName string) (xfont.Weight, bool) {
	v := strings.ToLower(strings.TrimSpace(variantName))
	v = strings.TrimSuffix(v, "italic")
	v = strings.TrimSuffix(v, "oblique")
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 100 || n > 900 {
			return xfont.WeightNormal, false
		}
		return xfont.Weight((n+50)/100 - 4), true
	}
	switch strings.ReplaceAll(v, " ", "") {
	case "", "regular", "normal", "text", "book", "roman":
		return xfont.WeightNormal, true
	case "thin", "hairline":
		return xfont.WeightThin, true
	case "extralight", "ultralight", "xlight":
		return xfont.WeightExtraLight, true
	case "light":
		return xfont.WeightLight, true
	case "medium":
		return xfont.WeightMedium, true
	case "semibold", "demibold":
		return xfont.WeightSemiBold, true
	case "bold":
		return xfont.WeightBold, true
	case "extrabold", "ultrabold", "xbold":
		return xfont.WeightExtraBold, true
	case "black", "heavy":
		return xfont.WeightBlack, true
	}
	return xfont.WeightNormal, false
}
