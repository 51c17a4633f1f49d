package font

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/npillmayer/typecase/core"
	xfont "golang.org/x/image/font"
)

// Style describes a font as requested by the style cascade, or, after
// matching, as used for a concrete font.
type Style struct {
	PtSize   float64
	Weight   xfont.Weight
	Slant    xfont.Style
	Families []string
}

// Equal compares two styles structurally.
func (s Style) Equal(other Style) bool {
	if s.PtSize != other.PtSize || s.Weight != other.Weight || s.Slant != other.Slant {
		return false
	}
	if len(s.Families) != len(other.Families) {
		return false
	}
	for i, f := range s.Families {
		if f != other.Families[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical string for s. Equal styles have equal keys.
func (s Style) Key() string {
	return fmt.Sprintf("%s/%d/%s/%g", strings.Join(s.Families, ","),
		CSSWeight(s.Weight), SlantName(s.Slant), s.PtSize)
}

func (s Style) String() string {
	return fmt.Sprintf("style{%v %gpt %d %s}", s.Families, s.PtSize, CSSWeight(s.Weight), SlantName(s.Slant))
}

// CSSWeight converts a weight to its numeric CSS value, 100…900.
func CSSWeight(w xfont.Weight) int {
	return (int(w) + 4) * 100
}

// WeightFromCSS converts a numeric CSS weight to a weight. Values not in
// {100, 200, …, 900} are invalid.
func WeightFromCSS(css int) (xfont.Weight, error) {
	if css < 100 || css > 900 || css%100 != 0 {
		return xfont.WeightNormal, core.Error(core.EINVALID, "invalid font weight %d", css)
	}
	return xfont.Weight(css/100 - 4), nil
}

// SlantName returns the CSS name of a font slant.
func SlantName(s xfont.Style) string {
	switch s {
	case xfont.StyleItalic:
		return "italic"
	case xfont.StyleOblique:
		return "oblique"
	}
	return "normal"
}

// SlantFromName converts a CSS font-style name to a slant.
func SlantFromName(name string) (xfont.Style, error) {
	switch strings.ToLower(name) {
	case "normal", "":
		return xfont.StyleNormal, nil
	case "italic":
		return xfont.StyleItalic, nil
	case "oblique":
		return xfont.StyleOblique, nil
	}
	return xfont.StyleNormal, core.Error(core.EINVALID, "invalid font style %q", name)
}

// --- Selector --------------------------------------------------------------

// SelectorKind tells how a selector identifies a face.
type SelectorKind int

// Kinds of selectors
const (
	SelectorPlatform SelectorKind = iota // opaque platform face identifier
)

// Selector identifies a concrete face in a platform independent way.
type Selector struct {
	Kind       SelectorKind
	Identifier string
}

// PlatformSelector creates a selector from a face identifier.
func PlatformSelector(faceID string) Selector {
	return Selector{Kind: SelectorPlatform, Identifier: faceID}
}

func (sel Selector) String() string {
	return "platform:" + sel.Identifier
}

// --- Descriptor ------------------------------------------------------------

// Descriptor identifies a resolved font. It carries no native resources
// and may be copied and sent between tasks freely. Two descriptors are equal
// if and only if they resolve to the same rendering.
type Descriptor struct {
	Style    Style
	Selector Selector
}

// NewDescriptor pairs a used style with a selector.
func NewDescriptor(style Style, sel Selector) Descriptor {
	return Descriptor{Style: style, Selector: sel}
}

// Equal compares two descriptors.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.Selector == other.Selector && d.Style.Equal(other.Style)
}

// Key returns a canonical string for d, suitable as a map key.
func (d Descriptor) Key() string {
	return d.Selector.String() + "|" + d.Style.Key()
}

func (d Descriptor) String() string {
	return fmt.Sprintf("descriptor{%s %s}", d.Selector, d.Style)
}

type wireStyle struct {
	PtSize   float64  `json:"pt_size"`
	Weight   int      `json:"weight"`
	Style    string   `json:"style"`
	Families []string `json:"families"`
}

type wireSelector struct {
	PlatformIdentifier *string `json:"platform_identifier"`
}

type wireDescriptor struct {
	UsedStyle wireStyle    `json:"used_style"`
	Selector  wireSelector `json:"selector"`
}

// MarshalJSON writes d as
//
//	{ "used_style": {"pt_size", "weight", "style", "families"},
//	  "selector": {"platform_identifier"} }
func (d Descriptor) MarshalJSON() ([]byte, error) {
	id := d.Selector.Identifier
	families := d.Style.Families
	if families == nil {
		families = []string{}
	}
	w := wireDescriptor{
		UsedStyle: wireStyle{
			PtSize:   d.Style.PtSize,
			Weight:   CSSWeight(d.Style.Weight),
			Style:    SlantName(d.Style.Slant),
			Families: families,
		},
		Selector: wireSelector{PlatformIdentifier: &id},
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads a descriptor in the format written by MarshalJSON.
func (d *Descriptor) UnmarshalJSON(b []byte) error {
	var w wireDescriptor
	if err := json.Unmarshal(b, &w); err != nil {
		return core.WrapError(err, core.EINVALID, "malformed font descriptor")
	}
	if w.Selector.PlatformIdentifier == nil {
		return core.Error(core.EINVALID, "font descriptor without selector")
	}
	weight, err := WeightFromCSS(w.UsedStyle.Weight)
	if err != nil {
		return err
	}
	slant, err := SlantFromName(w.UsedStyle.Style)
	if err != nil {
		return err
	}
	d.Style = Style{
		PtSize:   w.UsedStyle.PtSize,
		Weight:   weight,
		Slant:    slant,
		Families: w.UsedStyle.Families,
	}
	d.Selector = PlatformSelector(*w.Selector.PlatformIdentifier)
	return nil
}
