package glyphing

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	case TopToBottom:
		return "TopToBottom"
	case BottomToTop:
		return "BottomToTop"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Params collects shaping parameters. A zero script or language lets the
// shaper guess them from the text.
type Params struct {
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Features  []FeatureRange  // OpenType features to apply
}

// DefaultParams are left-to-right shaping with script and language guessed.
func DefaultParams() Params {
	return Params{Direction: LeftToRight, Language: language.Und}
}

// HasScript is true if p names a script.
func (p Params) HasScript() bool {
	var none language.Script
	return p.Script != none
}

// HasLanguage is true if p names a language.
func (p Params) HasLanguage() bool {
	return p.Language != language.Und
}

// FeatureRange tells a shaper to turn a certain OpenType feature on or off for a
// run of code-points.
type FeatureRange struct {
	Feature    font.TableTag // 4-letter feature tag
	Arg        int           // optional argument for this feature
	On         bool          // turn it on or off?
	Start, End int           // position of code-points to apply feature for
}

// Value returns the feature value to hand to OpenType shapers.
func (frng FeatureRange) Value() uint32 {
	if !frng.On {
		return 0
	}
	if frng.Arg > 0 {
		return uint32(frng.Arg)
	}
	return 1
}

// A ShapedGlyph is a glyph as output by a shaper, in device pixels with y
// growing downwards.
type ShapedGlyph struct {
	ClusterID int          // position of the first character for this glyph in the shaped text
	GID       font.GlyphID // glyph index within font
	XAdvance  float64      // advance after glyph has been set
	YAdvance  float64      //
	XOffset   float64      // offset of the glyph's origin from the pen position
	YOffset   float64      //
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, cluster=%d, advance=%.2f)", g.GID, g.ClusterID, g.XAdvance)
}

// Fill attaches shaped glyphs to the characters of a store. Each glyph is
// attached to the character its cluster starts at. Clusters outside the
// store's characters are clamped to the nearest character.
func Fill(store *glyphs.Store, seq []ShapedGlyph) {
	n := store.CharCount()
	if n == 0 {
		return
	}
	for _, sg := range seq {
		c := sg.ClusterID
		if c < 0 {
			c = 0
		} else if c >= n {
			tracer().Debugf("glyph %d has cluster %d beyond text of length %d", sg.GID, c, n)
			c = n - 1
		}
		store.AddGlyphsForChar(glyphs.CharIndex(c), glyphs.Glyph{
			ID:      sg.GID,
			Advance: dimen.FromPx(sg.XAdvance),
			Offset:  dimen.Point{X: dimen.FromPx(sg.XOffset), Y: dimen.FromPx(sg.YOffset)},
		})
	}
}

// ErrNoFontData is returned by shapers which need the font binary, for fonts
// whose platform handle does not provide it.
var ErrNoFontData = errors.New("font handle does not provide font data")

// FontData returns the font binary of f.
func FontData(f *font.Font) ([]byte, error) {
	p, ok := f.Handle().(font.FontDataProvider)
	if !ok || len(p.FontData()) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFontData, f.Handle().FaceIdentifier())
	}
	return p.FontData(), nil
}

// CheckStore is a precondition for shapers: the store must be sized to the
// text.
func CheckStore(text string, store *glyphs.Store) error {
	if n := utf8.RuneCountInString(text); n != store.CharCount() {
		return fmt.Errorf("store for %d characters cannot take text of %d characters", store.CharCount(), n)
	}
	return nil
}

// Register registers a shaper factory under name with package font,
// ignoring repeated registrations.
func Register(name string, factory font.ShaperFactory) error {
	err := font.RegisterShaper(name, factory)
	if errors.Is(err, font.ErrAlreadyRegistered) {
		return nil
	}
	return err
}
