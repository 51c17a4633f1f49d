package font

import (
	"fmt"

	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font/glyphs"
	xfont "golang.org/x/image/font"
)

// GlyphID is the index of a glyph within a font.
type GlyphID = glyphs.GlyphID

// Handle wraps a single face of a font binary, as loaded by a platform font
// library. Implementations must be safe for concurrent use.
//
// Construction either produces a fully usable handle or fails; see
// HandleFactory.
type Handle interface {
	// FaceIdentifier is a stable string for re-locating the face.
	FaceIdentifier() string
	FamilyName() string
	FaceName() string
	IsItalic() bool
	Boldness() xfont.Weight
	// GlyphIndex returns false if the face has no glyph for r.
	GlyphIndex(r rune) (GlyphID, bool)
	// GlyphHAdvance returns the horizontal advance of a glyph in pixels, at
	// the size the handle has been created for. It returns false if the
	// platform cannot answer, which is different from a zero-width glyph.
	GlyphHAdvance(g GlyphID) (float64, bool)
	// Metrics are computed once, when the handle is constructed.
	Metrics() Metrics
	// TableForTag returns the raw bytes of a font table, or false if the
	// table is absent.
	TableForTag(tag TableTag) ([]byte, bool)
}

// HandleFactory creates a handle from a font binary. faceID may be empty,
// in which case the handle derives an identifier from the binary.
type HandleFactory func(buf []byte, faceID string, style Style) (Handle, error)

// FontDataProvider is implemented by handles which are able to hand out the
// font binary they have been created from. Shapers operating on font files
// depend on it.
type FontDataProvider interface {
	FontData() []byte
}

// Metrics summarizes the dimensions of a font at a given size.
// Ascent and descent are both non-negative.
type Metrics struct {
	UnderlineSize   dimen.Dimen
	UnderlineOffset dimen.Dimen
	StrikeoutSize   dimen.Dimen
	StrikeoutOffset dimen.Dimen
	Leading         dimen.Dimen
	XHeight         dimen.Dimen
	EmSize          dimen.Dimen
	Ascent          dimen.Dimen
	Descent         dimen.Dimen
	MaxAdvance      dimen.Dimen
}

func (m Metrics) String() string {
	return fmt.Sprintf("metrics{em=%.2f, asc=%.2f, desc=%.2f, x=%.2f, maxadv=%.2f}",
		m.EmSize.Px(), m.Ascent.Px(), m.Descent.Px(), m.XHeight.Px(), m.MaxAdvance.Px())
}

// TableTag is a 4-byte OpenType table tag, like 'head' or 'GSUB'.
type TableTag uint32

// MakeTag creates a table tag from a string of 4 ASCII letters. Shorter
// strings are padded with spaces, as required by OpenType.
func MakeTag(s string) TableTag {
	var b [4]byte
	for i := range b {
		if i < len(s) {
			b[i] = s[i]
		} else {
			b[i] = ' '
		}
	}
	return TableTag(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

// String converts a tag to its 4 letters.
func (t TableTag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// Some table tags
var (
	TagHead = MakeTag("head")
	TagHhea = MakeTag("hhea")
	TagOS2  = MakeTag("OS/2")
	TagCmap = MakeTag("cmap")
	TagGSUB = MakeTag("GSUB")
	TagGPOS = MakeTag("GPOS")
)
