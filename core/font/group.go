package font

import (
	"github.com/npillmayer/typecase/core"
)

// Group is an ordered list of fonts, resolved for the family list of a style.
// Groups are not modified after creation.
type Group struct {
	Families []string
	Style    Style
	Fonts    []*Font
}

// NewGroup creates a font group. A group must contain at least one font;
// creating an empty group is a programming error and panics.
func NewGroup(families []string, style Style, fonts []*Font) *Group {
	core.Precondition(len(fonts) > 0, "cannot create empty font group for %v", families)
	return &Group{Families: families, Style: style, Fonts: fonts}
}

// Primary returns the first font of the group.
func (g *Group) Primary() *Font {
	return g.Fonts[0]
}

// CreateTextRun shapes a text with the fonts of the group.
//
// Shaping is always done by the first font of the group. Characters missing
// from the first font are not looked up in subsequent fonts.
func (g *Group) CreateTextRun(text string, deco Decoration) *TextRun {
	return NewTextRun(g.Fonts[0], text, deco)
}
