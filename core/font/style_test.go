package font

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	xfont "golang.org/x/image/font"
)

func TestCSSWeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	assert.Equal(t, 100, CSSWeight(xfont.WeightThin))
	assert.Equal(t, 400, CSSWeight(xfont.WeightNormal))
	assert.Equal(t, 700, CSSWeight(xfont.WeightBold))
	assert.Equal(t, 900, CSSWeight(xfont.WeightBlack))
	for css := 100; css <= 900; css += 100 {
		w, err := WeightFromCSS(css)
		assert.NoError(t, err)
		assert.Equal(t, css, CSSWeight(w))
	}
	_, err := WeightFromCSS(950)
	assert.Error(t, err)
}

func TestSlantNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	for _, s := range []xfont.Style{xfont.StyleNormal, xfont.StyleItalic, xfont.StyleOblique} {
		back, err := SlantFromName(SlantName(s))
		assert.NoError(t, err)
		assert.Equal(t, s, back)
	}
	_, err := SlantFromName("slanted")
	assert.Error(t, err)
}

func TestStyleEquality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	a := Style{PtSize: 12, Families: []string{"Go", "serif"}}
	b := Style{PtSize: 12, Families: []string{"Go", "serif"}}
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	b.Families = []string{"serif", "Go"}
	assert.False(t, a.Equal(b), "family order is significant")
	c := a
	c.PtSize = 12.5
	assert.False(t, a.Equal(c))
	assert.True(t, Style{}.Equal(Style{Families: []string{}}))
}

func TestTableTag(t *testing.T) {
	assert.Equal(t, TableTag(0x68656164), MakeTag("head"))
	assert.Equal(t, "GSUB", TagGSUB.String())
}
