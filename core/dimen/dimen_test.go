package dimen

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/fixed"
)

func TestParseDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.core")
	defer teardown()
	//
	d, _, err := ParseDimen("12px")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12*PX {
		t.Errorf("(1) expected d to be 12px (%d), is %d", 12*PX, d)
	}
	//
	d, _, err = ParseDimen("0")
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if d != 0 {
		t.Errorf("(2) expected d to be 0, is %d", d)
	}
	//
	_, ispcnt, err := ParseDimen("20%")
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if ispcnt != true {
		t.Errorf("(3) expected percentage-marker to be true, is %v", ispcnt)
	}
	//
	if _, _, err = ParseDimen("12zz"); err == nil {
		t.Errorf("(4) expected unit 'zz' to be rejected")
	}
}

func TestPixelConversion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.core")
	defer teardown()
	//
	assert.Equal(t, 5*PX, FromPx(5))
	assert.Equal(t, -PX, FromPx(-1))
	assert.Equal(t, PX/2, FromPx(0.5))
	assert.InDelta(t, 2.25, FromPx(2.25).Px(), 1e-9)
	assert.Equal(t, 3.0, FromPx(2.5).RoundPx())
	assert.Equal(t, -3.0, FromPx(-2.5).RoundPx())
	assert.Equal(t, 2.0, FromPx(2.49).RoundPx())
	assert.Equal(t, 7*PX, FromFixed(fixed.I(7)))
	assert.Equal(t, fixed.I(7), (7 * PX).Fixed())
	assert.Equal(t, 6*PX, FromFontUnits(1024, 2048, 12))
	assert.Equal(t, Zero, FromFontUnits(1024, 0, 12))
}

func TestRect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.core")
	defer teardown()
	//
	r := RectFromOriginSize(Point{0, -11 * PX}, Point{10 * PX, 14 * PX})
	assert.Equal(t, Point{0, -11 * PX}, r.TopL)
	assert.Equal(t, Point{10 * PX, 3 * PX}, r.BotR)
	assert.Equal(t, 10*PX, r.Width())
	assert.Equal(t, 14*PX, r.Height())
	assert.Equal(t, Point{10 * PX, 14 * PX}, r.Size())
	p := Point{PX, PX}
	p.Shift(Point{2 * PX, -PX})
	assert.Equal(t, Point{3 * PX, 0}, p)
	assert.Equal(t, 4*PX, Abs(-4*PX))
	assert.Equal(t, -4*PX, Min(-4*PX, 2*PX))
	assert.Equal(t, 2*PX, Max(-4*PX, 2*PX))
}
