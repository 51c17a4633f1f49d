/*
Package glyphing holds what shapers for package font have in common:
shaping parameters, the conversion of shaper output to glyph stores and the
registration of shapers by name.

Shapers live in sub-packages. Each of them provides a Factory for
font.ShaperFactory and registers itself with Register:

	harfbuzz    OpenType shaping with textlayout's HarfBuzz port
	gotext      OpenType shaping with go-text/typesetting
	monospace   grapheme based shaping for monospaced output

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'typecase.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.glyphs")
}
