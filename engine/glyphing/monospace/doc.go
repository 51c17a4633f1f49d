/*
Package monospace implements a simple shaper for monospace output.

Text is split into grapheme clusters, and each cluster occupies one or two
cells, depending on its East Asian width (UAX#11).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'typecase.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.glyphs")
}
