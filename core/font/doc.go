/*
Package font is for font handling and text shaping.

We stick to the following nomenclature:

* A "handle" wraps one concrete face of a font file, as loaded by a
platform font library. Handles answer questions about glyphs, metrics and
raw font tables. Package platform holds several interchangeable
implementations.

* A "font" is a handle at a given size and style, together with its caches
of shaped text and glyph advances, and, once drawn, a scaled font
of the active drawing backend.

* A "group" is an ordered list of fonts resolved for a style's family list.
Shaping is always done by the first font of a group; falling back to
subsequent fonts for missing glyphs is not done.

* A "descriptor" identifies a resolved font as a plain value. Fonts must not
be passed between tasks (goroutines owning separate font registries);
descriptors may, and are re-resolved on the receiving side.

Fonts may be shared by any number of goroutines of one task. Caches and lazily
created resources are guarded by a per-font mutex.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017–22, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'typecase.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.fonts")
}
