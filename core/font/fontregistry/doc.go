/*
Package fontregistry manages the fonts of a task.

A font context resolves font styles, as specified by the style cascade, into
font groups. Families are looked up with resource locators, and resolved
fonts are cached for the lifetime of the context. Contexts are not shared
between tasks: a task hands fonts to other tasks as font descriptors, which
the receiving task resolves with its own context.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'typecase.fonts'
func tracer() tracing.Trace {
	return tracing.Select("typecase.fonts")
}
