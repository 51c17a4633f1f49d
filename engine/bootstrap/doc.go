/*
Package bootstrap wires fonts, shapers, locators and drawing backends
into an engine, driven by configuration.

Applications call RegisterAll once and then Setup with their
configuration. Every task (usually a document) creates its own font
context from the engine with NewContext; fonts are shared between the
goroutines of a task, never between tasks.

	if err := bootstrap.RegisterAll(); err != nil { ... }
	eng, err := bootstrap.Setup(conf)
	...
	fc := eng.NewContext()
	group := fc.GroupForStyle(font.Style{PtSize: 16, Families: []string{"serif"}})

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bootstrap

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'typecase.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.fonts")
}
