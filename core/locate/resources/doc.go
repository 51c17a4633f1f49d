/*
Package resources locates font binaries for an application.

Fonts are found by Locators. A locator answers requests for a family name,
a style and a weight with a face, i.e. a font binary together with a stable
face identifier. Face identifiers carry a scheme prefix telling which locator
is able to load them again:

   packaged:goregular     fonts packaged with the application
   file:/usr/share/…      fonts installed on the system
   mem:…                  fonts handed to a Memory locator
   webfont:Family/variant fonts downloaded from the Google Fonts service

As resource loading may be a time-consuming task, some functions in this
package will work in an async/await fashion by returning a promise.
Functions named

   Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then block
until loading has completed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'typecase.resources'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.resources")
}
