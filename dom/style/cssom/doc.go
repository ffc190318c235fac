/*
Package cssom provides functionality for CSS styling.

CSSOM is the "CSS Object Model", similar to the DOM for HTML. This package
implements the parts of it needed to find the values style properties have
before an animation touches them:

    1. the element's local properties (inline style, or set by an animation)
    2. rules of the document's style sheets matching the element
    3. the value of the parent element, for inherited properties
    4. user-agent defaults

Selectors of style sheet rules are matched with
https://godoc.org/github.com/andybalholm/cascadia.
CSS handling is de-coupled by introducing appropriate interfaces
StyleSheet and Rule. A concrete implementation may be found in sub-package
douceuradapter.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'keyframes.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("keyframes.cssom")
}
