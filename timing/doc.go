/*
Package timing implements the named timing functions (easing curves) of
keyframe animations.

Every timing function is a cubic Bézier curve from (0,0) to (1,1), defined
by two control points P1 and P2, as with CSS cubic-bezier(). The x-axis
is the elapsed fraction of a transition, the y-axis the eased progress.
Evaluating a curve for a given x requires inverting the parametric X(t),
which is done by a few Newton-Raphson steps with a fallback to bisection.

Only a fixed set of named curves is supported:

    ease       cubic-bezier(0.25, 0.1, 0.25, 1)
    linear     cubic-bezier(0, 0, 1, 1)
    easeIn     cubic-bezier(0.42, 0, 1, 1)
    easeOut    cubic-bezier(0, 0, 0.58, 1)
    easeInOut  cubic-bezier(0.42, 0, 0.58, 1)

The CSS spellings ease-in, ease-out and ease-in-out are accepted as well.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package timing

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframes.timing'.
func tracer() tracing.Trace {
	return tracing.Select("keyframes.timing")
}
