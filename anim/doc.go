/*
Package anim drives keyframe animations over time.

A run is started for a list of elements and a keyframes.Config. From the
config a transition plan is derived once, see keyframes.NewPlan. For every
iteration of the animation and for every element, each segment of the plan
is scheduled at

    segment offset + element delay

When a segment falls due, the runtime is told to either apply the segment's
styles instantly (segments of length 0) or to run a tween towards them,
using the easing curve named by the config. One further callback is
scheduled at the end of the cycle, which starts the next iteration. It is
anchored at the start of the cycle and does not depend on element delays.

A run is a state machine with states Running(n) and Terminated. It
terminates when its iterations are exhausted or when it is aborted.
Aborting stops every outstanding callback of the run, but does not stop
tweens already handed over to the runtime.

Clients which may start animations on elements which are already animated
use an Animator, which by default aborts the previous run first.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package anim

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframes.anim'.
func tracer() tracing.Trace {
	return tracing.Select("keyframes.anim")
}
