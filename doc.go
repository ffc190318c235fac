/*
Package keyframes holds the data model for keyframe animations in the
style of CSS @keyframes.

Overview

A keyframe animation is described by a set of style snapshots, each one
positioned at a percentage of an animation cycle:

    0    → { opacity: 0 }
    0.25 → { opacity: 1 }
    1    → { opacity: 0 }

Percentages are real numbers between 0 and 1 (a key may also be given
in percent, e.g. "25%"). Keyframes at 0 and at 1 are mandatory.

From a KeyframeSet and a total duration this package derives a Plan:
an ordered list of segments, one per keyframe, each with an offset from
the start of the cycle and a duration. The segment of keyframe 0 is
applied instantly, every other segment transitions from the previous
keyframe's styles to its own within its time slot.

Driving a plan over time is the job of package anim; easing curves are
provided by package timing.

Status

Early draft, the API may change frequently. Please stay patient.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package keyframes

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframes'.
func tracer() tracing.Trace {
	return tracing.Select("keyframes")
}
