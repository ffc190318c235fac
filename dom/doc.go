/*
Package dom provides a minimal HTML document model to run keyframe
animations on.

A Document is parsed from HTML (golang.org/x/net/html). Elements are
selected with CSS selectors (github.com/andybalholm/cascadia), in document
order. Every element carries the properties of its style attribute; style
sheets embedded in the document (<style> elements) and user-agent defaults
supply the values of properties not set inline.

Runtime implements anim.Runtime for elements of a document: it writes
snapshots of style properties to the elements' style attributes, either
at once or as a tween of frames, driven by a clock.Scheduler. After an
animation, Document.Render writes the document with its current styles.

    doc, _ := dom.Parse(r)
    elements, _ := doc.Select(".animated")
    run, _ := anim.Start[*dom.Element](dom.NewRuntime(clock.Realtime()), elements, cfg)
    <-run.Done()
    doc.Render(os.Stdout)

Status

Early draft, the API may change frequently. Please stay patient.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'keyframes.dom'
func tracer() tracing.Trace {
	return tracing.Select("keyframes.dom")
}
