package anim

import (
	"time"

	"github.com/npillmayer/keyframes"
	"github.com/npillmayer/keyframes/clock"
	"github.com/npillmayer/keyframes/timing"
)

// Styler writes styles to elements of type E.
type Styler[E any] interface {
	// ApplyStyles sets the properties of s on element el, without transition.
	ApplyStyles(el E, s keyframes.Snapshot) error
	// RunTween transitions the properties of s from their current values
	// on el to the values in s, taking time d. ease maps the elapsed
	// fraction of d to the fraction of the way to go. RunTween must not
	// block until the tween is done.
	RunTween(el E, s keyframes.Snapshot, d time.Duration, ease timing.Easing) error
}

// Runtime is the environment animations run in: it styles elements and
// schedules callbacks.
//
// The scheduler must call callbacks asynchronously, i.e. never from within
// AfterFunc itself.
type Runtime[E any] interface {
	Styler[E]
	clock.Scheduler
}

// NewRuntime combines a styler and a scheduler.
func NewRuntime[E any](styler Styler[E], scheduler clock.Scheduler) Runtime[E] {
	return composite[E]{Styler: styler, Scheduler: scheduler}
}

type composite[E any] struct {
	Styler[E]
	clock.Scheduler
}
