package anim

import (
	"sync"

	"github.com/npillmayer/keyframes"
)

// Animator starts runs on a shared runtime and keeps track of the active
// ones, applying an overlap policy for runs on the same elements.
type Animator[E comparable] struct {
	rt   Runtime[E]
	opts options
	mx   sync.Mutex
	runs []*tracked[E]
}

type tracked[E comparable] struct {
	run      *Run[E]
	elements map[E]struct{}
}

func (t *tracked[E]) touches(elements []E) bool {
	for _, el := range elements {
		if _, ok := t.elements[el]; ok {
			return true
		}
	}
	return false
}

// NewAnimator creates an animator. Options given here apply to every run
// started by the animator; the overlap policy defaults to AbortPrevious.
func NewAnimator[E comparable](rt Runtime[E], opts ...Option) *Animator[E] {
	return &Animator[E]{rt: rt, opts: collect(opts)}
}

// Policy returns the overlap policy of the animator.
func (a *Animator[E]) Policy() OverlapPolicy {
	return a.opts.overlap
}

// Start starts a run like the package-level Start. If the configuration is
// invalid, active runs are left untouched. Otherwise, with policy
// AbortPrevious, every active run sharing an element with the new run is
// aborted before the new run starts.
func (a *Animator[E]) Start(elements []E, cfg keyframes.Config, opts ...Option) (*Run[E], error) {
	o := a.opts
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	run, err := newRun(a.rt, elements, cfg, o)
	if err != nil {
		return nil, err
	}
	a.mx.Lock()
	defer a.mx.Unlock()
	a.prune()
	if o.overlap == AbortPrevious {
		a.abortTouching(elements)
	}
	t := &tracked[E]{run: run, elements: make(map[E]struct{}, len(elements))}
	for _, el := range elements {
		t.elements[el] = struct{}{}
	}
	a.runs = append(a.runs, t)
	run.launch()
	return run, nil
}

// Abort aborts every active run animating at least one of elements. Without
// arguments, all active runs are aborted.
func (a *Animator[E]) Abort(elements ...E) {
	a.mx.Lock()
	defer a.mx.Unlock()
	if len(elements) == 0 {
		for _, t := range a.runs {
			t.run.Abort()
		}
		a.runs = a.runs[:0]
		return
	}
	a.abortTouching(elements)
}

// Active returns the number of runs which have not yet terminated.
func (a *Animator[E]) Active() int {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.prune()
	return len(a.runs)
}

// abortTouching aborts and forgets runs sharing elements. a.mx must be held.
func (a *Animator[E]) abortTouching(elements []E) {
	keep := a.runs[:0]
	for _, t := range a.runs {
		if t.touches(elements) {
			tracer().Debugf("aborting overlapping run")
			t.run.Abort()
			continue
		}
		keep = append(keep, t)
	}
	a.runs = keep
}

// prune forgets terminated runs. a.mx must be held.
func (a *Animator[E]) prune() {
	keep := a.runs[:0]
	for _, t := range a.runs {
		if t.run.Running() {
			keep = append(keep, t)
		}
	}
	for i := len(keep); i < len(a.runs); i++ {
		a.runs[i] = nil
	}
	a.runs = keep
}
