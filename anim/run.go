package anim

import (
	"fmt"
	"sync"
	"time"

	"github.com/npillmayer/keyframes"
	"github.com/npillmayer/keyframes/clock"
	"github.com/npillmayer/keyframes/timing"
)

// State is the state of a run.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "terminated"
}

// Run is a handle for an animation started by Start. All methods are safe
// for concurrent use.
type Run[E any] struct {
	rt       Runtime[E]
	elements []E
	cfg      keyframes.Config
	plan     *keyframes.Plan
	easings  []timing.Easing // per segment
	onError  func(error)

	mx          sync.Mutex
	state       State
	iteration   int
	exhausted   bool // no more iterations; terminate when outstanding drains
	serial      uint64
	outstanding map[uint64]clock.Timer
	err         error
	done        chan struct{}
}

// Start validates cfg, computes its transition plan and starts iteration 1
// of an animation of elements. The i-th element is delayed by cfg.Delay(i).
//
// Invalid configurations are reported before anything is scheduled, with
// errors matching keyframes.ErrInvalidKeyframeSet,
// keyframes.ErrNonNumericPercentage, keyframes.ErrInvalidConfig or
// timing.ErrUnknownTimingFunction.
//
// Start returns after the callbacks of iteration 1 have been scheduled; none
// of them is called from within Start.
func Start[E any](rt Runtime[E], elements []E, cfg keyframes.Config, opts ...Option) (*Run[E], error) {
	run, err := newRun(rt, elements, cfg, collect(opts))
	if err != nil {
		return nil, err
	}
	run.launch()
	return run, nil
}

func newRun[E any](rt Runtime[E], elements []E, cfg keyframes.Config, o options) (*Run[E], error) {
	if rt == nil {
		return nil, fmt.Errorf("%w: no runtime", keyframes.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	plan, err := keyframes.NewPlan(cfg.Keyframes, cfg.Duration)
	if err != nil {
		return nil, err
	}
	easings := make([]timing.Easing, plan.Len())
	for i, seg := range plan.Segments() {
		if easings[i], err = timing.EasingFor(cfg.Timing(), seg.Duration); err != nil {
			return nil, fmt.Errorf("animation timing: %w", err)
		}
	}
	cfg.Delays = append([]time.Duration(nil), cfg.Delays...)
	run := &Run[E]{
		rt:          rt,
		elements:    append([]E(nil), elements...),
		cfg:         cfg,
		plan:        plan,
		easings:     easings,
		onError:     o.onError,
		outstanding: make(map[uint64]clock.Timer),
		done:        make(chan struct{}),
	}
	if run.onError == nil {
		run.onError = func(err error) {
			tracer().Errorf("%v", err)
		}
	}
	return run, nil
}

func (run *Run[E]) launch() {
	tracer().Infof("starting animation of %d element(s), %d segments, %s × %s",
		len(run.elements), run.plan.Len(), run.cfg.Duration, run.cfg.Iterations())
	run.mx.Lock()
	defer run.mx.Unlock()
	run.iterate()
}

// iterate enters the next iteration. run.mx must be held.
func (run *Run[E]) iterate() {
	n := run.cfg.Iterations()
	if !n.IsInfinite() && run.iteration >= int(n) {
		run.exhausted = true
		if len(run.outstanding) == 0 {
			run.terminate()
		}
		return
	}
	run.iteration++
	iteration := run.iteration
	tracer().Debugf("iteration %d", iteration)
	for i, el := range run.elements {
		delay := run.cfg.Delay(i)
		for j := 0; j < run.plan.Len(); j++ {
			seg := run.plan.Segment(j)
			el, j := el, j
			run.schedule(seg.Offset+delay, func(id uint64) {
				run.fire(id, el, iteration, j)
			})
		}
	}
	run.schedule(run.cfg.Duration, run.advance)
}

// schedule registers f as an outstanding callback after d. f receives the
// id of its timer. run.mx must be held.
func (run *Run[E]) schedule(d time.Duration, f func(id uint64)) {
	run.serial++
	id := run.serial
	run.outstanding[id] = run.rt.AfterFunc(d, func() { f(id) })
}

// claim removes an outstanding timer as it fires. It returns false for
// callbacks which have been cancelled. run.mx must be held.
func (run *Run[E]) claim(id uint64) bool {
	if run.state == Terminated {
		return false
	}
	if _, ok := run.outstanding[id]; !ok {
		return false
	}
	delete(run.outstanding, id)
	return true
}

// fire hands segment j over to the runtime.
func (run *Run[E]) fire(id uint64, el E, iteration int, j int) {
	run.mx.Lock()
	if !run.claim(id) {
		run.mx.Unlock()
		return
	}
	run.mx.Unlock()
	seg := run.plan.Segment(j)
	var err error
	if seg.Instant() {
		err = run.rt.ApplyStyles(el, seg.Styles.Clone())
	} else {
		err = run.rt.RunTween(el, seg.Styles.Clone(), seg.Duration, run.easings[j])
	}
	run.mx.Lock()
	if err != nil {
		err = &DelegationError{Element: el, Iteration: iteration, Segment: seg, Err: err}
		run.err = err
	}
	if run.exhausted && len(run.outstanding) == 0 {
		run.terminate()
	}
	run.mx.Unlock()
	if err != nil {
		run.onError(err)
	}
}

// advance is the callback at the end of a cycle.
func (run *Run[E]) advance(id uint64) {
	run.mx.Lock()
	defer run.mx.Unlock()
	if !run.claim(id) {
		return
	}
	run.iterate()
}

// terminate clears the run state. run.mx must be held.
func (run *Run[E]) terminate() {
	if run.state == Terminated {
		return
	}
	for id, t := range run.outstanding {
		t.Stop()
		delete(run.outstanding, id)
	}
	run.state = Terminated
	close(run.done)
	tracer().Debugf("animation terminated after %d iteration(s)", run.iteration)
}

// Abort stops every outstanding callback of the run. Tweens already handed
// over to the runtime are not stopped. Aborting a terminated run is a no-op.
// Abort may be called from within runtime callbacks.
func (run *Run[E]) Abort() {
	run.mx.Lock()
	defer run.mx.Unlock()
	if run.state == Terminated {
		return
	}
	tracer().Infof("aborting animation in iteration %d", run.iteration)
	run.terminate()
}

// State returns the current state of the run.
func (run *Run[E]) State() State {
	run.mx.Lock()
	defer run.mx.Unlock()
	return run.state
}

// Running is true until the run is terminated.
func (run *Run[E]) Running() bool {
	return run.State() == Running
}

// Iteration returns the number of the current iteration, starting at 1.
// For terminated runs it is the number of the last iteration started.
func (run *Run[E]) Iteration() int {
	run.mx.Lock()
	defer run.mx.Unlock()
	return run.iteration
}

// Outstanding returns the number of callbacks scheduled but not yet fired.
func (run *Run[E]) Outstanding() int {
	run.mx.Lock()
	defer run.mx.Unlock()
	return len(run.outstanding)
}

// Done returns a channel which is closed when the run terminates.
func (run *Run[E]) Done() <-chan struct{} {
	return run.done
}

// Err returns the most recent error reported by the runtime, if any.
func (run *Run[E]) Err() error {
	run.mx.Lock()
	defer run.mx.Unlock()
	return run.err
}

// Plan returns the transition plan of the run.
func (run *Run[E]) Plan() *keyframes.Plan {
	return run.plan
}

// Elements returns the elements animated by the run.
func (run *Run[E]) Elements() []E {
	return append([]E(nil), run.elements...)
}
