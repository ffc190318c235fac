package dom

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/npillmayer/keyframes"
	"github.com/npillmayer/keyframes/anim"
	"github.com/npillmayer/keyframes/clock"
	"github.com/npillmayer/keyframes/css"
	"github.com/npillmayer/keyframes/dom/style"
	"github.com/npillmayer/keyframes/timing"
)

// ErrUnsupportedProperty is returned by a strict runtime for style
// properties it does not know.
var ErrUnsupportedProperty = errors.New("unsupported style property")

// DefaultFrameInterval is the time between two frames of a tween, if a
// runtime does not set its own.
const DefaultFrameInterval = 16 * time.Millisecond

// Runtime animates elements of documents. It implements anim.Runtime for
// *Element. Runtimes are safe for concurrent use, as long as the fields are
// not changed after the first animation has started.
type Runtime struct {
	Scheduler     clock.Scheduler
	FrameInterval time.Duration // 0 means DefaultFrameInterval
	// Strict rejects snapshots containing properties outside the known
	// property groups, see style.IsKnownProperty.
	Strict bool
	// OnFrame is called after every frame of a tween, with the time elapsed
	// since the tween started.
	OnFrame func(el *Element, elapsed time.Duration)

	inflight sync.WaitGroup // tweens which have not written their last frame
}

// NewRuntime creates a runtime scheduling on s.
func NewRuntime(s clock.Scheduler) *Runtime {
	return &Runtime{Scheduler: s}
}

var _ anim.Runtime[*Element] = (*Runtime)(nil)

// AfterFunc schedules f on the runtime's scheduler.
func (rt *Runtime) AfterFunc(d time.Duration, f func()) clock.Timer {
	return rt.Scheduler.AfterFunc(d, f)
}

// ApplyStyles sets all properties of s on el at once.
func (rt *Runtime) ApplyStyles(el *Element, s keyframes.Snapshot) error {
	if err := rt.check(el, s); err != nil {
		return err
	}
	el.SetStyles(s.KeyValues())
	tracer().Debugf("%s: %s", el, s)
	return nil
}

// RunTween transitions the properties of s on el within d. Start values are
// the values the properties have when the tween starts. Every frame writes
// the interpolated values of all properties; the last frame, at d, writes
// the values of s. Properties which cannot be interpolated switch to their
// target value with the last frame.
//
// RunTween returns after the first frame has been scheduled. Tweens running
// concurrently on the same element are allowed; the last write of a
// property wins.
func (rt *Runtime) RunTween(el *Element, s keyframes.Snapshot, d time.Duration, ease timing.Easing) error {
	if err := rt.check(el, s); err != nil {
		return err
	}
	if d <= 0 {
		el.SetStyles(s.KeyValues())
		return nil
	}
	tw := &tween{
		rt:       rt,
		el:       el,
		duration: d,
		ease:     ease,
		to:       s.KeyValues(),
		from:     make([]style.Property, len(s)),
	}
	el.doc.mx.RLock()
	for i, kv := range tw.to {
		tw.from[i] = el.style(kv.Key)
	}
	el.doc.mx.RUnlock()
	tracer().Debugf("%s: tween over %s to %s", el, d, s)
	rt.inflight.Add(1)
	tw.next()
	return nil
}

// Wait blocks until every tween started so far has written its last frame.
// With a virtual clock, the clock has to be advanced by another goroutine.
func (rt *Runtime) Wait() {
	rt.inflight.Wait()
}

func (rt *Runtime) frameInterval() time.Duration {
	if rt.FrameInterval <= 0 {
		return DefaultFrameInterval
	}
	return rt.FrameInterval
}

func (rt *Runtime) check(el *Element, s keyframes.Snapshot) error {
	if el == nil {
		return errors.New("no element to style")
	}
	if !rt.Strict {
		return nil
	}
	for _, key := range s.Keys() {
		if !style.IsKnownProperty(key) {
			return fmt.Errorf("%w: %q on %s", ErrUnsupportedProperty, key, el)
		}
	}
	return nil
}

// --- Tweens ----------------------------------------------------------------

type tween struct {
	rt       *Runtime
	el       *Element
	duration time.Duration
	ease     timing.Easing
	from     []style.Property
	to       []style.KeyValue
	elapsed  time.Duration
}

// next schedules the next frame.
func (tw *tween) next() {
	step := tw.rt.frameInterval()
	if rest := tw.duration - tw.elapsed; rest < step {
		step = rest
	}
	tw.rt.Scheduler.AfterFunc(step, func() {
		tw.elapsed += step
		tw.frame()
		if tw.elapsed < tw.duration {
			tw.next()
			return
		}
		tw.rt.inflight.Done()
	})
}

// frame writes the property values for the current elapsed time.
func (tw *tween) frame() {
	kvs := make([]style.KeyValue, 0, len(tw.to))
	if tw.elapsed >= tw.duration {
		kvs = append(kvs, tw.to...)
	} else {
		f := float64(tw.elapsed) / float64(tw.duration)
		if tw.ease != nil {
			f = tw.ease(f)
		}
		for i, kv := range tw.to {
			v, err := css.InterpolateProperty(tw.from[i], kv.Value, f)
			if err != nil {
				continue // switches with the last frame
			}
			kvs = append(kvs, style.KeyValue{Key: kv.Key, Value: v})
		}
	}
	tw.el.SetStyles(kvs)
	if tw.rt.OnFrame != nil {
		tw.rt.OnFrame(tw.el, tw.elapsed)
	}
}
