/*
Package clock provides schedulers for delayed callbacks.

Animations never block or busy-wait: every step of an animation is a
callback scheduled for some point in the future. A Scheduler is the
component delivering these callbacks. Realtime() delivers them on wall
clock time, a Virtual scheduler delivers them when a client advances its
notion of time, which makes animations deterministic and testable.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package clock

import (
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'keyframes.clock'.
func tracer() tracing.Trace {
	return tracing.Select("keyframes.clock")
}

// Timer is a handle for a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback has
	// already fired or has been stopped before.
	Stop() bool
}

// Scheduler calls functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// --- Wall clock ------------------------------------------------------------

// realtime dispatches callbacks on wall clock time. A single dispatcher
// goroutine calls them one after the other, in order of their due time and,
// for equal due times, in the order they have been scheduled. The
// dispatcher exits when the queue runs empty and is restarted by the next
// AfterFunc.
type realtime struct {
	timers
	start   time.Time
	running bool
	wake    chan struct{}
}

// Realtime returns a scheduler on wall clock time. Callbacks run on a
// dispatcher goroutine, never concurrently with each other, so a callback
// blocking delays every callback after it.
func Realtime() Scheduler {
	r := &realtime{start: time.Now(), wake: make(chan struct{}, 1)}
	r.notify = r.signal
	return r
}

// signal wakes up a waiting dispatcher. r.mx must be held.
func (r *realtime) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *realtime) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	r.mx.Lock()
	defer r.mx.Unlock()
	t := r.push(time.Since(r.start)+d, f)
	if !r.running {
		r.running = true
		go r.dispatch()
	} else {
		r.signal()
	}
	return t
}

func (r *realtime) dispatch() {
	var sleep *time.Timer
	for {
		r.mx.Lock()
		if len(r.queue) == 0 {
			r.running = false
			r.mx.Unlock()
			return
		}
		now := time.Since(r.start)
		if t := r.pop(now, true); t != nil {
			r.mx.Unlock()
			t.f()
			continue
		}
		wait := r.queue[0].due - now
		r.mx.Unlock()
		if sleep == nil {
			sleep = time.NewTimer(wait)
		} else {
			sleep.Reset(wait)
		}
		select {
		case <-sleep.C:
		case <-r.wake:
			if !sleep.Stop() {
				<-sleep.C
			}
		}
	}
}

var _ Scheduler = (*realtime)(nil)
