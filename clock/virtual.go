package clock

import (
	"time"
)

// Virtual is a scheduler with a manually advanced clock. Callbacks are called
// synchronously from Advance, in order of their due time; callbacks due at
// the same time are called in the order they have been scheduled.
// Callbacks may schedule new callbacks, which are honoured within the same
// call to Advance if they fall due.
//
// The zero value is a scheduler at time 0, ready to use.
type Virtual struct {
	timers
	now time.Duration
}

// NewVirtual creates a virtual scheduler at time 0.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Now returns the time elapsed since the virtual clock has been created.
func (v *Virtual) Now() time.Duration {
	v.mx.Lock()
	defer v.mx.Unlock()
	return v.now
}

// AfterFunc schedules f at Now()+d. Negative delays count as 0.
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	v.mx.Lock()
	defer v.mx.Unlock()
	return v.push(v.now+d, f)
}

// Pending returns the number of scheduled callbacks not yet fired.
func (v *Virtual) Pending() int {
	v.mx.Lock()
	defer v.mx.Unlock()
	return len(v.queue)
}

// Next returns the due time of the earliest pending callback.
func (v *Virtual) Next() (time.Duration, bool) {
	v.mx.Lock()
	defer v.mx.Unlock()
	if len(v.queue) == 0 {
		return 0, false
	}
	return v.queue[0].due, true
}

// Advance moves the clock forward by d, firing every callback falling due
// on the way. It returns the number of callbacks fired.
func (v *Virtual) Advance(d time.Duration) int {
	v.mx.Lock()
	until := v.now + d
	v.mx.Unlock()
	return v.AdvanceTo(until)
}

// AdvanceTo moves the clock forward to t. Moving backwards is a no-op.
func (v *Virtual) AdvanceTo(t time.Duration) int {
	fired := 0
	for {
		vt := v.popDue(t, true)
		if vt == nil {
			v.mx.Lock()
			if t > v.now {
				v.now = t
			}
			v.mx.Unlock()
			return fired
		}
		vt.f() // outside of lock, f may schedule or stop timers
		fired++
	}
}

// RunUntilIdle advances the clock until no callbacks are pending, firing at
// most limit callbacks (limit ≤ 0 means no limit). It returns the number of
// callbacks fired.
func (v *Virtual) RunUntilIdle(limit int) int {
	fired := 0
	for limit <= 0 || fired < limit {
		vt := v.popDue(0, false)
		if vt == nil {
			break
		}
		vt.f()
		fired++
	}
	return fired
}

// popDue removes the earliest timer from the queue and moves the clock to its
// due time. If bounded is set, only timers due at or before t qualify.
func (v *Virtual) popDue(t time.Duration, bounded bool) *timer {
	v.mx.Lock()
	defer v.mx.Unlock()
	vt := v.pop(t, bounded)
	if vt == nil {
		return nil
	}
	if vt.due > v.now {
		v.now = vt.due
	}
	tracer().Debugf("virtual clock fires timer #%d at %s", vt.serial, vt.due)
	return vt
}

var _ Scheduler = (*Virtual)(nil)
