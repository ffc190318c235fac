package clock

import (
	"container/heap"
	"sync"
	"time"
)

// timers is a queue of callbacks ordered by due time; callbacks due at the
// same time are ordered by the sequence they have been scheduled in.
// Schedulers embed it and hold mx while touching serial or queue.
type timers struct {
	mx     sync.Mutex
	serial uint64
	queue  timerQueue
	notify func() // called with mx held when a timer is stopped
}

// push enqueues f at due. ts.mx must be held.
func (ts *timers) push(due time.Duration, f func()) *timer {
	ts.serial++
	t := &timer{ts: ts, due: due, serial: ts.serial, f: f, index: -1}
	heap.Push(&ts.queue, t)
	return t
}

// pop removes the earliest timer if it is due at or before t. With bounded
// unset, the earliest timer is removed regardless of its due time.
// ts.mx must be held.
func (ts *timers) pop(t time.Duration, bounded bool) *timer {
	if len(ts.queue) == 0 || (bounded && ts.queue[0].due > t) {
		return nil
	}
	next := heap.Pop(&ts.queue).(*timer)
	next.fired = true
	return next
}

type timer struct {
	ts     *timers
	due    time.Duration
	serial uint64
	f      func()
	index  int // position in queue, -1 if not queued
	fired  bool
}

func (t *timer) Stop() bool {
	t.ts.mx.Lock()
	defer t.ts.mx.Unlock()
	if t.fired || t.index < 0 {
		return false
	}
	heap.Remove(&t.ts.queue, t.index)
	if t.ts.notify != nil {
		t.ts.notify()
	}
	return true
}

var _ Timer = (*timer)(nil)

// timerQueue is a min-heap of timers, ordered by due time and serial.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].serial < q[j].serial
	}
	return q[i].due < q[j].due
}
func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x interface{}) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
