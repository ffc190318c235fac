package anim

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/npillmayer/keyframes"
	"github.com/npillmayer/keyframes/clock"
	"github.com/npillmayer/keyframes/timing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

// action is a call to the mock runtime.
type action struct {
	el       string
	at       time.Duration
	tween    bool
	duration time.Duration
	styles   keyframes.Snapshot
}

func (a action) String() string {
	if a.tween {
		return fmt.Sprintf("%s: tween @%s +%s %s", a.el, a.at, a.duration, a.styles)
	}
	return fmt.Sprintf("%s: apply @%s %s", a.el, a.at, a.styles)
}

// mockRuntime records calls and schedules on a virtual clock.
type mockRuntime struct {
	*clock.Virtual
	mx        sync.Mutex
	scheduled []time.Duration // due times of every AfterFunc
	actions   []action
	fail      func(action) error
	onApply   func(action)
}

func newMock() *mockRuntime {
	return &mockRuntime{Virtual: clock.NewVirtual()}
}

func (m *mockRuntime) AfterFunc(d time.Duration, f func()) clock.Timer {
	m.mx.Lock()
	m.scheduled = append(m.scheduled, m.Now()+d)
	m.mx.Unlock()
	return m.Virtual.AfterFunc(d, f)
}

func (m *mockRuntime) record(a action) error {
	m.mx.Lock()
	m.actions = append(m.actions, a)
	fail, onApply := m.fail, m.onApply
	m.mx.Unlock()
	if onApply != nil {
		onApply(a)
	}
	if fail != nil {
		return fail(a)
	}
	return nil
}

func (m *mockRuntime) ApplyStyles(el string, s keyframes.Snapshot) error {
	return m.record(action{el: el, at: m.Now(), styles: s})
}

func (m *mockRuntime) RunTween(el string, s keyframes.Snapshot, d time.Duration, ease timing.Easing) error {
	if ease == nil || ease(0) != 0 || ease(1) != 1 {
		return errors.New("broken easing")
	}
	return m.record(action{el: el, at: m.Now(), tween: true, duration: d, styles: s})
}

func (m *mockRuntime) calls() []action {
	m.mx.Lock()
	defer m.mx.Unlock()
	return append([]action(nil), m.actions...)
}

func (m *mockRuntime) timers() []time.Duration {
	m.mx.Lock()
	defer m.mx.Unlock()
	return append([]time.Duration(nil), m.scheduled...)
}

func fade() keyframes.KeyframeSet {
	return keyframes.KeyframeSet{
		"0": {"opacity": "0"},
		"1": {"opacity": "1"},
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------

func TestSingleCycle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	rt := newMock()
	run, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes: fade(),
		Duration:  1000 * ms,
	})
	require.NoError(t, err)
	assert.Empty(t, rt.calls(), "no callback may fire from within Start")
	assert.Equal(t, []time.Duration{0, 0, 1000 * ms}, rt.timers())
	assert.Equal(t, 3, run.Outstanding())
	assert.Equal(t, 1, run.Iteration())

	rt.Advance(0)
	calls := rt.calls()
	require.Len(t, calls, 2)
	assert.False(t, calls[0].tween)
	assert.Equal(t, time.Duration(0), calls[0].at)
	assert.Equal(t, keyframes.Snapshot{"opacity": "0"}, calls[0].styles)
	assert.True(t, calls[1].tween)
	assert.Equal(t, time.Duration(0), calls[1].at)
	assert.Equal(t, 1000*ms, calls[1].duration)
	assert.Equal(t, keyframes.Snapshot{"opacity": "1"}, calls[1].styles)
	assert.True(t, run.Running())

	rt.Advance(1000 * ms)
	assert.False(t, run.Running())
	assert.True(t, isClosed(run.Done()))
	assert.Equal(t, 0, run.Outstanding())
	assert.Len(t, rt.calls(), 2)
	assert.Len(t, rt.timers(), 3, "no timers after the last iteration")
	assert.NoError(t, run.Err())
}

func TestThreeIterations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	rt := newMock()
	run, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes:      fade(),
		Duration:       1000 * ms,
		IterationCount: 3,
	})
	require.NoError(t, err)
	rt.RunUntilIdle(100)
	calls := rt.calls()
	require.Len(t, calls, 6)
	for i, c := range calls {
		cycle := time.Duration(i/2) * 1000 * ms
		if c.at != cycle {
			t.Errorf("call #%d (%s) expected at %s", i, c, cycle)
		}
	}
	// 3 × (2 segments + 1 advance)
	assert.Equal(t, []time.Duration{
		0, 0, 1000 * ms,
		1000 * ms, 1000 * ms, 2000 * ms,
		2000 * ms, 2000 * ms, 3000 * ms,
	}, rt.timers())
	assert.Equal(t, 3, run.Iteration())
	assert.Equal(t, Terminated, run.State())
	assert.Equal(t, 0, run.Outstanding())
	assert.Equal(t, 0, rt.Pending())
	assert.Equal(t, 3000*ms, rt.Now())
}

func TestInfiniteUntilAbort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	rt := newMock()
	run, err := Start[string](rt, []string{"a", "b"}, keyframes.Config{
		Keyframes:      fade(),
		Duration:       1000 * ms,
		IterationCount: keyframes.Infinite,
	})
	require.NoError(t, err)
	rt.Advance(10 * time.Second)
	assert.Equal(t, 11, run.Iteration())
	assert.True(t, run.Running())
	n := len(rt.calls())
	assert.Equal(t, 11*2*2, n)

	run.Abort()
	assert.False(t, run.Running())
	assert.True(t, isClosed(run.Done()))
	assert.Equal(t, 0, rt.Pending(), "abort must stop every timer of the run")
	rt.Advance(time.Hour)
	assert.Len(t, rt.calls(), n)
	run.Abort() // idempotent
	assert.Equal(t, 11, run.Iteration())
}

func TestDelayShiftsSegmentsOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	rt := newMock()
	_, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes: fade(),
		Duration:  1000 * ms,
		Delays:    []time.Duration{500 * ms},
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{500 * ms, 500 * ms, 1000 * ms}, rt.timers())
	rt.RunUntilIdle(0)
	calls := rt.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 500*ms, calls[0].at)
	assert.Equal(t, 500*ms, calls[1].at)
}

func TestDelaysPerElement(t *testing.T) {
	rt := newMock()
	_, err := Start[string](rt, []string{"a", "b", "c"}, keyframes.Config{
		Keyframes: fade(),
		Duration:  1000 * ms,
		Delays:    []time.Duration{0, 200 * ms},
	})
	require.NoError(t, err)
	rt.RunUntilIdle(0)
	first := map[string]time.Duration{}
	for _, c := range rt.calls() {
		if _, ok := first[c.el]; !ok {
			first[c.el] = c.at
		}
	}
	assert.Equal(t, map[string]time.Duration{"a": 0, "b": 200 * ms, "c": 0}, first)
}

func TestDelaysAreCopiedOnStart(t *testing.T) {
	rt := newMock()
	delays := []time.Duration{0}
	_, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes:      fade(),
		Duration:       1000 * ms,
		IterationCount: 2,
		Delays:         delays,
	})
	require.NoError(t, err)
	delays[0] = 500 * ms
	rt.RunUntilIdle(0)
	var applied []time.Duration
	for _, c := range rt.calls() {
		if !c.tween {
			applied = append(applied, c.at)
		}
	}
	assert.Equal(t, []time.Duration{0, 1000 * ms}, applied)
}

func TestDelayBeyondCycleCompletes(t *testing.T) {
	rt := newMock()
	run, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes: fade(),
		Duration:  1000 * ms,
		Delays:    []time.Duration{1500 * ms},
	})
	require.NoError(t, err)
	rt.Advance(1000 * ms)
	assert.True(t, run.Running(), "run must wait for delayed segments")
	rt.Advance(500 * ms)
	assert.Len(t, rt.calls(), 2)
	assert.False(t, run.Running())
}

func TestIntermediateKeyframe(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	rt := newMock()
	run, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes: keyframes.KeyframeSet{
			"0":   {"width": "100px", "opacity": "1"},
			"0.5": {"width": "200px"},
			"1":   {"opacity": "0"},
		},
		Duration:       2000 * ms,
		TimingFunction: timing.Linear,
	})
	require.NoError(t, err)
	require.Equal(t, 3, run.Plan().Len())
	rt.RunUntilIdle(0)
	calls := rt.calls()
	require.Len(t, calls, 3)
	assert.False(t, calls[0].tween)
	assert.Equal(t, action{el: "a", at: 0, tween: true, duration: 1000 * ms,
		styles: keyframes.Snapshot{"width": "200px"}}, calls[1])
	assert.Equal(t, action{el: "a", at: 1000 * ms, tween: true, duration: 1000 * ms,
		styles: keyframes.Snapshot{"opacity": "0"}}, calls[2])
}

func TestInvalidConfigSchedulesNothing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	for _, c := range []struct {
		cfg  keyframes.Config
		want error
	}{
		{keyframes.Config{Keyframes: keyframes.KeyframeSet{"1": {"opacity": "1"}}, Duration: time.Second},
			keyframes.ErrInvalidKeyframeSet},
		{keyframes.Config{Keyframes: keyframes.KeyframeSet{"0": {"opacity": "1"}}, Duration: time.Second},
			keyframes.ErrInvalidKeyframeSet},
		{keyframes.Config{Duration: time.Second},
			keyframes.ErrInvalidKeyframeSet},
		{keyframes.Config{Keyframes: keyframes.KeyframeSet{"0": nil, "half": nil, "1": nil}, Duration: time.Second},
			keyframes.ErrNonNumericPercentage},
		{keyframes.Config{Keyframes: fade(), Duration: time.Second, TimingFunction: "bounce"},
			timing.ErrUnknownTimingFunction},
		{keyframes.Config{Keyframes: fade(), Duration: -time.Second},
			keyframes.ErrInvalidConfig},
		{keyframes.Config{Keyframes: fade(), IterationCount: keyframes.Infinite},
			keyframes.ErrInvalidConfig},
	} {
		rt := newMock()
		run, err := Start[string](rt, []string{"a"}, c.cfg)
		assert.Nil(t, run)
		assert.ErrorIs(t, err, c.want)
		assert.Empty(t, rt.timers())
		assert.Empty(t, rt.calls())
	}
	_, err := Start[string](nil, []string{"a"}, keyframes.Config{Keyframes: fade()})
	assert.ErrorIs(t, err, keyframes.ErrInvalidConfig)
}

func TestZeroDuration(t *testing.T) {
	rt := newMock()
	run, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes:      fade(),
		IterationCount: 2,
	})
	require.NoError(t, err)
	rt.RunUntilIdle(0)
	calls := rt.calls()
	require.Len(t, calls, 4)
	for _, c := range calls {
		assert.False(t, c.tween, "zero-length segments are applied instantly")
	}
	assert.False(t, run.Running())
}

func TestDelegationErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	rt := newMock()
	boom := errors.New("unsupported property")
	rt.fail = func(a action) error {
		if a.tween {
			return boom
		}
		return nil
	}
	var reported []error
	run, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes:      fade(),
		Duration:       time.Second,
		IterationCount: 2,
	}, WithErrorHandler(func(err error) { reported = append(reported, err) }))
	require.NoError(t, err)
	rt.Advance(0)
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], ErrRuntimeDelegation)
	assert.ErrorIs(t, reported[0], boom)
	var derr *DelegationError
	require.True(t, errors.As(reported[0], &derr))
	assert.Equal(t, "a", derr.Element)
	assert.Equal(t, 1, derr.Iteration)
	assert.Equal(t, 1.0, derr.Segment.Percent)
	assert.True(t, run.Running(), "runtime errors do not abort a run")
	assert.ErrorIs(t, run.Err(), boom)
	rt.RunUntilIdle(0)
	assert.Len(t, reported, 2)
	assert.Equal(t, 2, run.Iteration())
}

func TestAbortFromRuntime(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	rt := newMock()
	var run *Run[string]
	rt.onApply = func(a action) {
		if !a.tween {
			run.Abort()
		}
	}
	var err error
	run, err = Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes:      fade(),
		Duration:       time.Second,
		IterationCount: keyframes.Infinite,
	})
	require.NoError(t, err)
	rt.Advance(5 * time.Second)
	calls := rt.calls()
	require.Len(t, calls, 1, "tween of an aborted run must not fire")
	assert.False(t, run.Running())
}

func TestAbortBeforeStart(t *testing.T) {
	rt := newMock()
	run, err := Start[string](rt, []string{"a"}, keyframes.Config{
		Keyframes: fade(),
		Duration:  time.Second,
		Delays:    []time.Duration{time.Second},
	})
	require.NoError(t, err)
	run.Abort()
	rt.RunUntilIdle(0)
	assert.Empty(t, rt.calls())
}

func TestRealtimeRun(t *testing.T) {
	m := newMock()
	rt := NewRuntime[string](m, clock.Realtime())
	run, err := Start(rt, []string{"a"}, keyframes.Config{
		Keyframes:      fade(),
		Duration:       5 * ms,
		IterationCount: 2,
	})
	require.NoError(t, err)
	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not terminate")
	}
	assert.Len(t, m.calls(), 4)
}

func TestRealtimeSegmentOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	m := newMock()
	rt := NewRuntime[string](m, clock.Realtime())
	var runs []*Run[string]
	for i := 0; i < 300; i++ {
		run, err := Start(rt, []string{fmt.Sprintf("e%d", i)}, keyframes.Config{
			Keyframes: fade(),
			Duration:  20 * ms,
		})
		require.NoError(t, err)
		runs = append(runs, run)
	}
	for _, run := range runs {
		select {
		case <-run.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("run did not terminate")
		}
	}
	first := make(map[string]action)
	for _, a := range m.calls() {
		if _, ok := first[a.el]; !ok {
			first[a.el] = a
		}
	}
	require.Len(t, first, 300)
	for el, a := range first {
		assert.False(t, a.tween, "%s: keyframe 0 must be applied before the tween starts", el)
	}
}

// --- Animator --------------------------------------------------------------

func TestAnimatorAbortsPrevious(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "keyframes.anim")
	defer teardown()
	//
	rt := newMock()
	a := NewAnimator[string](rt)
	assert.Equal(t, AbortPrevious, a.Policy())
	cfg := keyframes.Config{Keyframes: fade(), Duration: time.Second, IterationCount: keyframes.Infinite}
	first, err := a.Start([]string{"a", "b"}, cfg)
	require.NoError(t, err)
	other, err := a.Start([]string{"c"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Active())

	// invalid config leaves active runs alone
	_, err = a.Start([]string{"b"}, keyframes.Config{Duration: time.Second})
	assert.ErrorIs(t, err, keyframes.ErrInvalidKeyframeSet)
	assert.True(t, first.Running())

	second, err := a.Start([]string{"b"}, cfg)
	require.NoError(t, err)
	assert.False(t, first.Running())
	assert.True(t, other.Running())
	assert.True(t, second.Running())
	assert.Equal(t, 2, a.Active())

	a.Abort("c")
	assert.False(t, other.Running())
	assert.Equal(t, 1, a.Active())
	a.Abort()
	assert.Equal(t, 0, a.Active())
	assert.Equal(t, 0, rt.Pending())
}

func TestAnimatorAllowOverlap(t *testing.T) {
	rt := newMock()
	a := NewAnimator[string](rt, WithOverlapPolicy(AllowOverlap))
	cfg := keyframes.Config{Keyframes: fade(), Duration: time.Second}
	first, err := a.Start([]string{"a"}, cfg)
	require.NoError(t, err)
	second, err := a.Start([]string{"a"}, cfg)
	require.NoError(t, err)
	assert.True(t, first.Running())
	assert.True(t, second.Running())
	assert.Equal(t, 2, a.Active())
	rt.RunUntilIdle(0)
	assert.Len(t, rt.calls(), 4)
	assert.Equal(t, 0, a.Active())
}

func TestAnimatorPolicyPerStart(t *testing.T) {
	rt := newMock()
	a := NewAnimator[string](rt)
	cfg := keyframes.Config{Keyframes: fade(), Duration: time.Second, IterationCount: keyframes.Infinite}
	first, err := a.Start([]string{"a"}, cfg)
	require.NoError(t, err)
	second, err := a.Start([]string{"a"}, cfg, WithOverlapPolicy(AllowOverlap))
	require.NoError(t, err)
	assert.True(t, first.Running(), "overlap allowed for this start")
	assert.True(t, second.Running())
	assert.Equal(t, AbortPrevious, a.Policy(), "animator policy unchanged")

	third, err := a.Start([]string{"a"}, cfg)
	require.NoError(t, err)
	assert.False(t, first.Running())
	assert.False(t, second.Running())
	assert.True(t, third.Running())
	a.Abort()
}
