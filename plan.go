package keyframes

import (
	"fmt"
	"math"
	"time"

	tp "github.com/xlab/treeprint"
)

// Segment is the transition towards a single keyframe. Offset is relative
// to the start of a cycle, not including any element delay.
type Segment struct {
	Percent  float64       // position of the keyframe in [0,1]
	Offset   time.Duration // start of the transition within the cycle
	Duration time.Duration // length of the transition; 0 means "apply instantly"
	Styles   Snapshot      // target styles of the transition
}

// Instant is true for segments which are applied without a transition.
func (seg Segment) Instant() bool {
	return seg.Duration == 0
}

func (seg Segment) String() string {
	return fmt.Sprintf("%g%% @%s +%s %s", seg.Percent*100, seg.Offset, seg.Duration, seg.Styles)
}

// Plan is the read-only transition plan of one animation cycle. Segments
// are ordered by ascending percentage.
type Plan struct {
	total    time.Duration
	segments []Segment
}

// NewPlan computes the transition plan for a keyframe set and the duration of
// a cycle. The keyframe set must contain keyframes 0 and 1.
//
// For a keyframe at percentage p following a keyframe at p', the segment
// starts at total×p' and lasts total×(p−p'). Keyframe 0 starts at 0 and is
// applied instantly. Offsets are rounded to the nanosecond first and
// durations are taken as differences of offsets, so segment durations always
// sum up to total exactly.
func NewPlan(ks KeyframeSet, total time.Duration) (*Plan, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: negative duration %s", ErrInvalidConfig, total)
	}
	frames, err := ks.sorted()
	if err != nil {
		return nil, err
	}
	at := func(p float64) time.Duration {
		return time.Duration(math.Round(float64(total) * p))
	}
	plan := &Plan{
		total:    total,
		segments: make([]Segment, len(frames)),
	}
	for i, kf := range frames {
		seg := Segment{Percent: kf.percent, Styles: kf.styles.Clone()}
		if i > 0 {
			prev := frames[i-1].percent
			seg.Offset = at(prev)
			seg.Duration = at(kf.percent) - seg.Offset
		}
		plan.segments[i] = seg
	}
	tracer().Debugf("plan with %d segments over %s", len(plan.segments), total)
	return plan, nil
}

// Len returns the number of segments.
func (plan *Plan) Len() int {
	if plan == nil {
		return 0
	}
	return len(plan.segments)
}

// Segment returns the i-th segment.
func (plan *Plan) Segment(i int) Segment {
	return plan.segments[i]
}

// Segments returns a copy of all segments, in ascending percentage order.
func (plan *Plan) Segments() []Segment {
	if plan == nil {
		return nil
	}
	segs := make([]Segment, len(plan.segments))
	copy(segs, plan.segments)
	return segs
}

// Duration is the length of a cycle the plan has been computed for.
func (plan *Plan) Duration() time.Duration {
	return plan.total
}

// Total sums up the durations of all segments. It is always equal to
// Duration().
func (plan *Plan) Total() time.Duration {
	var sum time.Duration
	for _, seg := range plan.segments {
		sum += seg.Duration
	}
	return sum
}

// Tree renders a plan as a tree, with one branch per segment and one leaf
// per style property. Used for debugging.
func (plan *Plan) Tree() string {
	header := fmt.Sprintf("Plan(segments=%d, duration=%s)\n", plan.Len(), plan.total)
	printer := tp.New()
	for _, seg := range plan.segments {
		label := fmt.Sprintf("%g%%  @%s  +%s", seg.Percent*100, seg.Offset, seg.Duration)
		if seg.Instant() {
			label += "  (instant)"
		}
		if len(seg.Styles) == 0 {
			printer.AddNode(label)
			continue
		}
		branch := printer.AddBranch(label)
		for _, kv := range seg.Styles.KeyValues() {
			branch.AddNode(kv.Key + ": " + kv.Value.String())
		}
	}
	return header + printer.String()
}
