package keyframes

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/keyframes/dom/style"
)

// Snapshot is a set of style properties, keyed by property name, e.g.
//
//     Snapshot{ "width": "200px", "opacity": "0.5" }
//
// A property absent from a snapshot is not touched by the transition to
// this snapshot.
type Snapshot map[string]style.Property

// Clone returns a copy of a snapshot. nil clones to nil.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	c := make(Snapshot, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Keys returns the property names of a snapshot in lexical order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeyValues returns the properties of a snapshot, ordered by key.
func (s Snapshot) KeyValues() []style.KeyValue {
	kv := make([]style.KeyValue, 0, len(s))
	for _, k := range s.Keys() {
		kv = append(kv, style.KeyValue{Key: k, Value: s[k]})
	}
	return kv
}

func (s Snapshot) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, kv := range s.KeyValues() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(kv.Key)
		b.WriteString(": ")
		b.WriteString(kv.Value.String())
	}
	b.WriteString("}")
	return b.String()
}

// KeyframeSet maps percentage keys to style snapshots. Keys are
// real numbers in [0,1], written as strings ("0", "0.25", "1"), or
// percentages ("25%").
type KeyframeSet map[string]Snapshot

// ParsePercentage reads a keyframe key. "0.25" and "25%" both return 0.25.
func ParsePercentage(key string) (float64, error) {
	k := strings.TrimSpace(key)
	scale := 1.0
	if strings.HasSuffix(k, "%") {
		k = strings.TrimSpace(strings.TrimSuffix(k, "%"))
		scale = 100.0
	}
	p, err := strconv.ParseFloat(k, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNonNumericPercentage, key)
	}
	p /= scale
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: %q out of range", ErrNonNumericPercentage, key)
	}
	return p, nil
}

// keyframe is a parsed entry of a KeyframeSet.
type keyframe struct {
	percent float64
	styles  Snapshot
}

// sorted parses all keys and returns the keyframes in ascending numerical
// order of their percentages.
func (ks KeyframeSet) sorted() ([]keyframe, error) {
	frames := make([]keyframe, 0, len(ks))
	seen := make(map[float64]string, len(ks))
	for key, styles := range ks {
		p, err := ParsePercentage(key)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: keys %q and %q denote the same percentage",
				ErrInvalidKeyframeSet, other, key)
		}
		seen[p] = key
		frames = append(frames, keyframe{percent: p, styles: styles})
	}
	sort.Slice(frames, func(i, j int) bool {
		return frames[i].percent < frames[j].percent
	})
	if len(frames) == 0 || frames[0].percent != 0 {
		return nil, fmt.Errorf("%w: keyframe 0 is missing", ErrInvalidKeyframeSet)
	}
	if frames[len(frames)-1].percent != 1 {
		return nil, fmt.Errorf("%w: keyframe 1 is missing", ErrInvalidKeyframeSet)
	}
	return frames, nil
}

// --- Iteration count -------------------------------------------------------

// IterationCount is the number of cycles an animation runs. The zero value
// means "use the default", which is a single cycle.
type IterationCount int

// Infinite lets an animation cycle until it is aborted.
const Infinite IterationCount = -1

// IsInfinite is true for Infinite.
func (n IterationCount) IsInfinite() bool {
	return n == Infinite
}

func (n IterationCount) String() string {
	if n.IsInfinite() {
		return "infinite"
	}
	return strconv.Itoa(int(n))
}

// ParseIterationCount reads either "infinite" or a positive integer.
func ParseIterationCount(s string) (IterationCount, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "infinite") {
		return Infinite, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: iteration count %q", ErrInvalidConfig, s)
	}
	return IterationCount(n), nil
}

// --- Config ----------------------------------------------------------------

// DefaultTimingFunction is used if a Config does not name one.
const DefaultTimingFunction = "ease"

// Config holds the settings of a keyframe animation. The zero value is
// valid except for its empty keyframe set.
type Config struct {
	Keyframes      KeyframeSet     // percentage → styles; must include 0 and 1
	Delays         []time.Duration // delay of the i-th element; missing entries are 0
	Duration       time.Duration   // length of one cycle
	IterationCount IterationCount  // number of cycles; 0 means 1
	TimingFunction string          // name of an easing curve; "" means "ease"
}

// Delay returns the start delay of the element with index i.
func (c Config) Delay(i int) time.Duration {
	if i < 0 || i >= len(c.Delays) {
		return 0
	}
	return c.Delays[i]
}

// Iterations returns the effective iteration count.
func (c Config) Iterations() IterationCount {
	if c.IterationCount == 0 {
		return 1
	}
	return c.IterationCount
}

// Timing returns the effective timing function name.
func (c Config) Timing() string {
	if strings.TrimSpace(c.TimingFunction) == "" {
		return DefaultTimingFunction
	}
	return strings.TrimSpace(c.TimingFunction)
}

// Validate checks durations, delays and the iteration count. Keyframes are
// checked by NewPlan.
func (c Config) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("%w: negative duration %s", ErrInvalidConfig, c.Duration)
	}
	for i, d := range c.Delays {
		if d < 0 {
			return fmt.Errorf("%w: negative delay %s for element #%d", ErrInvalidConfig, d, i)
		}
	}
	n := c.Iterations()
	if n < 0 && !n.IsInfinite() {
		return fmt.Errorf("%w: iteration count %d", ErrInvalidConfig, n)
	}
	if n.IsInfinite() && c.Duration == 0 {
		return fmt.Errorf("%w: infinite iterations need a non-zero duration", ErrInvalidConfig)
	}
	return nil
}
