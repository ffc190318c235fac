package keyframes

import "errors"

// ErrInvalidKeyframeSet is returned if the boundary keyframes 0 and/or 1 are
// missing, or if two keys denote the same percentage.
var ErrInvalidKeyframeSet = errors.New("invalid keyframe set")

// ErrNonNumericPercentage is returned for a keyframe key which is not a real
// number in [0,1] (or a percentage in [0%,100%]).
var ErrNonNumericPercentage = errors.New("keyframe key is not a percentage in [0,1]")

// ErrInvalidConfig flags negative durations, delays or iteration counts.
var ErrInvalidConfig = errors.New("invalid animation configuration")
