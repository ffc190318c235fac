package anim

import (
	"errors"
	"fmt"

	"github.com/npillmayer/keyframes"
)

// ErrRuntimeDelegation matches every error a runtime reports while applying
// or tweening styles. Use errors.As with a *DelegationError to get the details.
var ErrRuntimeDelegation = errors.New("runtime failed to style element")

// DelegationError wraps an error of the runtime.
type DelegationError struct {
	Element   any               // the element which should have been styled
	Iteration int               // iteration of the run, starting at 1
	Segment   keyframes.Segment // the segment falling due
	Err       error             // the error reported by the runtime
}

func (e *DelegationError) Error() string {
	return fmt.Sprintf("%v: iteration %d, segment %g%%: %v",
		ErrRuntimeDelegation, e.Iteration, e.Segment.Percent*100, e.Err)
}

func (e *DelegationError) Unwrap() error {
	return e.Err
}

// Is lets DelegationErrors match ErrRuntimeDelegation.
func (e *DelegationError) Is(target error) bool {
	return target == ErrRuntimeDelegation
}
