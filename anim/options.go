package anim

// Option configures runs and animators.
type Option func(*options)

type options struct {
	onError func(error)
	overlap OverlapPolicy
}

func collect(opts []Option) options {
	o := options{overlap: AbortPrevious}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithErrorHandler sets a function to receive the errors a runtime reports
// during a run. Errors are of type *DelegationError. The default handler
// traces them. Handlers are called from scheduler callbacks and must not
// block.
func WithErrorHandler(h func(error)) Option {
	return func(o *options) {
		o.onError = h
	}
}

// OverlapPolicy decides what an Animator does if a run is started on
// elements which are part of an active run.
type OverlapPolicy int

const (
	// AbortPrevious aborts every active run sharing an element with the
	// new run.
	AbortPrevious OverlapPolicy = iota
	// AllowOverlap lets runs on the same elements race.
	AllowOverlap
)

func (p OverlapPolicy) String() string {
	switch p {
	case AbortPrevious:
		return "abort-previous"
	case AllowOverlap:
		return "allow-overlap"
	}
	return "unknown"
}

// WithOverlapPolicy sets the overlap policy of an Animator. Passed to
// Animator.Start, it overrides the animator's policy for this start. It has
// no effect on single runs.
func WithOverlapPolicy(p OverlapPolicy) Option {
	return func(o *options) {
		o.overlap = p
	}
}
