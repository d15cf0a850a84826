// Package phase holds the zero-size construction phase tags shared by the pipeline
// builders, and the generic handle that moves builder state from one phase to the next.
//
// A tag carries no data. It only parameterizes Handle so that each builder phase is a
// distinct Go type; which operations are legal in a phase is decided by the method set
// of the builder type that embeds the handle, never by a runtime flag.
package phase

// Global is the top-level phase: before, between and after stages.
type Global struct{}

// Stage is the phase inside an open stage.
type Stage struct{}

// Job is the phase inside an open job, where steps are emitted.
type Job struct{}

// Name returns the phase name used in logs and diagnostics.
func (Global) Name() string { return "global" }

// Name returns the phase name used in logs and diagnostics.
func (Stage) Name() string { return "stage" }

// Name returns the phase name used in logs and diagnostics.
func (Job) Name() string { return "job" }

// Tag constrains Handle to the known phases.
type Tag interface {
	Global | Stage | Job
	Name() string
}

// Handle owns the accumulated builder state S while the builder is in phase P.
//
// State is moved, never shared: Take hands the state over and leaves the handle
// consumed, so a stale phase value cannot keep writing into a document that has
// already moved on.
type Handle[P Tag, S any] struct {
	state *S
}

// Hold wraps state in a handle for phase P.
func Hold[P Tag, S any](state *S) Handle[P, S] {
	return Handle[P, S]{state: state}
}

// Take moves the state out of the handle. It returns false if the handle was
// already consumed.
func (h *Handle[P, S]) Take() (*S, bool) {
	s := h.state
	h.state = nil
	return s, s != nil
}

// Peek returns the state without consuming the handle.
func (h *Handle[P, S]) Peek() (*S, bool) {
	return h.state, h.state != nil
}

// Consumed reports whether the state has been moved out of the handle.
func (h *Handle[P, S]) Consumed() bool {
	return h.state == nil
}

// Phase returns the name of the phase P.
func (h *Handle[P, S]) Phase() string {
	var p P
	return p.Name()
}
