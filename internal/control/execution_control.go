// Package control implements ExecutionControl: a uniform start/pause
// handle attached to framework elements, used to locate the thread
// container (or other startable/pausable) owning a given subtree.
package control

import "github.com/care/orion-scheduler/internal/graph"

// AnnotationKind is the side-table key ExecutionControl annotations are
// stored under.
const AnnotationKind = "scheduler.ExecutionControl"

// Startable is the uniform control surface ExecutionControl wraps.
type Startable interface {
	IsRunning() bool
	Start() error
	Pause() error
}

// ExecutionControl wraps a startable/pausable target and is attached as an
// annotation to the element it controls.
type ExecutionControl struct {
	target Startable
}

// Attach creates an ExecutionControl wrapping target and attaches it to e.
func Attach(e *graph.Element, target Startable) *ExecutionControl {
	ec := &ExecutionControl{target: target}
	e.SetAnnotation(AnnotationKind, ec)
	return ec
}

// IsRunning delegates to the wrapped target.
func (ec *ExecutionControl) IsRunning() bool { return ec.target.IsRunning() }

// Start delegates to the wrapped target.
func (ec *ExecutionControl) Start() error { return ec.target.Start() }

// Pause delegates to the wrapped target.
func (ec *ExecutionControl) Pause() error { return ec.target.Pause() }

// Find walks ancestors of e (e included) for the nearest ExecutionControl
// annotation. Returns (nil, false) if none is found up to the root.
func Find(e *graph.Element) (*ExecutionControl, bool) {
	for n := e; n != nil; n = n.Parent() {
		if v, ok := n.Annotation(AnnotationKind); ok {
			if ec, ok := v.(*ExecutionControl); ok {
				return ec, true
			}
		}
	}
	return nil, false
}

// FindAll returns every ExecutionControl annotation found on ready
// descendants of root (root included).
func FindAll(root *graph.Element) []*ExecutionControl {
	var out []*ExecutionControl
	for _, e := range root.ReadyDescendants() {
		if v, ok := e.Annotation(AnnotationKind); ok {
			if ec, ok := v.(*ExecutionControl); ok {
				out = append(out, ec)
			}
		}
	}
	return out
}

// StartAll invokes Start on every control in cs whose running state is
// currently false. Idempotent.
func StartAll(cs []*ExecutionControl) {
	for _, ec := range cs {
		if !ec.IsRunning() {
			_ = ec.Start()
		}
	}
}

// PauseAll invokes Pause on every control in cs whose running state is
// currently true. Idempotent.
func PauseAll(cs []*ExecutionControl) {
	for _, ec := range cs {
		if ec.IsRunning() {
			_ = ec.Pause()
		}
	}
}
