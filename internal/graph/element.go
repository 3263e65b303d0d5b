package graph

import (
	"strings"

	"github.com/google/uuid"
)

// Flag is a bitset of framework-element properties the scheduler core
// inspects while discovering and classifying tasks.
type Flag uint32

const (
	Ready Flag = 1 << iota
	Interface
	EdgeAggregator
	SensorData
	ControllerData
	AcceptsData
	EmitsData
	OutputPort
)

// Has reports whether all bits in mask are set.
func (f Flag) Has(mask Flag) bool {
	return f&mask == mask
}

// Any reports whether any bit in mask is set.
func (f Flag) Any(mask Flag) bool {
	return f&mask != 0
}

// Element is a node in the host's framework tree: a module, group,
// interface or port. Annotations (PeriodicTask, ExecutionControl, ...) are
// attached out of band via a typed side-table keyed by a string kind, per
// the design note on annotations attached to foreign nodes.
type Element struct {
	handle   uuid.UUID
	name     string
	parent   *Element
	children []*Element
	flags    Flag

	annotations map[string]any
}

// NewElement creates a detached element with a fresh handle. Use Adopt to
// place it in a tree.
func NewElement(name string, flags Flag) *Element {
	return &Element{
		handle:      uuid.New(),
		name:        name,
		flags:       flags,
		annotations: make(map[string]any),
	}
}

// Handle returns the element's stable, process-wide unique identifier.
func (e *Element) Handle() uuid.UUID { return e.handle }

// Name returns the element's local (non-qualified) name.
func (e *Element) Name() string { return e.name }

// Parent returns the element's parent, or nil at the root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element's direct children in discovery order.
func (e *Element) Children() []*Element { return e.children }

// Flags returns the element's flag bitset.
func (e *Element) Flags() Flag { return e.flags }

// SetFlags ORs additional flags onto the element.
func (e *Element) SetFlags(f Flag) { e.flags |= f }

// Adopt appends child as a new child of e, setting child's parent pointer.
// Callers that need structural-change notification should go through
// Runtime.AddElement instead of calling this directly.
func (e *Element) Adopt(child *Element) {
	child.parent = e
	e.children = append(e.children, child)
}

// QualifiedName joins this element's name with its ancestors', root first,
// for use in log descriptions.
func (e *Element) QualifiedName() string {
	var parts []string
	for n := e; n != nil; n = n.parent {
		parts = append([]string{n.name}, parts...)
	}
	return strings.Join(parts, "/")
}

// SetAnnotation attaches (or replaces) the annotation of the given kind.
func (e *Element) SetAnnotation(kind string, value any) {
	e.annotations[kind] = value
}

// Annotation returns the annotation of the given kind, if any.
func (e *Element) Annotation(kind string) (any, bool) {
	v, ok := e.annotations[kind]
	return v, ok
}

// RemoveAnnotation drops the annotation of the given kind, if present.
func (e *Element) RemoveAnnotation(kind string) {
	delete(e.annotations, kind)
}

// IsDescendantOf reports whether e is ancestor or a descendant of ancestor,
// walking parent pointers.
func (e *Element) IsDescendantOf(ancestor *Element) bool {
	for n := e; n != nil; n = n.parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// Subtree returns every descendant of e (e included), in depth-first
// pre-order over the children slices — the order the scheduler's
// deterministic tie-breaking is defined relative to.
func (e *Element) Subtree() []*Element {
	out := make([]*Element, 0, 1)
	var walk func(*Element)
	walk = func(n *Element) {
		out = append(out, n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(e)
	return out
}

// ReadyDescendants returns Subtree() filtered to elements carrying the
// Ready flag, e included.
func (e *Element) ReadyDescendants() []*Element {
	all := e.Subtree()
	out := make([]*Element, 0, len(all))
	for _, n := range all {
		if n.flags.Has(Ready) {
			out = append(out, n)
		}
	}
	return out
}
