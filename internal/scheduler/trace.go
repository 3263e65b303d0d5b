package scheduler

import (
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/task"
)

// Direction selects which side of a port's connections a tracer follows.
type Direction int

const (
	// Forward follows a port's Outgoing connections.
	Forward Direction = iota
	// Reverse follows a port's Incoming connections.
	Reverse
)

// tracer implements the single traversal algorithm shared between the
// flooding pass and the dependency-tracing pass: a walk over a set of
// visited aggregators (never un-visited) that stops at task hosts, recurses through
// plain relay interfaces, and falls back to the ≥50% pure-input heuristic
// for event-triggered modules with no periodic task of their own.
type tracer struct {
	dir           Direction
	abort         func(*graph.Aggregator) bool
	sameContainer func(*graph.Element) bool

	// onTaskHit is invoked each time a task is reached through a
	// not-yet-visited aggregator, so a task reachable through several of
	// its interfaces can be reported more than once. It returns
	// true if the trace should continue past the task (flooding: seed
	// from the task's own declared interfaces) or false if the trace
	// should stop there (dependency tracing: the task is the answer).
	onTaskHit func(pt *task.PeriodicTask) bool

	visited map[*graph.Aggregator]bool
}

func newTracer(dir Direction, abort func(*graph.Aggregator) bool, sameContainer func(*graph.Element) bool, onTaskHit func(pt *task.PeriodicTask) bool) *tracer {
	return &tracer{
		dir:           dir,
		abort:         abort,
		sameContainer: sameContainer,
		onTaskHit:     onTaskHit,
		visited:       make(map[*graph.Aggregator]bool),
	}
}

// traceFrom walks outward from agg, following connections in t.dir.
func (t *tracer) traceFrom(agg *graph.Aggregator) {
	if agg == nil || t.visited[agg] {
		return
	}
	t.visited[agg] = true
	for _, port := range agg.Ports {
		conns := port.Outgoing
		if t.dir == Reverse {
			conns = port.Incoming
		}
		for _, dstPort := range conns {
			t.visitDestination(graph.AggregatorOf(dstPort))
		}
	}
}

func (t *tracer) visitDestination(dst *graph.Aggregator) {
	if dst == nil || t.visited[dst] {
		return
	}
	if t.abort != nil && t.abort(dst) {
		return
	}
	if t.sameContainer != nil && !t.sameContainer(dst.Element) {
		return
	}

	if pt, ok := task.Of(dst.Element); ok {
		t.visited[dst] = true
		if t.onTaskHit(pt) {
			t.seedFromTask(pt)
		}
		return
	}

	if dst.Flags().Any(graph.EdgeAggregator | graph.Interface) {
		if parent := dst.Parent(); parent != nil {
			if pt, ok := task.Of(parent); ok {
				t.visited[dst] = true
				if t.onTaskHit(pt) {
					t.seedFromTask(pt)
				}
				return
			}
		}
	}

	if t.hasFurtherConnections(dst) {
		t.traceFrom(dst)
		return
	}

	if looksLikeModuleInput(dst) {
		t.visited[dst] = true
		originMask := dst.Flags() & (graph.SensorData | graph.ControllerData)
		for _, sib := range dst.Siblings() {
			if !sib.Flags().Has(graph.Ready) {
				continue
			}
			if !sib.Flags().Any(graph.EdgeAggregator | graph.Interface) {
				continue
			}
			if sib.Flags()&originMask != originMask {
				continue
			}
			t.visitDestination(sib)
		}
		return
	}

	t.visited[dst] = true
}

// seedFromTask continues a flood past a relay task using the task's own
// declared interfaces: outgoing for a forward (dependent) flood, incoming
// for a reverse (dependency) flood.
func (t *tracer) seedFromTask(pt *task.PeriodicTask) {
	seeds := pt.Outgoing
	if t.dir == Reverse {
		seeds = pt.Incoming
	}
	for _, agg := range seeds {
		t.traceFrom(agg)
	}
}

func (t *tracer) hasFurtherConnections(agg *graph.Aggregator) bool {
	for _, p := range agg.Ports {
		if t.dir == Forward {
			if len(p.Outgoing) > 0 {
				return true
			}
		} else if len(p.Incoming) > 0 {
			return true
		}
	}
	return false
}

// looksLikeModuleInput implements the ≥50%-pure-inputs heuristic: it
// models event-triggered modules with no periodic task of their own that
// still pass data through.
func looksLikeModuleInput(agg *graph.Aggregator) bool {
	total, pureInputs := 0, 0
	for _, p := range agg.Ports {
		if !p.Flags.Any(graph.AcceptsData | graph.EmitsData) {
			continue
		}
		total++
		if p.IsPureInput() {
			pureInputs++
		}
	}
	if total == 0 {
		return false
	}
	return float64(pureInputs)/float64(total) >= 0.5
}
