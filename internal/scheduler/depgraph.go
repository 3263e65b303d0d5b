package scheduler

import (
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/task"
)

// buildDependencyGraph runs the tracing pass for each of the four task
// sets in order, wiring Previous/Next edges between tasks of the same set.
// Sense tracing aborts at controller interfaces and control tracing aborts
// at sensor interfaces, so the two partitions never cross; initial and
// other tracing are unrestricted.
func buildDependencyGraph(d *discovery, sameContainer func(*graph.Element) bool) {
	traceSet(d.initialTasks, nil, sameContainer)
	traceSet(d.senseTasks, abortAtControllerInterface, sameContainer)
	traceSet(d.controlTasks, abortAtSensorInterface, sameContainer)
	traceSet(d.otherTasks, nil, sameContainer)
}

func abortAtControllerInterface(agg *graph.Aggregator) bool {
	return agg.Flags().Has(graph.ControllerData)
}

func abortAtSensorInterface(agg *graph.Aggregator) bool {
	return agg.Flags().Has(graph.SensorData)
}

// traceSet wires Previous/Next edges within a single task set: for every
// task t, every outgoing aggregator is traced forward until a task in the
// same set is reached.
func traceSet(set []*task.PeriodicTask, abort func(*graph.Aggregator) bool, sameContainer func(*graph.Element) bool) {
	inSet := make(map[*task.PeriodicTask]bool, len(set))
	for _, t := range set {
		inSet[t] = true
	}

	for _, t := range set {
		onTaskHit := func(from *task.PeriodicTask) func(*task.PeriodicTask) bool {
			return func(hit *task.PeriodicTask) bool {
				if !inSet[hit] {
					return true // relay: not in this set, keep tracing past it
				}
				if hit == from {
					return false // a task never depends on itself
				}
				wireEdge(from, hit)
				return false
			}
		}(t)

		for _, agg := range t.Outgoing {
			tr := newTracer(Forward, abort, sameContainer, onTaskHit)
			tr.traceFrom(agg)
		}
	}
}

// wireEdge appends hit to from.Next and from to hit.Previous, deduplicated.
func wireEdge(from, hit *task.PeriodicTask) {
	if !containsTask(from.Next, hit) {
		from.Next = append(from.Next, hit)
	}
	if !containsTask(hit.Previous, from) {
		hit.Previous = append(hit.Previous, from)
	}
}

func containsTask(list []*task.PeriodicTask, t *task.PeriodicTask) bool {
	for _, e := range list {
		if e == t {
			return true
		}
	}
	return false
}
