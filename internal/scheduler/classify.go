package scheduler

import (
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/task"
)

// isSensorOrControllerInterface is the abort predicate for flooding: it
// stops propagation at any aggregator already classified as a sensor or
// controller interface.
func isSensorOrControllerInterface(agg *graph.Aggregator) bool {
	return agg.Flags().Has(graph.SensorData) || agg.Flags().Has(graph.ControllerData)
}

// classify runs the flooding pass over every discovered sense and control
// interface, then re-classifies the "other" set per the precedence rules
// in reclassifyOther.
func classify(d *discovery, sameContainer func(*graph.Element) bool) {
	flood(d.senseInterfaces, Forward, task.SenseDependent, sameContainer)
	flood(d.senseInterfaces, Reverse, task.SenseDependency, sameContainer)
	flood(d.controlInterfaces, Forward, task.ControlDependent, sameContainer)
	flood(d.controlInterfaces, Reverse, task.ControlDependency, sameContainer)

	reclassifyOther(d)
}

// flood propagates bit through the graph starting at every interface in
// interfaces, following dir. Tasks already classified SENSE or CONTROL are
// not overwritten and do not propagate further; any other task has bit
// unioned into its classification and the flood continues from its own
// declared interfaces.
func flood(interfaces map[*graph.Aggregator]bool, dir Direction, bit task.Classification, sameContainer func(*graph.Element) bool) {
	onTaskHit := func(pt *task.PeriodicTask) bool {
		if pt.Classification.Any(task.Sense | task.Control) {
			return false
		}
		pt.Classification |= bit
		return true
	}
	for agg := range interfaces {
		t := newTracer(dir, isSensorOrControllerInterface, sameContainer, onTaskHit)
		t.traceFrom(agg)
	}
}

// reclassifyOther applies the dependency/dependent precedence table to
// every task that was neither a declared sense nor a declared control
// task, moving it into
// initialTasks, senseTasks or controlTasks as appropriate. Tasks with
// neither dependency/dependent bit set remain in otherTasks.
func reclassifyOther(d *discovery) {
	var remaining []*task.PeriodicTask
	for _, pt := range d.otherTasks {
		c := pt.Classification
		hasSenseDep := c.Has(task.SenseDependency)
		hasSenseDt := c.Has(task.SenseDependent)
		hasCtrlDep := c.Has(task.ControlDependency)
		hasCtrlDt := c.Has(task.ControlDependent)

		switch {
		case hasSenseDep && hasSenseDt:
			d.senseTasks = append(d.senseTasks, pt)
		case hasCtrlDep && hasCtrlDt:
			d.controlTasks = append(d.controlTasks, pt)
		case hasSenseDep && hasCtrlDep && !hasSenseDt && !hasCtrlDt:
			d.initialTasks = append(d.initialTasks, pt)
		case hasSenseDep && hasCtrlDt:
			d.senseTasks = append(d.senseTasks, pt)
		case hasSenseDt && hasCtrlDep:
			d.controlTasks = append(d.controlTasks, pt)
		case hasSenseDep || hasSenseDt:
			d.senseTasks = append(d.senseTasks, pt)
		case hasCtrlDep || hasCtrlDt:
			d.controlTasks = append(d.controlTasks, pt)
		default:
			remaining = append(remaining, pt)
		}
	}
	d.otherTasks = remaining
}
