package scheduler

import (
	"github.com/care/orion-scheduler/internal/control"
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/task"
)

// discovery holds the scratch sets built while walking a container's
// subtree.
type discovery struct {
	initialTasks, senseTasks, controlTasks, otherTasks []*task.PeriodicTask
	senseInterfaces, controlInterfaces                 map[*graph.Aggregator]bool
}

// discoverTasks walks every ready descendant of container, skipping
// elements owned by a nested container, and files each PeriodicTask it
// finds into one of the four scratch sets. It also seeds the sense/control
// interface sets from every descendant interface carrying SensorData or
// ControllerData, plus the interfaces the classified tasks themselves
// declare.
func discoverTasks(container *graph.Element, containerControl *control.ExecutionControl) *discovery {
	d := &discovery{
		senseInterfaces:   make(map[*graph.Aggregator]bool),
		controlInterfaces: make(map[*graph.Aggregator]bool),
	}

	for _, e := range container.ReadyDescendants() {
		if agg, ok := graph.AsAggregator(e); ok {
			if agg.Flags().Has(graph.SensorData) {
				d.senseInterfaces[agg] = true
			}
			if agg.Flags().Has(graph.ControllerData) {
				d.controlInterfaces[agg] = true
			}
		}

		pt, ok := task.Of(e)
		if !ok {
			continue
		}
		if owner, found := control.Find(e); !found || owner != containerControl {
			// Nested container: this task belongs to a different,
			// nested ExecutionControl. Skip it.
			continue
		}

		pt.ResetSchedulingState()

		for _, agg := range pt.Incoming {
			if agg.Flags().Has(graph.SensorData) {
				d.senseInterfaces[agg] = true
			}
			if agg.Flags().Has(graph.ControllerData) {
				d.controlInterfaces[agg] = true
			}
		}
		for _, agg := range pt.Outgoing {
			if agg.Flags().Has(graph.SensorData) {
				d.senseInterfaces[agg] = true
			}
			if agg.Flags().Has(graph.ControllerData) {
				d.controlInterfaces[agg] = true
			}
		}

		switch {
		case pt.IsSenseTask():
			pt.Classification = task.Sense
			d.senseTasks = append(d.senseTasks, pt)
		case pt.IsControlTask():
			pt.Classification = task.Control
			d.controlTasks = append(d.controlTasks, pt)
		default:
			d.otherTasks = append(d.otherTasks, pt)
		}
	}

	return d
}
