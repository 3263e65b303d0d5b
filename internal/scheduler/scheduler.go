package scheduler

import (
	"github.com/care/orion-scheduler/internal/control"
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/task"
)

// Scheduler builds a Schedule for one container. It is invoked at the top
// of a cycle whose reschedule flag is set, while the container's
// ThreadWorker holds the runtime's structural read lock, so the graph
// cannot mutate mid-trace.
type Scheduler struct {
	runtime   *graph.Runtime
	container *graph.Element
	control   *control.ExecutionControl
}

// New creates a Scheduler for container, whose ExecutionControl is ctrl.
func New(runtime *graph.Runtime, container *graph.Element, ctrl *control.ExecutionControl) *Scheduler {
	return &Scheduler{runtime: runtime, container: container, control: ctrl}
}

// Reschedule runs discovery, flooding classification, dependency tracing
// and topological sort, and returns the resulting Schedule. Callers must
// hold the runtime's structural read lock for the duration of this call.
func (s *Scheduler) Reschedule() *Schedule {
	sameContainer := func(e *graph.Element) bool {
		owner, found := control.Find(e)
		return found && owner == s.control
	}

	d := discoverTasks(s.container, s.control)
	classify(d, sameContainer)
	buildDependencyGraph(d, sameContainer)

	return assemble(d)
}

// assemble runs the topological sort over each of the four task sets in
// order and concatenates the resulting segments, recording where each
// segment begins.
func assemble(d *discovery) *Schedule {
	sched := &Schedule{}

	segments := [4][]*task.PeriodicTask{
		0: toposortSegment(d.initialTasks),
		1: toposortSegment(d.senseTasks),
		2: toposortSegment(d.controlTasks),
		3: toposortSegment(d.otherTasks),
	}

	for i, seg := range segments {
		sched.TaskSetFirstIndex[i] = len(sched.Tasks)
		sched.Tasks = append(sched.Tasks, seg...)
	}

	return sched
}
