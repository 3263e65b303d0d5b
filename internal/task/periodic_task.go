package task

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/care/orion-scheduler/internal/graph"
)

// AnnotationKind is the side-table key PeriodicTask annotations are stored
// under on their host graph.Element.
const AnnotationKind = "scheduler.PeriodicTask"

// Executable is a single side-effecting unit of periodic work.
type Executable interface {
	Execute()
}

// DurationPublisher publishes a task's last execution duration on its
// optional output port. Implemented by internal/ports.
type DurationPublisher interface {
	PublishDuration(d time.Duration)
}

// PeriodicTask attaches an executable unit, its declared data-flow
// interfaces and running profile state to a framework element.
type PeriodicTask struct {
	Element  *graph.Element
	Task     Executable
	Incoming []*graph.Aggregator
	Outgoing []*graph.Aggregator

	// Scheduling graph edges — scratch, mutated only by the scheduler
	// inside the structural lock and cleared at the top of every
	// rescheduling pass.
	Previous []*PeriodicTask
	Next     []*PeriodicTask

	// Classification — scratch, recomputed every reschedule.
	Classification Classification

	profileMu    sync.Mutex
	lastDur      time.Duration
	totalDur     time.Duration
	maxDur       time.Duration
	execCount    int64
	durationPort DurationPublisher
}

// New constructs a PeriodicTask from a single (incoming, outgoing)
// aggregator pair and attaches it to owner.
func New(owner *graph.Element, exec Executable, incoming, outgoing *graph.Aggregator) *PeriodicTask {
	var in, out []*graph.Aggregator
	if incoming != nil {
		in = []*graph.Aggregator{incoming}
	}
	if outgoing != nil {
		out = []*graph.Aggregator{outgoing}
	}
	return NewMulti(owner, exec, in, out)
}

// NewMulti constructs a PeriodicTask from ordered sequences of incoming and
// outgoing interface aggregators (either may be empty) and attaches it to
// owner.
func NewMulti(owner *graph.Element, exec Executable, incoming, outgoing []*graph.Aggregator) *PeriodicTask {
	pt := &PeriodicTask{
		Element:  owner,
		Task:     exec,
		Incoming: incoming,
		Outgoing: outgoing,
	}
	owner.SetAnnotation(AnnotationKind, pt)
	return pt
}

// Of returns the PeriodicTask annotation attached to e, if any.
func Of(e *graph.Element) (*PeriodicTask, bool) {
	v, ok := e.Annotation(AnnotationKind)
	if !ok {
		return nil, false
	}
	pt, ok := v.(*PeriodicTask)
	return pt, ok
}

// SetDurationPort attaches the optional output port this task publishes
// its last execution duration to.
func (t *PeriodicTask) SetDurationPort(p DurationPublisher) {
	t.durationPort = p
}

// IsSenseTask reports whether any referenced interface carries SensorData.
func (t *PeriodicTask) IsSenseTask() bool {
	return anyCarries(t.Incoming, t.Outgoing, graph.SensorData)
}

// IsControlTask reports whether any referenced interface carries
// ControllerData.
func (t *PeriodicTask) IsControlTask() bool {
	return anyCarries(t.Incoming, t.Outgoing, graph.ControllerData)
}

func anyCarries(incoming, outgoing []*graph.Aggregator, flag graph.Flag) bool {
	for _, a := range incoming {
		if a.Flags().Any(flag) {
			return true
		}
	}
	for _, a := range outgoing {
		if a.Flags().Any(flag) {
			return true
		}
	}
	return false
}

// LogDescription composes a description of this task for log messages,
// using the host element's qualified name.
func (t *PeriodicTask) LogDescription() string {
	return t.Element.QualifiedName()
}

// ResetSchedulingState clears Previous, Next and Classification — called by
// the scheduler at the start of every discovery pass.
func (t *PeriodicTask) ResetSchedulingState() {
	t.Previous = nil
	t.Next = nil
	t.Classification = 0
}

// RecordExecution updates the task's running profile totals after one
// execute() call and, if a duration port is attached, publishes the last
// duration.
func (t *PeriodicTask) RecordExecution(d time.Duration) {
	t.profileMu.Lock()
	t.lastDur = d
	t.totalDur += d
	if d > t.maxDur {
		t.maxDur = d
	}
	t.execCount++
	t.profileMu.Unlock()

	if t.durationPort != nil {
		t.durationPort.PublishDuration(d)
	}
}

// ProfileSnapshot returns the task's current running totals: last, max
// and average duration, total duration and execution count.
func (t *PeriodicTask) ProfileSnapshot() (last, max, avg, total time.Duration, count int64) {
	t.profileMu.Lock()
	defer t.profileMu.Unlock()
	if t.execCount > 0 {
		avg = t.totalDur / time.Duration(t.execCount)
	}
	return t.lastDur, t.maxDur, avg, t.totalDur, t.execCount
}

// Handle returns the UUID of the framework element this task is attached
// to, used as the wire identifier in TaskProfile records.
func (t *PeriodicTask) Handle() uuid.UUID {
	return t.Element.Handle()
}
