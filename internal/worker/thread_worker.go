// Package worker implements ThreadWorker: the per-container cycle loop
// that reschedules on demand, executes the current schedule, profiles it
// and supervises it with a watchdog.
package worker

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/care/orion-scheduler/internal/control"
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/scheduler"
	"github.com/care/orion-scheduler/internal/task"
)

// watchdogMargin is the fixed slack added on top of 4 cycle periods when
// arming the watchdog deadline.
const watchdogMargin = 4 * time.Second

// DurationPort is the narrow interface a container's "Execution Duration"
// output port must satisfy.
type DurationPort interface {
	PublishDuration(d time.Duration)
}

// DetailsPort is the narrow interface a container's optional "Details"
// output port must satisfy; only exercised while profiling is enabled.
type DetailsPort interface {
	PublishDetails(profiles []task.TaskProfile)
}

// Config collects everything a ThreadWorker needs to drive one container.
type Config struct {
	Runtime   *graph.Runtime
	Container *graph.Element
	Control   *control.ExecutionControl

	CyclePeriod           time.Duration
	WarnOnCycleTimeExceed bool
	ProfilingEnabled      func() bool

	DurationPort DurationPort
	DetailsPort  DetailsPort
}

// ThreadWorker owns one container's periodic cycle: it reschedules when
// told to, walks the current Schedule once per period, and keeps a
// watchdog armed for the duration of each cycle.
type ThreadWorker struct {
	cfg       Config
	scheduler *scheduler.Scheduler

	loop *loopDriver
	dog  *watchdog

	reschedule atomic.Bool

	schedule       *scheduler.Schedule
	executionCount int64
	lastCycleDur   time.Duration

	containerTotalDur time.Duration
	containerMaxDur   time.Duration
}

// New constructs a ThreadWorker for cfg.Container in the created state,
// with its watchdog goroutine already running. It does not start the
// cycle loop; call Start for that. Each ThreadWorker is meant to back a
// single start/stop session — callers construct a fresh one per session
// (see ThreadContainer.Start/ExecuteCycle).
func New(cfg Config) *ThreadWorker {
	w := &ThreadWorker{
		cfg:       cfg,
		scheduler: scheduler.New(cfg.Runtime, cfg.Container, cfg.Control),
		dog:       newWatchdog(),
	}
	w.reschedule.Store(true) // force a schedule build on the first cycle
	return w
}

// Start registers the worker as a runtime-change listener and enters the
// periodic loop on its own goroutine. The first cycle always runs
// unprofiled, since there is no prior cycle duration to report yet.
func (w *ThreadWorker) Start() {
	w.cfg.Runtime.RegisterListener(w)
	w.loop = newLoopDriver(w.cfg.CyclePeriod, w.cfg.WarnOnCycleTimeExceed, w.runCycle)
	go w.loop.run()
}

// Stop deregisters the worker, signals the loop to exit and blocks until
// it has, then deactivates the watchdog. Idempotent only in the sense the
// caller is expected to call it exactly once per Start, per ThreadContainer.
func (w *ThreadWorker) Stop() {
	w.cfg.Runtime.UnregisterListener(w)
	w.loop.stopAndWait()
	w.dog.stopAndWait()
}

// ExecuteOnce runs exactly one cycle synchronously, for ExecuteCycle's
// manual-tick path. The worker must not have been started.
func (w *ThreadWorker) ExecuteOnce() {
	defer w.dog.stopAndWait()
	w.runCycle(time.Now())
}

// runCycle is the worker's MainLoopCallback: reschedule if flagged, arm the
// watchdog, run the schedule profiled or unprofiled, then disarm.
func (w *ThreadWorker) runCycle(now time.Time) {
	if w.reschedule.CompareAndSwap(true, false) {
		w.cfg.Runtime.RLock()
		w.schedule = w.scheduler.Reschedule()
		w.cfg.Runtime.RUnlock()
	}

	budget := 4*w.cfg.CyclePeriod + watchdogMargin
	w.dog.arm(now, budget, w.cfg.Container.QualifiedName())

	firstCycle := w.executionCount == 0
	profiling := w.cfg.ProfilingEnabled != nil && w.cfg.ProfilingEnabled()

	if !profiling || firstCycle {
		w.runUnprofiled()
	} else {
		w.runProfiled()
	}

	w.executionCount++
	w.dog.disarm()
}

// runUnprofiled publishes the previous cycle's aggregate duration, then
// executes every task in order without measuring it individually.
func (w *ThreadWorker) runUnprofiled() {
	if w.cfg.DurationPort != nil {
		w.cfg.DurationPort.PublishDuration(w.lastCycleDur)
	}

	start := time.Now()
	for _, t := range w.schedule.Tasks {
		executeTaskSafely(t)
	}
	w.lastCycleDur = time.Since(start)
}

// executeTaskSafely runs t.Task.Execute, recovering a panic so one
// misbehaving task cannot take down the rest of the cycle or the worker
// goroutine.
func executeTaskSafely(t *task.PeriodicTask) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduler: task panicked, skipping rest of its cycle",
				"task", t.LogDescription(), "panic", r)
		}
	}()
	t.Task.Execute()
}

// runProfiled measures every task's execution, updates its running totals
// and builds the per-cycle profile vector: entry 0 is the container's own
// aggregate, entries 1..n mirror the schedule in order.
func (w *ThreadWorker) runProfiled() {
	buf := make([]task.TaskProfile, len(w.schedule.Tasks)+1)

	start := time.Now()
	for i, t := range w.schedule.Tasks {
		taskStart := time.Now()
		executeTaskSafely(t)
		d := time.Since(taskStart)
		t.RecordExecution(d)

		last, max, avg, total, _ := t.ProfileSnapshot()
		buf[i+1] = task.TaskProfile{
			Last:           last,
			Max:            max,
			Average:        avg,
			Total:          total,
			ElementHandle:  t.Handle(),
			Classification: task.ProfileOther,
		}
	}
	w.lastCycleDur = time.Since(start)

	for i := w.schedule.TaskSetFirstIndex[scheduler.SegmentSense]; i < w.schedule.TaskSetFirstIndex[scheduler.SegmentControl]; i++ {
		buf[i+1].Classification = task.ProfileSense
	}
	controlEnd := w.schedule.TaskSetFirstIndex[scheduler.SegmentOther]
	for i := w.schedule.TaskSetFirstIndex[scheduler.SegmentControl]; i < controlEnd; i++ {
		buf[i+1].Classification = task.ProfileControl
	}

	w.containerTotalDur += w.lastCycleDur
	if w.lastCycleDur > w.containerMaxDur {
		w.containerMaxDur = w.lastCycleDur
	}

	var containerAvg time.Duration
	if w.executionCount > 0 { // count-1 profiled cycles so far, excluding the first
		containerAvg = w.containerTotalDur / time.Duration(w.executionCount)
	}
	buf[0] = task.TaskProfile{
		Last:           w.lastCycleDur,
		Max:            w.containerMaxDur,
		Average:        containerAvg,
		Total:          w.containerTotalDur,
		ElementHandle:  w.cfg.Container.Handle(),
		Classification: task.ProfileOther,
	}

	if w.cfg.DurationPort != nil {
		w.cfg.DurationPort.PublishDuration(w.lastCycleDur)
	}
	if w.cfg.DetailsPort != nil {
		w.cfg.DetailsPort.PublishDetails(buf)
	}
}

// OnElementChange implements graph.Listener: a changed element marks a
// reschedule if it (or an ancestor relationship makes it) a PeriodicTask
// descendant of this worker's container.
func (w *ThreadWorker) OnElementChange(e *graph.Element) {
	if !e.IsDescendantOf(w.cfg.Container) {
		return
	}
	if _, ok := task.Of(e); !ok {
		return
	}
	w.markReschedule("element change", e.QualifiedName())
}

// OnConnectorChange implements graph.Listener: an edge between two ports
// both owned within this container's subtree marks a reschedule.
func (w *ThreadWorker) OnConnectorChange(src, dst *graph.Port) {
	srcOwner := src.Owner()
	dstOwner := dst.Owner()
	if srcOwner == nil || dstOwner == nil {
		return
	}
	if !srcOwner.Element.IsDescendantOf(w.cfg.Container) || !dstOwner.Element.IsDescendantOf(w.cfg.Container) {
		return
	}
	w.markReschedule("connector change", srcOwner.QualifiedName()+" -> "+dstOwner.QualifiedName())
}

// OnURIConnectorChange implements graph.Listener. Remote connector
// changes are observed but never trigger a reschedule.
func (w *ThreadWorker) OnURIConnectorChange() {}

func (w *ThreadWorker) markReschedule(reason, detail string) {
	w.reschedule.Store(true)
	slog.Debug("scheduler: reschedule flagged", "reason", reason, "detail", detail)
}

// ExecutionCount returns the number of cycles run so far.
func (w *ThreadWorker) ExecutionCount() int64 { return w.executionCount }
