// Package container implements ThreadContainer: a framework element that
// is also startable/pausable, owning at most one live ThreadWorker.
package container

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/care/orion-scheduler/internal/control"
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/worker"
)

// defaultCycleTime is the period a new ThreadContainer starts with before
// any SetCycleTime call.
const defaultCycleTime = 40 * time.Millisecond

// minCycleTime and maxCycleTime bound SetCycleTime.
const (
	minCycleTime time.Duration = 0
	maxCycleTime               = 60 * time.Second
)

// ThreadContainer owns one periodic worker thread. It is both a
// graph.Element (an interior node of the framework tree) and a
// control.Startable, via the ExecutionControl annotation its constructor
// attaches to itself.
type ThreadContainer struct {
	*graph.Element

	runtime *graph.Runtime

	realtime              bool
	warnOnCycleTimeExceed bool

	durationPort worker.DurationPort
	detailsPort  worker.DetailsPort
	profiling    func() bool

	lifecycleMu  sync.Mutex
	cyclePeriod  time.Duration
	activeWorker *worker.ThreadWorker
}

// Options configures a new ThreadContainer. ProfilingEnabled may be nil,
// in which case profiling is always treated as disabled.
type Options struct {
	Name                  string
	Runtime               *graph.Runtime
	Flags                 graph.Flag
	Realtime              bool
	WarnOnCycleTimeExceed bool
	ProfilingEnabled      func() bool
	DurationPort          worker.DurationPort
	DetailsPort           worker.DetailsPort
}

// New creates a ThreadContainer, adopts it under parent (if non-nil), and
// attaches an ExecutionControl annotation pointing to itself.
func New(parent *graph.Element, opts Options) *ThreadContainer {
	elem := graph.NewElement(opts.Name, opts.Flags|graph.Ready)
	if parent != nil {
		parent.Adopt(elem)
	}

	c := &ThreadContainer{
		Element:               elem,
		runtime:                opts.Runtime,
		realtime:               opts.Realtime,
		warnOnCycleTimeExceed:  opts.WarnOnCycleTimeExceed,
		durationPort:           opts.DurationPort,
		detailsPort:            opts.DetailsPort,
		profiling:              opts.ProfilingEnabled,
		cyclePeriod:            defaultCycleTime,
	}
	control.Attach(elem, c)
	return c
}

// IsRunning implements control.Startable.
func (c *ThreadContainer) IsRunning() bool {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	return c.activeWorker != nil
}

// Start implements control.Startable. It fails soft (logs a warning,
// returns nil) if already running; otherwise it constructs and starts a
// ThreadWorker, releasing the lifecycle mutex before calling Start on it
// so the worker's goroutine never needs to re-enter this mutex.
func (c *ThreadContainer) Start() error {
	c.lifecycleMu.Lock()
	if c.activeWorker != nil {
		c.lifecycleMu.Unlock()
		slog.Warn("scheduler: start requested on already-running container", "container", c.QualifiedName())
		return nil
	}

	ec, _ := control.Find(c.Element)
	w := worker.New(worker.Config{
		Runtime:               c.runtime,
		Container:              c.Element,
		Control:                ec,
		CyclePeriod:            c.cyclePeriod,
		WarnOnCycleTimeExceed:  c.warnOnCycleTimeExceed,
		ProfilingEnabled:       c.profiling,
		DurationPort:           c.durationPort,
		DetailsPort:            c.detailsPort,
	})
	c.activeWorker = w
	c.lifecycleMu.Unlock()

	w.Start()
	slog.Info("scheduler: container started", "container", c.QualifiedName(), "realtime", c.realtime, "cycle_period", c.cyclePeriod)
	return nil
}

// Pause implements control.Startable. It requests the worker to stop and
// joins it before returning.
func (c *ThreadContainer) Pause() error {
	c.lifecycleMu.Lock()
	w := c.activeWorker
	c.activeWorker = nil
	c.lifecycleMu.Unlock()

	if w == nil {
		return nil
	}
	w.Stop()
	slog.Info("scheduler: container paused", "container", c.QualifiedName())
	return nil
}

// SetCycleTime sets the period used by the next Start. It has no effect
// on an already-running worker.
func (c *ThreadContainer) SetCycleTime(period time.Duration) error {
	if period < minCycleTime || period > maxCycleTime {
		return fmt.Errorf("scheduler: cycle time %s out of bounds [%s, %s]", period, minCycleTime, maxCycleTime)
	}
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	c.cyclePeriod = period
	return nil
}

// CycleTime returns the configured cycle period.
func (c *ThreadContainer) CycleTime() time.Duration {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()
	return c.cyclePeriod
}

// ExecuteCycle runs exactly one cycle synchronously via a transient
// worker, for tests. It is forbidden while a worker is live.
func (c *ThreadContainer) ExecuteCycle() error {
	c.lifecycleMu.Lock()
	if c.activeWorker != nil {
		c.lifecycleMu.Unlock()
		return fmt.Errorf("scheduler: execute_cycle forbidden while the worker is live")
	}
	ec, _ := control.Find(c.Element)
	w := worker.New(worker.Config{
		Runtime:               c.runtime,
		Container:              c.Element,
		Control:                ec,
		CyclePeriod:            c.cyclePeriod,
		WarnOnCycleTimeExceed:  c.warnOnCycleTimeExceed,
		ProfilingEnabled:       c.profiling,
		DurationPort:           c.durationPort,
		DetailsPort:            c.detailsPort,
	})
	c.lifecycleMu.Unlock()

	w.ExecuteOnce()
	return nil
}
