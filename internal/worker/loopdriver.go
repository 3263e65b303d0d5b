package worker

import (
	"log/slog"
	"time"
)

// MainLoopCallback is one cycle of periodic work: reschedule-if-needed,
// execute the schedule, publish profiling. ThreadWorker.runCycle is the
// only implementation; execute_cycle's synthesized worker calls it once
// outside the loop.
type MainLoopCallback func(now time.Time)

// loopDriver ticks a MainLoopCallback at a fixed period, on its own
// goroutine, until stopped. It is the "periodic loop thread" primitive
// ThreadWorker.Start builds on; the manual single-cycle path
// (ThreadWorker.ExecuteOnce) calls the callback directly instead.
type loopDriver struct {
	period       time.Duration
	callback     MainLoopCallback
	warnOnExceed bool

	stop chan struct{}
	done chan struct{}
}

func newLoopDriver(period time.Duration, warnOnExceed bool, cb MainLoopCallback) *loopDriver {
	return &loopDriver{
		period:       period,
		callback:     cb,
		warnOnExceed: warnOnExceed,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// run drives the ticker loop until stopAndWait is called. It is meant to be
// launched with `go`.
func (d *loopDriver) run() {
	defer close(d.done)

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case boundary := <-ticker.C:
			d.tick(boundary)
		}
	}
}

func (d *loopDriver) tick(boundary time.Time) {
	start := time.Now()
	d.callback(start)
	if d.warnOnExceed {
		if elapsed := time.Since(start); elapsed > d.period {
			slog.Warn("scheduler: cycle time exceeded",
				"period", d.period,
				"elapsed", elapsed,
			)
		}
	}
}

// stopAndWait signals the loop to exit and blocks until it has.
func (d *loopDriver) stopAndWait() {
	close(d.stop)
	<-d.done
}
