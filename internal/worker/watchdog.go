package worker

import (
	"log/slog"
	"sync"
	"time"
)

// watchdogCheckInterval is how often the watchdog polls its deadline. It
// is independent of any container's cycle period.
const watchdogCheckInterval = 500 * time.Millisecond

// watchdog independently observes a deadline set by the worker at the top
// of each cycle. If the deadline passes while still armed, it logs an
// error naming the task or element that was executing and deactivates
// itself — it never cancels, kills or restarts anything. A stuck cycle is
// a bug to diagnose, not something this package attempts to recover from.
type watchdog struct {
	mu       sync.Mutex
	deadline time.Time
	armed    bool
	current  string

	stop chan struct{}
	done chan struct{}
}

func newWatchdog() *watchdog {
	w := &watchdog{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go w.run()
	return w
}

// arm sets the deadline to now+budget and records a description of the
// work about to run, for the alert message if it fires.
func (w *watchdog) arm(now time.Time, budget time.Duration, description string) {
	w.mu.Lock()
	w.deadline = now.Add(budget)
	w.current = description
	w.armed = true
	w.mu.Unlock()
}

// disarm deactivates the watchdog without firing, called at the end of a
// cycle that completed within budget.
func (w *watchdog) disarm() {
	w.mu.Lock()
	w.armed = false
	w.mu.Unlock()
}

func (w *watchdog) run() {
	defer close(w.done)

	ticker := time.NewTicker(watchdogCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *watchdog) check() {
	w.mu.Lock()
	expired := w.armed && !w.deadline.IsZero() && time.Now().After(w.deadline)
	current := w.current
	if expired {
		w.armed = false
	}
	w.mu.Unlock()

	if expired {
		w.handleAlert(current)
	}
}

// handleAlert is the watchdog-task contract's entry point: log and
// deactivate, nothing more.
func (w *watchdog) handleAlert(current string) {
	slog.Error("scheduler: watchdog deadline exceeded, cycle appears stuck",
		"executing", current,
	)
}

func (w *watchdog) stopAndWait() {
	close(w.stop)
	<-w.done
}
