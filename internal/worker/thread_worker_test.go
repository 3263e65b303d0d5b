package worker

import (
	"testing"
	"time"

	"github.com/care/orion-scheduler/internal/control"
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/task"
)

type countingExec struct{ runs int }

func (e *countingExec) Execute() { e.runs++ }

type panickingExec struct{ runs int }

func (e *panickingExec) Execute() {
	e.runs++
	panic("boom")
}

type fakeStartable struct{ running bool }

func (f *fakeStartable) IsRunning() bool { return f.running }
func (f *fakeStartable) Start() error    { f.running = true; return nil }
func (f *fakeStartable) Pause() error    { f.running = false; return nil }

type memDurationPort struct{ last time.Duration }

func (p *memDurationPort) PublishDuration(d time.Duration) { p.last = d }

type memDetailsPort struct{ last []task.TaskProfile }

func (p *memDetailsPort) PublishDetails(profiles []task.TaskProfile) { p.last = profiles }

// newTestWorker builds a ThreadWorker over a single-task container, with
// profiling fixed on or off by the profiling argument.
func newTestWorker(t *testing.T, profiling bool) (*ThreadWorker, *countingExec, *memDetailsPort) {
	t.Helper()

	root := graph.NewElement("root", graph.Ready)
	runtime := graph.NewRuntime(root)
	c := graph.NewElement("C", graph.Ready)
	root.Adopt(c)
	ec := control.Attach(c, &fakeStartable{})

	taskElem := graph.NewElement("T", graph.Ready)
	c.Adopt(taskElem)
	exec := &countingExec{}
	task.New(taskElem, exec, nil, nil)

	details := &memDetailsPort{}
	w := New(Config{
		Runtime:          runtime,
		Container:        c,
		Control:          ec,
		CyclePeriod:      10 * time.Millisecond,
		ProfilingEnabled: func() bool { return profiling },
		DurationPort:     &memDurationPort{},
		DetailsPort:      details,
	})
	return w, exec, details
}

func TestFirstCycleNeverProfiles(t *testing.T) {
	w, exec, details := newTestWorker(t, true)

	w.runCycle(time.Now())

	if exec.runs != 1 {
		t.Fatalf("expected task to run once, ran %d times", exec.runs)
	}
	if details.last != nil {
		t.Errorf("expected no details published on the first cycle, got %v", details.last)
	}
	if w.ExecutionCount() != 1 {
		t.Errorf("expected execution count 1, got %d", w.ExecutionCount())
	}
}

func TestProfilingAfterFirstCycle(t *testing.T) {
	w, exec, details := newTestWorker(t, true)

	w.runCycle(time.Now()) // cycle 1: unprofiled
	w.runCycle(time.Now()) // cycle 2: profiled
	w.runCycle(time.Now()) // cycle 3: profiled

	if exec.runs != 3 {
		t.Fatalf("expected task to run 3 times, ran %d", exec.runs)
	}
	if details.last == nil {
		t.Fatalf("expected details published by cycle 3")
	}
	if len(details.last) != 2 {
		t.Fatalf("expected a 2-entry profile vector (container + 1 task), got %d", len(details.last))
	}

	containerEntry := details.last[0]
	wantAvg := containerEntry.Total / time.Duration(w.ExecutionCount()-1)
	if containerEntry.Average != wantAvg {
		t.Errorf("expected container average %s (total/%d profiled cycles), got %s",
			wantAvg, w.ExecutionCount()-1, containerEntry.Average)
	}
}

func TestProfilingDisabledNeverBuildsDetails(t *testing.T) {
	w, exec, details := newTestWorker(t, false)

	w.runCycle(time.Now())
	w.runCycle(time.Now())
	w.runCycle(time.Now())

	if exec.runs != 3 {
		t.Fatalf("expected task to run 3 times, ran %d", exec.runs)
	}
	if details.last != nil {
		t.Errorf("expected no details published while profiling is disabled, got %v", details.last)
	}
}

func TestExecuteOnceRunsASingleCycle(t *testing.T) {
	w, exec, _ := newTestWorker(t, false)

	w.ExecuteOnce()

	if exec.runs != 1 {
		t.Fatalf("expected exactly one execution, got %d", exec.runs)
	}
	if w.ExecutionCount() != 1 {
		t.Errorf("expected execution count 1, got %d", w.ExecutionCount())
	}
}

func TestPanickingTaskDoesNotAbortTheCycle(t *testing.T) {
	root := graph.NewElement("root", graph.Ready)
	runtime := graph.NewRuntime(root)
	c := graph.NewElement("C", graph.Ready)
	root.Adopt(c)
	ec := control.Attach(c, &fakeStartable{})

	badElem := graph.NewElement("Bad", graph.Ready)
	c.Adopt(badElem)
	bad := &panickingExec{}
	task.New(badElem, bad, nil, nil)

	goodElem := graph.NewElement("Good", graph.Ready)
	c.Adopt(goodElem)
	good := &countingExec{}
	task.New(goodElem, good, nil, nil)

	w := New(Config{
		Runtime:     runtime,
		Container:   c,
		Control:     ec,
		CyclePeriod: 10 * time.Millisecond,
	})

	w.ExecuteOnce()

	if bad.runs != 1 {
		t.Errorf("expected the panicking task to have run once, ran %d", bad.runs)
	}
	if good.runs != 1 {
		t.Errorf("expected the task after the panicking one to still run, ran %d", good.runs)
	}
}
