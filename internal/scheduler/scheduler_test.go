package scheduler

import (
	"testing"

	"github.com/care/orion-scheduler/internal/control"
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/task"
)

// countingExec is an Executable that records how many times it ran, for
// tests that only care about scheduling order, not side effects.
type countingExec struct{ runs int }

func (e *countingExec) Execute() { e.runs++ }

// fakeStartable is a minimal control.Startable for tests that need a
// container-like ExecutionControl anchor but never actually start/pause.
type fakeStartable struct{ running bool }

func (f *fakeStartable) IsRunning() bool { return f.running }
func (f *fakeStartable) Start() error    { f.running = true; return nil }
func (f *fakeStartable) Pause() error    { f.running = false; return nil }

// newContainer builds a ready container element with an ExecutionControl
// pointing at a fresh fakeStartable, adopted under root.
func newContainer(root *graph.Element, name string) (*graph.Element, *control.ExecutionControl) {
	c := graph.NewElement(name, graph.Ready)
	root.Adopt(c)
	ec := control.Attach(c, &fakeStartable{})
	return c, ec
}

// newModule creates a task-bearing element under parent, with one
// incoming and one outgoing interface aggregator (either may be omitted
// by passing 0 flags, in which case that side is left empty).
func newModule(parent *graph.Element, name string, inFlags, outFlags graph.Flag) (*graph.Element, *graph.Aggregator, *graph.Aggregator) {
	elem := graph.NewElement(name, graph.Ready)
	parent.Adopt(elem)

	var in, out *graph.Aggregator
	if inFlags != 0 {
		in = graph.NewAggregator(name+"In", graph.Interface|inFlags)
		elem.Adopt(in.Element)
		in.NewPort("value", inFlags)
	}
	if outFlags != 0 {
		out = graph.NewAggregator(name+"Out", graph.Interface|outFlags)
		elem.Adopt(out.Element)
		out.NewPort("value", outFlags)
	}
	return elem, in, out
}

func connect(from, to *graph.Aggregator) {
	graph.Connect(from.Ports[0], to.Ports[0])
}

func TestRescheduleLinearChain(t *testing.T) {
	root := graph.NewElement("root", graph.Ready)
	runtime := graph.NewRuntime(root)
	c, ec := newContainer(root, "C")

	aElem, _, aOut := newModule(c, "A", 0, graph.EmitsData)
	bElem, bIn, bOut := newModule(c, "B", graph.AcceptsData, graph.EmitsData)
	cElem, cIn, _ := newModule(c, "C2", graph.AcceptsData, 0)

	connect(aOut, bIn)
	connect(bOut, cIn)

	aTask := task.New(aElem, &countingExec{}, nil, aOut)
	bTask := task.New(bElem, &countingExec{}, bIn, bOut)
	cTask := task.New(cElem, &countingExec{}, cIn, nil)

	s := New(runtime, c, ec)
	sched := s.Reschedule()

	if sched.Len() != 3 {
		t.Fatalf("expected 3 scheduled tasks, got %d", sched.Len())
	}
	got := sched.Tasks
	want := []*task.PeriodicTask{aTask, bTask, cTask}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("position %d: expected %s, got %s", i, w.LogDescription(), got[i].LogDescription())
		}
	}
}

func TestRescheduleDiamond(t *testing.T) {
	root := graph.NewElement("root", graph.Ready)
	runtime := graph.NewRuntime(root)
	c, ec := newContainer(root, "C")

	aElem, _, aOut := newModule(c, "A", 0, graph.EmitsData)
	bElem, bIn, bOut := newModule(c, "B", graph.AcceptsData, graph.EmitsData)
	cElem, cIn, cOut := newModule(c, "Cm", graph.AcceptsData, graph.EmitsData)
	dElem, dIn, _ := newModule(c, "D", graph.AcceptsData, 0)

	// A feeds both B and Cm by sharing its single output port across two
	// connections.
	graph.Connect(aOut.Ports[0], bIn.Ports[0])
	graph.Connect(aOut.Ports[0], cIn.Ports[0])
	connect(bOut, dIn)
	connect(cOut, dIn)

	aTask := task.New(aElem, &countingExec{}, nil, aOut)
	task.New(bElem, &countingExec{}, bIn, bOut)
	task.New(cElem, &countingExec{}, cIn, cOut)
	dTask := task.New(dElem, &countingExec{}, dIn, nil)

	s := New(runtime, c, ec)
	sched := s.Reschedule()

	if sched.Len() != 4 {
		t.Fatalf("expected 4 scheduled tasks, got %d", sched.Len())
	}
	if sched.Tasks[0] != aTask {
		t.Errorf("expected A scheduled first, got %s", sched.Tasks[0].LogDescription())
	}
	if sched.Tasks[3] != dTask {
		t.Errorf("expected D scheduled last, got %s", sched.Tasks[3].LogDescription())
	}
}

func TestRescheduleSenseControlSplit(t *testing.T) {
	root := graph.NewElement("root", graph.Ready)
	runtime := graph.NewRuntime(root)
	c, ec := newContainer(root, "C")

	sElem, _, sOut := newModule(c, "S", 0, graph.SensorData|graph.EmitsData)
	mElem, mIn, mOut := newModule(c, "M", graph.AcceptsData, graph.EmitsData)
	kElem, kIn, _ := newModule(c, "K", graph.ControllerData|graph.AcceptsData, 0)

	connect(sOut, mIn)
	connect(mOut, kIn)

	sTask := task.New(sElem, &countingExec{}, nil, sOut)
	mTask := task.New(mElem, &countingExec{}, mIn, mOut)
	kTask := task.New(kElem, &countingExec{}, kIn, nil)

	s := New(runtime, c, ec)
	sched := s.Reschedule()

	if !sTask.IsSenseTask() {
		t.Fatalf("S should be a declared sense task")
	}
	if !kTask.IsControlTask() {
		t.Fatalf("K should be a declared control task")
	}

	senseSeg := sched.Segment(SegmentSense)
	if len(senseSeg) != 1 || senseSeg[0] != sTask {
		t.Errorf("expected sense segment [S], got %v", senseSeg)
	}

	controlSeg := sched.Segment(SegmentControl)
	if len(controlSeg) != 2 || controlSeg[0] != mTask || controlSeg[1] != kTask {
		t.Errorf("expected control segment [M, K], got %v", controlSeg)
	}

	if sched.Tasks[0] != sTask || sched.Tasks[1] != mTask || sched.Tasks[2] != kTask {
		t.Errorf("expected overall order [S, M, K], got %v", sched.Tasks)
	}
}

func TestRescheduleBreaksCycle(t *testing.T) {
	root := graph.NewElement("root", graph.Ready)
	runtime := graph.NewRuntime(root)
	c, ec := newContainer(root, "C")

	aElem, aIn, aOut := newModule(c, "A", graph.AcceptsData, graph.EmitsData)
	bElem, bIn, bOut := newModule(c, "B", graph.AcceptsData, graph.EmitsData)

	connect(aOut, bIn)
	connect(bOut, aIn)

	aTask := task.New(aElem, &countingExec{}, aIn, aOut)
	bTask := task.New(bElem, &countingExec{}, bIn, bOut)

	s := New(runtime, c, ec)
	sched := s.Reschedule()

	if sched.Len() != 2 {
		t.Fatalf("expected 2 scheduled tasks despite the cycle, got %d", sched.Len())
	}
	seen := map[*task.PeriodicTask]bool{}
	for _, pt := range sched.Tasks {
		seen[pt] = true
	}
	if !seen[aTask] || !seen[bTask] {
		t.Fatalf("expected both A and B in the schedule, got %v", sched.Tasks)
	}
}

func TestRescheduleExcludesNestedContainer(t *testing.T) {
	root := graph.NewElement("root", graph.Ready)
	runtime := graph.NewRuntime(root)
	outer, outerEC := newContainer(root, "Outer")

	xElem, _, _ := newModule(outer, "X", 0, 0)
	xTask := task.New(xElem, &countingExec{}, nil, nil)

	inner, _ := newContainer(outer, "Inner")
	yElem, _, _ := newModule(inner, "Y", 0, 0)
	task.New(yElem, &countingExec{}, nil, nil)

	s := New(runtime, outer, outerEC)
	sched := s.Reschedule()

	if sched.Len() != 1 || sched.Tasks[0] != xTask {
		t.Fatalf("expected only X in the outer schedule, got %v", sched.Tasks)
	}
}
