package task

import (
	"testing"

	"github.com/care/orion-scheduler/internal/graph"
)

func newTestElement() *graph.Element {
	return graph.NewElement("T", graph.Ready)
}

type recordingExec struct{ runs int }

func (e *recordingExec) Execute() { e.runs++ }

func TestOfReturnsAttachedTask(t *testing.T) {
	elem := newTestElement()
	pt := New(elem, &recordingExec{}, nil, nil)

	found, ok := Of(elem)
	if !ok || found != pt {
		t.Fatalf("expected Of(elem) to return the attached task")
	}
}

func TestIsSenseAndControlTask(t *testing.T) {
	sensorIface := graph.NewAggregator("Sensor", graph.Interface|graph.SensorData)
	controllerIface := graph.NewAggregator("Controller", graph.Interface|graph.ControllerData)
	plainIface := graph.NewAggregator("Plain", graph.Interface)

	sense := New(newTestElement(), &recordingExec{}, nil, sensorIface)
	if !sense.IsSenseTask() {
		t.Errorf("expected sense task to report IsSenseTask")
	}
	if sense.IsControlTask() {
		t.Errorf("did not expect sense task to report IsControlTask")
	}

	ctrlTask := New(newTestElement(), &recordingExec{}, controllerIface, nil)
	if !ctrlTask.IsControlTask() {
		t.Errorf("expected control task to report IsControlTask")
	}

	plain := New(newTestElement(), &recordingExec{}, plainIface, plainIface)
	if plain.IsSenseTask() || plain.IsControlTask() {
		t.Errorf("did not expect plain task to be classified sense or control")
	}
}

func TestResetSchedulingStateClearsScratch(t *testing.T) {
	a := New(newTestElement(), &recordingExec{}, nil, nil)
	b := New(newTestElement(), &recordingExec{}, nil, nil)
	a.Next = []*PeriodicTask{b}
	b.Previous = []*PeriodicTask{a}
	a.Classification = Sense

	a.ResetSchedulingState()

	if a.Next != nil || a.Previous != nil || a.Classification != 0 {
		t.Errorf("expected scheduling scratch state cleared, got Next=%v Previous=%v Classification=%v",
			a.Next, a.Previous, a.Classification)
	}
}
