package main

import (
	"log/slog"
	"time"

	"github.com/care/orion-scheduler/internal/config"
	"github.com/care/orion-scheduler/internal/container"
	"github.com/care/orion-scheduler/internal/graph"
	"github.com/care/orion-scheduler/internal/ports"
	"github.com/care/orion-scheduler/internal/task"
)

// noopTask is an Executable standing in for real robot-control work: a
// named unit with an optional artificial delay, for exercising the
// scheduler end to end without any hardware behind it.
type noopTask struct {
	name  string
	delay time.Duration
}

func (t *noopTask) Execute() {
	if t.delay > 0 {
		time.Sleep(t.delay)
	}
	slog.Debug("scheduler: demo task executed", "task", t.name)
}

// buildDemoContainer wires a three-module sense -> other -> control chain
// (sensor -> middle -> controller) under a single ThreadContainer. Each
// module is an element owning its declared interface aggregators as
// children and carrying its own PeriodicTask annotation.
func buildDemoContainer(runtime *graph.Runtime, cfgC config.ContainerConfig, profiling *config.ProfilingFlag) *container.ThreadContainer {
	durationPort := ports.NewMemoryDurationPort()
	detailsPort := ports.NewMemoryDetailsPort()

	c := container.New(runtime.Root(), container.Options{
		Name:                  cfgC.Name,
		Runtime:               runtime,
		Realtime:              cfgC.RealtimeThread,
		WarnOnCycleTimeExceed: cfgC.WarnOnCycleTimeExceed,
		ProfilingEnabled:      profiling.Enabled,
		DurationPort:          durationPort,
		DetailsPort:           detailsPort,
	})
	_ = c.SetCycleTime(cfgC.CycleTime)

	sensorElem := graph.NewElement("SensorTask", graph.Ready)
	c.Element.Adopt(sensorElem)
	sensorIface := graph.NewAggregator("Out", graph.Interface|graph.SensorData|graph.EmitsData)
	sensorElem.Adopt(sensorIface.Element)
	outPort := sensorIface.NewPort("value", graph.EmitsData|graph.OutputPort)

	middleElem := graph.NewElement("MiddleTask", graph.Ready)
	c.Element.Adopt(middleElem)
	middleIn := graph.NewAggregator("In", graph.Interface|graph.AcceptsData)
	middleOut := graph.NewAggregator("Out", graph.Interface|graph.EmitsData)
	middleElem.Adopt(middleIn.Element)
	middleElem.Adopt(middleOut.Element)
	midInPort := middleIn.NewPort("value", graph.AcceptsData)
	midOutPort := middleOut.NewPort("value", graph.EmitsData)

	controlElem := graph.NewElement("ControlTask", graph.Ready)
	c.Element.Adopt(controlElem)
	controlIface := graph.NewAggregator("In", graph.Interface|graph.ControllerData|graph.AcceptsData)
	controlElem.Adopt(controlIface.Element)
	ctrlInPort := controlIface.NewPort("value", graph.AcceptsData)

	graph.Connect(outPort, midInPort)
	graph.Connect(midOutPort, ctrlInPort)

	sensorTask := task.New(sensorElem, &noopTask{name: "SensorTask"}, nil, sensorIface)
	sensorTask.SetDurationPort(ports.NewMemoryDurationPort())

	middleTask := task.New(middleElem, &noopTask{name: "MiddleTask", delay: time.Millisecond}, middleIn, middleOut)
	middleTask.SetDurationPort(ports.NewMemoryDurationPort())

	controlTask := task.New(controlElem, &noopTask{name: "ControlTask"}, controlIface, nil)
	controlTask.SetDurationPort(ports.NewMemoryDurationPort())

	return c
}
