// Package ports implements the typed output-port machinery the scheduler
// publishes cycle duration and profile records to. The host application is
// expected to supply its own sink; this package supplies a small concrete
// one so the module is runnable end to end.
package ports

import (
	"sync"
	"time"

	"github.com/care/orion-scheduler/internal/task"
)

// DurationSink is an OUTPUT_PORT | EMITS_DATA port publishing the last
// cycle's (or task's) aggregate duration.
type DurationSink interface {
	task.DurationPublisher
	Last() time.Duration
}

// DetailsSink is the "Details" port: a vector of TaskProfile, present only
// when profiling is enabled.
type DetailsSink interface {
	PublishDetails(profiles []task.TaskProfile)
	Last() []task.TaskProfile
}

// MemoryDurationPort is an in-process DurationSink: it simply remembers
// the last published value, for tests and for the CLI's demo container.
type MemoryDurationPort struct {
	mu   sync.RWMutex
	last time.Duration
}

// NewMemoryDurationPort creates an empty MemoryDurationPort.
func NewMemoryDurationPort() *MemoryDurationPort { return &MemoryDurationPort{} }

// PublishDuration implements task.DurationPublisher.
func (p *MemoryDurationPort) PublishDuration(d time.Duration) {
	p.mu.Lock()
	p.last = d
	p.mu.Unlock()
}

// Last returns the last published duration.
func (p *MemoryDurationPort) Last() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// MemoryDetailsPort is an in-process DetailsSink used for tests and by the
// CLI's demo container.
type MemoryDetailsPort struct {
	mu   sync.RWMutex
	last []task.TaskProfile
}

// NewMemoryDetailsPort creates an empty MemoryDetailsPort.
func NewMemoryDetailsPort() *MemoryDetailsPort { return &MemoryDetailsPort{} }

// PublishDetails implements DetailsSink.
func (p *MemoryDetailsPort) PublishDetails(profiles []task.TaskProfile) {
	p.mu.Lock()
	p.last = profiles
	p.mu.Unlock()
}

// Last returns the last published profile vector.
func (p *MemoryDetailsPort) Last() []task.TaskProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}
