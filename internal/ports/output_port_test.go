package ports

import (
	"testing"
	"time"

	"github.com/care/orion-scheduler/internal/task"
)

func TestMemoryDurationPortRemembersLast(t *testing.T) {
	p := NewMemoryDurationPort()
	if p.Last() != 0 {
		t.Fatalf("expected zero value before any publish")
	}

	p.PublishDuration(5 * time.Millisecond)
	if p.Last() != 5*time.Millisecond {
		t.Errorf("expected last duration 5ms, got %s", p.Last())
	}

	p.PublishDuration(10 * time.Millisecond)
	if p.Last() != 10*time.Millisecond {
		t.Errorf("expected last duration 10ms, got %s", p.Last())
	}
}

func TestMemoryDetailsPortRemembersLast(t *testing.T) {
	p := NewMemoryDetailsPort()
	if p.Last() != nil {
		t.Fatalf("expected nil before any publish")
	}

	profiles := []task.TaskProfile{{Classification: task.ProfileSense}}
	p.PublishDetails(profiles)

	got := p.Last()
	if len(got) != 1 || got[0].Classification != task.ProfileSense {
		t.Errorf("expected published profile vector to be remembered, got %v", got)
	}
}
