// Package scheduler implements the rescheduling algorithm: task discovery,
// classification by flooding, dependency tracing and topological sort with
// loop breaking. It is the hard core of this module.
package scheduler

import "github.com/care/orion-scheduler/internal/task"

// Segment identifies one of the four contiguous partitions of a Schedule.
type Segment int

const (
	SegmentInitial Segment = iota
	SegmentSense
	SegmentControl
	SegmentOther
	segmentCount
)

// Schedule is the linear execution order produced by one rescheduling
// pass: a sequence of tasks partitioned into four contiguous segments.
type Schedule struct {
	Tasks []*task.PeriodicTask

	// TaskSetFirstIndex[s] is the index into Tasks where segment s
	// begins; segments are contiguous and non-decreasing.
	TaskSetFirstIndex [4]int
}

// Segment returns the sub-slice of Tasks belonging to s.
func (s *Schedule) Segment(seg Segment) []*task.PeriodicTask {
	start := s.TaskSetFirstIndex[seg]
	end := len(s.Tasks)
	if int(seg)+1 < len(s.TaskSetFirstIndex) {
		end = s.TaskSetFirstIndex[seg+1]
	}
	return s.Tasks[start:end]
}

// Len returns the total number of scheduled tasks.
func (s *Schedule) Len() int { return len(s.Tasks) }
