package scheduler

import (
	"log/slog"

	"github.com/care/orion-scheduler/internal/task"
)

// toposortSegment produces a linear ordering of set honoring
// task.Previous/task.Next, breaking any remaining cycle by picking an
// arbitrary break point. Iteration always scans set in its original
// (discovery) order rather than map order, so the result is deterministic
// for a fixed input graph and fixed host iteration order.
func toposortSegment(set []*task.PeriodicTask) []*task.PeriodicTask {
	remaining := make(map[*task.PeriodicTask]bool, len(set))
	for _, t := range set {
		remaining[t] = true
	}

	out := make([]*task.PeriodicTask, 0, len(set))

	for len(remaining) > 0 {
		if picked := pickReady(set, remaining); picked != nil {
			out = append(out, picked)
			commit(picked, remaining)
			continue
		}

		breakPoint := breakCycle(set, remaining)
		out = append(out, breakPoint)
		commit(breakPoint, remaining)
	}

	return out
}

// pickReady scans set in discovery order for the first remaining task with
// no outstanding predecessors.
func pickReady(set []*task.PeriodicTask, remaining map[*task.PeriodicTask]bool) *task.PeriodicTask {
	for _, t := range set {
		if !remaining[t] {
			continue
		}
		if len(t.Previous) == 0 {
			return t
		}
	}
	return nil
}

// commit removes t from remaining and erases it from the Previous list of
// every task in t.Next.
func commit(t *task.PeriodicTask, remaining map[*task.PeriodicTask]bool) {
	delete(remaining, t)
	for _, n := range t.Next {
		n.Previous = removeTask(n.Previous, t)
	}
}

func removeTask(list []*task.PeriodicTask, t *task.PeriodicTask) []*task.PeriodicTask {
	out := list[:0]
	for _, e := range list {
		if e != t {
			out = append(out, e)
		}
	}
	return out
}

// breakCycle walks backwards from an arbitrary remaining task along
// previously-unseen predecessors until it finds one whose remaining
// predecessors are all already seen; that task is the chosen break point.
// It logs a warning naming the predecessor it was reached from and itself.
func breakCycle(set []*task.PeriodicTask, remaining map[*task.PeriodicTask]bool) *task.PeriodicTask {
	current := firstRemaining(set, remaining)
	seen := map[*task.PeriodicTask]bool{current: true}
	predecessor := current

	for {
		next := firstUnseenPrevious(current, seen, remaining)
		if next == nil {
			break
		}
		predecessor = current
		current = next
		seen[current] = true
	}

	slog.Warn("scheduler: breaking dependency cycle",
		"predecessor", predecessor.LogDescription(),
		"break_point", current.LogDescription(),
	)

	return current
}

func firstRemaining(set []*task.PeriodicTask, remaining map[*task.PeriodicTask]bool) *task.PeriodicTask {
	for _, t := range set {
		if remaining[t] {
			return t
		}
	}
	return nil
}

func firstUnseenPrevious(t *task.PeriodicTask, seen, remaining map[*task.PeriodicTask]bool) *task.PeriodicTask {
	for _, p := range t.Previous {
		if remaining[p] && !seen[p] {
			return p
		}
	}
	return nil
}
