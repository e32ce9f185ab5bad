package kernel

import "github.com/isus-ipanienko/seal/port"

// Metrics holds the optional runtime counters enabled by WithStats (§6.3).
// It adds no behavior of its own: nothing in the scheduler reads it back to
// make decisions, it is purely observational, modeled on the single
// snapshot-style counters block the host reactor keeps for itself.
type Metrics struct {
	// ContextSwitches is the total number of times scheduleLocked selected a
	// different task than was previously running.
	ContextSwitches uint64
	// Ticks is the number of times Tick has been called.
	Ticks uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

// TaskMetrics is a per-task snapshot returned by Kernel.TaskMetrics.
type TaskMetrics struct {
	ContextSwitches uint64
	HighWaterMark   uintptr
	// WaitTicks is the cumulative number of ticks this task has spent
	// READY but not selected, accumulated each time it is scheduled in.
	WaitTicks uint64
}

// Metrics returns a snapshot of the kernel-wide counters, or nil if the
// kernel was not built WithStats(true).
func (k *Kernel) Metrics() *Metrics {
	if k.metrics == nil {
		return nil
	}
	token := k.port.EnterCritical()
	snap := *k.metrics
	k.port.ExitCritical(token)
	return &snap
}

// TaskMetrics returns a snapshot of the named task's per-task counters, or
// nil if stats are disabled or id names no task.
func (k *Kernel) TaskMetrics(id port.TaskID) *TaskMetrics {
	if !k.cfg.enableStats {
		return nil
	}
	token := k.port.EnterCritical()
	t := k.taskByPortID(id)
	var out *TaskMetrics
	if t != nil && t.stats != nil {
		if profiler, ok := k.port.(port.StackProfiler); ok {
			t.stats.highWater = profiler.StackHighWater(id)
		}
		out = &TaskMetrics{
			ContextSwitches: t.stats.contextSwitches,
			HighWaterMark:   t.stats.highWater,
			WaitTicks:       t.stats.waitTicks,
		}
	}
	k.port.ExitCritical(token)
	return out
}
