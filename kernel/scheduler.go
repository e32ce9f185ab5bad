package kernel

import "github.com/isus-ipanienko/seal/port"

// makeReady transitions task into TaskReady and appends it to the tail of
// its current-priority queue, updating the ready set. Caller must hold the
// critical section.
func (k *Kernel) makeReady(t *TCB) {
	t.State = TaskReady
	k.queues[t.CurrPrio].pushBack(t)
	k.ready.markReady(t.CurrPrio)
	if t.stats != nil {
		t.stats.readySince = int64(k.tickCount)
	}
}

// unreadyRemove removes task from its current-priority queue (used when a
// READY task is about to become something else, e.g. selected to run, or
// promoted/demoted by priority inheritance). Caller must hold the critical
// section.
func (k *Kernel) unreadyRemove(t *TCB) {
	k.queues[t.CurrPrio].remove(t)
	if k.queues[t.CurrPrio].empty() {
		k.ready.markUnready(t.CurrPrio)
	}
}

// headOfHighest returns the head of the highest-priority non-empty queue,
// or nil if the ready set is empty (never observed in steady state: the
// idle task is always ready).
func (k *Kernel) headOfHighest() *TCB {
	if k.ready.empty() {
		return nil
	}
	return k.queues[k.ready.highest()].head
}

// scheduleLocked implements the selection policy of §4.3: strict fixed
// priority, FIFO within a level, no time-slicing. Caller must hold the
// critical section. Returns whether a switch is needed and the previous and
// newly-selected tasks.
//
// self, when non-nil, is the TCB of the task-context caller driving this
// re-evaluation (Sleep, MutexTake/Give, SemaphoreTake/Give, Yield). On real
// hardware self always equals k.currTask at this point — a task-context
// kernel call cannot be executing at all unless it is the selected task, ISR
// preemption having already halted anything else. A host port built on
// goroutines cannot make that guarantee that strongly (see hostport's
// package doc): an already-preempted task's goroutine keeps running until
// its own next kernel call, by which point k.currTask may already name a
// different task. Passing self lets that call still correctly detect "I am
// no longer selected" and park, instead of silently no-opping because the
// stale k.currTask happens to already equal the newly-selected task. ISR
// re-evaluation (ExitISR) has no task-context caller and passes nil, which
// falls back to comparing against k.currTask as before.
func (k *Kernel) scheduleLocked(self *TCB) (changed bool, from, to *TCB) {
	to = k.headOfHighest()
	k.nextTask = to
	from = k.currTask
	if self != nil {
		from = self
	}
	if to == from {
		return false, from, to
	}
	k.currTask = to
	// from stays physically at the head of its own priority queue (a
	// RUNNING task is never unlinked from its queue — see makeReady/
	// unreadyRemove), it just reverts to READY now that it is not selected.
	if from != nil && from.State == TaskRunning {
		from.State = TaskReady
		if from.stats != nil {
			from.stats.readySince = int64(k.tickCount)
		}
	}
	if to != nil {
		if k.cfg.enableStats && to.stats != nil {
			if elapsed := int64(k.tickCount) - to.stats.readySince; elapsed > 0 {
				to.stats.waitTicks += uint64(elapsed)
			}
			to.stats.contextSwitches++
		}
		to.State = TaskRunning
	}
	if k.metrics != nil {
		k.metrics.ContextSwitches++
	}
	logContextSwitch(from, to)
	return true, from, to
}

func idOf(t *TCB) (port.TaskID, bool) {
	if t == nil {
		return 0, false
	}
	return t.ID, true
}

// yieldSelf implements the round-robin-within-a-level half of §4.3: t
// (which must be the calling task, currently RUNNING and so still at the
// head of its own priority queue) moves to the tail of that same queue
// before the scheduler re-evaluates, giving any other READY task at the
// same level its turn. Preemption by a strictly higher priority never needs
// this: it only ever depends on that other queue becoming non-empty.
func (k *Kernel) yieldSelf(t *TCB) {
	token := k.port.EnterCritical()
	// t is RUNNING, so it is guaranteed to be physically at the head of its
	// own priority queue (see scheduleLocked); popFront is therefore exactly
	// "detach t", not an arbitrary-element removal.
	k.queues[t.CurrPrio].popFront()
	k.queues[t.CurrPrio].pushBack(t)
	k.port.ExitCritical(token)
	k.schedule(t)
}

// schedule is §4.3's public schedule() operation: called from any non-ISR
// task context (directly via TaskContext.Yield, or implicitly after every
// blocking primitive), identifying the calling task as self (see
// scheduleLocked). Suppressed while an ISR is active; the outermost ExitISR
// reruns it instead.
func (k *Kernel) schedule(self *TCB) {
	if k.isrNesting > 0 {
		return
	}
	token := k.port.EnterCritical()
	changed, from, to := k.scheduleLocked(self)
	k.port.ExitCritical(token)
	if !changed {
		return
	}
	fromID, fromValid := idOf(from)
	if err := k.port.ContextSwitch(fromID, to.ID, fromValid); err != nil {
		k.Panic(PanicQueueInvariant, "context switch failed: "+err.Error())
	}
}

// EnterISR brackets the start of every kernel-aware ISR (§6.1). Nesting
// beyond MaxISRNesting is fatal.
func (k *Kernel) EnterISR() {
	token := k.port.EnterCritical()
	if k.isrNesting >= MaxISRNesting {
		k.port.ExitCritical(token)
		k.Panic(PanicISROverflow, "enter_isr nesting exceeded MaxISRNesting")
		return
	}
	k.isrNesting++
	k.port.ExitCritical(token)
}

// ExitISR brackets the end of every kernel-aware ISR. On the outermost
// exit, it re-evaluates the scheduler and, if the selected task changed,
// triggers the from-ISR context-switch variant (§4.3).
func (k *Kernel) ExitISR() {
	token := k.port.EnterCritical()
	if k.isrNesting == 0 {
		k.port.ExitCritical(token)
		k.Panic(PanicISRUnderflow, "exit_isr called with zero nesting")
		return
	}
	k.isrNesting--
	outermost := k.isrNesting == 0

	var changed bool
	var from, to *TCB
	if outermost {
		changed, from, to = k.scheduleLocked(nil)
	}
	k.port.ExitCritical(token)

	if outermost && changed {
		fromID, fromValid := idOf(from)
		if err := k.port.ContextSwitchFromISR(fromID, to.ID, fromValid); err != nil {
			k.Panic(PanicQueueInvariant, "context switch from isr failed: "+err.Error())
		}
	}
}
