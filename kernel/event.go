package kernel

// pushWait appends task to the tail of this event's wait queue.
func (ev *Event) pushWait(t *TCB) {
	t.Next = nil
	t.Prev = ev.waitTail
	if ev.waitTail != nil {
		ev.waitTail.Next = t
	} else {
		ev.waitHead = t
	}
	ev.waitTail = t
}

// removeWait unlinks an arbitrary task from this event's wait queue.
func (ev *Event) removeWait(t *TCB) {
	if t.Prev != nil {
		t.Prev.Next = t.Next
	} else if ev.waitHead == t {
		ev.waitHead = t.Next
	}
	if t.Next != nil {
		t.Next.Prev = t.Prev
	} else if ev.waitTail == t {
		ev.waitTail = t.Prev
	}
	t.Next = nil
	t.Prev = nil
}

// popHighestPriorityWaiter removes and returns the highest-curr_prio task in
// ev's wait queue, breaking ties in favor of the longest-waiting (earliest
// inserted) task, per §4.5.1's mutex hand-off rule. Returns nil if the queue
// is empty.
func (ev *Event) popHighestPriorityWaiter() *TCB {
	var best *TCB
	for w := ev.waitHead; w != nil; w = w.Next {
		if best == nil || w.CurrPrio > best.CurrPrio {
			best = w
		}
	}
	if best != nil {
		ev.removeWait(best)
	}
	return best
}

// raisePriority implements the propagation side of §4.5.3: it sets t's
// effective priority to p (a no-op if t is already at least that priority),
// repositions t if it is READY, and recurses through a chain of mutex waits
// if t is itself blocked on another mutex.
func (k *Kernel) raisePriority(t *TCB, p Priority) {
	if t == nil || t.CurrPrio >= p {
		return
	}
	old := t.CurrPrio
	running := t.State == TaskRunning
	t.CurrPrio = p
	switch t.State {
	case TaskReady, TaskRunning:
		// RUNNING is just READY-and-selected: the task is still physically
		// linked into queues[old] (see scheduleLocked), so it needs the same
		// repositioning. A RUNNING task goes to the front of its new queue,
		// preserving its "currently selected" standing instead of joining
		// the back of the line behind tasks already waiting at that level.
		k.queues[old].remove(t)
		if k.queues[old].empty() {
			k.ready.markUnready(old)
		}
		if running {
			k.queues[p].pushFront(t)
		} else {
			k.queues[p].pushBack(t)
		}
		k.ready.markReady(p)
	case TaskWaitingForEvent:
		if t.WaitEvent != nil && t.WaitEvent.Type == EventMutex && t.WaitEvent.Holder != nil {
			k.raisePriority(t.WaitEvent.Holder, p)
		}
	}
}

// recomputeInheritedPriority recomputes t's effective priority from scratch
// as max(base_prio, highest curr_prio among waiters of every mutex t still
// holds), per §4.5.1's demotion rule generalized to multi-hold, and
// repositions/propagates as needed. Used after a mutex is released or a
// waiter times out, when a priority may need to fall as well as rise.
func (k *Kernel) recomputeInheritedPriority(t *TCB) {
	newPrio := t.BasePrio
	for _, ev := range k.events {
		if ev == nil || ev.Type != EventMutex || ev.Holder != t {
			continue
		}
		for w := ev.waitHead; w != nil; w = w.Next {
			if w.CurrPrio > newPrio {
				newPrio = w.CurrPrio
			}
		}
	}
	if newPrio == t.CurrPrio {
		return
	}
	old := t.CurrPrio
	running := t.State == TaskRunning
	t.CurrPrio = newPrio
	switch t.State {
	case TaskReady, TaskRunning:
		k.queues[old].remove(t)
		if k.queues[old].empty() {
			k.ready.markUnready(old)
		}
		if running {
			k.queues[newPrio].pushFront(t)
		} else {
			k.queues[newPrio].pushBack(t)
		}
		k.ready.markReady(newPrio)
	case TaskWaitingForEvent:
		if t.WaitEvent != nil && t.WaitEvent.Type == EventMutex && t.WaitEvent.Holder != nil {
			k.recomputeInheritedPriority(t.WaitEvent.Holder)
		}
	}
}

// mutexTake implements §4.5.1 mutex_take.
func (k *Kernel) mutexTake(self *TCB, id int, timeout int) Status {
	token := k.port.EnterCritical()
	ev := k.eventByID(id)
	if ev == nil || ev.Type != EventMutex {
		k.port.ExitCritical(token)
		return StatusWrongEvent
	}
	if ev.Holder == nil {
		ev.Holder = self
		k.port.ExitCritical(token)
		return StatusOK
	}
	if ev.Holder == self {
		k.port.ExitCritical(token)
		return StatusError
	}

	k.unreadyRemove(self)
	self.State = TaskWaitingForEvent
	self.WaitEvent = ev
	self.WaitReturn = StatusOK
	self.Delay = timeout
	k.raisePriority(ev.Holder, self.CurrPrio)
	ev.pushWait(self)
	k.port.ExitCritical(token)

	k.schedule(self)
	return self.WaitReturn
}

// mutexGive implements §4.5.1 mutex_give.
func (k *Kernel) mutexGive(self *TCB, id int) Status {
	token := k.port.EnterCritical()
	ev := k.eventByID(id)
	if ev == nil || ev.Type != EventMutex {
		k.port.ExitCritical(token)
		return StatusWrongEvent
	}
	if ev.Holder != self {
		k.port.ExitCritical(token)
		return StatusError
	}

	ev.Holder = nil
	if self.CurrPrio != self.BasePrio {
		k.recomputeInheritedPriority(self)
	}

	next := ev.popHighestPriorityWaiter()
	if next != nil {
		ev.Holder = next
		next.WaitReturn = StatusOK
		next.WaitEvent = nil
		next.Delay = 0
		k.makeReady(next)
		k.recomputeInheritedPriority(next)
	}
	k.port.ExitCritical(token)

	k.schedule(self)
	return StatusOK
}

// semaphoreTake implements §4.5.2 semaphore_take. Unlike mutexes, semaphore
// waiters never inherit priority: the contract explicitly allows unbounded
// priority inversion here rather than hide it.
func (k *Kernel) semaphoreTake(self *TCB, id int, timeout int) Status {
	token := k.port.EnterCritical()
	ev := k.eventByID(id)
	if ev == nil || ev.Type != EventSemaphore {
		k.port.ExitCritical(token)
		return StatusWrongEvent
	}
	if ev.Count > 0 {
		ev.Count--
		k.port.ExitCritical(token)
		return StatusOK
	}

	k.unreadyRemove(self)
	self.State = TaskWaitingForEvent
	self.WaitEvent = ev
	self.WaitReturn = StatusOK
	self.Delay = timeout
	ev.pushWait(self)
	k.port.ExitCritical(token)

	k.schedule(self)
	return self.WaitReturn
}

// semaphoreGive implements §4.5.2 semaphore_give. self is the calling
// task's own TCB when called in task context (see scheduleLocked), or nil
// from ISR context (SemaphoreGiveFromISR), where schedule is suppressed
// until the outermost ExitISR regardless. Unlike the mutex, a semaphore
// give never touches the caller's own state, which is what makes it
// (unlike mutex_give) safe to call from an ISR. Per the resolved Open
// Question (§9), a give always increments count, and additionally hands
// off directly to the longest-waiting task if one exists, without a second
// decrement — this is the "increment-then-hand-off" semantics the
// reference kernel ships, not strict counting semantics.
func (k *Kernel) semaphoreGive(self *TCB, id int) Status {
	token := k.port.EnterCritical()
	ev := k.eventByID(id)
	if ev == nil || ev.Type != EventSemaphore {
		k.port.ExitCritical(token)
		return StatusWrongEvent
	}

	ev.Count++
	if waiter := ev.waitHead; waiter != nil {
		ev.removeWait(waiter)
		waiter.WaitReturn = StatusOK
		waiter.WaitEvent = nil
		waiter.Delay = 0
		k.makeReady(waiter)
	}
	k.port.ExitCritical(token)

	k.schedule(self)
	return StatusOK
}

// SemaphoreGiveFromISR is the ISR-context entry point for §4.5.2
// semaphore_give, per the port contract in §6.1: it must be bracketed by
// EnterISR/ExitISR. Unlike the task-context TaskContext.SemaphoreGive, it
// performs no context switch itself — schedule() is suppressed while any
// ISR is active, and ExitISR runs the from-ISR switch on the outermost exit
// (see S6). mutex_give has no ISR-context counterpart: it is never safe to
// call from an ISR because it always acts on "the calling task", which an
// ISR is not.
func (k *Kernel) SemaphoreGiveFromISR(id int) Status {
	return k.semaphoreGive(nil, id)
}
