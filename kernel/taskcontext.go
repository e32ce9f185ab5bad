package kernel

// TaskContext is the handle a task's Entry function receives: the only
// surface through which task code may touch kernel state. It pairs the
// Kernel with the calling task's own TCB, so a task can never be tricked
// into operating on another task's state.
type TaskContext struct {
	k   *Kernel
	tcb *TCB
}

// Yield is §4.3's public schedule() operation, exposed to task code: it
// voluntarily offers the CPU to the scheduler without changing this task's
// own readiness. If a higher- or equal-priority task is also ready, FIFO
// order within this task's level means it may not run again until the
// others at its level have had a turn.
func (tc *TaskContext) Yield() {
	tc.k.yieldSelf(tc.tcb)
}

// Sleep blocks the calling task for exactly ticks system ticks (§4.4). A
// zero or negative duration returns immediately without yielding the
// remainder of this task's turn.
func (tc *TaskContext) Sleep(ticks int) {
	if ticks <= 0 {
		return
	}
	k := tc.k
	token := k.port.EnterCritical()
	self := tc.tcb
	k.unreadyRemove(self)
	self.State = TaskAsleep
	self.Delay = ticks
	k.port.ExitCritical(token)
	k.schedule(self)
}

// MutexTake acquires the mutex named by id, per §4.5.1/§4.5.3. A timeout of
// zero waits indefinitely; a positive timeout is the maximum number of
// ticks to wait. Returns StatusWrongEvent if id does not name a mutex,
// StatusTimeout if the wait expired first.
func (tc *TaskContext) MutexTake(id int, timeout int) Status {
	return tc.k.mutexTake(tc.tcb, id, timeout)
}

// MutexGive releases the mutex named by id. Only the current holder may
// call this; any other caller gets StatusError.
func (tc *TaskContext) MutexGive(id int) Status {
	return tc.k.mutexGive(tc.tcb, id)
}

// SemaphoreTake acquires one permit of the counting semaphore named by id,
// blocking if none are available, per §4.5.2. Semantics otherwise mirror
// MutexTake.
func (tc *TaskContext) SemaphoreTake(id int, timeout int) Status {
	return tc.k.semaphoreTake(tc.tcb, id, timeout)
}

// SemaphoreGive releases one permit of the counting semaphore named by id,
// waking the longest-waiting blocked task if any.
func (tc *TaskContext) SemaphoreGive(id int) Status {
	return tc.k.semaphoreGive(tc.tcb, id)
}

// idleYield is the idle task's cooperative point: it never actually blocks
// (the idle task must always be ready), it only gives other ready tasks at
// its own priority level a chance to run.
// A real port typically executes a low-power wait instruction here instead.
func (tc *TaskContext) idleYield() {
	tc.k.yieldSelf(tc.tcb)
}
