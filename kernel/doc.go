// Package kernel implements the concurrency core of a small preemptive
// real-time kernel for single-core targets: a fixed-priority per-priority-FIFO
// scheduler with O(1) highest-ready-priority selection, a tick-driven
// delayed-wakeup mechanism, and blocking primitives (a priority-inheriting
// mutex and a counting semaphore) with timeouts.
//
// # Architecture
//
// The kernel core is built around a [Kernel] that owns every task control
// block, event object, priority queue and the ready-set bitmap. Task code
// never touches this state directly; it goes through a [TaskContext] handed
// to the task's entry function, exposing [TaskContext.Sleep],
// [TaskContext.MutexTake], [TaskContext.MutexGive],
// [TaskContext.SemaphoreTake], [TaskContext.SemaphoreGive] and
// [TaskContext.Yield].
//
// The CPU itself — stack layout, the context-switch trampoline, and
// interrupt masking — is abstracted behind the [port.Port] interface
// (package "github.com/isus-ipanienko/seal/port"), so this package never
// contains architecture-specific code. A goroutine-based reference
// implementation of that interface lives in
// "github.com/isus-ipanienko/seal/hostport", suitable for tests, demos, and
// development away from real hardware.
//
// # Priority convention
//
// Higher numeric value means higher priority, consistent with the bit index
// used by the ready-set bitmap: priority p occupies bit p, and the
// numerically highest set bit is the highest-priority ready queue.
//
// # Thread safety
//
// All mutation of kernel state happens with the port's critical section
// held (see [port.Port.EnterCritical]); the kernel itself holds no lock of
// its own; it is the port's responsibility to serialize task and ISR
// contexts. See the package doc of "hostport" for how the reference port
// simulates this on a general-purpose OS without real interrupt masking.
package kernel
