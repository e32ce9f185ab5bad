// Package hostport is a goroutine-based reference implementation of
// "github.com/isus-ipanienko/seal/port".Port, for running the kernel core on
// a general-purpose OS instead of real hardware: suitable for tests, demos,
// and development away from a target board.
//
// # Design
//
// Every task gets one real goroutine, parked on a dedicated channel. A
// context switch is a baton pass: the switching-away task sends on the
// target's channel to wake it, then (task context only) blocks receiving on
// its own channel until something switches back to it. Because a Go
// goroutine's stack is preserved across a blocking receive, this gives every
// task arbitrary resumption points for free — the one genuinely hard part of
// a real port (saving and restoring machine context) doesn't exist here.
//
// The critical section is a single mutex plus a goroutine-ID-keyed
// reentrancy counter, so EnterCritical/ExitCritical nest correctly whether
// called from a task goroutine or the tick/IRQ-simulation goroutines this
// package spawns; see criticalSection/getGoroutineID, the same technique as the
// event loop's isLoopThread/getGoroutineID.
//
// # Honest limitation
//
// This is host-mode simulation, not emulation: true asynchronous,
// mid-instruction preemption cannot be reproduced on top of a managed
// runtime. A "preempting" goroutine genuinely runs concurrently with the
// goroutine it is meant to be interrupting (Go does not offer a way to halt
// another goroutine's execution instantaneously), so the lower-priority
// task's own next observable state change happens only when it next calls
// into the kernel (Sleep, MutexTake, SemaphoreTake, Yield) or is resumed by
// a context switch. This matches the kernel's own documented suspension
// points (§4.3): non-yielding code runs to its next kernel entry point
// regardless of port; this package does not weaken that contract, it simply
// cannot make it stronger either.
//
// One consequence: the kernel's own re-evaluation can legitimately decide
// twice, from two different goroutines, that the same task is the one to
// run next — once from the ISR that preempted its predecessor, once from
// the predecessor's own goroutine discovering on its next kernel call that
// it is no longer selected. taskSlot.running turns the second wake into a
// safe no-op instead of a deadlock or a lost park (see Port.wake).
package hostport
