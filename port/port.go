// Package port names the contract a CPU/board package must implement for the
// kernel core in "github.com/isus-ipanienko/seal/kernel" to run on it. It is
// intentionally small and free of kernel-internal types: stack layout,
// context-switch trampolines, and interrupt masking are architecture details
// the kernel never needs to know about.
package port

// TaskID identifies a task by the stable ID declared for it in the static
// task table.
type TaskID int

// StackInfo describes the statically-allocated stack region handed to
// InitStack, so the port can lay down whatever synthetic frame its ABI
// requires.
type StackInfo struct {
	// Base is the lowest address (start) of the stack region.
	Base uintptr
	// Size is the size, in bytes, of the stack region.
	Size uintptr
}

// Entry is a task's entry function, as called (directly or via a synthetic
// return frame) by the port.
type Entry func(param any)

// Port is the contract a CPU/board implementation must satisfy. All methods
// may be called from the kernel core; EnterCritical/ExitCritical may also be
// called reentrantly by the port's own ISR glue.
type Port interface {
	// InitStack lays down a stack frame for a not-yet-started task such that,
	// when the task is first resumed, execution begins at entry(param), with
	// a return address that lands on task exit behavior (a fatal error, per
	// the kernel's TASK_EXITED panic reason). Returns an opaque stack-top
	// value recorded on the TCB for diagnostics only.
	InitStack(id TaskID, info StackInfo, entry Entry, param any) (stackTop uintptr, err error)

	// Startup transfers control to the first task selected by the kernel's
	// initial scheduling pass and never returns on real hardware. Host ports
	// built for testing MAY return when explicitly stopped; that is a
	// test-only affordance, not part of the kernel contract.
	Startup(first TaskID) error

	// ContextSwitch requests a switch from the "from" task (the caller's own
	// task context, or the zero value during startup) to "to". Called only
	// while the kernel is NOT inside an ISR. The call does not return to the
	// "from" task until the scheduler selects it again.
	ContextSwitch(from, to TaskID, fromValid bool) error

	// ContextSwitchFromISR requests the same switch as ContextSwitch, but
	// from ISR context, where the caller cannot block waiting for the
	// original task to resume (an ISR must return promptly). The "from" task
	// continues executing until it next reaches a kernel entry point and
	// discovers it is no longer the selected task.
	ContextSwitchFromISR(from, to TaskID, fromValid bool) error

	// EnterCritical raises the critical section, returning a token that must
	// be passed back to the matching ExitCritical. Safe to call reentrantly;
	// only the outermost Enter/Exit pair performs real masking.
	EnterCritical() (token uint32)

	// ExitCritical restores the critical section to the state captured by
	// token.
	ExitCritical(token uint32)
}

// StackProfiler is an optional capability a Port MAY implement when it has
// a way to measure a task's stack high-water mark (e.g. scanning a
// statically-allocated region for a canary pattern written at InitStack
// time). Kernel.TaskMetrics type-asserts for it and reports zero when the
// port does not support it — a goroutine-based host port has no raw memory
// to scan, so it is never required.
type StackProfiler interface {
	// StackHighWater returns the deepest observed stack usage, in bytes, for
	// the named task, or 0 if unknown.
	StackHighWater(id TaskID) uintptr
}
