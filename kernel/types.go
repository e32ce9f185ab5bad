package kernel

import "github.com/isus-ipanienko/seal/port"

// MaxPriorities bounds the number of distinct priority levels: the ready set
// is a single machine word, one bit per priority.
const MaxPriorities = 64

// MaxISRNesting is the deepest permitted nesting of enter_isr/exit_isr pairs;
// exceeding it is fatal (PanicISROverflow).
const MaxISRNesting = 255

// Priority is a task or event-waiter priority level. Numerically higher
// means higher priority; this is the single priority convention used
// throughout the kernel (comparisons, inheritance raises, and the ready
// set's bit index all agree on it).
type Priority uint8

// Status is the set of user-recoverable outcomes returned by blocking
// kernel calls. It is never panicked; a caller always decides what to do
// with it.
type Status int

const (
	// StatusOK indicates success.
	StatusOK Status = iota
	// StatusTimeout indicates a blocking call's timeout elapsed before the
	// requested resource became available. The only recoverable
	// blocked-state exit; spurious wakeups are not permitted.
	StatusTimeout
	// StatusWrongEvent indicates the event ID does not name an event of the
	// kind the call requires (e.g. SemaphoreTake on a mutex).
	StatusWrongEvent
	// StatusError is a generic, non-fatal error.
	StatusError
	// StatusNullParam indicates a required parameter was missing.
	StatusNullParam
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusWrongEvent:
		return "WRONG_EVENT"
	case StatusError:
		return "ERROR"
	case StatusNullParam:
		return "NULL_PARAM"
	default:
		return "UNKNOWN_STATUS"
	}
}

// TaskState is the lifecycle state of a TCB.
type TaskState int

const (
	// TaskReady means the task is in a priority queue awaiting selection.
	TaskReady TaskState = iota
	// TaskRunning means the task is the one currently selected to execute.
	TaskRunning
	// TaskAsleep means the task called Sleep and is waiting for its delay to
	// reach zero; it is in no queue.
	TaskAsleep
	// TaskWaitingForEvent means the task is blocked in an event queue
	// (mutex or semaphore), with an active timeout unless it waited
	// indefinitely.
	TaskWaitingForEvent
)

func (s TaskState) String() string {
	switch s {
	case TaskReady:
		return "READY"
	case TaskRunning:
		return "RUNNING"
	case TaskAsleep:
		return "ASLEEP"
	case TaskWaitingForEvent:
		return "WAITING_FOR_EVENT"
	default:
		return "UNKNOWN_STATE"
	}
}

// EventType names what an Event is configured as.
type EventType int

const (
	// EventUninitialized marks an event table slot that has not been
	// initialized yet; operating on it is a usage bug surfaced as
	// StatusWrongEvent (it matches neither Mutex nor Semaphore).
	EventUninitialized EventType = iota
	// EventMutex is a priority-inheriting mutual-exclusion lock.
	EventMutex
	// EventSemaphore is a counting semaphore.
	EventSemaphore
)

func (t EventType) String() string {
	switch t {
	case EventMutex:
		return "MUTEX"
	case EventSemaphore:
		return "SEMAPHORE"
	default:
		return "UNINITIALIZED"
	}
}

// TCB is a task control block: one per declared task, built by New from the
// task table and never destroyed.
//
// A TCB is a member of at most one queue at any instant: its Next/Prev links
// serve either the priority queue (when TaskReady) or an event's wait queue
// (when TaskWaitingForEvent) — never both, because those states are mutually
// exclusive. This is the single pair of intrusive links the design notes
// call for, rather than one pair per container.
type TCB struct { //nolint:govet // field order follows the spec's grouping, not alignment
	// ID is this task's stable identifier, as declared in its
	// TaskDescriptor (the kernel's own idle task uses -1).
	ID port.TaskID

	// BasePrio is immutable after Init: the priority the task was declared
	// at.
	BasePrio Priority
	// CurrPrio is the effective priority: equal to BasePrio except while
	// inheriting a higher priority from a task blocked on a mutex this task
	// holds.
	CurrPrio Priority

	State TaskState

	// Delay is the remaining tick count; 0 means no active timer.
	Delay int
	// WaitEvent is the event this task is blocked on, or nil.
	WaitEvent *Event
	// WaitReturn is written by whichever code unblocks this task
	// (mutex/semaphore give, or the tick service on timeout), just before
	// the task is marked ready.
	WaitReturn Status

	// Next, Prev are the single pair of intrusive queue links described
	// above.
	Next, Prev *TCB

	// StackInfo records the bounds of this task's statically-allocated
	// stack, as handed to the port at Init.
	Stack port.StackInfo
	// StackTop is the opaque value InitStack returned.
	StackTop uintptr

	// PendingQueue is a reserved slot for a future message-queue handle,
	// populated only when the kernel is built WithMessageQueues(true). The
	// core never reads or writes it otherwise; message queues themselves are
	// a Non-goal.
	PendingQueue uintptr

	entry Entry
	param any

	// stats are populated only when the kernel is built WithStats; nil
	// otherwise, and never read by core scheduling logic.
	stats *taskStats
}

// Entry is a task's entry function, invoked once with a TaskContext bound to
// this task and the parameter declared in its TaskDescriptor. A task entry
// function returning is a fatal error (PanicTaskExited), exactly as an
// embedded task's return address faulting into task_exit would be.
type Entry func(tc *TaskContext, param any)

// Event is a statically-allocated mutex or counting semaphore.
type Event struct {
	ID   int
	Type EventType

	// Count is meaningful for EventSemaphore: remaining permits.
	Count int

	// Holder is meaningful for EventMutex: the owning task, or nil. A mutex
	// with a nil Holder always has an empty wait queue.
	Holder *TCB

	// waitHead, waitTail form the FIFO of tasks in TaskWaitingForEvent on
	// this event, using each TCB's Next/Prev links.
	waitHead, waitTail *TCB
}

// TaskDescriptor is one row of the compile-time task table (§6.3).
type TaskDescriptor struct {
	ID        port.TaskID
	Priority  Priority
	StackSize uintptr
	Entry     Entry
	Param     any
}

// EventKind names the kind of a compile-time event-table row.
type EventKind int

const (
	EventKindMutex EventKind = iota
	EventKindSemaphore
)

// EventDescriptor is one row of the compile-time event table (§6.3).
type EventDescriptor struct {
	ID           int
	Kind         EventKind
	InitialCount int // meaningful for EventKindSemaphore only
}

type taskStats struct {
	contextSwitches uint64
	readySince      int64 // tick count at which the task most recently entered TaskReady
	waitTicks       uint64 // cumulative ticks spent READY, accumulated on each schedule-in
	highWater       uintptr
}
