package kernel

import (
	"fmt"

	"github.com/isus-ipanienko/seal/port"
)

// Kernel is the singleton system context described in §3: it exclusively
// owns every TCB, event, priority queue, and the ready set, for the life of
// the process. It is built once by New/Init and never destroyed.
type Kernel struct {
	tasks  []*TCB
	events []*Event

	queues [MaxPriorities]taskList
	ready  readySet

	isrNesting uint16
	isRunning  bool

	// currTask, nextTask are the scheduler's current and next selection; the
	// port never reads them (it is handed task IDs instead), and every write
	// to them happens with the critical section held (single-writer: the
	// scheduler).
	currTask, nextTask *TCB

	port port.Port
	cfg  config

	metrics *Metrics

	tickCount uint64

	idleTask *TCB
}

// New builds a Kernel, with its TCBs and events, from a static task table
// and event table, but does not yet start anything: call Init to lay down
// task stacks, ready every task and hand off to the port. Separated from Init so tests can inspect a freshly built Kernel
// before Init's one-way handoff.
func New(p port.Port, tasks []TaskDescriptor, events []EventDescriptor, opts ...Option) (*Kernel, error) {
	if p == nil {
		return nil, fmt.Errorf("seal: kernel.New: nil port")
	}

	cfg := config{idlePriority: 0}
	for _, opt := range opts {
		opt(&cfg)
	}

	k := &Kernel{
		port: p,
		cfg:  cfg,
	}
	if cfg.enableStats {
		k.metrics = newMetrics()
	}

	for _, td := range tasks {
		if td.Priority == 0 {
			return nil, fmt.Errorf("seal: kernel.New: task %d declared at priority 0, reserved for the idle task", td.ID)
		}
		if td.Priority >= MaxPriorities {
			return nil, fmt.Errorf("seal: kernel.New: task %d priority %d exceeds MaxPriorities-1", td.ID, td.Priority)
		}
	}

	seenEventID := make(map[int]bool, len(events))
	for _, ed := range events {
		if seenEventID[ed.ID] {
			return nil, &FatalError{Reason: PanicEventInitialized, Detail: fmt.Sprintf("event %d declared twice", ed.ID)}
		}
		seenEventID[ed.ID] = true
	}

	k.idleTask = k.newTCB(port.TaskID(-1), cfg.idlePriority, idleEntry, nil, 64)
	for _, td := range tasks {
		k.tasks = append(k.tasks, k.newTCB(td.ID, td.Priority, td.Entry, td.Param, td.StackSize))
	}

	k.events = make([]*Event, len(events))
	for _, ed := range events {
		ev := &Event{ID: ed.ID}
		switch ed.Kind {
		case EventKindMutex:
			ev.Type = EventMutex
		case EventKindSemaphore:
			ev.Type = EventSemaphore
			ev.Count = ed.InitialCount
		}
		k.events[ed.ID] = ev
	}

	return k, nil
}

func (k *Kernel) newTCB(id port.TaskID, prio Priority, entry Entry, param any, stackSize uintptr) *TCB {
	tcb := &TCB{
		ID:       id,
		BasePrio: prio,
		CurrPrio: prio,
		State:    TaskReady,
		entry:    entry,
		param:    param,
		Stack:    port.StackInfo{Size: stackSize},
	}
	if k.cfg.enableStats {
		tcb.stats = &taskStats{}
	}
	if k.cfg.enableMessageQueues {
		// Reserved: no queue implementation exists yet, so the slot is
		// marked allocated (non-zero) and nothing else in the core
		// dereferences it.
		tcb.PendingQueue = ^uintptr(0)
	}
	return tcb
}

// idleEntry is the kernel-supplied idle task body: it must always be ready,
// so it never blocks. Real ports typically put the core to sleep here
// instead of busy-looping; here it loops on idleYield, which does not call
// into the Go runtime's scheduler itself.
func idleEntry(tc *TaskContext, _ any) {
	for {
		tc.idleYield()
	}
}

// eventByID looks up an event by its declared ID, returning nil if absent.
func (k *Kernel) eventByID(id int) *Event {
	if id < 0 || id >= len(k.events) || k.events[id] == nil {
		return nil
	}
	return k.events[id]
}

// taskByPortID resolves a port.TaskID (as used in the Port contract) back
// to its TCB, including the synthetic idle task's ID of -1.
func (k *Kernel) taskByPortID(id port.TaskID) *TCB {
	if id == k.idleTask.ID {
		return k.idleTask
	}
	for _, t := range k.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Panic is the kernel's one-way fatal-error path (§7): it disables
// interrupts (by never releasing the critical section it takes), invokes
// the configured panic hook if any, and halts by panicking with a
// *FatalError. It never returns.
func (k *Kernel) Panic(reason PanicReason, detail string) {
	k.port.EnterCritical()
	err := &FatalError{Reason: reason, Detail: detail}
	logFatal(err)
	if k.cfg.panicHook != nil {
		k.cfg.panicHook(err)
	}
	panic(err)
}
