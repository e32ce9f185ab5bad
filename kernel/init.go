package kernel

import (
	"fmt"

	"github.com/isus-ipanienko/seal/port"
)

// Init performs the C7 startup sequence: lay down every task's initial
// stack frame via the port, place every task in its base-priority ready
// queue, run the scheduler once to pick the first task, and hand off to the
// port's Startup. On real hardware Startup never returns; a host port built
// for testing may return cleanly once explicitly stopped, in which case
// Init's error (nil on a clean stop) is simply returned to the caller.
func (k *Kernel) Init() error {
	if k.isRunning {
		return fmt.Errorf("seal: kernel.Init: already initialized")
	}

	all := make([]*TCB, 0, len(k.tasks)+1)
	all = append(all, k.idleTask)
	all = append(all, k.tasks...)

	for _, t := range all {
		wrapped := k.wrapEntry(t)
		top, err := k.port.InitStack(t.ID, t.Stack, wrapped, t.param)
		if err != nil {
			return fmt.Errorf("seal: kernel.Init: InitStack task %d: %w", t.ID, err)
		}
		t.StackTop = top
		k.makeReady(t)
	}

	token := k.port.EnterCritical()
	_, _, first := k.scheduleLocked(nil)
	k.port.ExitCritical(token)
	if first == nil {
		k.Panic(PanicQueueInvariant, "no ready task at init, idle task missing")
	}

	k.isRunning = true
	if err := k.port.Startup(first.ID); err != nil {
		k.Panic(PanicStartupExited, err.Error())
	}
	return nil
}

// wrapEntry adapts the kernel's (tc, param) task-entry signature to the
// port's bare (param) signature, binding a TaskContext scoped to t, and
// turning a returning entry function into the fatal TASK_EXITED path, per
// §7: a task's entry function returning is treated the same as an embedded
// task's return address faulting.
func (k *Kernel) wrapEntry(t *TCB) port.Entry {
	return func(param any) {
		tc := &TaskContext{k: k, tcb: t}
		t.entry(tc, param)
		k.Panic(PanicTaskExited, fmt.Sprintf("task %d entry function returned", t.ID))
	}
}
