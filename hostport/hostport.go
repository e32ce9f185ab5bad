package hostport

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/isus-ipanienko/seal/port"
)

// Kernel is the subset of *kernel.Kernel this package needs to drive ticks
// and ISR-simulated events without importing the kernel package directly
// (which would be a cycle: kernel imports port, and this package implements
// port). Bind with Port.BindKernel once kernel.New has returned.
type Kernel interface {
	EnterISR()
	ExitISR()
	Tick()
}

type taskSlot struct {
	id      port.TaskID
	resume  chan struct{}
	running atomic.Bool
}

// wake delivers exactly one resume token to s, unless one is already
// outstanding (s.running already true). This guards against the case a real
// port never faces: the kernel's self-aware scheduling (see
// kernel.scheduleLocked's self parameter) can legitimately decide twice, via
// two different goroutines, that the same task is the one to run next — once
// from the ISR that preempted its predecessor, once from the predecessor's
// own goroutine discovering on its next kernel call that it is no longer
// selected. Without this guard the second wake would either deadlock (an
// unbuffered send to a task that is not parked to receive it) or be
// delivered early and silently skip a later, genuine park. CAS makes the
// second wake a safe no-op: s is already running, so it needs no token.
func (p *Port) wake(s *taskSlot) {
	if s.running.CompareAndSwap(false, true) {
		s.resume <- struct{}{}
	}
}

// Port is a goroutine-based port.Port. The zero value is not usable; build
// one with New.
type Port struct {
	crit criticalSection

	tasksMu sync.Mutex
	tasks   map[port.TaskID]*taskSlot

	kernel Kernel

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New constructs an idle Port: no tasks yet, not started.
func New() *Port {
	return &Port{
		tasks:  make(map[port.TaskID]*taskSlot),
		stopCh: make(chan struct{}),
	}
}

// BindKernel attaches the Kernel that owns this Port, so Tick and the
// RaiseIRQ family can bracket their calls with EnterISR/ExitISR. Must be
// called after kernel.New and before kernel.Init.
func (p *Port) BindKernel(k Kernel) {
	p.kernel = k
}

func (p *Port) slot(id port.TaskID) *taskSlot {
	p.tasksMu.Lock()
	defer p.tasksMu.Unlock()
	return p.tasks[id]
}

// InitStack spawns the goroutine that will run entry(param), parked
// immediately on its own resume channel: it does not actually run entry
// until this task is first selected, mirroring a real port laying down a
// stack frame without starting execution.
func (p *Port) InitStack(id port.TaskID, _ port.StackInfo, entry port.Entry, param any) (uintptr, error) {
	s := &taskSlot{id: id, resume: make(chan struct{})}

	p.tasksMu.Lock()
	if _, exists := p.tasks[id]; exists {
		p.tasksMu.Unlock()
		return 0, fmt.Errorf("hostport: InitStack: task %d already initialized", id)
	}
	p.tasks[id] = s
	p.tasksMu.Unlock()

	go func() {
		<-s.resume
		entry(param)
	}()

	return uintptr(id) + 1, nil
}

// Startup wakes the first task and then blocks until Stop is called. Real
// ports never return from here; this host port's Stop is a test-only
// affordance, as documented on port.Port.Startup.
func (p *Port) Startup(first port.TaskID) error {
	s := p.slot(first)
	if s == nil {
		return fmt.Errorf("hostport: Startup: unknown task %d", first)
	}
	p.wake(s)
	<-p.stopCh
	return nil
}

// Stop unblocks Startup. Intended for tests that want a clean return from
// Init instead of killing the process.
func (p *Port) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// ContextSwitch wakes "to" and, if fromValid, parks the calling goroutine
// (which is "from"'s own goroutine, since this is only ever called from
// task context) on its own resume channel until it is woken again.
func (p *Port) ContextSwitch(from, to port.TaskID, fromValid bool) error {
	toSlot := p.slot(to)
	if toSlot == nil {
		return fmt.Errorf("hostport: ContextSwitch: unknown task %d", to)
	}

	if !fromValid {
		p.wake(toSlot)
		return nil
	}

	fromSlot := p.slot(from)
	if fromSlot == nil {
		return fmt.Errorf("hostport: ContextSwitch: unknown task %d", from)
	}

	p.wake(toSlot)
	fromSlot.running.Store(false)
	<-fromSlot.resume
	return nil
}

// ContextSwitchFromISR wakes "to" without blocking: the caller is not a
// task goroutine (it is whatever simulates the ISR — Tick or RaiseIRQ), and
// the interrupted task's own goroutine keeps running exactly as described
// in the package doc's "honest limitation".
func (p *Port) ContextSwitchFromISR(_, to port.TaskID, _ bool) error {
	toSlot := p.slot(to)
	if toSlot == nil {
		return fmt.Errorf("hostport: ContextSwitchFromISR: unknown task %d", to)
	}
	p.wake(toSlot)
	return nil
}

// EnterCritical raises the reentrant critical section.
func (p *Port) EnterCritical() uint32 {
	return p.crit.enter()
}

// ExitCritical restores the critical section to the state captured by
// token.
func (p *Port) ExitCritical(token uint32) {
	p.crit.exit(token)
}

// Tick runs one system tick bracketed as an ISR, the same as a real timer
// interrupt handler would. Safe to call directly from tests for
// deterministic, synchronous tick sequencing, or from a driver goroutine
// such as RunTicker or the signal-driven driver in isr.go.
func (p *Port) Tick() {
	p.kernel.EnterISR()
	p.kernel.Tick()
	p.kernel.ExitISR()
}

// RaiseIRQ runs fn bracketed as an ISR, for simulating any other interrupt
// source (e.g. a peripheral's semaphore give) in tests and demos, per §8's
// S6 scenario.
func (p *Port) RaiseIRQ(fn func()) {
	p.kernel.EnterISR()
	fn()
	p.kernel.ExitISR()
}
