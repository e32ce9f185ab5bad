package kernel

import "github.com/isus-ipanienko/seal/port"

// fakePort is a synchronous, single-goroutine stand-in for port.Port: it
// performs no actual blocking or concurrency, just records what the kernel
// asked of it. This lets the rest of this package's tests drive scheduling
// decisions deterministically by calling unexported Kernel methods directly,
// without standing up real task goroutines (that style of test lives in
// "github.com/isus-ipanienko/seal/hostport").
type fakePort struct {
	criticalDepth int
	switches      []fakeSwitch
	switchesISR   []fakeSwitch
	initCalls     []port.TaskID
	startupCalls  []port.TaskID
}

type fakeSwitch struct {
	from      port.TaskID
	fromValid bool
	to        port.TaskID
}

func newFakePort() *fakePort {
	return &fakePort{}
}

func (p *fakePort) InitStack(id port.TaskID, _ port.StackInfo, _ port.Entry, _ any) (uintptr, error) {
	p.initCalls = append(p.initCalls, id)
	return uintptr(id) + 1, nil
}

func (p *fakePort) Startup(first port.TaskID) error {
	p.startupCalls = append(p.startupCalls, first)
	return nil
}

func (p *fakePort) ContextSwitch(from, to port.TaskID, fromValid bool) error {
	p.switches = append(p.switches, fakeSwitch{from: from, fromValid: fromValid, to: to})
	return nil
}

func (p *fakePort) ContextSwitchFromISR(from, to port.TaskID, fromValid bool) error {
	p.switchesISR = append(p.switchesISR, fakeSwitch{from: from, fromValid: fromValid, to: to})
	return nil
}

func (p *fakePort) EnterCritical() uint32 {
	p.criticalDepth++
	return uint32(p.criticalDepth)
}

func (p *fakePort) ExitCritical(token uint32) {
	if uint32(p.criticalDepth) != token {
		panic("fakePort: mismatched critical section token")
	}
	p.criticalDepth--
}

var _ port.Port = (*fakePort)(nil)
