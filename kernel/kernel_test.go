package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isus-ipanienko/seal/port"
)

func noopEntry(_ *TaskContext, _ any) {}

// bringUp does what Init does, minus the final blocking handoff to
// port.Startup, so white-box tests can drive scheduling decisions directly.
func bringUp(t *testing.T, k *Kernel) {
	t.Helper()
	all := append([]*TCB{k.idleTask}, k.tasks...)
	for _, tcb := range all {
		wrapped := k.wrapEntry(tcb)
		top, err := k.port.InitStack(tcb.ID, tcb.Stack, wrapped, tcb.param)
		require.NoError(t, err)
		tcb.StackTop = top
		k.makeReady(tcb)
	}
	token := k.port.EnterCritical()
	k.scheduleLocked(nil)
	k.port.ExitCritical(token)
}

func TestNewRejectsNilPort(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)
}

func TestNewRejectsTaskAtIdlePriority(t *testing.T) {
	_, err := New(newFakePort(), []TaskDescriptor{
		{ID: 1, Priority: 0, StackSize: 256, Entry: noopEntry},
	}, nil)
	assert.Error(t, err)
}

func TestNewRejectsPriorityOutOfRange(t *testing.T) {
	_, err := New(newFakePort(), []TaskDescriptor{
		{ID: 1, Priority: MaxPriorities, StackSize: 256, Entry: noopEntry},
	}, nil)
	assert.Error(t, err)
}

func TestNewRejectsDuplicateEventID(t *testing.T) {
	_, err := New(newFakePort(), nil, []EventDescriptor{
		{ID: 0, Kind: EventKindMutex},
		{ID: 0, Kind: EventKindSemaphore},
	})
	assert.Error(t, err)
	var fe *FatalError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, PanicEventInitialized, fe.Reason)
}

func TestNewBuildsIdleTask(t *testing.T) {
	k, err := New(newFakePort(), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, k.idleTask)
	assert.Equal(t, port.TaskID(-1), k.idleTask.ID)
	assert.Equal(t, Priority(0), k.idleTask.BasePrio)
}

func TestStrictPriorityOrdering(t *testing.T) {
	// S1: three tasks at distinct priorities all ready; the highest runs.
	fp := newFakePort()
	k, err := New(fp, []TaskDescriptor{
		{ID: 1, Priority: 1, StackSize: 256, Entry: noopEntry},
		{ID: 2, Priority: 5, StackSize: 256, Entry: noopEntry},
		{ID: 3, Priority: 3, StackSize: 256, Entry: noopEntry},
	}, nil)
	require.NoError(t, err)
	bringUp(t, k)

	require.NotNil(t, k.currTask)
	assert.Equal(t, port.TaskID(2), k.currTask.ID)
}

func TestFIFOWithinPriority(t *testing.T) {
	fp := newFakePort()
	k, err := New(fp, []TaskDescriptor{
		{ID: 1, Priority: 1, StackSize: 256, Entry: noopEntry},
		{ID: 2, Priority: 1, StackSize: 256, Entry: noopEntry},
		{ID: 3, Priority: 1, StackSize: 256, Entry: noopEntry},
	}, nil)
	require.NoError(t, err)
	bringUp(t, k)

	// task 1 was declared first, so it is at the head of priority 1's queue.
	require.NotNil(t, k.currTask)
	assert.Equal(t, port.TaskID(1), k.currTask.ID)

	a, b, c := k.tasks[0], k.tasks[1], k.tasks[2]

	// A sleeps, B runs next.
	token := k.port.EnterCritical()
	k.unreadyRemove(a)
	a.State = TaskAsleep
	a.Delay = 5
	k.port.ExitCritical(token)
	k.schedule(a)
	assert.Equal(t, port.TaskID(2), k.currTask.ID)

	// B sleeps, C runs next.
	token = k.port.EnterCritical()
	k.unreadyRemove(b)
	b.State = TaskAsleep
	b.Delay = 5
	k.port.ExitCritical(token)
	k.schedule(b)
	assert.Equal(t, port.TaskID(3), k.currTask.ID)

	// at tick 5, A and B are woken in that order: queue becomes [C, A, B].
	for i := 0; i < 5; i++ {
		k.Tick()
	}
	assert.Equal(t, TaskReady, a.State)
	assert.Equal(t, TaskReady, b.State)
	assert.Equal(t, port.TaskID(3), k.currTask.ID) // C still runs, highest remaining claim at head

	// C yields (sleeps), A runs, then B.
	token = k.port.EnterCritical()
	k.unreadyRemove(c)
	c.State = TaskAsleep
	c.Delay = 5
	k.port.ExitCritical(token)
	k.schedule(c)
	assert.Equal(t, port.TaskID(1), k.currTask.ID)
}

func TestISRNestingOverflow(t *testing.T) {
	fp := newFakePort()
	k, err := New(fp, nil, nil)
	require.NoError(t, err)
	bringUp(t, k)

	k.isrNesting = MaxISRNesting
	assert.Panics(t, func() { k.EnterISR() })
}

func TestISRNestingUnderflow(t *testing.T) {
	fp := newFakePort()
	k, err := New(fp, nil, nil)
	require.NoError(t, err)
	bringUp(t, k)

	assert.Panics(t, func() { k.ExitISR() })
}

func TestMetricsNilWithoutStats(t *testing.T) {
	k, err := New(newFakePort(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, k.Metrics())
}

func TestMetricsTracksContextSwitches(t *testing.T) {
	fp := newFakePort()
	k, err := New(fp, []TaskDescriptor{
		{ID: 1, Priority: 1, StackSize: 256, Entry: noopEntry},
	}, nil, WithStats(true))
	require.NoError(t, err)
	bringUp(t, k)

	m := k.Metrics()
	require.NotNil(t, m)
	assert.GreaterOrEqual(t, m.ContextSwitches, uint64(1))
}
