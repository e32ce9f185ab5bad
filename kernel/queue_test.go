package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskListPushPopFIFO(t *testing.T) {
	var l taskList
	a, b, c := &TCB{ID: 1}, &TCB{ID: 2}, &TCB{ID: 3}

	assert.True(t, l.empty())
	l.pushBack(a)
	l.pushBack(b)
	l.pushBack(c)
	assert.False(t, l.empty())

	assert.Same(t, a, l.popFront())
	assert.Same(t, b, l.popFront())
	assert.Same(t, c, l.popFront())
	assert.True(t, l.empty())
}

func TestTaskListPopFrontEmptyPanics(t *testing.T) {
	var l taskList
	require.Panics(t, func() { l.popFront() })
}

func TestTaskListRemoveHeadMiddleTail(t *testing.T) {
	a, b, c := &TCB{ID: 1}, &TCB{ID: 2}, &TCB{ID: 3}

	// remove head
	var l taskList
	l.pushBack(a)
	l.pushBack(b)
	l.pushBack(c)
	l.remove(a)
	assert.Same(t, b, l.head)
	assert.Same(t, c, l.tail)
	assert.Nil(t, b.Prev)

	// remove middle
	l = taskList{}
	l.pushBack(a)
	l.pushBack(b)
	l.pushBack(c)
	l.remove(b)
	assert.Same(t, a, l.head)
	assert.Same(t, c, l.tail)
	assert.Same(t, c, a.Next)
	assert.Same(t, a, c.Prev)

	// remove tail
	l = taskList{}
	l.pushBack(a)
	l.pushBack(b)
	l.pushBack(c)
	l.remove(c)
	assert.Same(t, a, l.head)
	assert.Same(t, b, l.tail)
	assert.Nil(t, b.Next)
}

func TestTaskListRemoveSoleElement(t *testing.T) {
	var l taskList
	a := &TCB{ID: 1}
	l.pushBack(a)
	l.remove(a)
	assert.True(t, l.empty())
	assert.Nil(t, l.head)
	assert.Nil(t, l.tail)
}

func TestTaskListPushFrontPreservesOrderAfter(t *testing.T) {
	var l taskList
	a, b := &TCB{ID: 1}, &TCB{ID: 2}
	l.pushBack(a)
	l.pushFront(b)
	assert.Same(t, b, l.head)
	assert.Same(t, a, l.tail)
	assert.Same(t, b, l.popFront())
	assert.Same(t, a, l.popFront())
}

// well-formedness: head.Prev == nil, tail.Next == nil, head/tail nil iff empty.
func TestTaskListWellFormedAfterMixedOps(t *testing.T) {
	var l taskList
	tasks := []*TCB{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	for _, tk := range tasks {
		l.pushBack(tk)
	}
	l.remove(tasks[1])
	l.pushFront(tasks[1])
	l.popFront()

	if l.head != nil {
		assert.Nil(t, l.head.Prev)
	}
	if l.tail != nil {
		assert.Nil(t, l.tail.Next)
	}
	assert.Equal(t, l.head == nil, l.tail == nil)
}
