package kernel

// taskList is the intrusive doubly-linked FIFO described in §4.1: O(1)
// push-back, pop-front, and unlink-arbitrary over TCBs, using each TCB's
// single Next/Prev pair. Every method assumes the caller already holds the
// kernel's critical section.
type taskList struct {
	head, tail *TCB
}

// empty reports whether the list has no elements.
func (l *taskList) empty() bool {
	return l.head == nil
}

// pushBack appends task to the tail of the list in O(1).
func (l *taskList) pushBack(task *TCB) {
	task.Next = nil
	task.Prev = l.tail
	if l.tail != nil {
		l.tail.Next = task
	} else {
		l.head = task
	}
	l.tail = task
}

// pushFront inserts task at the head of the list in O(1), used only to
// reposition a RUNNING task into a different priority's queue without
// disturbing its "currently selected" standing there (see raisePriority).
func (l *taskList) pushFront(task *TCB) {
	task.Prev = nil
	task.Next = l.head
	if l.head != nil {
		l.head.Prev = task
	} else {
		l.tail = task
	}
	l.head = task
}

// popFront detaches and returns the head of the list in O(1). Calling
// popFront on an empty list is a kernel invariant violation.
func (l *taskList) popFront() *TCB {
	task := l.head
	if task == nil {
		panic(&FatalError{Reason: PanicQueueInvariant, Detail: "popFront on empty list"})
	}
	l.head = task.Next
	if l.head != nil {
		l.head.Prev = nil
	} else {
		l.tail = nil
	}
	task.Next = nil
	task.Prev = nil
	return task
}

// remove unlinks an arbitrary task from the list in O(1), correctly
// updating head/tail whether task is the sole element, the head, the tail,
// or an interior node.
func (l *taskList) remove(task *TCB) {
	if task.Prev != nil {
		task.Prev.Next = task.Next
	} else if l.head == task {
		l.head = task.Next
	}
	if task.Next != nil {
		task.Next.Prev = task.Prev
	} else if l.tail == task {
		l.tail = task.Prev
	}
	task.Next = nil
	task.Prev = nil
}
