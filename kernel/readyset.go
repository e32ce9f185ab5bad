package kernel

import "math/bits"

// readySet is a single machine-word bitmap: bit p is set iff priority queue
// p is non-empty (§4.2, C3). This is the idiomatic-Go stand-in for a
// hardware count-leading-zeros instruction — the port is free to use one
// instead, the only contract is that highest() returns the numerically
// highest priority with a non-empty queue.
type readySet uint64

// markReady sets bit p.
func (r *readySet) markReady(p Priority) {
	*r |= readySet(1) << p
}

// markUnready clears bit p. The caller must only call this once queue p is
// actually empty (enforced by its callers in scheduler.go and event.go,
// never by readySet itself).
func (r *readySet) markUnready(p Priority) {
	*r &^= readySet(1) << p
}

// isReady reports whether bit p is set.
func (r readySet) isReady(p Priority) bool {
	return r&(readySet(1)<<p) != 0
}

// empty reports whether no priority has a ready task.
func (r readySet) empty() bool {
	return r == 0
}

// highest returns the numerically highest set bit. Undefined (returns 0) if
// the set is empty; the kernel guarantees this is never observed in
// steady state because the mandatory idle task at priority 0 is always
// ready.
func (r readySet) highest() Priority {
	if r == 0 {
		return 0
	}
	return Priority(bits.Len64(uint64(r)) - 1)
}
