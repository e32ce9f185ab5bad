package hostport

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// criticalSection is a reentrant mutex keyed by goroutine ID: the same
// goroutine may call EnterCritical any number of times without blocking on
// itself, exactly mirroring nested interrupt-disable/restore on real
// hardware. Any other goroutine genuinely blocks until the outermost
// ExitCritical, which is what gives the kernel's lock-free data structures
// (queue.go, readyset.go) their safety here.
type criticalSection struct {
	mu    sync.Mutex
	owner atomic.Uint64 // goroutine ID currently holding it, 0 if none
	depth uint32        // valid only while owner != 0; guarded by mu for writers other than the owner's own reentry
}

func (c *criticalSection) enter() uint32 {
	gid := getGoroutineID()
	if c.owner.Load() == gid {
		c.depth++
		return c.depth
	}
	c.mu.Lock()
	c.owner.Store(gid)
	c.depth = 1
	return 1
}

func (c *criticalSection) exit(token uint32) {
	gid := getGoroutineID()
	if c.owner.Load() != gid {
		panic("hostport: ExitCritical called by a goroutine that does not hold the critical section")
	}
	if token != c.depth {
		panic("hostport: ExitCritical token does not match current nesting depth")
	}
	c.depth--
	if c.depth == 0 {
		c.owner.Store(0)
		c.mu.Unlock()
	}
}

// getGoroutineID parses the current goroutine's ID out of its own stack
// trace. There is no supported API for this; it is a diagnostic-only value
// here too, used purely to key reentrancy, same as the event loop's
// identically-named helper.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
