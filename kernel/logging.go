package kernel

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// log is the package-level structured logger, defaulting to a nil
// *logiface.Logger. logiface's Builder chain is nil-safe end to end (every
// method no-ops when the logger or level is disabled), so leaving it unset
// costs one pointer-nil-check per call site and no allocation, matching the
// zero-overhead-when-unused default the rest of this package assumes.
var log atomic.Pointer[logiface.Logger[*stumpy.Event]]

// SetLogger installs the package-wide structured logger, backed by stumpy's
// JSON event encoding. Pass nil to return to the no-op default. Safe to call
// before Init; the kernel never logs at a finer grain than one event per
// scheduling decision or fault.
func SetLogger(l *logiface.Logger[*stumpy.Event]) {
	log.Store(l)
}

func currentLogger() *logiface.Logger[*stumpy.Event] {
	return log.Load()
}

func logContextSwitch(from, to *TCB) {
	l := currentLogger()
	if l == nil {
		return
	}
	b := l.Debug()
	if b == nil {
		return
	}
	if from != nil {
		b = b.Int(`from`, int(from.ID)).Int(`from_prio`, int(from.CurrPrio))
	}
	if to != nil {
		b = b.Int(`to`, int(to.ID)).Int(`to_prio`, int(to.CurrPrio))
	}
	b.Log(`context switch`)
}

func logFatal(err *FatalError) {
	l := currentLogger()
	if l == nil {
		return
	}
	if b := l.Err(); b != nil {
		b.Str(`reason`, err.Reason.String()).Str(`detail`, err.Detail).Log(`kernel panic`)
	}
}

func logTick(count uint64, woken int) {
	l := currentLogger()
	if l == nil {
		return
	}
	if b := l.Trace(); b != nil {
		b.Int64(`tick`, int64(count)).Int(`woken`, woken).Log(`tick`)
	}
}
