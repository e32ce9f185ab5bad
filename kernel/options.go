package kernel

// Option configures a Kernel at construction time. Options mirror §6.3's
// compile-time feature flags; there is no way to change them after New.
type Option func(*config)

type config struct {
	enableStats          bool
	enableMessageQueues  bool
	idlePriority         Priority
	panicHook            func(*FatalError)
}

// WithStats turns on EnableStats (§6.3): kernel-wide counters, queryable via
// Kernel.Metrics, and per-task stack high-water marks, context-switch and
// wait counters, queryable via Kernel.TaskMetrics.
func WithStats(enabled bool) Option {
	return func(c *config) { c.enableStats = enabled }
}

// WithMessageQueues reserves the message-queue field (TCB.PendingQueue) on
// every task (§1, §6.3). The core does not otherwise act on it; message queues are an
// explicit Non-goal.
func WithMessageQueues(enabled bool) Option {
	return func(c *config) { c.enableMessageQueues = enabled }
}

// WithPanicHook installs a hook called synchronously, with interrupts
// already disabled, immediately before Kernel.Panic halts (§7).
func WithPanicHook(hook func(*FatalError)) Option {
	return func(c *config) { c.panicHook = hook }
}
