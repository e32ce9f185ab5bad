package kernel

// Tick implements the §4.4 tick service: the handler a periodic hardware
// timer interrupt calls once per system tick. The caller is responsible for
// bracketing it with EnterISR/ExitISR like any other ISR (it does not do so
// itself, so tests can also call it directly from a synchronous harness).
func (k *Kernel) Tick() {
	token := k.port.EnterCritical()
	k.tickCount++
	woken := 0

	for _, t := range k.tasks {
		if t.Delay <= 0 {
			continue
		}
		t.Delay--
		if t.Delay > 0 {
			continue
		}

		switch t.State {
		case TaskAsleep:
			k.makeReady(t)
			woken++

		case TaskWaitingForEvent:
			ev := t.WaitEvent
			t.WaitReturn = StatusTimeout
			t.WaitEvent = nil
			if ev != nil {
				ev.removeWait(t)
			}
			k.makeReady(t)
			woken++
			if ev != nil && ev.Type == EventMutex && ev.Holder != nil {
				k.recomputeInheritedPriority(ev.Holder)
			}

		default:
			k.port.ExitCritical(token)
			k.Panic(PanicQueueInvariant, "delay reached zero for a task that was neither asleep nor waiting")
			return
		}
	}

	if k.metrics != nil {
		k.metrics.Ticks++
	}
	tick := k.tickCount
	k.port.ExitCritical(token)

	logTick(tick, woken)
	k.schedule(nil)
}
