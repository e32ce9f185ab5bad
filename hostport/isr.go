package hostport

import (
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
)

// TickDriver periodically calls Port.Tick until Stop is called.
type TickDriver struct {
	stop chan struct{}
	done chan struct{}
}

// RunTicker starts a goroutine calling p.Tick() once per interval, using a
// plain time.Ticker. This is the simplest, portable tick source; prefer
// RunSignalTicker when exercising the same real-interrupt delivery path a
// production port's timer ISR would use.
func (p *Port) RunTicker(interval time.Duration) *TickDriver {
	d := &TickDriver{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(d.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-d.stop:
				return
			case <-t.C:
				p.Tick()
			}
		}
	}()
	return d
}

// RunSignalTicker starts a goroutine that self-delivers SIGALRM once per
// interval via unix.Kill, and a second goroutine that calls p.Tick() upon
// receiving it, through os/signal.Notify. This is a closer host-mode analogue
// of a hardware timer interrupt than RunTicker: the tick handler genuinely
// runs as an asynchronously delivered signal, not a cooperative select loop.
func (p *Port) RunSignalTicker(interval time.Duration) *TickDriver {
	d := &TickDriver{stop: make(chan struct{}), done: make(chan struct{})}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGALRM)

	senderDone := make(chan struct{})

	go func() {
		defer close(d.done)
		defer signal.Stop(sigCh)
		for {
			select {
			case <-d.stop:
				<-senderDone
				return
			case <-sigCh:
				p.Tick()
			}
		}
	}()

	go func() {
		defer close(senderDone)
		t := time.NewTicker(interval)
		defer t.Stop()
		pid := unix.Getpid()
		for {
			select {
			case <-d.stop:
				return
			case <-t.C:
				_ = unix.Kill(pid, unix.SIGALRM)
			}
		}
	}()

	return d
}

// Stop halts the driver. It does not wait for the in-flight tick, if any,
// to finish; call Wait for that.
func (d *TickDriver) Stop() {
	close(d.stop)
}

// Wait blocks until the driver's goroutine(s) have observed Stop.
func (d *TickDriver) Wait() {
	<-d.done
}
