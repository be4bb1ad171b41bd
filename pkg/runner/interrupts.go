package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// interruptGrace is how long a failed read waits for a pending interrupt.
// Some terminals deliver Ctrl+C as EOF on stdin before SIGINT arrives.
const interruptGrace = 100 * time.Millisecond

// interrupts cancels a console interview on SIGINT or SIGTERM.
type interrupts struct {
	ctx  context.Context
	stop context.CancelFunc
}

func watchInterrupts(parent context.Context) *interrupts {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return &interrupts{ctx: ctx, stop: stop}
}

func (i *interrupts) Context() context.Context { return i.ctx }

func (i *interrupts) Stop() { i.stop() }

// CheckRace blocks for up to interruptGrace so that an EOF caused by Ctrl+C
// is reported as an interruption rather than a read error.
func (i *interrupts) CheckRace() {
	if i.ctx.Err() != nil {
		return
	}
	t := time.NewTimer(interruptGrace)
	defer t.Stop()
	select {
	case <-i.ctx.Done():
	case <-t.C:
	}
}
