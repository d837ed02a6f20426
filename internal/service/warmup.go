package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Pinger opens a connection to the completion endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Warmer pre-establishes the completion connection while metadata is being
// fetched. Once a ping has succeeded, later warm-ups are no-ops.
type Warmer struct {
	pinger Pinger
	logger *log.Logger
	warmed atomic.Bool
}

// NewWarmer creates a Warmer.
func NewWarmer(pinger Pinger, logger *log.Logger) *Warmer {
	return &Warmer{pinger: pinger, logger: logger}
}

// Warmup is a running warm-up. Wait must be called before the dependent completion.
type Warmup struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// Start launches the ping in the background. The ping is abandoned when ctx
// is cancelled or Cancel is called.
func (w *Warmer) Start(ctx context.Context) *Warmup {
	h := &Warmup{done: make(chan struct{})}
	if w == nil || w.pinger == nil || w.warmed.Load() {
		h.cancel = func() {}
		close(h.done)
		return h
	}

	ctx, h.cancel = context.WithCancel(ctx)
	go func() {
		defer close(h.done)
		if err := w.pinger.Ping(ctx); err != nil {
			h.err = err
			if ctx.Err() == nil {
				w.logger.Debug("connection warm-up failed", "err", err)
			}
			return
		}
		w.warmed.Store(true)
	}()
	return h
}

// Wait blocks until the warm-up finishes and returns its error for logging
// only; callers never fail because of it.
func (h *Warmup) Wait() error {
	<-h.done
	h.once.Do(h.cancel)
	return h.err
}

// Cancel abandons the warm-up and waits for it to stop.
func (h *Warmup) Cancel() {
	h.once.Do(h.cancel)
	<-h.done
}
