package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/service"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/testhelpers"
)

type countingPinger struct {
	calls atomic.Int32
	err   error
	block bool
}

func (p *countingPinger) Ping(ctx context.Context) error {
	p.calls.Add(1)
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.err
}

func TestWarmer(t *testing.T) {
	ctx := context.Background()

	t.Run("warms once", func(t *testing.T) {
		p := &countingPinger{}
		w := service.NewWarmer(p, testhelpers.TestLogger())

		assert.NoError(t, w.Start(ctx).Wait())
		assert.NoError(t, w.Start(ctx).Wait())
		assert.Equal(t, int32(1), p.calls.Load())
	})

	t.Run("failure is reported and retried next time", func(t *testing.T) {
		p := &countingPinger{err: errors.New("refused")}
		w := service.NewWarmer(p, testhelpers.TestLogger())

		assert.Error(t, w.Start(ctx).Wait())
		assert.Error(t, w.Start(ctx).Wait())
		assert.Equal(t, int32(2), p.calls.Load())
	})

	t.Run("cancel stops a hung ping", func(t *testing.T) {
		p := &countingPinger{block: true}
		h := service.NewWarmer(p, testhelpers.TestLogger()).Start(ctx)

		done := make(chan struct{})
		go func() {
			h.Cancel()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("cancel did not stop the warm-up")
		}
	})

	t.Run("nil warmer is a no-op", func(t *testing.T) {
		var w *service.Warmer
		h := w.Start(ctx)
		assert.NoError(t, h.Wait())
		h.Cancel()
	})
}
