package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Poller runs one tick function on a fixed interval. An interval that
// fires while the previous tick is still in flight is skipped, so
// fetches for the same target never overlap.
type Poller struct {
	mutex sync.Mutex
	stop  chan struct{}
	busy  int32
}

func New() *Poller {
	return &Poller{}
}

// Start begins ticking. A running poller is stopped first, so callers
// can re-target it without an explicit Stop.
func (p *Poller) Start(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopLocked()

	stop := make(chan struct{})
	p.stop = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !atomic.CompareAndSwapInt32(&p.busy, 0, 1) {
					// Previous tick still in flight.
					continue
				}

				go func() {
					defer atomic.StoreInt32(&p.busy, 0)
					tick(ctx)
				}()
			}
		}
	}()
}

func (p *Poller) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopLocked()
}

func (p *Poller) Running() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.stop != nil
}

func (p *Poller) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}
