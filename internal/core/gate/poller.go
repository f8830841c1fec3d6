package gate

import (
	"context"
	"sync"
	"time"
)

// Poller re-evaluates the gate on a fixed interval until the results are
// released, the context ends or Stop is called.
type Poller struct {
	release  time.Time
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewPoller(release time.Time, interval time.Duration, now func() time.Time) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Poller{
		release:  release,
		interval: interval,
		now:      now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start emits the current status right away and then once per interval on a
// separate goroutine. fn is never called concurrently. A poller can be
// started only once.
func (p *Poller) Start(ctx context.Context, fn func(Status)) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.run(ctx, fn)
}

func (p *Poller) run(ctx context.Context, fn func(Status)) {
	defer close(p.done)

	status := Evaluate(p.now(), p.release)
	fn(status)
	if status.Released {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			status := Evaluate(p.now(), p.release)
			fn(status)
			if status.Released {
				return
			}
		}
	}
}

// Stop halts the poller and waits for the running goroutine to exit. It is
// safe to call more than once and before Start, but not from inside fn.
func (p *Poller) Stop() {
	p.once.Do(func() { close(p.stop) })

	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.done
	}
}

// Done is closed when a started poller has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
