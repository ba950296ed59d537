package exam

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Countdown decrements a remaining time by one second per tick and calls
// onExpire exactly once when it reaches zero. After Stop returns, no tick
// callback runs and onExpire will not start. Callbacks must not call Stop.
type Countdown struct {
	interval time.Duration
	onTick   func(remaining time.Duration)
	onExpire func()

	mu        sync.Mutex
	remaining time.Duration
	started   bool
	stopped   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewCountdown builds a stopped countdown. interval is the wall-clock time
// between ticks; zero means one second.
func NewCountdown(total, interval time.Duration, onTick func(time.Duration), onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	if onTick == nil {
		onTick = func(time.Duration) {}
	}
	if onExpire == nil {
		onExpire = func() {}
	}
	return &Countdown{
		interval:  interval,
		onTick:    onTick,
		onExpire:  onExpire,
		remaining: total.Truncate(time.Second),
		done:      make(chan struct{}),
	}
}

// Start launches the ticking goroutine. Subsequent calls are no-ops.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	ctx, c.cancel = context.WithCancel(ctx)
	go c.run(ctx)
}

func (c *Countdown) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(c.done)
			return
		case <-ticker.C:
		}

		// A cancellation that raced the tick wins.
		if ctx.Err() != nil {
			close(c.done)
			return
		}

		c.mu.Lock()
		c.remaining -= time.Second
		if c.remaining < 0 {
			c.remaining = 0
		}
		rem := c.remaining
		c.mu.Unlock()

		if rem == 0 {
			close(c.done)
			c.onExpire()
			return
		}
		c.onTick(rem)
	}
}

// Stop cancels the countdown and waits for the goroutine to exit. It is
// safe to call more than once and before Start.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		<-c.done
		return
	}
	c.stopped = true
	started, cancel := c.started, c.cancel
	c.started = true
	c.mu.Unlock()

	if !started {
		close(c.done)
		return
	}
	cancel()
	<-c.done
}

func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Done is closed once the countdown stops or expires.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// FormatRemaining renders d as MM:SS.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
