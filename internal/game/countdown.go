// internal/game/countdown.go
package game

import (
	"sync"
	"time"
)

// Countdown is a cooperative one-second-tick countdown. Starting a running
// countdown is a no-op, so a double start can never create duplicate ticking
// handles. Tick callbacks receive the remaining seconds and may stop the
// countdown early by returning false; they must re-read any room state they
// need rather than closing over stale references.
type Countdown struct {
	seconds  int
	interval time.Duration

	mu      sync.Mutex
	running chan struct{} // non-nil while a tick loop is live
}

// NewCountdown builds a countdown of the given length in seconds.
func NewCountdown(seconds int, interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{seconds: seconds, interval: interval}
}

// Start launches the tick loop. Returns false (and does nothing) if the
// countdown is already running.
func (c *Countdown) Start(onTick func(remaining int) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running != nil {
		return false
	}
	stop := make(chan struct{})
	c.running = stop
	go c.run(stop, onTick)
	return true
}

func (c *Countdown) run(stop chan struct{}, onTick func(int) bool) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	remaining := c.seconds
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			remaining--
			if !onTick(remaining) || remaining <= 0 {
				c.clear(stop)
				return
			}
		}
	}
}

// clear releases the running handle if it still belongs to this loop.
func (c *Countdown) clear(stop chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running == stop {
		c.running = nil
	}
}

// Stop cancels a running countdown. Returns true if one was running.
func (c *Countdown) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running == nil {
		return false
	}
	close(c.running)
	c.running = nil
	return true
}

// Running reports whether a tick loop is currently live.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running != nil
}
