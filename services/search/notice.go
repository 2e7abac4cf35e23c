package search

import (
	"sync"
	"time"
)

// DefaultNoticeDelay is how long a transient message stays visible.
const DefaultNoticeDelay = 5 * time.Second

// Notice holds one transient user-facing message that clears itself after a
// fixed delay. Showing a new message restarts the delay.
type Notice struct {
	mu      sync.Mutex
	delay   time.Duration
	message string
	timer   *time.Timer
	gen     uint64
}

func NewNotice(delay time.Duration) *Notice {
	if delay <= 0 {
		delay = DefaultNoticeDelay
	}
	return &Notice{delay: delay}
}

func (n *Notice) Show(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stop()
	n.message = message
	gen := n.gen
	n.timer = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.gen == gen {
			n.message = ""
		}
	})
}

func (n *Notice) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stop()
	n.message = ""
}

// Message returns the visible message, or "" once it has cleared.
func (n *Notice) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// stop cancels the pending clear. Callers hold mu.
func (n *Notice) stop() {
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
