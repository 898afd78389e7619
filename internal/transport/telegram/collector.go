package telegram

import "sync"

// Collector matches a single private-chat reply to the flow waiting for it.
// At most one waiter per user; registering again replaces the previous waiter.
type Collector struct {
	mu      sync.Mutex
	waiters map[int64]chan string
}

func NewCollector() *Collector {
	return &Collector{waiters: make(map[int64]chan string)}
}

// Expect registers a waiter for the user's next reply. The returned cancel
// func releases the slot; calling it after delivery is a no-op.
func (c *Collector) Expect(userID int64) (<-chan string, func()) {
	ch := make(chan string, 1)
	c.mu.Lock()
	c.waiters[userID] = ch
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if c.waiters[userID] == ch {
			delete(c.waiters, userID)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// Deliver hands text to the user's waiter, consuming it. Reports whether a
// waiter was present; exactly one reply is ever delivered per Expect.
func (c *Collector) Deliver(userID int64, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.waiters[userID]
	if !ok {
		return false
	}
	delete(c.waiters, userID)
	ch <- text
	return true
}
